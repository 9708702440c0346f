package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleMedicineLine(t *testing.T) {
	rec := Parse([]string{"Amoxicillin 500 mg TID"})

	require.Len(t, rec.Medicines, 1)
	assert.Equal(t, "Amoxicillin", rec.Medicines[0].Name)
	assert.Equal(t, "500 mg", rec.Medicines[0].Dosage)
	assert.Equal(t, FreqThreeTimesDaily, rec.Medicines[0].Frequency)
}

func TestParseRepairsMarkerLine(t *testing.T) {
	rec := Parse([]string{"Rx", "1. Metformin 500 mg"})

	require.Len(t, rec.Medicines, 1)
	assert.Equal(t, "Metformin", rec.Medicines[0].Name)
	assert.Equal(t, "500 mg", rec.Medicines[0].Dosage)
}

func TestParseDeduplicatesCaseInsensitive(t *testing.T) {
	rec := Parse([]string{
		"Aspirin 100 mg once daily",
		"ASPIRIN 100 mg",
	})

	require.Len(t, rec.Medicines, 1)
	assert.Equal(t, "Aspirin", rec.Medicines[0].Name)
	// The first occurrence wins, so its frequency is kept.
	assert.Equal(t, FreqOnceDaily, rec.Medicines[0].Frequency)
}

func TestParseInstructionLineNeverYieldsMedicine(t *testing.T) {
	rec := Parse([]string{"Take two tablets with water"})
	assert.Empty(t, rec.Medicines)
}

func TestParseInstructionVerbBeforeNameAndDose(t *testing.T) {
	// A line with a dose is a medicine line even when it opens with an
	// imperative; the leading verb must not swallow the name.
	rec := Parse([]string{"Take Paracetamol 500 mg twice daily"})

	require.Len(t, rec.Medicines, 1)
	assert.Equal(t, "Paracetamol", rec.Medicines[0].Name)
	assert.Equal(t, "500 mg", rec.Medicines[0].Dosage)
	assert.Equal(t, FreqTwiceDaily, rec.Medicines[0].Frequency)
}

func TestParseHeaderLinesRejected(t *testing.T) {
	rec := Parse([]string{
		"Dr. A Sharma, Internal Medicine",
		"Patient: John Doe",
		"Ibuprofen 400 mg BD",
	})

	require.Len(t, rec.Medicines, 1)
	assert.Equal(t, "Ibuprofen", rec.Medicines[0].Name)
	assert.Equal(t, FreqTwiceDaily, rec.Medicines[0].Frequency)
}

func TestParseFallbackNameOnly(t *testing.T) {
	rec := Parse([]string{
		"Dr. A Sharma",
		"Crocin Advance",
	})

	require.Len(t, rec.Medicines, 1)
	assert.Equal(t, "Crocin Advance", rec.Medicines[0].Name)
	assert.Empty(t, rec.Medicines[0].Dosage)
	assert.Empty(t, rec.Medicines[0].Frequency)
	assert.Empty(t, rec.Medicines[0].Time)
}

func TestParseFallbackSkippedWhenStrictMatchExists(t *testing.T) {
	rec := Parse([]string{
		"Paracetamol 650 mg",
		"Dolo",
	})

	require.Len(t, rec.Medicines, 1)
	assert.Equal(t, "Paracetamol", rec.Medicines[0].Name)
}

func TestParseDemographics(t *testing.T) {
	rec := Parse([]string{
		"Age: 45",
		"Sex: F",
		"Weight: 70 kg",
		"Height: 5 ft 6 in",
		"Diagnosis: Hypertension",
		"Allergies: Penicillin",
		"Amlodipine 5 mg OD",
	})

	assert.Equal(t, "45", rec.Age)
	assert.Equal(t, AgeAdult, rec.AgeGroup)
	assert.Equal(t, GenderFemale, rec.Gender)
	assert.Equal(t, "70", rec.Weight)
	assert.Equal(t, "168", rec.Height)
	assert.Equal(t, "Hypertension", rec.Purpose)
	assert.Equal(t, "Penicillin", rec.Allergies)

	require.Len(t, rec.Medicines, 1)
	assert.Equal(t, "Amlodipine", rec.Medicines[0].Name)
	assert.Equal(t, FreqOnceDaily, rec.Medicines[0].Frequency)
}

func TestParseFirstDemographicMatchWins(t *testing.T) {
	rec := Parse([]string{
		"Age: 30",
		"Age: 99",
	})
	assert.Equal(t, "30", rec.Age)
}

func TestParseTimeOfDayOnMedicineLine(t *testing.T) {
	rec := Parse([]string{"Atenolol 50 mg at 14:30"})

	require.Len(t, rec.Medicines, 1)
	assert.Equal(t, "2:30 PM", rec.Medicines[0].Time)
}

func TestParseEmptyInput(t *testing.T) {
	rec := Parse(nil)
	require.NotNil(t, rec)
	assert.Empty(t, rec.Medicines)
	assert.Empty(t, rec.Age)
}

func TestAgeGroupFor(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{10, AgePediatric},
		{17, AgePediatric},
		{18, AgeAdult},
		{40, AgeAdult},
		{64, AgeAdult},
		{65, AgeElderly},
		{70, AgeElderly},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeGroupFor(tt.age), "age %d", tt.age)
	}
}
