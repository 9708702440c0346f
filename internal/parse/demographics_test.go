package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAge(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   int
		wantOK bool
	}{
		{name: "labeled", line: "Age: 45", want: 45, wantOK: true},
		{name: "labeled no colon", line: "Age 7", want: 7, wantOK: true},
		{name: "suffix years", line: "45 years old", want: 45, wantOK: true},
		{name: "suffix yrs", line: "32 yrs / M", want: 32, wantOK: true},
		{name: "zero rejected", line: "Age: 0"},
		{name: "over bound rejected", line: "Age: 150"},
		{name: "no age", line: "Paracetamol 500 mg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractAge(tt.line)
			if !tt.wantOK {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractAgeFromDOB(t *testing.T) {
	orig := timeNow
	timeNow = func() time.Time {
		return time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC)
	}
	defer func() { timeNow = orig }()

	got, ok := extractAge("DOB: 15 Mar 1990")
	require.True(t, ok)
	assert.Equal(t, 36, got)

	// Day of month past 28 is clamped, not rejected.
	got, ok = extractAge("Date of Birth: 31 Feb 2000")
	require.True(t, ok)
	assert.Equal(t, 26, got)

	// Future birth year yields no age.
	_, ok = extractAge("DOB: 1 Jan 2030")
	assert.False(t, ok)
}

func TestExtractWeight(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{name: "labeled", line: "Weight: 70 kg", want: "70", wantOK: true},
		{name: "labeled wt", line: "Wt 82.5", want: "82.5", wantOK: true},
		{name: "bare kg", line: "70 kg", want: "70", wantOK: true},
		{name: "tablet context excluded", line: "500 kg tablets"},
		{name: "out of range", line: "Weight: 900"},
		{name: "no weight", line: "Amoxicillin 500 mg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractWeight(tt.line)
			if !tt.wantOK {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractHeight(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{name: "labeled cm", line: "Height: 172", want: "172", wantOK: true},
		{name: "bare cm", line: "172 cm", want: "172", wantOK: true},
		{name: "feet and inches", line: "5 ft 6 in", want: "168", wantOK: true},
		{name: "feet apostrophe", line: `5'6"`, want: "168", wantOK: true},
		{name: "decimal feet", line: "5.5 ft", want: "168", wantOK: true},
		{name: "meters", line: "Height 1.75 m", want: "175", wantOK: true},
		{name: "below band", line: "20 cm"},
		{name: "above band", line: "Height: 300"},
		{name: "no height", line: "Metformin 500 mg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractHeight(tt.line)
			if !tt.wantOK {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractGender(t *testing.T) {
	tests := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{"Sex: M", GenderMale, true},
		{"Sex: F", GenderFemale, true},
		{"Gender: Female", GenderFemale, true},
		{"Gender - Other", GenderOther, true},
		{"45 yrs, Male", GenderMale, true},
		{"female patient", GenderFemale, true},
		{"Amoxicillin 500 mg", "", false},
	}

	for _, tt := range tests {
		got, ok := extractGender(tt.line)
		assert.Equal(t, tt.wantOK, ok, "line %q", tt.line)
		assert.Equal(t, tt.want, got, "line %q", tt.line)
	}
}

func TestExtractPurposeAndAllergies(t *testing.T) {
	got, ok := extractPurpose("Diagnosis: Type 2 Diabetes")
	require.True(t, ok)
	assert.Equal(t, "Type 2 Diabetes", got)

	got, ok = extractPurpose("Dx: Hypertension")
	require.True(t, ok)
	assert.Equal(t, "Hypertension", got)

	got, ok = extractPurpose("for fever and body ache")
	require.True(t, ok)
	assert.Equal(t, "fever and body ache", got)

	_, ok = extractPurpose("Metformin 500 mg")
	assert.False(t, ok)

	got, ok = extractAllergies("Allergies: Penicillin, Sulfa")
	require.True(t, ok)
	assert.Equal(t, "Penicillin, Sulfa", got)

	_, ok = extractAllergies("no known issues")
	assert.False(t, ok)
}
