package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMedicinePatterns(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Medicine
		wantOK bool
	}{
		{
			name:   "numbered prefix",
			line:   "1. Metformin 500 mg",
			want:   Medicine{Name: "Metformin", Dosage: "500 mg"},
			wantOK: true,
		},
		{
			name:   "roman numeral prefix",
			line:   "ii) Atorvastatin 10 mg",
			want:   Medicine{Name: "Atorvastatin", Dosage: "10 mg"},
			wantOK: true,
		},
		{
			name:   "rx prefix",
			line:   "Rx Amoxicillin 500 mg",
			want:   Medicine{Name: "Amoxicillin", Dosage: "500 mg"},
			wantOK: true,
		},
		{
			name:   "rx prefix with numbering",
			line:   "Rx 1. Metformin 500 mg",
			want:   Medicine{Name: "Metformin", Dosage: "500 mg"},
			wantOK: true,
		},
		{
			name:   "bare name and dose",
			line:   "Paracetamol 650 mg",
			want:   Medicine{Name: "Paracetamol", Dosage: "650 mg"},
			wantOK: true,
		},
		{
			name:   "tokens between name and dose",
			line:   "Ibuprofen tablet 400 mg",
			want:   Medicine{Name: "Ibuprofen", Dosage: "400 mg"},
			wantOK: true,
		},
		{
			name:   "parenthetical",
			line:   "Augmentin (co-amoxiclav) 625 mg",
			want:   Medicine{Name: "Augmentin", Dosage: "625 mg"},
			wantOK: true,
		},
		{
			name:   "decimal dose",
			line:   "Levothyroxine 0.5 mg",
			want:   Medicine{Name: "Levothyroxine", Dosage: "0.5 mg"},
			wantOK: true,
		},
		{
			name:   "unit lowercased",
			line:   "Cetirizine 10 MG",
			want:   Medicine{Name: "Cetirizine", Dosage: "10 mg"},
			wantOK: true,
		},
		{
			name:   "name capitalization normalized",
			line:   "AMOXICILLIN 500 mg",
			want:   Medicine{Name: "Amoxicillin", Dosage: "500 mg"},
			wantOK: true,
		},
		{
			name:   "instruction verb before name",
			line:   "Take Paracetamol 500 mg twice daily",
			want:   Medicine{Name: "Paracetamol", Dosage: "500 mg"},
			wantOK: true,
		},
		{
			name:   "form token before name",
			line:   "Tab Azithromycin 250 mg",
			want:   Medicine{Name: "Azithromycin", Dosage: "250 mg"},
			wantOK: true,
		},
		{
			name: "no dose present",
			line: "Amoxicillin twice daily",
		},
		{
			name: "name too short",
			line: "Ab 500 mg",
		},
		{
			name: "form word is not a name",
			line: "Tablet 500 mg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			med, ok := extractMedicine(tt.line)
			if !tt.wantOK {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want.Name, med.Name)
			assert.Equal(t, tt.want.Dosage, med.Dosage)
		})
	}
}

func TestExtractMedicineFillsFrequencyAndTime(t *testing.T) {
	med, ok := extractMedicine("Omeprazole 20 mg OD at 8:00 am")
	require.True(t, ok)
	assert.Equal(t, "Omeprazole", med.Name)
	assert.Equal(t, "20 mg", med.Dosage)
	assert.Equal(t, FreqOnceDaily, med.Frequency)
	assert.Equal(t, "8:00 AM", med.Time)
}

func TestFallbackName(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   string
		wantOK bool
	}{
		{name: "single capitalized word", line: "Dolo-650", want: "Dolo-650", wantOK: true},
		{name: "two capitalized words", line: "Crocin Advance", want: "Crocin Advance", wantOK: true},
		{name: "leading marker stripped", line: "1. Zincovit", want: "Zincovit", wantOK: true},
		{name: "rx marker stripped", line: "Rx Pantocid", want: "Pantocid", wantOK: true},
		{name: "lowercase start rejected", line: "aspirin"},
		{name: "header vocabulary rejected", line: "Patient Name"},
		{name: "instruction rejected", line: "Take after meals"},
		{name: "short word rejected", line: "Ab"},
		{name: "empty line", line: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fallbackName(tt.line)
			if !tt.wantOK {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCapitalizeToken(t *testing.T) {
	assert.Equal(t, "Amoxicillin", capitalizeToken("AMOXICILLIN"))
	assert.Equal(t, "Metformin", capitalizeToken("metformin"))
	assert.Equal(t, "", capitalizeToken(""))
}
