package parse

// Canonical frequency labels emitted by the parser.
const (
	FreqOnceDaily       = "once daily"
	FreqTwiceDaily      = "twice daily"
	FreqThreeTimesDaily = "three times daily"
	FreqFourTimesDaily  = "four times daily"
	FreqEvery6Hours     = "every 6 hours"
	FreqEvery8Hours     = "every 8 hours"
	FreqEvery12Hours    = "every 12 hours"
	FreqAtBedtime       = "at bedtime"
	FreqAsNeeded        = "as needed"
)

// Age group buckets derived from numeric age.
const (
	AgePediatric = "pediatric"
	AgeAdult     = "adult"
	AgeElderly   = "elderly"
)

// Gender values.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// Medicine is a single extracted medicine entry. Absent fields are empty
// strings and are omitted from JSON output.
type Medicine struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage,omitempty"`
	Frequency string `json:"frequency,omitempty"`
	Time      string `json:"time,omitempty"`
}

// PrescriptionRecord is the structured result of parsing one prescription.
// It is created once per parse and not mutated afterwards; persistence is the
// caller's concern.
type PrescriptionRecord struct {
	Medicines []Medicine `json:"medicines"`
	Age       string     `json:"age,omitempty"`
	AgeGroup  string     `json:"age_group,omitempty"`
	Weight    string     `json:"weight,omitempty"`
	Height    string     `json:"height,omitempty"`
	Gender    string     `json:"gender,omitempty"`
	Purpose   string     `json:"purpose,omitempty"`
	Allergies string     `json:"allergies,omitempty"`
}

// AgeGroupFor buckets a numeric age: <18 pediatric, >=65 elderly, else adult.
func AgeGroupFor(age int) string {
	switch {
	case age < 18:
		return AgePediatric
	case age >= 65:
		return AgeElderly
	default:
		return AgeAdult
	}
}
