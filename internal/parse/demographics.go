package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Demographics extraction: each field is a label-anchored scan with an
// ordered list of strategies, each a pure function over one line. The first
// line on which any strategy matches wins; out-of-range values are rejected
// by plausibility bounds.

var timeNow = time.Now // swapped in tests

// Age

var (
	ageLabeledRe = regexp.MustCompile(`(?i)\b(?:age|yrs?|years?)\b[\s:]*([0-9]{1,3})`)
	ageSuffixRe  = regexp.MustCompile(`(?i)\b([0-9]{1,3})\s*(?:yrs?|years?)(?:\s+old)?\b`)
	dobRe        = regexp.MustCompile(`(?i)\b(?:dob|date\s+of\s+birth|birth\s+date)\b[\s:]*(\d{1,2})\s*(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s*(\d{4})`)
)

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var ageStrategies = []func(string) (int, bool){
	ageFromLabel,
	ageFromSuffix,
	ageFromDOB,
}

func extractAge(line string) (int, bool) {
	for _, strat := range ageStrategies {
		if age, ok := strat(line); ok {
			return age, true
		}
	}
	return 0, false
}

func ageFromLabel(line string) (int, bool) {
	m := ageLabeledRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	age, err := strconv.Atoi(m[1])
	if err != nil || age < 1 || age > 120 {
		return 0, false
	}
	return age, true
}

func ageFromSuffix(line string) (int, bool) {
	m := ageSuffixRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	age, err := strconv.Atoi(m[1])
	if err != nil || age < 1 || age > 120 {
		return 0, false
	}
	return age, true
}

// ageFromDOB derives age in elapsed years from a date-of-birth phrase. The
// day of month is clamped to 28 so short months never yield an invalid date.
func ageFromDOB(line string) (int, bool) {
	m := dobRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	if year < 1900 || year > 2100 {
		return 0, false
	}
	month, ok := monthIndex[strings.ToLower(m[2])]
	if !ok {
		return 0, false
	}
	if day < 1 {
		day = 1
	}
	if day > 28 {
		day = 28
	}
	born := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	years := int(timeNow().UTC().Sub(born).Hours() / 24 / 365)
	if years < 0 || years > 120 {
		return 0, false
	}
	return years, true
}

// Weight (kg)

var (
	weightLabeledRe = regexp.MustCompile(`(?i)\b(?:weight|wt)\b[\s:]*([0-9]{1,3}(?:\.[0-9]+)?)`)
	weightBareRe    = regexp.MustCompile(`(?i)\b([0-9]{1,3}(?:\.[0-9]+)?)\s*(?:kg|kgs|kilograms?)\b`)
)

var weightStrategies = []func(string) (string, bool){
	weightFromLabel,
	weightFromBareKg,
}

func extractWeight(line string) (string, bool) {
	for _, strat := range weightStrategies {
		if w, ok := strat(line); ok {
			return w, true
		}
	}
	return "", false
}

func weightFromLabel(line string) (string, bool) {
	m := weightLabeledRe.FindStringSubmatch(line)
	if m == nil || !plausibleWeightKg(m[1]) {
		return "", false
	}
	return m[1], true
}

func weightFromBareKg(line string) (string, bool) {
	low := strings.ToLower(line)
	if strings.Contains(low, "tablet") || strings.Contains(low, "capsule") {
		return "", false
	}
	m := weightBareRe.FindStringSubmatch(line)
	if m == nil || !plausibleWeightKg(m[1]) {
		return "", false
	}
	return m[1], true
}

func plausibleWeightKg(s string) bool {
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v >= 2 && v <= 400
}

// Height (cm, with unit conversion)

var (
	heightLabeledRe  = regexp.MustCompile(`(?i)\b(?:height|ht)\b[\s:]*([0-9]{2,3}(?:\.[0-9]+)?)`)
	heightCmRe       = regexp.MustCompile(`(?i)\b([0-9]{2,3}(?:\.[0-9]+)?)\s*(?:cm|cms|centimeters?)\b`)
	heightFtInRe     = regexp.MustCompile("(?i)\\b(\\d)\\s*(?:feet|foot|ft|['’])\\s*(\\d{1,2})\\s*(?:inches|inch|in|[\"”])?\\b")
	heightDecimalFt  = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*ft\b`)
	heightMetersRe   = regexp.MustCompile(`(?i)\b(\d\.\d{1,2})\s*m\b`)
	cmPerFoot        = 30.48
	cmPerInch        = 2.54
)

var heightStrategies = []func(string) (string, bool){
	heightFromLabel,
	heightFromCm,
	heightFromFeetInches,
	heightFromDecimalFeet,
	heightFromMeters,
}

func extractHeight(line string) (string, bool) {
	for _, strat := range heightStrategies {
		if h, ok := strat(line); ok {
			return h, true
		}
	}
	return "", false
}

func heightFromLabel(line string) (string, bool) {
	m := heightLabeledRe.FindStringSubmatch(line)
	if m == nil || !plausibleHeightCm(m[1]) {
		return "", false
	}
	return m[1], true
}

func heightFromCm(line string) (string, bool) {
	m := heightCmRe.FindStringSubmatch(line)
	if m == nil || !plausibleHeightCm(m[1]) {
		return "", false
	}
	return m[1], true
}

func heightFromFeetInches(line string) (string, bool) {
	m := heightFtInRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	ft, _ := strconv.Atoi(m[1])
	inch, _ := strconv.Atoi(m[2])
	cm := int(math.Round(float64(ft)*cmPerFoot + float64(inch)*cmPerInch))
	return heightIfPlausible(cm)
}

func heightFromDecimalFeet(line string) (string, bool) {
	m := heightDecimalFt.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	ft, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "", false
	}
	cm := int(math.Round(ft * cmPerFoot))
	return heightIfPlausible(cm)
}

func heightFromMeters(line string) (string, bool) {
	m := heightMetersRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	meters, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "", false
	}
	cm := int(math.Round(meters * 100))
	return heightIfPlausible(cm)
}

func heightIfPlausible(cm int) (string, bool) {
	if cm < 50 || cm > 250 {
		return "", false
	}
	return strconv.Itoa(cm), true
}

func plausibleHeightCm(s string) bool {
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v >= 50 && v <= 250
}

// Gender

var (
	genderLabeledRe    = regexp.MustCompile(`(?i)\b(?:gender|sex)\b\s*[:\-]?\s*(male|female|other|[mfo])\b`)
	genderStandaloneRe = regexp.MustCompile(`(?i)\b(male|female)\b`)
)

func extractGender(line string) (string, bool) {
	if m := genderLabeledRe.FindStringSubmatch(line); m != nil {
		switch strings.ToLower(m[1]) {
		case "m", "male":
			return GenderMale, true
		case "f", "female":
			return GenderFemale, true
		default:
			return GenderOther, true
		}
	}
	if m := genderStandaloneRe.FindStringSubmatch(line); m != nil {
		if strings.EqualFold(m[1], "male") {
			return GenderMale, true
		}
		return GenderFemale, true
	}
	return "", false
}

// Purpose and allergies

var (
	purposeLabeledRe = regexp.MustCompile(`(?i)\b(?:purpose|indication|reason|dx\.?|diagnosis)\b\s*[:\-]?\s*(.+)$`)
	purposeForRe     = regexp.MustCompile(`(?i)\bfor\b\s*[:\-]?\s*(.+)$`)
	allergiesRe      = regexp.MustCompile(`(?i)\ballerg(?:y|ies)\b\s*[:\-]\s*(.+)$`)
)

func extractPurpose(line string) (string, bool) {
	if m := purposeLabeledRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := purposeForRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

func extractAllergies(line string) (string, bool) {
	m := allergiesRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
