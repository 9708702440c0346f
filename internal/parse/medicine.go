package parse

import (
	"regexp"
	"strings"
	"unicode"
)

// Medicine + dosage extraction. Pattern variants are tried in a fixed
// priority order and the first match wins for a line; there is no
// backtracking across patterns once one yields a name+dose pair.

const (
	nameToken = `([A-Za-z][A-Za-z-]{2,})`
	doseExpr  = `(\d+(?:\.\d+)?)\s*(mg|mcg|g|ml|iu)\b`
)

var medicinePatterns = []*regexp.Regexp{
	// Numbering marker prefix ("1.", "ii)").
	regexp.MustCompile(`(?i)^(?:\d{1,3}[.)]|[ivx]{1,4}[.)])\s*` + nameToken + `\s+(?:[A-Za-z-]+\s+){0,3}` + doseExpr),
	// "Rx" prefix, optionally followed by a numbering marker.
	regexp.MustCompile(`(?i)^rx[.:]?\s*(?:\d{1,3}[.)]?\s+)?` + nameToken + `\s+(?:[A-Za-z-]+\s+){0,3}` + doseExpr),
	// Bare "Name Dose Unit", with a few tolerated tokens between name and dose.
	regexp.MustCompile(`(?i)^` + nameToken + `\s+(?:[A-Za-z-]+\s+){0,3}` + doseExpr),
	// "Name (parenthetical) Dose Unit".
	regexp.MustCompile(`(?i)^` + nameToken + `\s*\([^)]*\)\s*` + doseExpr),
}

// extractMedicine runs the ordered pattern list against a candidate line and
// returns the medicine entry, or false if no pattern produced a name+dose
// pair. Form and instruction tokens ("Take", "Tab") are stripped first so a
// leading one cannot shadow the name. Frequency and time are filled from the
// original line, independently of the name/dose match.
func extractMedicine(line string) (Medicine, bool) {
	candidate := strings.TrimSpace(nameNoiseRe.ReplaceAllString(line, " "))
	for _, pat := range medicinePatterns {
		m := pat.FindStringSubmatch(candidate)
		if m == nil {
			continue
		}
		name := strings.Trim(m[1], " -,:")
		if len(name) < 3 || nameNoiseRe.MatchString(name) {
			continue
		}
		if _, bad := invalidNameWords[strings.ToLower(name)]; bad {
			continue
		}
		med := Medicine{
			Name:      capitalizeToken(name),
			Dosage:    m[2] + " " + strings.ToLower(m[3]),
			Frequency: extractFrequency(line),
			Time:      extractTime(line),
		}
		return med, true
	}
	return Medicine{}, false
}

// fallbackName runs the relaxed name-only pass on a line: a leading
// capitalized word of length >= 3 that is not header/instruction vocabulary,
// taking up to the first two tokens as a bare medicine name.
func fallbackName(line string) (string, bool) {
	if isHeaderLine(line) || instructionRe.MatchString(line) {
		return "", false
	}
	trimmed := leadingMarkerRe.ReplaceAllString(line, "")
	cleaned := nameNoiseRe.ReplaceAllString(trimmed, " ")
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return "", false
	}

	first := words[0]
	if len([]rune(first)) < 3 || !startsUpperAlpha(first) {
		return "", false
	}
	if _, bad := invalidNameWords[strings.ToLower(first)]; bad {
		return "", false
	}

	name := capitalizeToken(first)
	if len(words) > 1 && startsUpperAlpha(words[1]) && isAlphaToken(words[1]) {
		if _, bad := invalidNameWords[strings.ToLower(words[1])]; !bad {
			name += " " + capitalizeToken(words[1])
		}
	}
	return name, true
}

var leadingMarkerRe = regexp.MustCompile(`(?i)^(?:rx[.:]?\s*|\d{1,3}[.)]\s*|[-.\s]+)+`)

// capitalizeToken renders a name token with a leading capital and the
// remainder lowercased.
func capitalizeToken(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func startsUpperAlpha(s string) bool {
	r := []rune(s)
	return len(r) > 0 && unicode.IsUpper(r[0])
}

func isAlphaToken(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '-' {
			return false
		}
	}
	return true
}
