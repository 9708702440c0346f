package parse

import "regexp"

// Line classification vocabulary. Header lines are letterhead/demographic
// noise; instruction lines describe administration, not identity. Both are
// rejected before medicine extraction runs on a line.

var (
	// Administrative-header vocabulary from prescription letterheads and
	// patient blocks.
	headerRe = regexp.MustCompile(`(?i)\b(dr\.?|doctor|physician|specialist|patient|dob|age|sex|gender|date|address|phone|license|allergies|weight|height|diagnosis|prescription|rx\s*no|reg\s*no|internal\s*medicine|md|npi)\b`)

	// Imperative verbs opening a pure administration instruction.
	instructionRe = regexp.MustCompile(`(?i)^(take|give|apply|use)\b`)

	// Dosage units proper (strength of the preparation).
	doseUnitRe = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(mg|mcg|g|ml|iu|units?)\b`)

	// The wider gate: a candidate medicine line must carry at least one
	// dosage-unit or form token.
	doseVocabRe = regexp.MustCompile(`(?i)\b(mg|mcg|g|ml|iu|units?|tablets?|tabs?|capsules?|caps?|pills?|syrup|drops?|tsp|teaspoons?|tbsp|tablespoons?|cream|ointment|inj|injection)\b`)

	// Form/instruction words stripped out of candidate medicine names.
	nameNoiseRe = regexp.MustCompile(`(?i)\b(sig|take|tablet|tab|capsule|cap|caps|syrup|drop|drops|pill|pills|inj|injection|cream|ointment|instructions?)\b`)
)

// Words that disqualify a token sequence from being a medicine name in the
// relaxed name-only pass.
var invalidNameWords = map[string]struct{}{
	"dr": {}, "doctor": {}, "patient": {}, "date": {}, "weight": {},
	"height": {}, "internal": {}, "medicine": {}, "specialist": {},
	"name": {}, "dob": {}, "phone": {}, "address": {},
}

// isHeaderLine reports whether the line matches administrative-header
// vocabulary and should never contribute a medicine entry.
func isHeaderLine(line string) bool {
	return headerRe.MatchString(line)
}

// isInstructionLine reports whether the line is a pure administration
// instruction: it opens with an imperative verb and carries no dosage unit.
func isInstructionLine(line string) bool {
	return instructionRe.MatchString(line) && !doseUnitRe.MatchString(line)
}

// hasDosageVocabulary is the medicine-line gate: at least one dosage-unit or
// form token must be present.
func hasDosageVocabulary(line string) bool {
	return doseVocabRe.MatchString(line)
}
