package parse

import "regexp"

// Frequency extraction runs over the original line text, independently of the
// name/dose match. The keyword table is tried first, in a fixed priority
// order: interval phrases before count-per-day labels, the generic
// once-daily vocabulary last so "daily" cannot shadow a more specific match.
// A "take N" heuristic is a fallback tier, consulted only when the table
// misses.

var frequencyTable = []struct {
	label string
	re    *regexp.Regexp
}{
	{FreqEvery8Hours, regexp.MustCompile(`(?i)\b(?:q\s*8\s*h|every\s+(?:8|eight)\s+(?:hours|hrs))\b`)},
	{FreqEvery12Hours, regexp.MustCompile(`(?i)\b(?:q\s*12\s*h|every\s+(?:12|twelve)\s+(?:hours|hrs))\b`)},
	{FreqEvery6Hours, regexp.MustCompile(`(?i)\b(?:q\s*6\s*h|every\s+(?:6|six)\s+(?:hours|hrs))\b`)},
	{FreqFourTimesDaily, regexp.MustCompile(`(?i)\b(?:qid|q\.i\.d\.?|4\s*x\s*daily|four\s+times)\b`)},
	{FreqThreeTimesDaily, regexp.MustCompile(`(?i)\b(?:tid|tds|t\.i\.d\.?|t\.d\.s\.?|3\s*x\s*daily|three\s+times|thrice)\b`)},
	{FreqTwiceDaily, regexp.MustCompile(`(?i)\b(?:bd|bid|b\.i\.d\.?|2\s*x\s*daily|twice(?:\s+(?:daily|a\s+day))?)\b`)},
	{FreqAtBedtime, regexp.MustCompile(`(?i)\b(?:hs|qhs|at\s+bedtime|bedtime|nightly)\b`)},
	{FreqAsNeeded, regexp.MustCompile(`(?i)\b(?:sos|prn|p\.r\.n\.?|as\s+needed|when\s+required|as\s+directed)\b`)},
	{FreqOnceDaily, regexp.MustCompile(`(?i)\b(?:od|qd|q\.d\.?|q\s*24\s*h|once\s+(?:daily|a\s+day)|1\s*x\s*daily|daily)\b`)},
}

var takeCountPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{FreqOnceDaily, regexp.MustCompile(`(?i)\btake\b\s*(?:1|one)\b`)},
	{FreqTwiceDaily, regexp.MustCompile(`(?i)\btake\b\s*(?:2|two)\b`)},
	{FreqThreeTimesDaily, regexp.MustCompile(`(?i)\btake\b\s*(?:3|three|thrice)\b`)},
}

// extractFrequency returns the canonical frequency label for a line, or ""
// when no keyword or fallback heuristic matched.
func extractFrequency(line string) string {
	for _, entry := range frequencyTable {
		if entry.re.MatchString(line) {
			return entry.label
		}
	}
	for _, entry := range takeCountPatterns {
		if entry.re.MatchString(line) {
			return entry.label
		}
	}
	return ""
}
