package parse

import (
	"regexp"
	"strings"
)

// Prescriptions frequently OCR a numbering or prefix marker ("Rx", "1.", a
// roman numeral) onto its own line, separated from the medicine name that
// follows. RepairLines merges such marker-only lines with the next line in a
// single forward pass so field extraction sees whole entries.

var markerOnlyRe = regexp.MustCompile(`(?i)^(?:rx[.:]?|\d{1,3}[.)]|[ivx]{1,4}[.)]?)$`)

// IsMarkerOnly reports whether a line consists solely of a prescription
// numbering/prefix token, optionally with trailing punctuation.
func IsMarkerOnly(line string) bool {
	return markerOnlyRe.MatchString(strings.TrimSpace(line))
}

// RepairLines merges each marker-only line with the immediately following
// line. Applied once, in a single forward pass; the result is never longer
// than the input.
func RepairLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		ln := strings.TrimSpace(lines[i])
		if IsMarkerOnly(ln) && i+1 < len(lines) {
			out = append(out, ln+" "+strings.TrimSpace(lines[i+1]))
			i++
			continue
		}
		out = append(out, lines[i])
	}
	return out
}
