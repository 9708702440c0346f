package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// The normalizer reshapes raw OCR output into a stable line sequence for the
// field parser. It never drops content beyond blank lines; confidence-based
// filtering happens in the recognition engine.

var (
	wsRe   = regexp.MustCompile(`\s+`)
	unitRe = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(mg|ml|mcg)\b`)

	// Letter/digit confusions in dosing-frequency abbreviations. OD/BD/TDS/QID
	// are kept case-preserving; only the misread forms are rewritten.
	misreadRe = regexp.MustCompile(`\b(0D|8D|TD5|Q1D)\b`)

	misreads = map[string]string{
		"0D":  "OD",
		"8D":  "BD",
		"TD5": "TDS",
		"Q1D": "QID",
	}
)

// Lines splits raw OCR text on any combination of CR/LF, drops empty or
// whitespace-only lines, and normalizes each surviving line.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	raw := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	out := make([]string, 0, len(raw))
	for _, ln := range raw {
		cleaned := Line(ln)
		if cleaned == "" {
			continue
		}
		out = append(out, cleaned)
	}
	return out
}

// Text normalizes raw OCR text and rejoins it with newlines.
func Text(text string) string {
	return strings.Join(Lines(text), "\n")
}

// Line normalizes a single line: unicode NFC, whitespace collapse, spacing
// after sentence punctuation, abbreviation misread repair, and dosage unit
// casing. Idempotent: normalizing an already-normalized line is a no-op.
func Line(s string) string {
	s = norm.NFC.String(s)
	s = wsRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = spacePunctuation(s)

	s = misreadRe.ReplaceAllStringFunc(s, func(m string) string {
		if rep, ok := misreads[strings.ToUpper(m)]; ok {
			return rep
		}
		return m
	})

	s = unitRe.ReplaceAllStringFunc(s, func(m string) string {
		parts := unitRe.FindStringSubmatch(m)
		return parts[1] + " " + strings.ToLower(parts[2])
	})

	return strings.TrimSpace(s)
}

// spacePunctuation inserts a space after sentence punctuation when absent.
// Punctuation between digits (decimal points, clock times, thousands
// separators) is structural, not sentence punctuation, and is left alone.
func spacePunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	runes := []rune(s)
	for i, r := range runes {
		b.WriteRune(r)
		if !isSentencePunct(r) || i+1 >= len(runes) {
			continue
		}
		next := runes[i+1]
		if next == ' ' {
			continue
		}
		if (r == '.' || r == ':' || r == ',') && i > 0 &&
			unicode.IsDigit(runes[i-1]) && unicode.IsDigit(next) {
			continue
		}
		b.WriteRune(' ')
	}
	return b.String()
}

func isSentencePunct(r rune) bool {
	switch r {
	case ',', '.', ';', ':', '!', '?':
		return true
	}
	return false
}
