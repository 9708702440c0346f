package recognizer

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Charset is the recognition character set loaded from a dictionary file.
// Line i of the file is the token for model class i+1; class 0 is the CTC
// blank and has no dictionary entry.
type Charset struct {
	Tokens       []string
	TokenToIndex map[string]int
}

// LoadCharset loads a dictionary file where each non-empty line is a token.
// Leading/trailing whitespace is trimmed and a UTF-8 BOM is removed.
func LoadCharset(path string) (*Charset, error) {
	if path == "" {
		return nil, errors.New("dictionary path cannot be empty")
	}
	f, err := os.Open(path) //nolint:gosec // G304: dictionary path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing dictionary file: %v\n", err)
		}
	}()

	scanner := bufio.NewScanner(f)
	tokens := make([]string, 0, 512)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		if line == "" {
			continue
		}
		tokens = append(tokens, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed reading dictionary: %w", err)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("dictionary is empty: %s", path)
	}

	toIdx := make(map[string]int, len(tokens))
	for i, t := range tokens {
		// Duplicates keep the first occurrence.
		if _, ok := toIdx[t]; !ok {
			toIdx[t] = i
		}
	}
	return &Charset{Tokens: tokens, TokenToIndex: toIdx}, nil
}

// Size returns the number of tokens in the charset.
func (c *Charset) Size() int { return len(c.Tokens) }

// TokenForClass maps a model class index to its dictionary token. Class 0 is
// the CTC blank; out-of-range classes map to the empty string.
func (c *Charset) TokenForClass(class int) string {
	if c == nil || class <= 0 || class > len(c.Tokens) {
		return ""
	}
	return c.Tokens[class-1]
}
