package pipeline

import "github.com/meditrack/rxscan/internal/parse"

// ExtractionResult is the outcome of one extraction. On success, Data is set
// and RawText carries the normalized recognized text joined with newlines; on
// failure, Error carries a human-readable reason and the other fields stay
// empty. There are no partial results.
type ExtractionResult struct {
	Success bool                      `json:"success"`
	Data    *parse.PrescriptionRecord `json:"data,omitempty"`
	RawText string                    `json:"raw_text,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

func failure(msg string) ExtractionResult {
	return ExtractionResult{Success: false, Error: msg}
}
