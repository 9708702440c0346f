package pipeline

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"

	"github.com/meditrack/rxscan/internal/common"
	"github.com/meditrack/rxscan/internal/normalize"
	"github.com/meditrack/rxscan/internal/parse"
	"github.com/meditrack/rxscan/internal/preprocess"
	"github.com/meditrack/rxscan/internal/recognizer"
)

// Extract runs the full pipeline on an image under the configured timeout.
func (p *Pipeline) Extract(img image.Image) ExtractionResult {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.Timeout)
	defer cancel()
	return p.ExtractContext(ctx, img)
}

// ExtractContext runs the full pipeline on an image. Failures of any stage,
// including context cancellation, are shaped into a failed ExtractionResult;
// the method never returns a partially filled success.
func (p *Pipeline) ExtractContext(ctx context.Context, img image.Image) ExtractionResult {
	if img == nil {
		return failure("no image provided")
	}
	if err := ctx.Err(); err != nil {
		return failure(timeoutMessage(err))
	}
	clock := common.NewStageClock()

	clock.Start("preprocess")
	prepped, err := preprocess.Apply(img, p.cfg.Preprocess)
	if err != nil {
		slog.Error("Image preprocessing failed", "error", err)
		return failure("image preprocessing failed: " + err.Error())
	}
	if err := ctx.Err(); err != nil {
		return failure(timeoutMessage(err))
	}

	clock.Start("recognize")
	recognized, err := p.engine.RecognizeLines(prepped)
	if err != nil {
		switch {
		case errors.Is(err, recognizer.ErrEngineUnavailable):
			slog.Error("Recognition engine unavailable", "error", err)
			return failure("OCR engine is not available; check model files and the ONNX runtime")
		case errors.Is(err, recognizer.ErrNoTextDetected):
			return failure("no text could be detected in the image")
		default:
			slog.Error("Text recognition failed", "error", err)
			return failure("text recognition failed: " + err.Error())
		}
	}
	if err := ctx.Err(); err != nil {
		return failure(timeoutMessage(err))
	}

	rawLines := make([]string, 0, len(recognized))
	for _, line := range recognized {
		rawLines = append(rawLines, line.Text)
	}

	clock.Start("parse")
	normalized := normalize.Lines(strings.Join(rawLines, "\n"))
	record := parse.Parse(normalized)

	slog.Debug("Extraction complete",
		"lines", len(recognized),
		"medicines", len(record.Medicines),
		"stages", clock.Summary(),
		"duration", clock.Total())

	return ExtractionResult{
		Success: true,
		Data:    record,
		RawText: strings.Join(normalized, "\n"),
	}
}

func timeoutMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "extraction timed out"
	}
	return "extraction canceled"
}
