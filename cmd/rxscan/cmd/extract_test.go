package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meditrack/rxscan/internal/parse"
	"github.com/meditrack/rxscan/internal/pipeline"
	"github.com/meditrack/rxscan/internal/testutil"
)

func TestExtractCommandMetadata(t *testing.T) {
	assert.Equal(t, "extract [image files...]", extractCmd.Use)
	assert.NotNil(t, extractCmd.Args)
	assert.Error(t, extractCmd.Args(extractCmd, nil))
	assert.NoError(t, extractCmd.Args(extractCmd, []string{"a.png"}))
}

func TestLoadImageErrors(t *testing.T) {
	_, err := loadImage("definitely/missing.png")
	assert.Error(t, err)
}

func TestLoadImageDecodesPNG(t *testing.T) {
	img := testutil.RenderPrescription([]string{"Rx"}, testutil.DefaultRenderConfig())
	path := testutil.WriteTempPNG(t, img)

	decoded, err := loadImage(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestFormatResultsJSONSingle(t *testing.T) {
	res := pipeline.ExtractionResult{
		Success: true,
		Data: &parse.PrescriptionRecord{
			Medicines: []parse.Medicine{{Name: "Amoxicillin", Dosage: "500 mg"}},
			Age:       "45",
		},
	}

	out, err := formatResults([]string{"rx.png"},
		map[string]pipeline.ExtractionResult{"rx.png": res}, "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)
	assert.Contains(t, out, "Amoxicillin")
	assert.NotContains(t, out, `"file"`)
}

func TestFormatResultsJSONMultiple(t *testing.T) {
	results := map[string]pipeline.ExtractionResult{
		"a.png": {Success: true, Data: &parse.PrescriptionRecord{}},
		"b.png": {Success: false, Error: "no text could be detected in the image"},
	}

	out, err := formatResults([]string{"a.png", "b.png"}, results, "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"file": "a.png"`)
	assert.Contains(t, out, `"file": "b.png"`)
	// Order follows the argument order.
	assert.Less(t, strings.Index(out, "a.png"), strings.Index(out, "b.png"))
}

func TestFormatResultsText(t *testing.T) {
	res := pipeline.ExtractionResult{
		Success: true,
		Data: &parse.PrescriptionRecord{
			Medicines: []parse.Medicine{
				{Name: "Amoxicillin", Dosage: "500 mg", Frequency: "thrice daily"},
			},
			Age:      "45",
			AgeGroup: "adult",
			Gender:   "male",
		},
	}

	out, err := formatResults([]string{"rx.png"},
		map[string]pipeline.ExtractionResult{"rx.png": res}, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Amoxicillin  500 mg  thrice daily")
	assert.Contains(t, out, "Age: 45")
	assert.Contains(t, out, "Gender: male")
	assert.NotContains(t, out, "Weight:")
}

func TestFormatResultsTextFailure(t *testing.T) {
	res := pipeline.ExtractionResult{Success: false, Error: "extraction timed out"}

	out, err := formatResults([]string{"rx.png"},
		map[string]pipeline.ExtractionResult{"rx.png": res}, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "extraction failed: extraction timed out")
}
