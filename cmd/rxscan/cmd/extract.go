package cmd

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"

	"github.com/meditrack/rxscan/internal/parse"
	"github.com/meditrack/rxscan/internal/pipeline"
)

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract [image files...]",
	Short: "Extract structured prescription data from image files",
	Long: `Extract medicines and patient demographics from one or more prescription
images. Supported formats: PNG, JPEG, BMP.

Examples:
  rxscan extract prescription.jpg
  rxscan extract scan.png --format text
  rxscan extract *.jpg --output results.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	format, _ := cmd.Flags().GetString("format")
	if format != "json" && format != "text" {
		return fmt.Errorf("invalid format: %s (must be json or text)", format)
	}
	outputPath, _ := cmd.Flags().GetString("output")

	pCfg := cfg.ToPipelineConfig()
	if cmd.Flags().Changed("min-confidence") {
		minConf, _ := cmd.Flags().GetFloat64("min-confidence")
		pCfg.Recognizer.MinConfidence = minConf
	}
	if cmd.Flags().Changed("timeout") {
		timeoutSec, _ := cmd.Flags().GetInt("timeout")
		pCfg.Timeout = time.Duration(timeoutSec) * time.Second
	}

	pl := pipeline.NewBuilder().
		WithModelsDir(pCfg.ModelsDir).
		WithTimeout(pCfg.Timeout).
		WithPreprocess(pCfg.Preprocess).
		WithMinConfidence(pCfg.Recognizer.MinConfidence).
		WithCanvasSize(pCfg.Recognizer.CanvasSize).
		WithThreads(pCfg.Recognizer.NumThreads).
		Build()
	defer func() { _ = pl.Close() }()

	results := make(map[string]pipeline.ExtractionResult, len(args))
	for _, path := range args {
		img, err := loadImage(path)
		if err != nil {
			results[path] = pipeline.ExtractionResult{Success: false, Error: err.Error()}
			continue
		}
		results[path] = pl.Extract(img)
	}

	out, err := formatResults(args, results, format)
	if err != nil {
		return err
	}

	if outputPath != "" {
		return os.WriteFile(outputPath, []byte(out), 0o600)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

// loadImage opens and decodes an image file.
func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: user-provided image path is expected
	if err != nil {
		return nil, fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// formatResults renders results in the requested output format, preserving
// the order the files were given in.
func formatResults(paths []string, results map[string]pipeline.ExtractionResult, format string) (string, error) {
	if format == "json" {
		if len(paths) == 1 {
			data, err := json.MarshalIndent(results[paths[0]], "", "  ")
			return string(data), err
		}
		type fileResult struct {
			File string `json:"file"`
			pipeline.ExtractionResult
		}
		list := make([]fileResult, 0, len(paths))
		for _, p := range paths {
			list = append(list, fileResult{File: p, ExtractionResult: results[p]})
		}
		data, err := json.MarshalIndent(list, "", "  ")
		return string(data), err
	}

	var sb strings.Builder
	for i, p := range paths {
		if i > 0 {
			sb.WriteString("\n")
		}
		if len(paths) > 1 {
			fmt.Fprintf(&sb, "=== %s ===\n", p)
		}
		writeTextResult(&sb, results[p])
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func writeTextResult(sb *strings.Builder, res pipeline.ExtractionResult) {
	if !res.Success {
		fmt.Fprintf(sb, "extraction failed: %s\n", res.Error)
		return
	}

	rec := res.Data
	if rec == nil {
		rec = &parse.PrescriptionRecord{}
	}

	if len(rec.Medicines) == 0 {
		sb.WriteString("Medicines: none found\n")
	} else {
		sb.WriteString("Medicines:\n")
		for _, med := range rec.Medicines {
			fmt.Fprintf(sb, "  - %s", med.Name)
			if med.Dosage != "" {
				fmt.Fprintf(sb, "  %s", med.Dosage)
			}
			if med.Frequency != "" {
				fmt.Fprintf(sb, "  %s", med.Frequency)
			}
			if med.Time != "" {
				fmt.Fprintf(sb, "  at %s", med.Time)
			}
			sb.WriteString("\n")
		}
	}

	writeField(sb, "Age", rec.Age)
	writeField(sb, "Age group", rec.AgeGroup)
	writeField(sb, "Weight", rec.Weight)
	writeField(sb, "Height", rec.Height)
	writeField(sb, "Gender", rec.Gender)
	writeField(sb, "Purpose", rec.Purpose)
	writeField(sb, "Allergies", rec.Allergies)
}

func writeField(sb *strings.Builder, label, value string) {
	if value != "" {
		fmt.Fprintf(sb, "%s: %s\n", label, value)
	}
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("format", "f", "json", "output format (json, text)")
	extractCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	extractCmd.Flags().Float64("min-confidence", 0.5, "minimum recognition confidence (0..1)")
	extractCmd.Flags().Int("timeout", 0, "per-image extraction timeout in seconds")
}
