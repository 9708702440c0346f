// Package testutil renders synthetic prescription images for tests that
// exercise the image stages without real model files.
package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderConfig controls how a synthetic prescription page is drawn.
type RenderConfig struct {
	Width      int
	LineHeight int
	MarginX    int
	MarginY    int
	Background color.Color
	Ink        color.Color
	FontFace   font.Face
}

// DefaultRenderConfig returns settings that produce a small, clean page.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:      480,
		LineHeight: 20,
		MarginX:    16,
		MarginY:    24,
		Background: color.White,
		Ink:        color.Black,
		FontFace:   basicfont.Face7x13,
	}
}

// RenderPrescription draws the given lines top to bottom on a white page,
// one line per row, and returns the resulting image.
func RenderPrescription(lines []string, cfg RenderConfig) *image.RGBA {
	height := cfg.MarginY*2 + cfg.LineHeight*len(lines)
	if height < cfg.LineHeight {
		height = cfg.LineHeight
	}
	img := image.NewRGBA(image.Rect(0, 0, cfg.Width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{cfg.Background}, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{cfg.Ink},
		Face: cfg.FontFace,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(cfg.MarginX, cfg.MarginY+i*cfg.LineHeight)
		drawer.DrawString(line)
	}
	return img
}

// SamplePrescriptionLines returns the text of a typical handwritten-style
// prescription as discrete lines.
func SamplePrescriptionLines() []string {
	return []string{
		"Dr. A. Sharma, MBBS",
		"Patient: Ravi Kumar  Age: 45 yrs  Sex: M",
		"Weight: 72 kg",
		"Rx",
		"1. Amoxicillin 500 mg TID",
		"2. Paracetamol 650 mg SOS",
		"Advice: plenty of fluids",
	}
}

// WriteTempPNG encodes img into a fresh temp file and returns its path. The
// file is cleaned up with the test.
func WriteTempPNG(t *testing.T, img image.Image) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prescription.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, file.Close()) }()

	require.NoError(t, png.Encode(file, img))
	return path
}

// InkRatio returns the fraction of pixels darker than the given 8-bit
// luminance threshold. Useful for asserting that rendered or preprocessed
// pages still carry text.
func InkRatio(img image.Image, threshold uint8) float64 {
	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}
	dark := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if c.Y < threshold {
				dark++
			}
		}
	}
	return float64(dark) / float64(total)
}
