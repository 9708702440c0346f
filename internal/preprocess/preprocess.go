package preprocess

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// Config holds the photometric parameters applied before text recognition.
// The defaults are tuned for printed prescriptions photographed or scanned
// under uneven lighting.
type Config struct {
	BlurSigma         float64 // gaussian smoothing sigma
	ContrastPercent   float64 // contrast boost, imaging percentage scale
	SharpenSigma      float64 // sharpening sigma
	ClipPercent       float64 // histogram stretch outlier clip, per tail
	DarkMeanThreshold float64 // mean luminance below which brightness is boosted
	BrightnessPercent float64 // brightness boost for underexposed scans
	MaxDimension      int     // downscale cap on the longest side (0 = no cap)
}

// DefaultConfig returns the default preprocessing configuration.
func DefaultConfig() Config {
	return Config{
		BlurSigma:         0.4,
		ContrastPercent:   30,
		SharpenSigma:      2.0,
		ClipPercent:       2.0,
		DarkMeanThreshold: 120,
		BrightnessPercent: 20,
		MaxDimension:      2560,
	}
}

// Apply normalizes an arbitrary input image into a grayscale image optimized
// for printed-text recognition. The transform is pure and total: it never
// fails on valid input, and re-applying it to an already-light image clamps
// instead of blowing out.
func Apply(img image.Image, cfg Config) (*image.NRGBA, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}

	out := downscale(img, cfg.MaxDimension)

	// Single-channel luminance, then light denoise before any boosting so
	// scan/paper noise is not amplified.
	out = imaging.Grayscale(out)
	if cfg.BlurSigma > 0 {
		out = imaging.Blur(out, cfg.BlurSigma)
	}

	darkInput := meanLuminance(out) < cfg.DarkMeanThreshold

	if cfg.ContrastPercent != 0 {
		out = imaging.AdjustContrast(out, cfg.ContrastPercent)
	}
	if cfg.SharpenSigma > 0 {
		out = imaging.Sharpen(out, cfg.SharpenSigma)
	}

	out = stretchContrast(out, cfg.ClipPercent)

	// Underexposure rescue, keyed off the pre-boost luminance.
	if darkInput && cfg.BrightnessPercent > 0 {
		out = imaging.AdjustBrightness(out, cfg.BrightnessPercent)
	}

	return out, nil
}

// downscale caps the longest image side at maxDim, preserving aspect ratio.
// Images within the cap are returned as NRGBA without resampling.
func downscale(img image.Image, maxDim int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return imaging.Clone(img)
	}
	if w >= h {
		return imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxDim, imaging.Lanczos)
}

// meanLuminance computes the average gray value (0-255) of an NRGBA image.
// The image is already grayscale here, so the red channel suffices.
func meanLuminance(img *image.NRGBA) float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	var sum uint64
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			sum += uint64(row[x])
		}
	}
	return float64(sum) / float64(w*h)
}

// stretchContrast applies an automatic contrast stretch: the darkest and
// lightest clipPercent of pixels are clipped and the remaining intensity
// range is spread linearly over 0-255.
func stretchContrast(img *image.NRGBA, clipPercent float64) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	total := w * h
	if total == 0 || clipPercent < 0 {
		return img
	}

	var hist [256]int
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			hist[row[x]]++
		}
	}

	clip := int(float64(total) * clipPercent / 100.0)
	lo, hi := 0, 255
	for acc := 0; lo < 255; lo++ {
		acc += hist[lo]
		if acc > clip {
			break
		}
	}
	for acc := 0; hi > 0; hi-- {
		acc += hist[hi]
		if acc > clip {
			break
		}
	}
	if hi <= lo {
		return img
	}

	var lut [256]uint8
	scale := 255.0 / float64(hi-lo)
	for i := range lut {
		switch {
		case i <= lo:
			lut[i] = 0
		case i >= hi:
			lut[i] = 255
		default:
			lut[i] = uint8(float64(i-lo)*scale + 0.5)
		}
	}

	out := imaging.Clone(img)
	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < len(row); x += 4 {
			v := lut[row[x]]
			row[x], row[x+1], row[x+2] = v, v, v
		}
	}
	return out
}
