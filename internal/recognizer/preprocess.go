package recognizer

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/meditrack/rxscan/internal/mempool"
	"github.com/meditrack/rxscan/internal/onnx"
)

// cropRegion extracts a region patch from the source image, clamped to the
// image bounds.
func cropRegion(img image.Image, r region) image.Image {
	b := img.Bounds()
	rect := image.Rect(r.minX, r.minY, r.maxX+1, r.maxY+1).Intersect(b)
	return imaging.Crop(img, rect)
}

// resizeForRecognition scales a patch to a fixed target height preserving
// aspect ratio. If padToMultiple > 0 the width is right-padded with black to
// the next multiple; if maxWidth > 0 the width is clamped first.
func resizeForRecognition(img image.Image, targetHeight, maxWidth, padToMultiple int) (image.Image, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	if targetHeight <= 0 {
		return nil, fmt.Errorf("invalid targetHeight: %d", targetHeight)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("empty region patch")
	}

	scale := float64(targetHeight) / float64(h)
	newW := int(float64(w) * scale)
	if newW < 1 {
		newW = 1
	}
	if maxWidth > 0 && newW > maxWidth {
		newW = maxWidth
	}

	resized := imaging.Resize(img, newW, targetHeight, imaging.Lanczos)

	outW := newW
	if padToMultiple > 0 {
		if rem := newW % padToMultiple; rem != 0 {
			outW = newW + (padToMultiple - rem)
		}
	}
	if outW == newW {
		return resized, nil
	}
	canvas := imaging.New(outW, targetHeight, color.Black)
	return imaging.Paste(canvas, resized, image.Pt(0, 0)), nil
}

// resizeForDetection scales the image so both dimensions are multiples of 32,
// as the detection model requires, capped at maxDim on the longer side.
// Returns the resized image and the scale factors back to original
// coordinates.
func resizeForDetection(img image.Image, maxDim int) (image.Image, float64, float64, error) {
	if img == nil {
		return nil, 0, 0, errors.New("input image is nil")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, 0, 0, errors.New("empty input image")
	}

	scale := 1.0
	longer := w
	if h > longer {
		longer = h
	}
	if maxDim > 0 && longer > maxDim {
		scale = float64(maxDim) / float64(longer)
	}

	newW := roundToMultiple(int(float64(w)*scale), 32)
	newH := roundToMultiple(int(float64(h)*scale), 32)

	resized := imaging.Resize(img, newW, newH, imaging.Lanczos)
	return resized, float64(w) / float64(newW), float64(h) / float64(newH), nil
}

func roundToMultiple(v, m int) int {
	if v < m {
		return m
	}
	rem := v % m
	if rem == 0 {
		return v
	}
	return v + (m - rem)
}

// normalizeNCHW converts an image into a float32 NCHW tensor in [0,1] using a
// pooled buffer. The caller must return the buffer via mempool.PutFloat32
// once the tensor is no longer needed.
func normalizeNCHW(img image.Image) (onnx.Tensor, []float32, error) {
	if img == nil {
		return onnx.Tensor{}, nil, errors.New("input image is nil")
	}
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return onnx.Tensor{}, nil, errors.New("empty input image")
	}

	buf := mempool.GetFloat32(3 * w * h)
	plane := w * h
	for y := 0; y < h; y++ {
		row := y * nrgba.Stride
		for x := 0; x < w; x++ {
			off := row + x*4
			pos := y*w + x
			buf[pos] = float32(nrgba.Pix[off]) / 255.0
			buf[plane+pos] = float32(nrgba.Pix[off+1]) / 255.0
			buf[2*plane+pos] = float32(nrgba.Pix[off+2]) / 255.0
		}
	}

	ten, err := onnx.NewImageTensor(buf, 3, h, w)
	if err != nil {
		mempool.PutFloat32(buf)
		return onnx.Tensor{}, nil, err
	}
	return ten, buf, nil
}
