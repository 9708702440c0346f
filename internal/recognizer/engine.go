package recognizer

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"strings"
	"sync"

	onnxrt "github.com/yalue/onnxruntime_go"

	"github.com/meditrack/rxscan/internal/mempool"
	"github.com/meditrack/rxscan/internal/models"
	"github.com/meditrack/rxscan/internal/onnx"
)

// Sentinel errors distinguishing an unusable engine from a readable-but-blank
// image.
var (
	// ErrEngineUnavailable means the models or the ONNX runtime could not
	// be loaded. The condition is permanent for the process.
	ErrEngineUnavailable = errors.New("recognition engine unavailable")

	// ErrNoTextDetected means the engine ran but found no text above the
	// confidence cutoff.
	ErrNoTextDetected = errors.New("no text detected in image")
)

// RecognizedLine is one line of recognized text in reading order.
type RecognizedLine struct {
	Text       string
	Confidence float64
}

// Config holds configuration for the recognition engine.
type Config struct {
	ModelsDir        string  // Models directory ("" resolves via env/project root)
	DetThreshold     float32 // Detection probability-map binarization threshold
	MinRegionArea    int     // Minimum component pixel count kept as a region
	MinConfidence    float64 // Per-line confidence cutoff
	CanvasSize       int     // Max dimension fed to the detection model
	ImageHeight      int     // Recognition model input height
	MaxWidth         int     // Optional recognition width clamp (0 = none)
	PadWidthMultiple int     // Right-pad recognition width to this multiple
	NumThreads       int     // Intra-op CPU threads (0 for runtime default)
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		DetThreshold:     0.3,
		MinRegionArea:    10,
		MinConfidence:    0.5,
		CanvasSize:       2560,
		ImageHeight:      48,
		PadWidthMultiple: 8,
	}
}

// Engine runs text detection and recognition over prescription images. Model
// loading is deferred until the first recognition call and happens once; a
// load failure is sticky and every later call reports ErrEngineUnavailable.
// Inference itself is serialized, so an Engine is safe for concurrent use.
type Engine struct {
	config Config

	initOnce sync.Once
	initErr  error

	mu         sync.Mutex
	detSession *onnxrt.DynamicAdvancedSession
	recSession *onnxrt.DynamicAdvancedSession
	charset    *Charset
}

// NewEngine creates an engine with the given configuration. No models are
// loaded until the first call to RecognizeLines.
func NewEngine(config Config) *Engine {
	if config.DetThreshold <= 0 {
		config.DetThreshold = 0.3
	}
	if config.MinConfidence <= 0 {
		config.MinConfidence = 0.5
	}
	if config.CanvasSize <= 0 {
		config.CanvasSize = 2560
	}
	if config.ImageHeight <= 0 {
		config.ImageHeight = 48
	}
	if config.PadWidthMultiple <= 0 {
		config.PadWidthMultiple = 8
	}
	if config.MinRegionArea <= 0 {
		config.MinRegionArea = 10
	}
	return &Engine{config: config}
}

// Available reports whether the engine could plausibly serve requests: the
// ONNX runtime library can be located and all model files exist. It does not
// load anything.
func (e *Engine) Available() bool {
	if e.loadError() != nil {
		return false
	}
	if !onnx.RuntimeAvailable() {
		return false
	}
	paths := []string{
		models.GetDetectionModelPath(e.config.ModelsDir),
		models.GetRecognitionModelPath(e.config.ModelsDir),
		models.GetDictionaryPath(e.config.ModelsDir),
	}
	for _, p := range paths {
		if err := models.ValidateModelExists(p); err != nil {
			return false
		}
	}
	return true
}

// ensureLoaded performs the one-time model load. Errors are sticky.
func (e *Engine) ensureLoaded() error {
	e.initOnce.Do(func() {
		if err := e.load(); err != nil {
			e.mu.Lock()
			e.initErr = fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
			e.mu.Unlock()
			slog.Error("Recognition engine initialization failed", "error", err)
		}
	})
	return e.loadError()
}

// loadError reads the sticky initialization error. Available may race with a
// first load on another goroutine, so access goes through the mutex.
func (e *Engine) loadError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initErr
}

func (e *Engine) load() error {
	if err := onnx.EnsureRuntime(); err != nil {
		return err
	}

	detPath := models.GetDetectionModelPath(e.config.ModelsDir)
	recPath := models.GetRecognitionModelPath(e.config.ModelsDir)
	dictPath := models.GetDictionaryPath(e.config.ModelsDir)
	for _, p := range []string{detPath, recPath, dictPath} {
		if err := models.ValidateModelExists(p); err != nil {
			return err
		}
	}

	charset, err := LoadCharset(dictPath)
	if err != nil {
		return err
	}

	detSession, err := e.newSession(detPath)
	if err != nil {
		return fmt.Errorf("load detection model: %w", err)
	}
	recSession, err := e.newSession(recPath)
	if err != nil {
		_ = detSession.Destroy()
		return fmt.Errorf("load recognition model: %w", err)
	}

	e.detSession = detSession
	e.recSession = recSession
	e.charset = charset
	slog.Debug("Recognition engine loaded",
		"detection_model", detPath,
		"recognition_model", recPath,
		"charset_size", charset.Size())
	return nil
}

func (e *Engine) newSession(modelPath string) (*onnxrt.DynamicAdvancedSession, error) {
	inputs, outputs, err := onnxrt.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("get model input/output info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("expected 1 input, got %d", len(inputs))
	}
	if len(outputs) != 1 {
		return nil, fmt.Errorf("expected 1 output, got %d", len(outputs))
	}

	opts, err := onnxrt.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer func() {
		if err := opts.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying session options: %v\n", err)
		}
	}()

	if e.config.NumThreads > 0 {
		if err := opts.SetIntraOpNumThreads(e.config.NumThreads); err != nil {
			return nil, fmt.Errorf("set thread count: %w", err)
		}
	}

	session, err := onnxrt.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// RecognizeLines runs detection and recognition over the image and returns
// recognized lines in reading order. Lines below the confidence cutoff are
// dropped; if nothing survives, ErrNoTextDetected is returned.
func (e *Engine) RecognizeLines(img image.Image) ([]RecognizedLine, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	if err := e.ensureLoaded(); err != nil {
		return nil, err
	}

	regions, err := e.detectRegions(img)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return nil, ErrNoTextDetected
	}

	lines := make([]RecognizedLine, 0, len(regions))
	for _, row := range groupIntoRows(regions) {
		var parts []string
		var sum float64
		for _, r := range row {
			dec, err := e.recognizeRegion(img, r)
			if err != nil {
				return nil, err
			}
			if dec.Text == "" || dec.Confidence < e.config.MinConfidence {
				continue
			}
			parts = append(parts, dec.Text)
			sum += dec.Confidence
		}
		if len(parts) == 0 {
			continue
		}
		lines = append(lines, RecognizedLine{
			Text:       strings.Join(parts, " "),
			Confidence: sum / float64(len(parts)),
		})
	}
	if len(lines) == 0 {
		return nil, ErrNoTextDetected
	}
	return lines, nil
}

// detectRegions runs the detection model and extracts text regions.
func (e *Engine) detectRegions(img image.Image) ([]region, error) {
	resized, scaleX, scaleY, err := resizeForDetection(img, e.config.CanvasSize)
	if err != nil {
		return nil, err
	}

	tensor, buf, err := normalizeNCHW(resized)
	if err != nil {
		return nil, err
	}
	defer mempool.PutFloat32(buf)

	data, shape, err := e.run(e.detSession, tensor)
	if err != nil {
		return nil, fmt.Errorf("detection inference: %w", err)
	}

	// Output is [1, 1, H, W]; trust the reported shape over the input size.
	if len(shape) != 4 {
		return nil, fmt.Errorf("unexpected detection output rank %d", len(shape))
	}
	mapH, mapW := int(shape[2]), int(shape[3])
	if mapH <= 0 || mapW <= 0 || len(data) < mapH*mapW {
		return nil, errors.New("malformed detection output")
	}

	b := resized.Bounds()
	sx := scaleX * float64(b.Dx()) / float64(mapW)
	sy := scaleY * float64(b.Dy()) / float64(mapH)
	regions := regionsFromProbMap(data[:mapH*mapW], mapW, mapH, e.config.DetThreshold, e.config.MinRegionArea, sx, sy)
	return regions, nil
}

// recognizeRegion crops one region, runs the recognition model on it, and
// decodes the CTC output.
func (e *Engine) recognizeRegion(img image.Image, r region) (decodedText, error) {
	patch := cropRegion(img, r)
	resized, err := resizeForRecognition(patch, e.config.ImageHeight, e.config.MaxWidth, e.config.PadWidthMultiple)
	if err != nil {
		return decodedText{}, err
	}

	tensor, buf, err := normalizeNCHW(resized)
	if err != nil {
		return decodedText{}, err
	}
	defer mempool.PutFloat32(buf)

	data, shape, err := e.run(e.recSession, tensor)
	if err != nil {
		return decodedText{}, fmt.Errorf("recognition inference: %w", err)
	}

	// Output is [1, T, C].
	if len(shape) != 3 {
		return decodedText{}, fmt.Errorf("unexpected recognition output rank %d", len(shape))
	}
	return decodeCTC(data, int(shape[1]), int(shape[2]), e.charset), nil
}

// run executes one inference call. Session runs are serialized; the ONNX
// sessions are not used from multiple goroutines at once.
func (e *Engine) run(session *onnxrt.DynamicAdvancedSession, tensor onnx.Tensor) ([]float32, []int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if session == nil {
		return nil, nil, errors.New("session is nil")
	}

	inputTensor, err := onnxrt.NewTensor(onnxrt.NewShape(tensor.Shape...), tensor.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer func() { _ = inputTensor.Destroy() }()

	outputs := []onnxrt.Value{nil}
	if err := session.Run([]onnxrt.Value{inputTensor}, outputs); err != nil {
		return nil, nil, fmt.Errorf("inference failed: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				_ = o.Destroy()
			}
		}
	}()

	floatTensor, ok := outputs[0].(*onnxrt.Tensor[float32])
	if !ok {
		return nil, nil, fmt.Errorf("expected float32 tensor, got %T", outputs[0])
	}

	// Copy out before the output tensor is destroyed.
	src := floatTensor.GetData()
	data := make([]float32, len(src))
	copy(data, src)
	shape := outputs[0].GetShape()
	return data, shape, nil
}

// Close releases the ONNX sessions. The engine cannot be used afterwards.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.detSession != nil {
		if err := e.detSession.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying detection session: %v\n", err)
		}
		e.detSession = nil
	}
	if e.recSession != nil {
		if err := e.recSession.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying recognition session: %v\n", err)
		}
		e.recSession = nil
	}
	return nil
}
