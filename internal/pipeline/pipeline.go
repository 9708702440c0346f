package pipeline

import (
	"image"
	"time"

	"github.com/meditrack/rxscan/internal/models"
	"github.com/meditrack/rxscan/internal/preprocess"
	"github.com/meditrack/rxscan/internal/recognizer"
)

// Config holds configuration for the extraction pipeline and its components.
type Config struct {
	ModelsDir  string
	Preprocess preprocess.Config
	Recognizer recognizer.Config
	Timeout    time.Duration // per-extraction deadline for Extract
}

// DefaultConfig returns a default pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		ModelsDir:  models.GetModelsDir(""),
		Preprocess: preprocess.DefaultConfig(),
		Recognizer: recognizer.DefaultConfig(),
		Timeout:    30 * time.Second,
	}
}

// textEngine is the recognition seam used by the pipeline. The production
// implementation is recognizer.Engine; tests substitute a stub.
type textEngine interface {
	RecognizeLines(img image.Image) ([]recognizer.RecognizedLine, error)
	Available() bool
	Close() error
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg    Config
	engine textEngine
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithModelsDir sets the models directory for the recognition engine.
func (b *Builder) WithModelsDir(dir string) *Builder {
	if dir != "" {
		b.cfg.ModelsDir = dir
		b.cfg.Recognizer.ModelsDir = dir
	}
	return b
}

// WithTimeout sets the per-extraction deadline used by Extract.
func (b *Builder) WithTimeout(d time.Duration) *Builder {
	if d > 0 {
		b.cfg.Timeout = d
	}
	return b
}

// WithMinConfidence sets the recognition confidence cutoff.
func (b *Builder) WithMinConfidence(c float64) *Builder {
	if c > 0 {
		b.cfg.Recognizer.MinConfidence = c
	}
	return b
}

// WithCanvasSize caps the dimension fed to the detection model.
func (b *Builder) WithCanvasSize(px int) *Builder {
	if px > 0 {
		b.cfg.Recognizer.CanvasSize = px
	}
	return b
}

// WithThreads sets the intra-op CPU thread count for inference.
func (b *Builder) WithThreads(n int) *Builder {
	if n > 0 {
		b.cfg.Recognizer.NumThreads = n
	}
	return b
}

// WithPreprocess overrides the image preprocessing configuration.
func (b *Builder) WithPreprocess(cfg preprocess.Config) *Builder {
	b.cfg.Preprocess = cfg
	return b
}

// withEngine substitutes the recognition engine; used by tests.
func (b *Builder) withEngine(e textEngine) *Builder {
	b.engine = e
	return b
}

// Build assembles the pipeline. The recognition models are not loaded here;
// loading happens lazily on the first extraction.
func (b *Builder) Build() *Pipeline {
	engine := b.engine
	if engine == nil {
		cfg := b.cfg.Recognizer
		cfg.ModelsDir = b.cfg.ModelsDir
		engine = recognizer.NewEngine(cfg)
	}
	return &Pipeline{cfg: b.cfg, engine: engine}
}

// Pipeline runs preprocessing, text recognition, normalization, and field
// parsing over prescription images. It is safe for concurrent use.
type Pipeline struct {
	cfg    Config
	engine textEngine
}

// Available reports whether the recognition engine can plausibly serve
// requests without attempting to load it.
func (p *Pipeline) Available() bool {
	return p.engine.Available()
}

// Close releases the recognition engine resources.
func (p *Pipeline) Close() error {
	return p.engine.Close()
}
