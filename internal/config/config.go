package config

import (
	"fmt"
	"time"

	"github.com/meditrack/rxscan/internal/models"
	"github.com/meditrack/rxscan/internal/pipeline"
	"github.com/meditrack/rxscan/internal/preprocess"
	"github.com/meditrack/rxscan/internal/recognizer"
)

// Config represents the complete configuration for the rxscan application.
// It supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	ModelsDir string `mapstructure:"models_dir" yaml:"models_dir" json:"models_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Extraction pipeline configuration
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// PipelineConfig contains extraction pipeline settings.
type PipelineConfig struct {
	Preprocess PreprocessConfig `mapstructure:"preprocess" yaml:"preprocess" json:"preprocess"`
	Recognizer RecognizerConfig `mapstructure:"recognizer" yaml:"recognizer" json:"recognizer"`

	// Per-extraction deadline in seconds
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
}

// PreprocessConfig contains image preprocessing settings.
type PreprocessConfig struct {
	BlurSigma         float64 `mapstructure:"blur_sigma" yaml:"blur_sigma" json:"blur_sigma"`
	ContrastPercent   float64 `mapstructure:"contrast_percent" yaml:"contrast_percent" json:"contrast_percent"`
	SharpenSigma      float64 `mapstructure:"sharpen_sigma" yaml:"sharpen_sigma" json:"sharpen_sigma"`
	ClipPercent       float64 `mapstructure:"clip_percent" yaml:"clip_percent" json:"clip_percent"`
	DarkMeanThreshold float64 `mapstructure:"dark_mean_threshold" yaml:"dark_mean_threshold" json:"dark_mean_threshold"`
	BrightnessPercent float64 `mapstructure:"brightness_percent" yaml:"brightness_percent" json:"brightness_percent"`
	MaxDimension      int     `mapstructure:"max_dimension" yaml:"max_dimension" json:"max_dimension"`
}

// RecognizerConfig contains text recognition settings.
type RecognizerConfig struct {
	DetThreshold     float64 `mapstructure:"det_threshold" yaml:"det_threshold" json:"det_threshold"`
	MinRegionArea    int     `mapstructure:"min_region_area" yaml:"min_region_area" json:"min_region_area"`
	MinConfidence    float64 `mapstructure:"min_confidence" yaml:"min_confidence" json:"min_confidence"`
	CanvasSize       int     `mapstructure:"canvas_size" yaml:"canvas_size" json:"canvas_size"`
	ImageHeight      int     `mapstructure:"image_height" yaml:"image_height" json:"image_height"`
	MaxWidth         int     `mapstructure:"max_width" yaml:"max_width" json:"max_width"`
	PadWidthMultiple int     `mapstructure:"pad_width_multiple" yaml:"pad_width_multiple" json:"pad_width_multiple"`
	NumThreads       int     `mapstructure:"num_threads" yaml:"num_threads" json:"num_threads"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	pre := preprocess.DefaultConfig()
	rec := recognizer.DefaultConfig()
	return Config{
		ModelsDir: models.GetModelsDir(""),
		LogLevel:  "info",
		Verbose:   false,
		Pipeline: PipelineConfig{
			Preprocess: PreprocessConfig{
				BlurSigma:         pre.BlurSigma,
				ContrastPercent:   pre.ContrastPercent,
				SharpenSigma:      pre.SharpenSigma,
				ClipPercent:       pre.ClipPercent,
				DarkMeanThreshold: pre.DarkMeanThreshold,
				BrightnessPercent: pre.BrightnessPercent,
				MaxDimension:      pre.MaxDimension,
			},
			Recognizer: RecognizerConfig{
				DetThreshold:     float64(rec.DetThreshold),
				MinRegionArea:    rec.MinRegionArea,
				MinConfidence:    rec.MinConfidence,
				CanvasSize:       rec.CanvasSize,
				ImageHeight:      rec.ImageHeight,
				MaxWidth:         rec.MaxWidth,
				PadWidthMultiple: rec.PadWidthMultiple,
				NumThreads:       rec.NumThreads,
			},
			TimeoutSec: 30,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			CORSOrigin:      "",
			MaxUploadMB:     20,
			TimeoutSec:      60,
			ShutdownTimeout: 10,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of %v)", c.LogLevel, validLogLevels)
	}

	if err := validateThreshold(c.Pipeline.Recognizer.DetThreshold, "pipeline.recognizer.det_threshold"); err != nil {
		return err
	}
	if err := validateThreshold(c.Pipeline.Recognizer.MinConfidence, "pipeline.recognizer.min_confidence"); err != nil {
		return err
	}

	if c.Pipeline.TimeoutSec <= 0 {
		return fmt.Errorf("pipeline.timeout_sec must be positive, got %d", c.Pipeline.TimeoutSec)
	}
	if c.Pipeline.Recognizer.CanvasSize <= 0 {
		return fmt.Errorf("pipeline.recognizer.canvas_size must be positive, got %d", c.Pipeline.Recognizer.CanvasSize)
	}
	if c.Pipeline.Recognizer.ImageHeight <= 0 {
		return fmt.Errorf("pipeline.recognizer.image_height must be positive, got %d", c.Pipeline.Recognizer.ImageHeight)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("server.timeout_sec must be positive, got %d", c.Server.TimeoutSec)
	}

	return nil
}

// ToPipelineConfig converts the configuration into the pipeline's form.
func (c *Config) ToPipelineConfig() pipeline.Config {
	return pipeline.Config{
		ModelsDir: c.ModelsDir,
		Preprocess: preprocess.Config{
			BlurSigma:         c.Pipeline.Preprocess.BlurSigma,
			ContrastPercent:   c.Pipeline.Preprocess.ContrastPercent,
			SharpenSigma:      c.Pipeline.Preprocess.SharpenSigma,
			ClipPercent:       c.Pipeline.Preprocess.ClipPercent,
			DarkMeanThreshold: c.Pipeline.Preprocess.DarkMeanThreshold,
			BrightnessPercent: c.Pipeline.Preprocess.BrightnessPercent,
			MaxDimension:      c.Pipeline.Preprocess.MaxDimension,
		},
		Recognizer: recognizer.Config{
			ModelsDir:        c.ModelsDir,
			DetThreshold:     float32(c.Pipeline.Recognizer.DetThreshold),
			MinRegionArea:    c.Pipeline.Recognizer.MinRegionArea,
			MinConfidence:    c.Pipeline.Recognizer.MinConfidence,
			CanvasSize:       c.Pipeline.Recognizer.CanvasSize,
			ImageHeight:      c.Pipeline.Recognizer.ImageHeight,
			MaxWidth:         c.Pipeline.Recognizer.MaxWidth,
			PadWidthMultiple: c.Pipeline.Recognizer.PadWidthMultiple,
			NumThreads:       c.Pipeline.Recognizer.NumThreads,
		},
		Timeout: time.Duration(c.Pipeline.TimeoutSec) * time.Second,
	}
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func validateThreshold(value float64, name string) error {
	if value < 0.0 || value > 1.0 {
		return fmt.Errorf("%s must be between 0.0 and 1.0, got %f", name, value)
	}
	return nil
}
