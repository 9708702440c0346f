package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "rxscan"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "RXSCAN"
)

// Loader handles loading configuration from files, environment variables, and
// defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader backed by the global viper
// instance so that cobra flag bindings are honored.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper()}
}

// Load loads configuration from the search paths, environment variables, and
// defaults, then validates it.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// LoadWithFile loads configuration from a specific file path. An empty path
// falls back to the normal search behavior.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	l.v.AddConfigPath("/etc/rxscan")

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "rxscan"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "rxscan"))
	}
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("models_dir", defaults.ModelsDir)
	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)

	l.v.SetDefault("pipeline.timeout_sec", defaults.Pipeline.TimeoutSec)

	l.v.SetDefault("pipeline.preprocess.blur_sigma", defaults.Pipeline.Preprocess.BlurSigma)
	l.v.SetDefault("pipeline.preprocess.contrast_percent", defaults.Pipeline.Preprocess.ContrastPercent)
	l.v.SetDefault("pipeline.preprocess.sharpen_sigma", defaults.Pipeline.Preprocess.SharpenSigma)
	l.v.SetDefault("pipeline.preprocess.clip_percent", defaults.Pipeline.Preprocess.ClipPercent)
	l.v.SetDefault("pipeline.preprocess.dark_mean_threshold", defaults.Pipeline.Preprocess.DarkMeanThreshold)
	l.v.SetDefault("pipeline.preprocess.brightness_percent", defaults.Pipeline.Preprocess.BrightnessPercent)
	l.v.SetDefault("pipeline.preprocess.max_dimension", defaults.Pipeline.Preprocess.MaxDimension)

	l.v.SetDefault("pipeline.recognizer.det_threshold", defaults.Pipeline.Recognizer.DetThreshold)
	l.v.SetDefault("pipeline.recognizer.min_region_area", defaults.Pipeline.Recognizer.MinRegionArea)
	l.v.SetDefault("pipeline.recognizer.min_confidence", defaults.Pipeline.Recognizer.MinConfidence)
	l.v.SetDefault("pipeline.recognizer.canvas_size", defaults.Pipeline.Recognizer.CanvasSize)
	l.v.SetDefault("pipeline.recognizer.image_height", defaults.Pipeline.Recognizer.ImageHeight)
	l.v.SetDefault("pipeline.recognizer.max_width", defaults.Pipeline.Recognizer.MaxWidth)
	l.v.SetDefault("pipeline.recognizer.pad_width_multiple", defaults.Pipeline.Recognizer.PadWidthMultiple)
	l.v.SetDefault("pipeline.recognizer.num_threads", defaults.Pipeline.Recognizer.NumThreads)

	l.v.SetDefault("server.host", defaults.Server.Host)
	l.v.SetDefault("server.port", defaults.Server.Port)
	l.v.SetDefault("server.cors_origin", defaults.Server.CORSOrigin)
	l.v.SetDefault("server.max_upload_mb", defaults.Server.MaxUploadMB)
	l.v.SetDefault("server.timeout_sec", defaults.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
}

// GenerateDefaultConfigFile writes a config file populated with defaults.
func GenerateDefaultConfigFile(filename string) error {
	loader := &Loader{v: viper.New()}
	loader.setDefaults()
	if filename == "" {
		filename = "rxscan.yaml"
	}
	return loader.v.WriteConfigAs(filename)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
		paths = append(paths, filepath.Join(home, ".config", "rxscan"))
	}
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "rxscan"))
	}
	paths = append(paths, "/etc/rxscan")
	return paths
}
