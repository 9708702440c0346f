package models

import (
	"fmt"
	"os"
	"path/filepath"
)

// Model name constants to avoid typos and ensure consistency.
const (
	// Detection model.
	DetectionMobile = "PP-OCRv5_mobile_det.onnx"

	// Recognition model.
	RecognitionMobile = "PP-OCRv5_mobile_rec.onnx"

	// Character dictionary for the recognition model.
	DictionaryKeys = "ppocr_keys_v1.txt"
)

// Model type categories for the organized directory structure.
const (
	TypeDetection    = "detection"
	TypeRecognition  = "recognition"
	TypeDictionaries = "dictionaries"
)

// Default models directory.
const DefaultModelsDir = "models"

// Environment variable for models directory override.
const EnvModelsDir = "RXSCAN_MODELS_DIR"

// ModelInfo contains metadata about a model.
type ModelInfo struct {
	Name        string
	Type        string
	Description string
	Filename    string
}

// findProjectRoot finds the project root by looking for go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("could not find project root (go.mod not found)")
}

// GetModelsDir returns the models directory path.
// Priority: 1. Explicit modelsDir parameter, 2. Environment variable, 3. Project root + default.
func GetModelsDir(modelsDir string) string {
	if modelsDir != "" {
		return modelsDir
	}
	if envDir := os.Getenv(EnvModelsDir); envDir != "" {
		return envDir
	}
	if projectRoot, err := findProjectRoot(); err == nil {
		return filepath.Join(projectRoot, DefaultModelsDir)
	}
	return DefaultModelsDir
}

// ResolveModelPath resolves a model filename to its full path.
// Supports both the organized structure and a legacy flat layout.
func ResolveModelPath(modelsDir, modelType, filename string) string {
	baseDir := GetModelsDir(modelsDir)

	if modelType != "" {
		organizedPath := filepath.Join(baseDir, modelType, filename)
		if _, err := os.Stat(organizedPath); err == nil {
			return organizedPath
		}
	}

	return filepath.Join(baseDir, filename)
}

// GetDetectionModelPath returns the path for the detection model.
func GetDetectionModelPath(modelsDir string) string {
	return ResolveModelPath(modelsDir, TypeDetection, DetectionMobile)
}

// GetRecognitionModelPath returns the path for the recognition model.
func GetRecognitionModelPath(modelsDir string) string {
	return ResolveModelPath(modelsDir, TypeRecognition, RecognitionMobile)
}

// GetDictionaryPath returns the path for the character dictionary.
func GetDictionaryPath(modelsDir string) string {
	return ResolveModelPath(modelsDir, TypeDictionaries, DictionaryKeys)
}

// ValidateModelExists checks if a model file exists at the given path.
func ValidateModelExists(modelPath string) error {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", modelPath)
	}
	return nil
}

// ListAvailableModels returns information about the models this pipeline uses.
func ListAvailableModels() []ModelInfo {
	return []ModelInfo{
		{
			Name:        "detection",
			Type:        TypeDetection,
			Description: "Text region detection model",
			Filename:    DetectionMobile,
		},
		{
			Name:        "recognition",
			Type:        TypeRecognition,
			Description: "Text line recognition model",
			Filename:    RecognitionMobile,
		},
		{
			Name:        "dictionary",
			Type:        TypeDictionaries,
			Description: "Recognition character dictionary",
			Filename:    DictionaryKeys,
		},
	}
}
