package onnx

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	onnxrt "github.com/yalue/onnxruntime_go"
)

var (
	initOnce sync.Once
	initErr  error
)

// EnsureRuntime locates the ONNX Runtime shared library and initializes the
// environment once per process. Safe to call from multiple goroutines; a
// failed initialization is reported on every later call.
func EnsureRuntime() error {
	initOnce.Do(func() {
		if onnxrt.IsInitialized() {
			return
		}
		if err := setLibraryPath(); err != nil {
			initErr = err
			return
		}
		if err := onnxrt.InitializeEnvironment(); err != nil {
			initErr = fmt.Errorf("failed to initialize ONNX Runtime: %w", err)
		}
	})
	return initErr
}

// RuntimeAvailable reports whether the ONNX Runtime shared library can be
// located without initializing the environment.
func RuntimeAvailable() bool {
	if onnxrt.IsInitialized() {
		return true
	}
	if findSystemLibraryPath() != "" {
		return true
	}
	_, err := findProjectLibraryPath()
	return err == nil
}

// setLibraryPath sets the onnxruntime shared library path from common locations.
func setLibraryPath() error {
	if path := findSystemLibraryPath(); path != "" {
		onnxrt.SetSharedLibraryPath(path)
		return nil
	}
	libPath, err := findProjectLibraryPath()
	if err != nil {
		return err
	}
	onnxrt.SetSharedLibraryPath(libPath)
	return nil
}

// findSystemLibraryPath checks common system locations for the ONNX Runtime library.
func findSystemLibraryPath() string {
	systemPaths := []string{
		"/usr/local/lib/libonnxruntime.so",
		"/usr/lib/libonnxruntime.so",
		"/opt/onnxruntime/cpu/lib/libonnxruntime.so",
	}
	for _, p := range systemPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// findProjectLibraryPath constructs the project-relative library path.
func findProjectLibraryPath() (string, error) {
	root, err := findProjectRoot()
	if err != nil {
		return "", err
	}
	libName, err := libraryName()
	if err != nil {
		return "", err
	}
	libPath := filepath.Join(root, "onnxruntime", "lib", libName)
	if _, err := os.Stat(libPath); err != nil {
		return "", fmt.Errorf("ONNX Runtime library not found at %s", libPath)
	}
	return libPath, nil
}

// findProjectRoot finds the project root by looking for go.mod.
func findProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	root := cwd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root, nil
		}
		parent := filepath.Dir(root)
		if parent == root {
			return "", errors.New("could not find project root")
		}
		root = parent
	}
}

// libraryName returns the appropriate library name for the current OS.
func libraryName() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return "libonnxruntime.so", nil
	case "darwin":
		return "libonnxruntime.dylib", nil
	case "windows":
		return "onnxruntime.dll", nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}
