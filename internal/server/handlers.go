package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"time"

	_ "golang.org/x/image/bmp"

	"github.com/meditrack/rxscan/internal/models"
	"github.com/meditrack/rxscan/internal/pipeline"
	"github.com/meditrack/rxscan/internal/version"
)

// healthHandler returns server health and engine availability.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:    "healthy",
		Available: s.pipeline != nil && s.pipeline.Available(),
		Version:   version.Version,
		Time:      time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// modelsHandler returns information about the model files the engine uses.
func (s *Server) modelsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	modelInfos := models.ListAvailableModels()
	modelList := make([]ModelInfo, len(modelInfos))
	for i, info := range modelInfos {
		path := models.ResolveModelPath("", info.Type, info.Filename)
		modelList[i] = ModelInfo{
			Name:        info.Name,
			Path:        path,
			Type:        info.Type,
			Description: info.Description,
			Present:     models.ValidateModelExists(path) == nil,
		}
	}

	response := ModelsResponse{
		Models: modelList,
		Count:  len(modelList),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding models response: %v\n", err)
	}
}

// extractHandler runs the extraction pipeline on an uploaded prescription
// image and returns the structured result.
func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	maxBytes := s.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return
	}

	if s.pipeline == nil || !s.pipeline.Available() {
		s.writeErrorResponse(w, "Extraction engine not available", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	res := s.pipeline.ExtractContext(r.Context(), img)
	extractionDuration.Observe(time.Since(start).Seconds())

	if res.Success {
		extractionsTotal.WithLabelValues("success").Inc()
		if res.Data != nil {
			extractionMedicines.Observe(float64(len(res.Data.Medicines)))
		}
	} else {
		extractionsTotal.WithLabelValues("failure").Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding extraction response: %v\n", err)
	}
}

// writeErrorResponse writes a JSON error response in the extraction result
// shape.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := pipeline.ExtractionResult{
		Success: false,
		Error:   message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
