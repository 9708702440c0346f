package server

import (
	"context"
	"image"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meditrack/rxscan/internal/pipeline"
)

// extractor defines the methods the server needs from the extraction
// pipeline.
type extractor interface {
	ExtractContext(ctx context.Context, img image.Image) pipeline.ExtractionResult
	Available() bool
	Close() error
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	pipeline    extractor
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	CORSOrigin     string
	MaxUploadMB    int64
	TimeoutSec     int
	PipelineConfig pipeline.Config
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Available bool   `json:"engine_available"`
	Version   string `json:"version,omitempty"`
	Time      string `json:"time"`
}

// ModelInfo describes one model file the engine uses.
type ModelInfo struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Present     bool   `json:"present"`
}

// ModelsResponse is the /models payload.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
	Count  int         `json:"count"`
}

// NewServer creates a new extraction server instance. The pipeline is built
// immediately; model loading still happens lazily on the first request.
func NewServer(config Config) *Server {
	cfg := config.PipelineConfig
	pl := pipeline.NewBuilder().
		WithModelsDir(cfg.ModelsDir).
		WithTimeout(cfg.Timeout).
		WithPreprocess(cfg.Preprocess).
		WithMinConfidence(cfg.Recognizer.MinConfidence).
		WithCanvasSize(cfg.Recognizer.CanvasSize).
		WithThreads(cfg.Recognizer.NumThreads).
		Build()

	return &Server{
		pipeline:    pl,
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
	}
}

// Close releases server resources.
func (s *Server) Close() error {
	if s.pipeline != nil {
		return s.pipeline.Close()
	}
	return nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/models", s.corsMiddleware(s.modelsHandler))
	mux.HandleFunc("/extract", s.corsMiddleware(s.extractHandler))
	mux.Handle("/metrics", promhttp.Handler())
}
