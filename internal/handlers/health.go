package handlers

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

// HealthHandler reports whether the API can write its output files
type HealthHandler struct {
	outputDir string
}

// NewHealthHandler creates a new handler checking outputDir
func NewHealthHandler(outputDir string) *HealthHandler {
	return &HealthHandler{outputDir: outputDir}
}

// HealthResponse is the JSON response for GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	OutputDir string    `json:"outputDir"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// GetHealth handles GET /health
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		OutputDir: h.outputDir,
		Timestamp: time.Now().UTC(),
	}

	if err := checkWritable(h.outputDir); err != nil {
		response.Status = "error"
		response.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// Healthz handles GET /healthz (plain liveness probe)
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("output directory unavailable: %w", err)
	}
	f, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return fmt.Errorf("output directory not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
