package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/you/myapp/busdelays/internal/report"
)

// AnalysisRunner runs the full generate/analyze/export/chart pipeline
type AnalysisRunner interface {
	Run(ctx context.Context, trigger string, now time.Time) (*report.Result, error)
}

// AnalysisHandler handles HTTP requests for delay analysis and its artifacts
type AnalysisHandler struct {
	runner    AnalysisRunner
	chartPath string
	feedPath  string
	timeout   time.Duration

	// Now is the clock used for each run; replaced in tests
	Now func() time.Time
}

// NewAnalysisHandler creates a new handler serving artifacts from the given paths
func NewAnalysisHandler(runner AnalysisRunner, chartPath, feedPath string, timeout time.Duration) *AnalysisHandler {
	return &AnalysisHandler{
		runner:    runner,
		chartPath: chartPath,
		feedPath:  feedPath,
		timeout:   timeout,
		Now:       time.Now,
	}
}

// ErrorResponse is the JSON error response structure
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RunIDHeader carries the id of the analysis run that produced a response
const RunIDHeader = "X-Analysis-Run-ID"

// Home handles GET /
func (h *AnalysisHandler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Bus Delay Analysis API is Running 🚍"))
}

// Analyze handles GET /analyze
// Regenerates the dataset, refreshes the exported files and chart, and
// returns the delay summary
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.runner.Run(ctx, report.TriggerHTTP, h.Now())
	if err != nil {
		log.Printf("Failed to run analysis: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to run analysis",
			Details: map[string]interface{}{
				"message": err.Error(),
			},
		})
		return
	}

	w.Header().Set(RunIDHeader, res.RunID.String())
	writeJSON(w, http.StatusOK, res.Summary)
}

// GetChart handles GET /chart
// Serves the most recently rendered chart; 404 until /analyze has run once
func (h *AnalysisHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, h.chartPath, "image/png", "Chart not found, run /analyze first")
}

// GetFeed handles GET /feed
// Serves the exported GTFS-RT trip updates feed
func (h *AnalysisHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	h.serveArtifact(w, r, h.feedPath, "application/x-protobuf", "Feed not found, run /analyze first")
}

func (h *AnalysisHandler) serveArtifact(w http.ResponseWriter, r *http.Request, path, contentType, notFound string) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: notFound})
			return
		}
		log.Printf("Failed to open %s: %v", path, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to read artifact"})
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to read artifact"})
		return
	}

	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
