package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/you/myapp/busdelays/internal/config"
	"github.com/you/myapp/busdelays/internal/handlers"
	"github.com/you/myapp/busdelays/internal/report"
	"github.com/you/myapp/busdelays/internal/telemetry"
)

// NewRouter builds the API routes
func NewRouter(cfg *config.Config, runner handlers.AnalysisRunner, metrics *telemetry.Metrics) chi.Router {
	analysisHandler := handlers.NewAnalysisHandler(runner, cfg.ChartPath(), cfg.FeedPath(), cfg.RequestTimeout)
	healthHandler := handlers.NewHealthHandler(cfg.OutputDir)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{handlers.RunIDHeader},
		AllowCredentials: true,
	}))

	r.Get("/", analysisHandler.Home)
	r.Get("/analyze", analysisHandler.Analyze)
	r.Get("/chart", analysisHandler.GetChart)
	r.Get("/feed", analysisHandler.GetFeed)

	r.Get("/health", healthHandler.GetHealth)
	r.Get("/healthz", healthHandler.Healthz)

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	return r
}

// Serve runs the API until ctx is cancelled, then shuts down gracefully
func Serve(ctx context.Context, cfg *config.Config) error {
	metrics := telemetry.NewMetrics()
	runner := report.NewRunner(cfg, metrics)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           NewRouter(cfg, runner, metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("API server starting on %s", cfg.ListenAddr())
	log.Println("Analysis endpoints:")
	log.Println("  GET /analyze")
	log.Println("  GET /chart")
	log.Println("  GET /feed")
	log.Println("Health:")
	log.Println("  GET /health (with output directory check)")
	log.Println("  GET /metrics")

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
