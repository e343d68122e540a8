package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/you/myapp/busdelays/internal/config"
	"github.com/you/myapp/busdelays/internal/server"
)

func main() {
	// Load .env files from the working directory
	// Load base .env first, then .env.local (which overrides for local development)
	config.LoadDotEnv()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Config loaded: output_dir=%s, seed=%d", cfg.OutputDir, cfg.Seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx, cfg); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Goodbye!")
}
