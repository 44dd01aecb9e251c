// Package main wires the guidelines API: configuration, logging, the knowledge
// base container, the reload scheduler and the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/joho/godotenv"

	"github.com/clinrec/guidelines-api/config"
	"github.com/clinrec/guidelines-api/data"
	"github.com/clinrec/guidelines-api/guidelines"
	"github.com/clinrec/guidelines-api/logging"
	"github.com/clinrec/guidelines-api/scheduler"
	"github.com/clinrec/guidelines-api/server"
	"github.com/clinrec/guidelines-api/validation"
)

func init() {
	// Read the env variables from the working directory, falling back to the
	// executable directory for packaged deployments
	if err := godotenv.Load(); err != nil {
		ex, err := os.Executable()
		if err != nil {
			logging.Error("Failed to get executable path", "error", err)
			os.Exit(1)
		}

		exPath := filepath.Dir(ex)
		if err := os.Chdir(exPath); err != nil {
			logging.Error("Failed to change directory", "error", err)
			os.Exit(1)
		}

		// A missing .env here is fine, the environment may be set directly
		_ = godotenv.Load()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	logging.InitLoggerWithOptions("logs", logging.ParseLevel(cfg.LogLevel), cfg.LogRetentionWeeks, cfg.MaxLogFileSize)

	// Knowledge base plumbing
	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	loader := guidelines.NewLoader(cfg.KnowledgeFile)
	validator := validation.NewDataValidator()

	sched := scheduler.NewScheduler(dataContainer, loader, validator, cfg.ReloadCheckMinutes)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, dataContainer)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
		os.Exit(1)
	}
}
