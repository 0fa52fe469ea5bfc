package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docslice/internal/api"
	"github.com/dgallion1/docslice/internal/config"
	"github.com/dgallion1/docslice/internal/convert"
	"github.com/dgallion1/docslice/internal/fetch"
	"github.com/dgallion1/docslice/internal/pipeline"
	"github.com/dgallion1/docslice/internal/queryparse"
	"github.com/dgallion1/docslice/internal/splitter"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize pipeline.
	fetcher := fetch.NewClient(cfg.FetchTimeout, cfg.MaxFetchBytes)
	proc := pipeline.NewProcessor(
		fetcher,
		splitter.Config{ChunkSize: cfg.DefaultChunkSize, ChunkOverlap: cfg.DefaultChunkOverlap},
		convert.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		log,
	)
	orch := pipeline.NewOrchestrator(proc, cfg.WorkerCount, cfg.MaxQueueSize, cfg.JobTTL, log)
	orch.Start(ctx)

	// Query classification is optional.
	var parser *queryparse.Client
	if cfg.AnthropicAPIKey != "" {
		parser = queryparse.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	} else {
		log.Info("ANTHROPIC_API_KEY not set, query parsing disabled")
	}

	srv := api.NewServer(proc, orch, parser, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if parser != nil {
			parser.Close()
		}
		fetcher.Close()
	}()

	log.Info("starting docslice", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
