package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docstruct/docstruct/internal/api"
	"github.com/docstruct/docstruct/internal/config"
	"github.com/docstruct/docstruct/internal/engine"
	"github.com/docstruct/docstruct/internal/oracle"
	"github.com/docstruct/docstruct/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stats := oracle.NewStats(time.Hour)
	h := buildOracle(cfg, stats)

	eng := engine.New(h, log, engine.Options{
		MaxScanPages:  cfg.MaxScanPages,
		OracleTimeout: cfg.OracleTimeout,
	})

	orch := pipeline.NewOrchestrator(cfg, eng, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, stats, log, cfg)

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
	}()

	log.Info("starting docstruct", "port", cfg.Port, "oracle", cfg.OracleProvider)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

func buildOracle(cfg config.Config, stats *oracle.Stats) oracle.Hierarchy {
	if cfg.OracleProvider == "openai" {
		return oracle.NewOpenAIOracle(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, stats)
	}
	return oracle.NewClaudeOracle(cfg.AnthropicAPIKey, cfg.AnthropicModel, stats)
}
