package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/brojonat/wrapped/service/config"
	"github.com/brojonat/wrapped/service/metrics"
	natspkg "github.com/brojonat/wrapped/service/nats"
	"github.com/brojonat/wrapped/service/server"
	"github.com/brojonat/wrapped/service/solana"
	"github.com/brojonat/wrapped/service/tokens"
	"github.com/brojonat/wrapped/service/wrapped"
)

func main() {
	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	// Load and validate configuration from environment
	// This fails fast if any config is invalid
	cfg := config.MustLoad()

	// Setup structured logging
	logger := setupLogger(cfg.LogLevel)
	logger.Info("starting server",
		"addr", cfg.ServerAddr,
		"log_level", cfg.LogLevel,
	)

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)

	// The transaction provider is only reachable with an API key. Without
	// one the server still starts and every summary request reports it.
	var fetcher wrapped.Fetcher
	if cfg.HeliusAPIKey != "" {
		rpcClient := solana.NewRPCClient(cfg.HeliusRPCURL, cfg.HeliusAPIKey)
		fetcher = solana.NewClient(rpcClient, "helius", cfg.PageDelay, m, logger)
		logger.Info("initialized transaction provider client", "url", cfg.HeliusRPCURL)
	} else {
		logger.Warn("HELIUS_API_KEY not set, summary requests will fail")
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	enricher := tokens.NewEnricher(m, logger,
		tokens.NewTokenListSource(cfg.TokenListURL, httpClient),
		tokens.NewHeliusMetadataSource(cfg.HeliusMetadataURL, cfg.HeliusAPIKey, httpClient),
	)

	svc := wrapped.NewService(fetcher, enricher, wrapped.Options{
		Since:    cfg.YearStart,
		PageSize: cfg.PageSize,
		MaxPages: cfg.MaxPages,
	}, m, logger)

	// Optional summary events
	var publisher *natspkg.JetStreamPublisher
	if cfg.NATSURL != "" {
		p, err := natspkg.NewPublisher(cfg.NATSURL, m, logger)
		if err != nil {
			logger.Error("failed to initialize NATS publisher", "error", err)
			os.Exit(1)
		}
		publisher = p
		svc.SetPublisher(publisher)
	}

	httpServer := server.New(cfg.ServerAddr, svc, m, logger)

	logger.Info("server initialized, all dependencies ready",
		"year_start", cfg.YearStart,
		"max_pages", cfg.MaxPages,
		"page_size", cfg.PageSize,
		"nats_enabled", publisher != nil,
	)

	// Start HTTP server in background
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.Start()
	}()

	// Wait for shutdown signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())

		// Graceful shutdown with timeout
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown server gracefully", "error", err)
			os.Exit(1)
		}
		if publisher != nil {
			publisher.Close()
		}

		logger.Info("server shutdown complete")
	}
}

// setupLogger creates a structured logger with the given log level.
func setupLogger(levelStr string) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
