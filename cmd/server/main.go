// Package main is the entry point for the synthetic S&P 500 chart
// service. It proxies index data from the upstream provider, applies
// daily-reset leverage compounding, and serves the resulting chart
// geometry and viewport transitions over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/clients/upstream"
	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/config"
	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/modules/series"
	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/server"
	"github.com/Goodmorning-Takaya/spx-synthetic-chart/pkg/logger"
)

func main() {
	// Load configuration first to get the log level.
	cfg, err := config.Load()
	if err != nil {
		// Use a fallback logger so the configuration error is still logged.
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting chart service")

	fetcher := upstream.NewClient(
		cfg.Upstream.BaseURL,
		cfg.Upstream.SymbolPath,
		time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second,
		log,
	)

	seriesService := series.NewService(fetcher, log)

	srv := server.New(server.Config{
		Log:      log,
		Config:   cfg,
		Port:     cfg.Port,
		DevMode:  cfg.DevMode,
		Series:   seriesService,
		Upstream: fetcher,
	})

	// Start the server in a goroutine so main can block on signals.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// In-flight requests get up to 10 seconds to complete.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
