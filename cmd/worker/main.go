package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clubelo/ratings/internal/app"
	"clubelo/ratings/internal/config"
	"clubelo/ratings/internal/metrics"
	"clubelo/ratings/internal/pipeline"
	"clubelo/ratings/internal/scheduler"

	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()
	app.SetupLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().Msg("Starting club Elo ratings worker")
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("data_dir", cfg.DataDir).
		Str("output_dir", cfg.OutputDir).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	components := app.Open(ctx, cfg)
	defer components.Close()

	pipe := app.NewPipeline(cfg, components.Stores(cfg)...)
	runs := newRunTracker(pipe)
	sched := scheduler.NewScheduler(cfg, app.NewClient(cfg), runs)

	// Start metrics HTTP server
	var srv *http.Server
	if cfg.EnableMetrics {
		srv = newMetricsServer(fmt.Sprintf(":%d", cfg.MetricsPort), components, runs, pipe)
		go func() {
			log.Info().Int("port", cfg.MetricsPort).Msg("Starting metrics server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
				if components.DB != nil {
					components.DB.PoolStats()
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	if cfg.EnableScheduler {
		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Run initial refresh if enabled
	if cfg.InitialRunEnabled {
		log.Info().Msg("Running initial refresh...")
		if _, err := sched.Refresh(ctx, pipeline.TriggerInitial); err != nil {
			log.Error().Err(err).Msg("Initial refresh failed, continuing anyway...")
		} else {
			log.Info().Msg("Initial refresh completed successfully")
		}
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
	}

	log.Info().Msg("Worker shutdown complete")
}
