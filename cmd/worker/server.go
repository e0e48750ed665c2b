package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"clubelo/ratings/internal/app"
	"clubelo/ratings/internal/models"
	"clubelo/ratings/internal/pipeline"
	"clubelo/ratings/internal/rating"
	"clubelo/ratings/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// runTracker remembers the outcome of the last run for the status endpoints
type runTracker struct {
	runner scheduler.Runner

	mu      sync.RWMutex
	last    *pipeline.Report
	lastErr error
}

func newRunTracker(runner scheduler.Runner) *runTracker {
	return &runTracker{runner: runner}
}

func (t *runTracker) RunAs(ctx context.Context, trigger string) (*pipeline.Report, error) {
	report, err := t.runner.RunAs(ctx, trigger)
	t.mu.Lock()
	t.last, t.lastErr = report, err
	t.mu.Unlock()
	return report, err
}

func (t *runTracker) snapshot() (*pipeline.Report, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last, t.lastErr
}

// predictor answers fixture expectancy queries from the last snapshot
type predictor interface {
	Predict(homeID, awayID int, mode string) (*models.Prediction, error)
}

type healthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	LastRun    *pipeline.Report  `json:"lastRun,omitempty"`
	LastError  string            `json:"lastError,omitempty"`
}

// newMetricsServer serves Prometheus metrics, the health endpoint and
// fixture predictions
func newMetricsServer(addr string, components *app.Components, runs *runTracker, pred predictor) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "healthy", Components: map[string]string{}}

		if components.DB != nil {
			resp.Components["postgres"] = "ok"
			if err := components.DB.Health(r.Context()); err != nil {
				resp.Components["postgres"] = err.Error()
				resp.Status = "degraded"
			}
		}
		if components.Cache != nil {
			resp.Components["redis"] = "ok"
			if err := components.Cache.Health(r.Context()); err != nil {
				resp.Components["redis"] = err.Error()
				resp.Status = "degraded"
			}
		}

		last, lastErr := runs.snapshot()
		resp.LastRun = last
		if lastErr != nil {
			resp.LastError = lastErr.Error()
			resp.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Warn().Err(err).Msg("Failed to write health response")
		}
	})

	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		homeID, errHome := strconv.Atoi(q.Get("home"))
		awayID, errAway := strconv.Atoi(q.Get("away"))
		if errHome != nil || errAway != nil {
			http.Error(w, "home and away must be club ids", http.StatusBadRequest)
			return
		}

		p, err := pred.Predict(homeID, awayID, q.Get("mode"))
		switch {
		case errors.Is(err, pipeline.ErrNoSnapshot):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		case errors.Is(err, rating.ErrUnknownClub):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(p); err != nil {
			log.Warn().Err(err).Msg("Failed to write prediction")
		}
	})

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
