package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clubelo/ratings/internal/client"
	"clubelo/ratings/internal/config"
	"clubelo/ratings/internal/metrics"
	"clubelo/ratings/internal/pipeline"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ErrRefreshInProgress is returned when a refresh is requested while
// another one is still running
var ErrRefreshInProgress = errors.New("refresh already in progress")

// Fetcher downloads the configured season files
type Fetcher interface {
	DownloadAll(ctx context.Context, leagues, seasons []string, dir string, skipExisting bool) (*client.DownloadResult, error)
}

// Runner regenerates the rating snapshot
type Runner interface {
	RunAs(ctx context.Context, trigger string) (*pipeline.Report, error)
}

// Scheduler runs the periodic refresh: download the current seasons, then
// regenerate every rating from scratch
type Scheduler struct {
	cfg      *config.Config
	fetcher  Fetcher
	runner   Runner
	cron     *cron.Cron
	mu       sync.Mutex
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewScheduler creates a new scheduler instance. fetcher may be nil, in
// which case refreshes only rerun the pipeline on the files at hand.
func NewScheduler(cfg *config.Config, fetcher Fetcher, runner Runner) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		fetcher:  fetcher,
		runner:   runner,
		cron:     cron.New(cron.WithLocation(time.UTC)),
		stopChan: make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-ctx.Done():
		case <-s.stopChan:
		}
		cancel()
	}()

	if _, err := s.cron.AddFunc(s.cfg.RefreshCron, func() {
		log.Info().Msg("Running scheduled refresh...")
		if _, err := s.Refresh(ctx, pipeline.TriggerScheduled); err != nil {
			log.Error().Err(err).Msg("Scheduled refresh failed")
		}
	}); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.RefreshCron).
		Msg("Refresh scheduled")

	return nil
}

// Stop stops the scheduler and waits for a running refresh to finish
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	s.stopOnce.Do(func() { close(s.stopChan) })

	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(30 * time.Second):
		log.Warn().Msg("Timed out waiting for running refresh")
	}

	log.Info().Msg("Scheduler stopped")
}

// Refresh downloads the configured seasons and reruns the pipeline.
// Overlapping refreshes are rejected with ErrRefreshInProgress.
func (s *Scheduler) Refresh(ctx context.Context, trigger string) (*pipeline.Report, error) {
	if !s.mu.TryLock() {
		log.Warn().Str("trigger", trigger).Msg("Refresh skipped, previous run still active")
		return nil, ErrRefreshInProgress
	}
	defer s.mu.Unlock()

	if s.fetcher != nil {
		res, err := s.fetcher.DownloadAll(ctx, s.cfg.FootballDataLeagues, s.cfg.FootballDataSeasons, s.cfg.DataDir, false)
		if err != nil {
			metrics.RecordError("scheduler", "download")
			return nil, fmt.Errorf("failed to download seasons: %w", err)
		}
		if res.Failed > 0 {
			log.Warn().Int("failed", res.Failed).Msg("Some season files could not be refreshed, using local copies")
		}
	}

	return s.runner.RunAs(ctx, trigger)
}
