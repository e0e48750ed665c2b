// Package pipeline runs one full rating generation: catalog, ingestion,
// rating fold, snapshot files and optional replication.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clubelo/ratings/internal/catalog"
	"clubelo/ratings/internal/ingest"
	"clubelo/ratings/internal/metrics"
	"clubelo/ratings/internal/models"
	"clubelo/ratings/internal/rating"
	"clubelo/ratings/internal/resolver"
	"clubelo/ratings/internal/snapshot"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrNoSnapshot is returned by Predict before the first successful run
var ErrNoSnapshot = errors.New("no rating snapshot generated yet")

// Triggers label what started a run
const (
	TriggerManual    = "manual"
	TriggerInitial   = "initial"
	TriggerScheduled = "scheduled"
)

// Options configures a Pipeline
type Options struct {
	DataDir       string
	ClubsFile     string
	OutputDir     string
	Params        rating.Params
	SuggestCutoff float64
	SuggestLimit  int
}

// Run is the in-memory output of one generation handed to stores
type Run struct {
	ID          string
	Clubs       []models.Club
	Matches     []*models.Match
	Snapshot    *snapshot.Snapshot
	Diagnostics []models.UnmappedName
}

// Store receives every snapshot after the files are written
type Store interface {
	Name() string
	Publish(ctx context.Context, run *Run) error
}

// Report summarizes a finished run
type Report struct {
	RunID         string          `json:"runId"`
	Trigger       string          `json:"trigger"`
	StartedAt     time.Time       `json:"startedAt"`
	Duration      time.Duration   `json:"duration"`
	Clubs         int             `json:"clubs"`
	Ingestion     *ingest.Summary `json:"ingestion"`
	Matches       int             `json:"matches"`
	Unmapped      int             `json:"unmapped"`
	LastMatchDate string          `json:"lastMatchDate"`
	OutputDir     string          `json:"outputDir"`
	StoreErrors   int             `json:"storeErrors"`
}

// Pipeline wires the rating components together
type Pipeline struct {
	opts   Options
	engine *rating.Engine
	writer *snapshot.Writer
	stores []Store
	now    func() time.Time

	mu    sync.RWMutex
	table *rating.Table
}

// New creates a pipeline. Stores are optional.
func New(opts Options, stores ...Store) *Pipeline {
	if opts.OutputDir == "" {
		opts.OutputDir = opts.DataDir
	}
	return &Pipeline{
		opts:   opts,
		engine: rating.NewEngine(opts.Params),
		writer: snapshot.NewWriter(opts.OutputDir),
		stores: stores,
		now:    time.Now,
	}
}

// Run generates a snapshot as a manual run
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	return p.RunAs(ctx, TriggerManual)
}

// RunAs generates a snapshot and labels the run with trigger. Any failure
// before the snapshot files are written aborts the run and leaves the
// previous files in place. Store failures are logged and counted only.
func (p *Pipeline) RunAs(ctx context.Context, trigger string) (*Report, error) {
	start := p.now()
	report := &Report{
		RunID:     uuid.New().String(),
		Trigger:   trigger,
		StartedAt: start.UTC(),
		OutputDir: p.opts.OutputDir,
	}
	logger := log.With().Str("run_id", report.RunID).Str("trigger", trigger).Logger()
	logger.Info().Str("data_dir", p.opts.DataDir).Msg("Rating run started")

	run, err := p.generate(ctx, report)
	if err != nil {
		report.Duration = p.now().Sub(start)
		metrics.RecordRun(trigger, "error", report.Duration.Seconds())
		metrics.RecordError("pipeline", "run")
		logger.Error().Err(err).Msg("Rating run failed")
		return report, err
	}

	for _, store := range p.stores {
		if err := store.Publish(ctx, run); err != nil {
			report.StoreErrors++
			metrics.RecordError("pipeline", "store_"+store.Name())
			logger.Error().Err(err).Str("store", store.Name()).Msg("Failed to publish snapshot")
			continue
		}
		logger.Info().Str("store", store.Name()).Msg("Snapshot published")
	}

	report.Duration = p.now().Sub(start)
	metrics.RecordRun(trigger, "success", report.Duration.Seconds())

	logger.Info().
		Int("clubs", report.Clubs).
		Int("matches", report.Matches).
		Int("skipped", report.Ingestion.Skipped).
		Int("unmapped", report.Unmapped).
		Str("last_match", report.LastMatchDate).
		Dur("duration", report.Duration).
		Msg("Rating run finished")

	return report, nil
}

func (p *Pipeline) generate(ctx context.Context, report *Report) (*Run, error) {
	clubs, err := catalog.Load(p.opts.ClubsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	report.Clubs = len(clubs)

	res := resolver.New(clubs,
		resolver.WithCutoff(p.opts.SuggestCutoff),
		resolver.WithLimit(p.opts.SuggestLimit),
	)
	matches, summary, err := ingest.NewIngestor(res).ReadDir(ctx, p.opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to ingest matches: %w", err)
	}
	report.Ingestion = summary

	skipped := make(map[string]int, len(summary.SkippedByReason))
	for reason, n := range summary.SkippedByReason {
		skipped[string(reason)] = n
	}
	metrics.RecordIngestion(summary.Processed, summary.UndatedMatches, summary.FailedFiles, skipped)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := p.now()
	result := p.engine.Run(clubs, matches, now)
	diagnostics := res.Diagnostics()
	snap := snapshot.Build(result, diagnostics, now)

	if err := p.writer.Write(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}

	p.mu.Lock()
	p.table = result.Table
	p.mu.Unlock()

	report.Matches = len(snap.Matches)
	report.Unmapped = len(diagnostics)
	report.LastMatchDate = snap.LastMatchDate()
	metrics.RecordSnapshot(len(snap.HomeAway), len(snap.Matches), len(diagnostics))

	return &Run{
		ID:          report.RunID,
		Clubs:       clubs,
		Matches:     result.Matches,
		Snapshot:    snap,
		Diagnostics: diagnostics,
	}, nil
}

// Predict returns the win expectancies of a fixture from the last
// successful run
func (p *Pipeline) Predict(homeID, awayID int, mode string) (*models.Prediction, error) {
	p.mu.RLock()
	table := p.table
	p.mu.RUnlock()

	if table == nil {
		return nil, ErrNoSnapshot
	}
	return p.engine.Predict(table, homeID, awayID, mode)
}
