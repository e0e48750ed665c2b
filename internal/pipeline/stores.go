package pipeline

import (
	"context"
	"time"

	"clubelo/ratings/internal/cache"
	"clubelo/ratings/internal/models"
	"clubelo/ratings/internal/repository"
)

// DatabaseStore replicates each snapshot into PostgreSQL
type DatabaseStore struct {
	db *repository.Database
}

// NewDatabaseStore wraps a database connection
func NewDatabaseStore(db *repository.Database) *DatabaseStore {
	return &DatabaseStore{db: db}
}

func (s *DatabaseStore) Name() string { return "postgres" }

// Publish replaces every snapshot table. The match rows are the unrounded
// engine values; the rating tables carry the rounded snapshot values.
func (s *DatabaseStore) Publish(ctx context.Context, run *Run) error {
	if err := s.db.Clubs.ReplaceAll(ctx, run.Clubs); err != nil {
		return err
	}
	if err := s.db.Matches.ReplaceAll(ctx, run.Matches); err != nil {
		return err
	}
	if err := s.db.Ratings.ReplaceHomeAway(ctx, run.Snapshot.HomeAway); err != nil {
		return err
	}
	if err := s.db.Ratings.ReplaceLatest(ctx, run.Snapshot.Latest); err != nil {
		return err
	}
	return s.db.Ratings.ReplaceUnmapped(ctx, run.Diagnostics)
}

// CacheStore publishes the latest ratings and a run summary to Redis
type CacheStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewCacheStore wraps a Redis cache
func NewCacheStore(c *cache.RedisCache, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

func (s *CacheStore) Name() string { return "redis" }

// Publish pushes the latest table and a summary of the run
func (s *CacheStore) Publish(ctx context.Context, run *Run) error {
	if err := s.cache.PublishLatest(ctx, run.Snapshot.Latest, s.ttl); err != nil {
		return err
	}
	return s.cache.PublishSummary(ctx, cacheSummary{
		RunID:         run.ID,
		GeneratedAt:   run.Snapshot.GeneratedAt,
		Clubs:         len(run.Clubs),
		Matches:       len(run.Snapshot.Matches),
		LastMatchDate: run.Snapshot.LastMatchDate(),
		Unmapped:      unmappedNames(run.Diagnostics),
	}, s.ttl)
}

type cacheSummary struct {
	RunID         string    `json:"runId"`
	GeneratedAt   time.Time `json:"generatedAt"`
	Clubs         int       `json:"clubs"`
	Matches       int       `json:"matches"`
	LastMatchDate string    `json:"lastMatchDate"`
	Unmapped      []string  `json:"unmapped"`
}

func unmappedNames(diags []models.UnmappedName) []string {
	names := make([]string, 0, len(diags))
	for _, d := range diags {
		names = append(names, d.Name)
	}
	return names
}
