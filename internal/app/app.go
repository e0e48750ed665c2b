// Package app builds the runtime components from configuration.
package app

import (
	"context"
	"os"
	"strconv"
	"time"

	"clubelo/ratings/internal/cache"
	"clubelo/ratings/internal/client"
	"clubelo/ratings/internal/config"
	"clubelo/ratings/internal/pipeline"
	"clubelo/ratings/internal/rating"
	"clubelo/ratings/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger configures the zerolog logger
func SetupLogger(appEnv, logLevel string) {
	// Pretty console logging in development
	if appEnv == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if logLevel != "" {
		if parsed, err := zerolog.ParseLevel(logLevel); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
}

// Components holds the optional sinks opened for a process
type Components struct {
	DB    *repository.Database
	Cache *cache.RedisCache
}

// Stores returns the pipeline stores backed by the open sinks
func (c *Components) Stores(cfg *config.Config) []pipeline.Store {
	var stores []pipeline.Store
	if c.DB != nil {
		stores = append(stores, pipeline.NewDatabaseStore(c.DB))
	}
	if c.Cache != nil {
		stores = append(stores, pipeline.NewCacheStore(c.Cache, cfg.CacheTTLRatings))
	}
	return stores
}

// Close releases every open sink
func (c *Components) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Cache != nil {
		c.Cache.Close()
	}
}

// Open connects the sinks enabled in cfg. The JSON snapshot files are the
// primary output, so an unreachable sink only produces a warning.
func Open(ctx context.Context, cfg *config.Config) *Components {
	c := &Components{}

	if cfg.EnableDatabase {
		db, err := repository.NewDatabase(ctx, repository.Config{
			Host:     cfg.DatabaseHost,
			Port:     strconv.Itoa(cfg.DatabasePort),
			User:     cfg.DatabaseUser,
			Password: cfg.DatabasePassword,
			Database: cfg.DatabaseName,
			SSLMode:  cfg.DatabaseSSLMode,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to database - continuing without it")
		} else if err := db.Migrate(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to apply database schema - continuing without it")
			db.Close()
		} else {
			c.DB = db
		}
	}

	if cfg.EnableCache {
		redisCache, err := cache.NewRedisCache(cache.Config{
			Host:     cfg.RedisHost,
			Port:     strconv.Itoa(cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		} else {
			c.Cache = redisCache
		}
	}

	return c
}

// RatingParams maps the configured model constants
func RatingParams(cfg *config.Config) rating.Params {
	return rating.Params{
		Baseline:      cfg.BaseElo,
		K:             cfg.KFactor,
		HomeAdvantage: cfg.HomeAdvantage,
		ShrinkageTau:  cfg.ShrinkageTau,
	}
}

// NewPipeline builds the rating pipeline for cfg
func NewPipeline(cfg *config.Config, stores ...pipeline.Store) *pipeline.Pipeline {
	return pipeline.New(pipeline.Options{
		DataDir:       cfg.DataDir,
		ClubsFile:     cfg.ClubsFile,
		OutputDir:     cfg.OutputDir,
		Params:        RatingParams(cfg),
		SuggestCutoff: cfg.SuggestCutoff,
		SuggestLimit:  cfg.SuggestLimit,
	}, stores...)
}

// NewClient builds the season downloader for cfg
func NewClient(cfg *config.Config) *client.Client {
	return client.NewClient(client.Options{
		BaseURL:    cfg.FootballDataBaseURL,
		Timeout:    cfg.FootballDataTimeout,
		RateLimit:  cfg.FootballDataRateLimit,
		MaxRetries: cfg.FootballDataMaxRetries,
		BackupDir:  cfg.BackupDir,
	})
}
