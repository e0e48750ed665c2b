package app

import (
	"context"
	"testing"

	"clubelo/ratings/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRatingParams(t *testing.T) {
	cfg := &config.Config{BaseElo: 1500, KFactor: 20, HomeAdvantage: 0, ShrinkageTau: 10}
	p := RatingParams(cfg)
	assert.Equal(t, 1500.0, p.Baseline)
	assert.Equal(t, 20.0, p.K)
	assert.Equal(t, 0.0, p.HomeAdvantage)
	assert.Equal(t, 10.0, p.ShrinkageTau)
}

func TestOpen_NothingEnabled(t *testing.T) {
	c := Open(context.Background(), &config.Config{})
	defer c.Close()

	assert.Nil(t, c.DB)
	assert.Nil(t, c.Cache)
	assert.Empty(t, c.Stores(&config.Config{}))
}

func TestOpen_UnreachableCacheIsSkipped(t *testing.T) {
	c := Open(context.Background(), &config.Config{EnableCache: true, RedisHost: "127.0.0.1", RedisPort: 1})
	defer c.Close()

	assert.Nil(t, c.Cache)
}

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	SetupLogger("production", "debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetupLogger("production", "nonsense")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
