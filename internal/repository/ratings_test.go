//go:build integration

package repository

import (
	"testing"

	"clubelo/ratings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingRepository_ReplaceHomeAway(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	ratings := []models.HomeAwayRating{
		{ClubID: 1, HomeElo: 1819.13, AwayElo: 1818.9, OverallElo: 1819.02, HomeGames: 1},
		{ClubID: 2, HomeElo: 1781.1, AwayElo: 1780.87, OverallElo: 1780.98, AwayGames: 1},
	}
	require.NoError(t, db.Ratings.ReplaceHomeAway(ctx, ratings))

	listed, err := db.Ratings.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, 1, listed[0].ClubID, "Best rated club should come first")
	assert.Equal(t, ratings[1], listed[1])
}

func TestRatingRepository_ReplaceLatest(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	require.NoError(t, db.Ratings.ReplaceLatest(ctx, []models.LatestRating{
		{ClubID: 1, Date: "2024-01-01T00:00:00", Elo: 1818.9},
	}))

	latest, err := db.Ratings.GetLatest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00", latest.Date)
	assert.Equal(t, 1818.9, latest.Elo)

	_, err = db.Ratings.GetLatest(ctx, 99999)
	assert.Error(t, err, "Should return error for unknown club")
}

func TestRatingRepository_ReplaceUnmapped(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	err := db.Ratings.ReplaceUnmapped(ctx, []models.UnmappedName{
		{Name: "Spurs"},
		{Name: "Man Utd", Suggestions: []string{"man united"}},
	})
	require.NoError(t, err)

	var suggestions []string
	err = db.Pool.QueryRow(ctx, `SELECT suggestions FROM unmapped_names WHERE name = $1`, "Spurs").Scan(&suggestions)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}
