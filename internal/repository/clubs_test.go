//go:build integration

package repository

import (
	"testing"

	"clubelo/ratings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClubRepository_ReplaceAll(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	first := []models.Club{
		{ID: 1, Name: "Arsenal", League: "Premier League", Continent: "Europe"},
		{ID: 2, Name: "Bayern München", League: "Bundesliga", Continent: "Europe"},
	}
	require.NoError(t, db.Clubs.ReplaceAll(ctx, first), "Should store catalog")

	clubs, err := db.Clubs.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, clubs, "Catalog should round trip")

	second := []models.Club{{ID: 1, Name: "Chelsea", League: "Premier League", Continent: "Europe"}}
	require.NoError(t, db.Clubs.ReplaceAll(ctx, second), "Should replace catalog")

	count, err := db.Clubs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "Previous catalog should be gone")
}
