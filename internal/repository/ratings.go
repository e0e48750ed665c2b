package repository

import (
	"context"
	"fmt"

	"clubelo/ratings/internal/models"

	"github.com/jackc/pgx/v5"
)

// RatingRepository handles rating snapshot database operations
type RatingRepository struct {
	db *Database
}

// ReplaceHomeAway stores the blended home/away ratings
func (r *RatingRepository) ReplaceHomeAway(ctx context.Context, ratings []models.HomeAwayRating) error {
	rows := make([][]any, 0, len(ratings))
	for _, x := range ratings {
		rows = append(rows, []any{x.ClubID, x.HomeElo, x.AwayElo, x.OverallElo, x.HomeGames, x.AwayGames})
	}
	return r.db.replaceTable(ctx, "ratings_home_away",
		[]string{"club_id", "home_elo", "away_elo", "overall_elo", "home_games", "away_games"}, rows)
}

// ReplaceLatest stores the flat latest ratings
func (r *RatingRepository) ReplaceLatest(ctx context.Context, ratings []models.LatestRating) error {
	rows := make([][]any, 0, len(ratings))
	for _, x := range ratings {
		rows = append(rows, []any{x.ClubID, x.Date, x.Elo})
	}
	return r.db.replaceTable(ctx, "ratings_latest", []string{"club_id", "as_of", "elo"}, rows)
}

// ReplaceUnmapped stores the unmapped name diagnostics
func (r *RatingRepository) ReplaceUnmapped(ctx context.Context, names []models.UnmappedName) error {
	rows := make([][]any, 0, len(names))
	for _, n := range names {
		suggestions := n.Suggestions
		if suggestions == nil {
			suggestions = []string{}
		}
		rows = append(rows, []any{n.Name, suggestions})
	}
	return r.db.replaceTable(ctx, "unmapped_names", []string{"name", "suggestions"}, rows)
}

// List retrieves the home/away ratings ordered by overall rating, best first
func (r *RatingRepository) List(ctx context.Context) ([]models.HomeAwayRating, error) {
	query := `
		SELECT club_id, home_elo, away_elo, overall_elo, home_games, away_games
		FROM ratings_home_away
		ORDER BY overall_elo DESC, club_id
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	ratings, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.HomeAwayRating])
	if err != nil {
		return nil, fmt.Errorf("failed to scan ratings: %w", err)
	}
	return ratings, nil
}

// GetLatest retrieves the latest rating of one club
func (r *RatingRepository) GetLatest(ctx context.Context, clubID int) (*models.LatestRating, error) {
	query := `SELECT club_id, as_of, elo FROM ratings_latest WHERE club_id = $1`

	var x models.LatestRating
	err := r.db.Pool.QueryRow(ctx, query, clubID).Scan(&x.ClubID, &x.Date, &x.Elo)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("rating not found: club_id=%d", clubID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return &x, nil
}
