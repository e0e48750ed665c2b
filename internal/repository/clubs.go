package repository

import (
	"context"
	"fmt"

	"clubelo/ratings/internal/models"
)

// ClubRepository handles club catalog database operations
type ClubRepository struct {
	db *Database
}

// ReplaceAll stores the catalog, replacing any previous one
func (r *ClubRepository) ReplaceAll(ctx context.Context, clubs []models.Club) error {
	rows := make([][]any, 0, len(clubs))
	for _, c := range clubs {
		rows = append(rows, []any{c.ID, c.Name, c.League, c.Continent})
	}
	return r.db.replaceTable(ctx, "clubs", []string{"id", "name", "league", "continent"}, rows)
}

// List retrieves all clubs ordered by id
func (r *ClubRepository) List(ctx context.Context) ([]models.Club, error) {
	query := `SELECT id, name, league, continent FROM clubs ORDER BY id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	defer rows.Close()

	var clubs []models.Club
	for rows.Next() {
		var c models.Club
		if err := rows.Scan(&c.ID, &c.Name, &c.League, &c.Continent); err != nil {
			return nil, fmt.Errorf("failed to scan club: %w", err)
		}
		clubs = append(clubs, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clubs: %w", err)
	}

	return clubs, nil
}

// Count returns the total number of clubs
func (r *ClubRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM clubs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count clubs: %w", err)
	}
	return count, nil
}
