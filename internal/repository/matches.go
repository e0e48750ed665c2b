package repository

import (
	"context"
	"fmt"

	"clubelo/ratings/internal/models"
)

// MatchRepository handles match history database operations
type MatchRepository struct {
	db *Database
}

var matchColumns = []string{
	"id", "date_raw", "match_date", "home_club_id", "away_club_id",
	"home_goals", "away_goals", "source",
	"home_elo_pre", "away_elo_pre", "home_elo_post", "away_elo_post",
	"home_delta", "away_delta",
	"home_overall_pre", "away_overall_pre", "home_overall_delta", "away_overall_delta",
}

// ReplaceAll stores the processed match history. Matches must already carry
// their snapshot ids.
func (r *MatchRepository) ReplaceAll(ctx context.Context, matches []*models.Match) error {
	rows := make([][]any, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []any{
			m.ID, m.DateRaw, m.Date, m.HomeClubID, m.AwayClubID,
			m.HomeGoals, m.AwayGoals, m.Source,
			m.HomeEloPre, m.AwayEloPre, m.HomeEloPost, m.AwayEloPost,
			m.HomeDelta, m.AwayDelta,
			m.HomeOverallPre, m.AwayOverallPre, m.HomeOverallDelta, m.AwayOverallDelta,
		})
	}
	return r.db.replaceTable(ctx, "matches", matchColumns, rows)
}

// ListByClub retrieves the matches of a club in processing order
func (r *MatchRepository) ListByClub(ctx context.Context, clubID int) ([]*models.Match, error) {
	query := `
		SELECT id, date_raw, match_date, home_club_id, away_club_id,
		       home_goals, away_goals, source,
		       home_elo_pre, away_elo_pre, home_elo_post, away_elo_post,
		       home_delta, away_delta,
		       home_overall_pre, away_overall_pre, home_overall_delta, away_overall_delta
		FROM matches
		WHERE home_club_id = $1 OR away_club_id = $1
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		var m models.Match
		err := rows.Scan(
			&m.ID, &m.DateRaw, &m.Date, &m.HomeClubID, &m.AwayClubID,
			&m.HomeGoals, &m.AwayGoals, &m.Source,
			&m.HomeEloPre, &m.AwayEloPre, &m.HomeEloPost, &m.AwayEloPost,
			&m.HomeDelta, &m.AwayDelta,
			&m.HomeOverallPre, &m.AwayOverallPre, &m.HomeOverallDelta, &m.AwayOverallDelta,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.Rated = true
		matches = append(matches, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}

	return matches, nil
}

// Count returns the total number of matches
func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}
