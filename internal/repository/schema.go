package repository

import (
	"context"
	"fmt"
)

// schema holds one flat table per snapshot output
var schema = []string{
	`CREATE TABLE IF NOT EXISTS clubs (
		id        INTEGER PRIMARY KEY,
		name      TEXT NOT NULL,
		league    TEXT NOT NULL DEFAULT '',
		continent TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id                 INTEGER PRIMARY KEY,
		date_raw           TEXT NOT NULL,
		match_date         TIMESTAMP,
		home_club_id       INTEGER NOT NULL,
		away_club_id       INTEGER NOT NULL,
		home_goals         INTEGER NOT NULL,
		away_goals         INTEGER NOT NULL,
		source             TEXT NOT NULL,
		home_elo_pre       DOUBLE PRECISION NOT NULL,
		away_elo_pre       DOUBLE PRECISION NOT NULL,
		home_elo_post      DOUBLE PRECISION NOT NULL,
		away_elo_post      DOUBLE PRECISION NOT NULL,
		home_delta         DOUBLE PRECISION NOT NULL,
		away_delta         DOUBLE PRECISION NOT NULL,
		home_overall_pre   DOUBLE PRECISION NOT NULL,
		away_overall_pre   DOUBLE PRECISION NOT NULL,
		home_overall_delta DOUBLE PRECISION NOT NULL,
		away_overall_delta DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ratings_home_away (
		club_id     INTEGER PRIMARY KEY,
		home_elo    DOUBLE PRECISION NOT NULL,
		away_elo    DOUBLE PRECISION NOT NULL,
		overall_elo DOUBLE PRECISION NOT NULL,
		home_games  INTEGER NOT NULL,
		away_games  INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ratings_latest (
		club_id INTEGER PRIMARY KEY,
		as_of   TEXT NOT NULL,
		elo     DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS unmapped_names (
		name        TEXT PRIMARY KEY,
		suggestions TEXT[] NOT NULL
	)`,
}

// Migrate creates the snapshot tables when they do not exist
func (db *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
