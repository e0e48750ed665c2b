package models

// HomeAwayRating is the shrinkage-blended rating row for one club
type HomeAwayRating struct {
	ClubID     int     `db:"club_id" json:"clubId"`
	HomeElo    float64 `db:"home_elo" json:"homeElo"`
	AwayElo    float64 `db:"away_elo" json:"awayElo"`
	OverallElo float64 `db:"overall_elo" json:"overallElo"`
	HomeGames  int     `db:"home_games" json:"homeGames"`
	AwayGames  int     `db:"away_games" json:"awayGames"`
}

// LatestRating is the flat latest overall rating of one club.
// Date is empty when no as-of date is known.
type LatestRating struct {
	ClubID int     `db:"club_id" json:"clubId"`
	Date   string  `db:"as_of" json:"date"`
	Elo    float64 `db:"elo" json:"elo"`
}

// UnmappedName is a source team name that could not be resolved to a club,
// with advisory suggestions among the known normalized club names
type UnmappedName struct {
	Name        string   `db:"name" json:"name"`
	Suggestions []string `db:"suggestions" json:"suggestions"`
}
