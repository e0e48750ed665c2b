package models

import "time"

// ISODateLayout is the layout used for match dates in snapshots
const ISODateLayout = "2006-01-02T15:04:05"

// Match represents one historical fixture read from a league CSV.
// The Elo fields are filled in by the rating engine.
type Match struct {
	ID         int        `db:"id"`
	DateRaw    string     `db:"date_raw"`
	Date       *time.Time `db:"match_date"`
	HomeClubID int        `db:"home_club_id"`
	AwayClubID int        `db:"away_club_id"`
	HomeGoals  int        `db:"home_goals"`
	AwayGoals  int        `db:"away_goals"`
	Source     string     `db:"source"`

	// Split track: home club's home rating vs away club's away rating
	HomeEloPre  float64 `db:"home_elo_pre"`
	AwayEloPre  float64 `db:"away_elo_pre"`
	HomeEloPost float64 `db:"home_elo_post"`
	AwayEloPost float64 `db:"away_elo_post"`
	HomeDelta   float64 `db:"home_delta"`
	AwayDelta   float64 `db:"away_delta"`

	// Overall track
	HomeOverallPre   float64 `db:"home_overall_pre"`
	AwayOverallPre   float64 `db:"away_overall_pre"`
	HomeOverallDelta float64 `db:"home_overall_delta"`
	AwayOverallDelta float64 `db:"away_overall_delta"`

	// Rated is set once the engine has processed the match
	Rated bool `db:"-"`
}

// DateISO returns the parsed date in ISO-8601 form, or nil when the raw
// date could not be parsed
func (m *Match) DateISO() *string {
	if m.Date == nil {
		return nil
	}
	s := m.Date.Format(ISODateLayout)
	return &s
}
