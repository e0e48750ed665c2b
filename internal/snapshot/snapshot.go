// Package snapshot serializes a rating run into flat output tables.
package snapshot

import (
	"math"
	"time"

	"clubelo/ratings/internal/models"
	"clubelo/ratings/internal/rating"
)

// Output file names
const (
	MatchesFile  = "matches_full.json"
	HomeAwayFile = "ratings_home_away.json"
	LatestFile   = "ratings.json"
	UnmappedFile = "unmapped_names.json"
)

// MatchRecord is one row of the match history output
type MatchRecord struct {
	ID        int     `json:"id"`
	DateRaw   string  `json:"date_raw"`
	Date      *string `json:"date"`
	Home      int     `json:"home"`
	Away      int     `json:"away"`
	HomeGoals int     `json:"homeGoals"`
	AwayGoals int     `json:"awayGoals"`
	Source    string  `json:"source"`

	HomeEloPre  float64 `json:"homeEloPre"`
	AwayEloPre  float64 `json:"awayEloPre"`
	HomeEloPost float64 `json:"homeEloPost"`
	AwayEloPost float64 `json:"awayEloPost"`
	HomeDelta   float64 `json:"homeDelta"`
	AwayDelta   float64 `json:"awayDelta"`

	HomeOverallPre   float64 `json:"homeOverallPre"`
	AwayOverallPre   float64 `json:"awayOverallPre"`
	HomeOverallDelta float64 `json:"homeOverallDelta"`
	AwayOverallDelta float64 `json:"awayOverallDelta"`
}

// Snapshot is the complete, rounded output of one run
type Snapshot struct {
	GeneratedAt time.Time
	Matches     []MatchRecord
	HomeAway    []models.HomeAwayRating
	Latest      []models.LatestRating
	Unmapped    map[string][]string
}

// Round2 rounds a rating to two decimals, half away from zero
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Build assigns sequential 1-based ids to the processed matches and rounds
// every rating. Rounding happens here only, never inside the fold.
func Build(res *rating.Result, diagnostics []models.UnmappedName, now time.Time) *Snapshot {
	snap := &Snapshot{
		GeneratedAt: now.UTC(),
		Matches:     make([]MatchRecord, 0, len(res.Matches)),
		HomeAway:    make([]models.HomeAwayRating, 0, len(res.HomeAway)),
		Latest:      make([]models.LatestRating, 0, len(res.Latest)),
		Unmapped:    make(map[string][]string, len(diagnostics)),
	}

	for i, m := range res.Matches {
		m.ID = i + 1
		snap.Matches = append(snap.Matches, MatchRecord{
			ID:               m.ID,
			DateRaw:          m.DateRaw,
			Date:             m.DateISO(),
			Home:             m.HomeClubID,
			Away:             m.AwayClubID,
			HomeGoals:        m.HomeGoals,
			AwayGoals:        m.AwayGoals,
			Source:           m.Source,
			HomeEloPre:       Round2(m.HomeEloPre),
			AwayEloPre:       Round2(m.AwayEloPre),
			HomeEloPost:      Round2(m.HomeEloPost),
			AwayEloPost:      Round2(m.AwayEloPost),
			HomeDelta:        Round2(m.HomeDelta),
			AwayDelta:        Round2(m.AwayDelta),
			HomeOverallPre:   Round2(m.HomeOverallPre),
			AwayOverallPre:   Round2(m.AwayOverallPre),
			HomeOverallDelta: Round2(m.HomeOverallDelta),
			AwayOverallDelta: Round2(m.AwayOverallDelta),
		})
	}

	for _, r := range res.HomeAway {
		snap.HomeAway = append(snap.HomeAway, models.HomeAwayRating{
			ClubID:     r.ClubID,
			HomeElo:    Round2(r.HomeElo),
			AwayElo:    Round2(r.AwayElo),
			OverallElo: Round2(r.OverallElo),
			HomeGames:  r.HomeGames,
			AwayGames:  r.AwayGames,
		})
	}

	for _, r := range res.Latest {
		snap.Latest = append(snap.Latest, models.LatestRating{
			ClubID: r.ClubID,
			Date:   r.Date,
			Elo:    Round2(r.Elo),
		})
	}

	for _, d := range diagnostics {
		suggestions := d.Suggestions
		if suggestions == nil {
			suggestions = []string{}
		}
		snap.Unmapped[d.Name] = suggestions
	}

	return snap
}

// LastMatchDate returns the raw date of the last match in the history
func (s *Snapshot) LastMatchDate() string {
	if len(s.Matches) == 0 {
		return ""
	}
	return s.Matches[len(s.Matches)-1].DateRaw
}
