package rating

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"clubelo/ratings/internal/models"
)

// ErrUnknownClub is returned when a prediction names a club the table does not track
var ErrUnknownClub = errors.New("unknown club")

// Prediction modes
const (
	ModeOverall  = "overall"
	ModeHomeAway = "home_away"
)

// SortMatches orders matches chronologically in place. Undated matches go
// last; equal dates and undated matches keep their input order.
func SortMatches(matches []*models.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].Date, matches[j].Date
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.Before(*b)
	})
}

// Engine folds an ordered match stream into a Table
type Engine struct {
	params Params
}

// NewEngine creates an engine; zero parameters fall back to the defaults
func NewEngine(params Params) *Engine {
	return &Engine{params: params.withDefaults()}
}

// Params returns the engine's model constants
func (e *Engine) Params() Params {
	return e.params
}

// Apply folds a single match into the table and annotates it with the
// pre/post ratings of both tracks
func (e *Engine) Apply(t *Table, m *models.Match) {
	home := t.state(m.HomeClubID)
	away := t.state(m.AwayClubID)

	// Overall track, with home advantage
	overall := e.params.Exchange(home.Overall, away.Overall, m.HomeGoals, m.AwayGoals, e.params.HomeAdvantage)
	m.HomeOverallPre = home.Overall
	m.AwayOverallPre = away.Overall
	m.HomeOverallDelta = overall.HomeDelta
	m.AwayOverallDelta = overall.AwayDelta

	// Split track: home strength vs away strength, no extra advantage
	split := e.params.Exchange(home.Home, away.Away, m.HomeGoals, m.AwayGoals, 0)
	m.HomeEloPre = home.Home
	m.AwayEloPre = away.Away
	m.HomeEloPost = split.HomePost
	m.AwayEloPost = split.AwayPost
	m.HomeDelta = split.HomeDelta
	m.AwayDelta = split.AwayDelta

	home.Overall = overall.HomePost
	away.Overall = overall.AwayPost
	home.Home = split.HomePost
	away.Away = split.AwayPost
	home.HomeGames++
	away.AwayGames++

	m.Rated = true
	t.processed++
	if m.Date != nil {
		d := *m.Date
		t.lastDate = &d
	}
}

// Process sorts the matches chronologically and folds them into the table
// one by one. The returned slice is the processing order; the input slice
// is left untouched.
func (e *Engine) Process(t *Table, matches []*models.Match) []*models.Match {
	ordered := append([]*models.Match(nil), matches...)
	SortMatches(ordered)
	for _, m := range ordered {
		e.Apply(t, m)
	}
	return ordered
}

// blended returns the shrinkage-blended home and away ratings of a state
func (e *Engine) blended(s State) (home, away float64) {
	wh := e.params.ShrinkageWeight(s.HomeGames)
	wa := e.params.ShrinkageWeight(s.AwayGames)
	home = wh*s.Home + (1-wh)*s.Overall
	away = wa*s.Away + (1-wa)*s.Overall
	return home, away
}

// Blend computes the shrinkage-blended rating row of every catalog club.
// Values are not rounded.
func (e *Engine) Blend(t *Table, clubs []models.Club) []models.HomeAwayRating {
	rows := make([]models.HomeAwayRating, 0, len(clubs))
	for _, c := range clubs {
		s := t.Get(c.ID)
		home, away := e.blended(s)
		rows = append(rows, models.HomeAwayRating{
			ClubID:     c.ID,
			HomeElo:    home,
			AwayElo:    away,
			OverallElo: (home + away) / 2,
			HomeGames:  s.HomeGames,
			AwayGames:  s.AwayGames,
		})
	}
	return rows
}

// Latest returns the overall rating of every catalog club as of the last
// processed dated match, or as of now when there is none
func (e *Engine) Latest(t *Table, clubs []models.Club, now time.Time) []models.LatestRating {
	asOf := now.UTC().Format("2006-01-02")
	if last := t.LastDate(); last != nil {
		asOf = last.Format(models.ISODateLayout)
	}

	rows := make([]models.LatestRating, 0, len(clubs))
	for _, c := range clubs {
		rows = append(rows, models.LatestRating{
			ClubID: c.ID,
			Date:   asOf,
			Elo:    t.Get(c.ID).Overall,
		})
	}
	return rows
}

// Predict returns the expected score of a fixture from the current table.
// ModeOverall uses overall ratings plus home advantage; ModeHomeAway uses
// the blended home rating of the home club against the blended away rating
// of the away club.
func (e *Engine) Predict(t *Table, homeID, awayID int, mode string) (*models.Prediction, error) {
	if !t.Has(homeID) {
		return nil, fmt.Errorf("%w: id=%d", ErrUnknownClub, homeID)
	}
	if !t.Has(awayID) {
		return nil, fmt.Errorf("%w: id=%d", ErrUnknownClub, awayID)
	}

	hs, as := t.Get(homeID), t.Get(awayID)
	p := &models.Prediction{HomeClubID: homeID, AwayClubID: awayID}

	switch mode {
	case ModeOverall, "":
		p.Mode = ModeOverall
		p.HomeRating = hs.Overall
		p.AwayRating = as.Overall
		p.HomeWinExpectancy = Expected(hs.Overall, as.Overall, e.params.HomeAdvantage)
	case ModeHomeAway:
		p.Mode = ModeHomeAway
		p.HomeRating, _ = e.blended(hs)
		_, p.AwayRating = e.blended(as)
		p.HomeWinExpectancy = Expected(p.HomeRating, p.AwayRating, 0)
	default:
		return nil, fmt.Errorf("unsupported prediction mode: %s", mode)
	}
	p.AwayWinExpectancy = 1 - p.HomeWinExpectancy

	return p, nil
}

// Result bundles the output of a full run
type Result struct {
	Matches  []*models.Match
	HomeAway []models.HomeAwayRating
	Latest   []models.LatestRating
	Table    *Table
}

// Run computes ratings from scratch: a fresh table at the baseline, the
// chronological fold, then the blended and latest tables. Identical inputs
// give identical results.
func (e *Engine) Run(clubs []models.Club, matches []*models.Match, now time.Time) *Result {
	table := NewTable(clubs, e.params.Baseline)
	ordered := e.Process(table, matches)
	return &Result{
		Matches:  ordered,
		HomeAway: e.Blend(table, clubs),
		Latest:   e.Latest(table, clubs, now),
		Table:    table,
	}
}
