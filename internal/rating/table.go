package rating

import (
	"sort"
	"time"

	"clubelo/ratings/internal/models"
)

// State is the current rating state of one club
type State struct {
	Overall   float64
	Home      float64
	Away      float64
	HomeGames int
	AwayGames int
}

// Games returns the total number of rated matches
func (s State) Games() int {
	return s.HomeGames + s.AwayGames
}

// Table is the caller-owned rating state of every club, keyed by club id.
// It is mutated only by Engine and is not safe for concurrent use.
type Table struct {
	baseline  float64
	states    map[int]*State
	lastDate  *time.Time
	processed int
}

// NewTable creates a table with every catalog club at the baseline
func NewTable(clubs []models.Club, baseline float64) *Table {
	t := &Table{
		baseline: baseline,
		states:   make(map[int]*State, len(clubs)),
	}
	for _, c := range clubs {
		t.state(c.ID)
	}
	return t
}

func (t *Table) state(clubID int) *State {
	s, ok := t.states[clubID]
	if !ok {
		s = &State{Overall: t.baseline, Home: t.baseline, Away: t.baseline}
		t.states[clubID] = s
	}
	return s
}

// Get returns a copy of a club's state. Unknown clubs sit at the baseline.
func (t *Table) Get(clubID int) State {
	if s, ok := t.states[clubID]; ok {
		return *s
	}
	return State{Overall: t.baseline, Home: t.baseline, Away: t.baseline}
}

// Has reports whether the club is tracked by the table
func (t *Table) Has(clubID int) bool {
	_, ok := t.states[clubID]
	return ok
}

// ClubIDs returns the tracked club ids in ascending order
func (t *Table) ClubIDs() []int {
	ids := make([]int, 0, len(t.states))
	for id := range t.states {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// LastDate returns the date of the last processed dated match, if any
func (t *Table) LastDate() *time.Time {
	return t.lastDate
}

// Processed returns the number of matches folded into the table
func (t *Table) Processed() int {
	return t.processed
}

// Baseline returns the initial rating of every track
func (t *Table) Baseline() float64 {
	return t.baseline
}
