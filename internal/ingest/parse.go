package ingest

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order. Day-first layouts come before the
// month-first fallbacks so "03/04/2020" reads as 3 April.
var dateLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2006-1-2",
	"2-1-2006",
	"2/1/2006 15:04",
	"2006/1/2",
	"1/2/2006",
	"1/2/06",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04Z07:00",
}

// ParseDate parses a raw match date. It returns nil when no layout matches.
func ParseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseGoals parses a goal count as a base-10 integer. Missing, non-numeric
// or negative values count as 0 so the fixture itself is kept.
func ParseGoals(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
