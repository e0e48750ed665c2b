package ingest

import "strings"

// Field is a logical column of a league CSV
type Field string

const (
	FieldDate      Field = "date"
	FieldHome      Field = "home"
	FieldAway      Field = "away"
	FieldHomeGoals Field = "home_goals"
	FieldAwayGoals Field = "away_goals"
)

// aliases lists the accepted header names per field, in lookup order
var aliases = map[Field][]string{
	FieldDate:      {"Date", "date"},
	FieldHome:      {"HomeTeam", "Home", "home"},
	FieldAway:      {"AwayTeam", "Away", "away"},
	FieldHomeGoals: {"FTHG", "HomeGoals"},
	FieldAwayGoals: {"FTAG", "AwayGoals"},
}

// Aliases returns the header names accepted for a field
func Aliases(f Field) []string {
	return append([]string(nil), aliases[f]...)
}

// Row is one CSV record keyed by header name
type Row map[string]string

// Get returns the value of the first alias of f that is present and
// non-empty in the row
func (r Row) Get(f Field) string {
	for _, name := range aliases[f] {
		if v := strings.TrimSpace(r[name]); v != "" {
			return v
		}
	}
	return ""
}
