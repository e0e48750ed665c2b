package models

import "strings"

// DefaultContinent is assigned to catalog entries that do not carry one
const DefaultContinent = "Europe"

// Club represents a football club in the catalog
type Club struct {
	ID        int    `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	League    string `db:"league" json:"league"`
	Continent string `db:"continent" json:"continent"`
}

// ClubInput is a single entry of the clubs.json catalog
type ClubInput struct {
	ID        *int   `json:"id"`
	Name      string `json:"name"`
	League    string `json:"league"`
	Continent string `json:"continent"`
}

// Valid reports whether the entry has the fields needed to identify a club
func (ci *ClubInput) Valid() bool {
	return ci.ID != nil && strings.TrimSpace(ci.Name) != ""
}

// ToClub converts ClubInput (from the catalog file) to Club model
func (ci *ClubInput) ToClub() *Club {
	club := &Club{
		Name:      strings.TrimSpace(ci.Name),
		League:    strings.TrimSpace(ci.League),
		Continent: strings.TrimSpace(ci.Continent),
	}
	if ci.ID != nil {
		club.ID = *ci.ID
	}
	if club.Continent == "" {
		club.Continent = DefaultContinent
	}
	return club
}
