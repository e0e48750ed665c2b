package models

// Prediction holds the rating-based expectation for a fixture between two clubs
type Prediction struct {
	HomeClubID int    `json:"homeClubId"`
	AwayClubID int    `json:"awayClubId"`
	Mode       string `json:"mode"`

	HomeRating float64 `json:"homeRating"`
	AwayRating float64 `json:"awayRating"`

	// Expected score in [0, 1]; draws count as half a point
	HomeWinExpectancy float64 `json:"homeWinExpectancy"`
	AwayWinExpectancy float64 `json:"awayWinExpectancy"`
}

// Favourite returns the id of the club with the higher expectancy, or 0 when level
func (p *Prediction) Favourite() int {
	switch {
	case p.HomeWinExpectancy > p.AwayWinExpectancy:
		return p.HomeClubID
	case p.AwayWinExpectancy > p.HomeWinExpectancy:
		return p.AwayClubID
	default:
		return 0
	}
}
