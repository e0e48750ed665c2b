// Package rating implements the sequential Elo fold over a match history:
// one overall rating per club plus separate home and away ratings.
package rating

import "math"

// Default model parameters
const (
	DefaultBaseline      = 1800.0
	DefaultK             = 35.0
	DefaultHomeAdvantage = 100.0
	DefaultShrinkageTau  = 30.0
)

// Params holds the Elo model constants
type Params struct {
	Baseline      float64
	K             float64
	HomeAdvantage float64
	ShrinkageTau  float64
}

// DefaultParams returns the standard model constants
func DefaultParams() Params {
	return Params{
		Baseline:      DefaultBaseline,
		K:             DefaultK,
		HomeAdvantage: DefaultHomeAdvantage,
		ShrinkageTau:  DefaultShrinkageTau,
	}
}

// withDefaults fills zero fields with the defaults
func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Baseline == 0 {
		p.Baseline = d.Baseline
	}
	if p.K == 0 {
		p.K = d.K
	}
	if p.ShrinkageTau == 0 {
		p.ShrinkageTau = d.ShrinkageTau
	}
	// HomeAdvantage may legitimately be zero
	return p
}

// Expected returns the expected score of the home side given both ratings
// and an additive home advantage
func Expected(home, away, advantage float64) float64 {
	return 1 / (1 + math.Pow(10, -((home+advantage)-away)/400))
}

// Outcome returns the home side's actual score: 1 win, 0.5 draw, 0 loss
func Outcome(homeGoals, awayGoals int) float64 {
	switch {
	case homeGoals > awayGoals:
		return 1
	case homeGoals == awayGoals:
		return 0.5
	default:
		return 0
	}
}

// MarginMultiplier scales the update by the absolute goal difference
func MarginMultiplier(diff int) float64 {
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 1:
		return 1
	case diff == 2:
		return 1.5
	default:
		return (11 + float64(diff)) / 8
	}
}

// Update is the result of one rating exchange between two sides
type Update struct {
	HomePost  float64
	AwayPost  float64
	HomeDelta float64
	AwayDelta float64
}

// Exchange computes both sides' deltas for one result. The deltas always
// sum to zero since scores and expectations are complements.
func (p Params) Exchange(homePre, awayPre float64, homeGoals, awayGoals int, advantage float64) Update {
	expHome := Expected(homePre, awayPre, advantage)
	expAway := 1 - expHome

	scoreHome := Outcome(homeGoals, awayGoals)
	scoreAway := 1 - scoreHome

	m := MarginMultiplier(homeGoals - awayGoals)

	homeDelta := p.K * m * (scoreHome - expHome)
	awayDelta := p.K * m * (scoreAway - expAway)

	return Update{
		HomePost:  homePre + homeDelta,
		AwayPost:  awayPre + awayDelta,
		HomeDelta: homeDelta,
		AwayDelta: awayDelta,
	}
}

// ShrinkageWeight returns games/(games+tau); zero games give weight 0
func (p Params) ShrinkageWeight(games int) float64 {
	if games <= 0 {
		return 0
	}
	n := float64(games)
	return n / (n + p.ShrinkageTau)
}
