// Package market derives market-implied signals from quoted bookmaker
// odds: margin-free fair probabilities and expected value per outcome.
package market

import (
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

// FairOdds is a margin-free probability triple with the overround that
// was stripped to produce it.
type FairOdds struct {
	Home      float64
	Draw      float64
	Away      float64
	MarginPct float64
}

// RemoveVig converts a three-way decimal odds line to fair probabilities
// by stripping the bookmaker's overround with the equal-margin method.
// The fair triple sums to exactly 1 by construction.
//
// An invalid line (any price missing or at/below 1.0) yields no result at
// all rather than a partially computed one; the caller withholds every
// odds-dependent field for the match.
func RemoveVig(line *models.OddsLine) (FairOdds, bool) {
	if !line.Valid() {
		return FairOdds{}, false
	}

	rawHome := 1.0 / line.Home
	rawDraw := 1.0 / line.Draw
	rawAway := 1.0 / line.Away
	total := rawHome + rawDraw + rawAway

	return FairOdds{
		Home:      rawHome / total,
		Draw:      rawDraw / total,
		Away:      rawAway / total,
		MarginPct: (total - 1.0) * 100.0,
	}, true
}
