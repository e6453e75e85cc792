package market

import (
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

// Value is the model's edge over the market for each outcome.
// BestOutcome is the argmax over positive EVs, nil when no outcome has a
// positive edge. EVs are stored unclipped; the significance threshold in
// the model config is applied only by downstream consumers when deciding
// whether to surface an opportunity.
type Value struct {
	EVHome      float64
	EVDraw      float64
	EVAway      float64
	BestOutcome *models.Outcome
}

// CalculateValue computes ev = p*odds - 1 per outcome from the model's
// probability triple and a quoted odds line. An invalid line yields no
// result.
func CalculateValue(probHome, probDraw, probAway float64, line *models.OddsLine) (Value, bool) {
	if !line.Valid() {
		return Value{}, false
	}

	v := Value{
		EVHome: probHome*line.Home - 1.0,
		EVDraw: probDraw*line.Draw - 1.0,
		EVAway: probAway*line.Away - 1.0,
	}

	best := models.OutcomeHome
	bestEV := v.EVHome
	if v.EVDraw > bestEV {
		best, bestEV = models.OutcomeDraw, v.EVDraw
	}
	if v.EVAway > bestEV {
		best, bestEV = models.OutcomeAway, v.EVAway
	}
	if bestEV > 0 {
		v.BestOutcome = &best
	}

	return v, true
}
