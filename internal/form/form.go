// Package form computes exponentially weighted recent-results scores and
// expected-goals performance trends per team.
package form

import (
	"math"

	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/config"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

// Points values per result for the form EMA.
const (
	pointsWin  = 1.0
	pointsDraw = 0.33
	pointsLoss = 0.0
)

// Engine derives a team's form block from its chronological recent-match
// list, most recent last. It is pure and safe for concurrent use.
type Engine struct {
	alpha         float64
	xgTrendWindow int
	threshold     float64
}

// NewEngine creates a form engine from the tunables snapshot.
func NewEngine(cfg config.ModelConfig) *Engine {
	return &Engine{
		alpha:         cfg.FormAlpha,
		xgTrendWindow: cfg.XGTrendWindow,
		threshold:     cfg.RegressionThreshold,
	}
}

// Compute returns the form block for the given history, or nil when the
// team has no recorded matches. A history without expected-goals data
// still yields the points EMA; the xG trend and regression flag are then
// absent.
func (e *Engine) Compute(history []models.FormMatch) *models.TeamForm {
	if len(history) == 0 {
		return nil
	}

	ema := resultPoints(history[0].Result)
	for _, m := range history[1:] {
		ema = e.alpha*resultPoints(m.Result) + (1-e.alpha)*ema
	}

	f := &models.TeamForm{EMA: ema}

	trend, ok := e.xgTrend(history)
	if !ok {
		return f
	}
	f.XGTrend = &trend

	xgForm := pointsEquivalent(trend)
	if diff := ema - xgForm; math.Abs(diff) > e.threshold {
		flag := models.RegressionUnder
		if diff > 0 {
			flag = models.RegressionOver
		}
		f.Regression = &flag
	}

	return f
}

// xgTrend is the mean xG difference over the trend window. Matches
// missing either xG value are excluded; with no usable matches the trend
// is unavailable.
func (e *Engine) xgTrend(history []models.FormMatch) (float64, bool) {
	start := len(history) - e.xgTrendWindow
	if start < 0 {
		start = 0
	}

	var sum float64
	var n int
	for _, m := range history[start:] {
		if m.XGFor == nil || m.XGAgainst == nil {
			continue
		}
		sum += *m.XGFor - *m.XGAgainst
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// pointsEquivalent maps a per-match xG difference onto the [0,1] points
// scale the EMA lives on. Zero difference sits at 0.5; each goal of
// per-match xG edge moves the equivalent by a quarter point.
func pointsEquivalent(xgTrend float64) float64 {
	v := 0.5 + 0.25*xgTrend
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func resultPoints(r models.FormResult) float64 {
	switch r {
	case models.FormWin:
		return pointsWin
	case models.FormDraw:
		return pointsDraw
	default:
		return pointsLoss
	}
}
