// Package probability implements the Dixon-Coles scoreline model: two
// independent Poisson goal processes with a correction for the
// correlation of low-scoring results.
package probability

import (
	"math"

	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/config"
)

// Model converts two teams' attack/defense multipliers into expected
// goals and 1X2 outcome probabilities. It is pure and safe for
// concurrent use.
type Model struct {
	homeAdvantage   float64
	rho             float64
	maxGoals        int
	multiplierFloor float64
}

// Result is the collapsed output of one scoreline grid evaluation.
type Result struct {
	ProbHome   float64
	ProbDraw   float64
	ProbAway   float64
	LambdaHome float64
	LambdaAway float64
}

// NewModel creates a model from the tunables snapshot.
func NewModel(cfg config.ModelConfig) *Model {
	return &Model{
		homeAdvantage:   cfg.HomeAdvantage,
		rho:             cfg.Rho,
		maxGoals:        cfg.MaxGoals,
		multiplierFloor: cfg.MultiplierFloor,
	}
}

// Outcomes evaluates the full scoreline grid for the given multipliers.
// Goal counts are truncated at maxGoals per side; the residual mass is
// below 1e-6 and is absorbed by renormalization.
func (m *Model) Outcomes(homeAttack, homeDefense, awayAttack, awayDefense float64) Result {
	lambdaHome := m.floor(homeAttack) * m.floor(awayDefense) * m.homeAdvantage
	lambdaAway := m.floor(awayAttack) * m.floor(homeDefense)

	var homeWin, draw, awayWin float64
	for i := 0; i <= m.maxGoals; i++ {
		probI := poissonProb(lambdaHome, i)
		for j := 0; j <= m.maxGoals; j++ {
			cell := probI * poissonProb(lambdaAway, j) * dixonColesTau(i, j, m.rho)
			switch {
			case i > j:
				homeWin += cell
			case i == j:
				draw += cell
			default:
				awayWin += cell
			}
		}
	}

	// Renormalize so the corrected, truncated grid sums to exactly 1.
	total := homeWin + draw + awayWin
	return Result{
		ProbHome:   homeWin / total,
		ProbDraw:   draw / total,
		ProbAway:   awayWin / total,
		LambdaHome: lambdaHome,
		LambdaAway: lambdaAway,
	}
}

// floor clamps a multiplier to avoid degenerate expected goals from a
// corrupt or extreme rating.
func (m *Model) floor(multiplier float64) float64 {
	if multiplier < m.multiplierFloor {
		return m.multiplierFloor
	}
	return multiplier
}

// poissonProb calculates P(X = k) where X ~ Poisson(lambda), in log
// space for numerical stability.
func poissonProb(lambda float64, k int) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1.0
		}
		return 0
	}

	logProb := float64(k)*math.Log(lambda) - lambda - logFactorial(k)
	return math.Exp(logProb)
}

// logFactorial computes log(n!).
func logFactorial(n int) float64 {
	if n <= 1 {
		return 0
	}
	result := 0.0
	for i := 2; i <= n; i++ {
		result += math.Log(float64(i))
	}
	return result
}

// dixonColesTau applies the low-score correction. Only the four cells
// 0-0, 1-0, 0-1 and 1-1 are adjusted; everywhere else tau is 1.
func dixonColesTau(homeGoals, awayGoals int, rho float64) float64 {
	if homeGoals > 1 || awayGoals > 1 {
		return 1.0
	}

	switch {
	case homeGoals == 0 && awayGoals == 0:
		return 1 - rho
	case homeGoals == 0 && awayGoals == 1:
		return 1 + rho
	case homeGoals == 1 && awayGoals == 0:
		return 1 + rho
	case homeGoals == 1 && awayGoals == 1:
		return 1 - rho
	default:
		return 1.0
	}
}
