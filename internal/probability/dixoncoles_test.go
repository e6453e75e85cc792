package probability

import (
	"math"
	"testing"

	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/config"
)

func testModelConfig() config.ModelConfig {
	return config.ModelConfig{
		HomeAdvantage:   1.25,
		Rho:             -0.1,
		MaxGoals:        10,
		MultiplierFloor: 0.2,
	}
}

func TestOutcomes_ProbabilitiesSumToOne(t *testing.T) {
	m := NewModel(testModelConfig())

	multipliers := []float64{0.2, 0.6, 0.8, 1.0, 1.3, 1.8, 2.5}
	for _, ha := range multipliers {
		for _, hd := range multipliers {
			for _, aa := range multipliers {
				for _, ad := range multipliers {
					res := m.Outcomes(ha, hd, aa, ad)
					sum := res.ProbHome + res.ProbDraw + res.ProbAway
					if math.Abs(sum-1.0) > 1e-6 {
						t.Fatalf("Outcomes(%.1f, %.1f, %.1f, %.1f): probabilities sum to %.9f", ha, hd, aa, ad, sum)
					}
				}
			}
		}
	}
}

func TestOutcomes_ExpectedGoals(t *testing.T) {
	m := NewModel(testModelConfig())

	res := m.Outcomes(1.2, 0.9, 0.8, 1.1)
	// lambda_home = home attack * away defense * home advantage
	if want := 1.2 * 1.1 * 1.25; math.Abs(res.LambdaHome-want) > 1e-9 {
		t.Errorf("lambda home = %.6f, want %.6f", res.LambdaHome, want)
	}
	// lambda_away = away attack * home defense
	if want := 0.8 * 0.9; math.Abs(res.LambdaAway-want) > 1e-9 {
		t.Errorf("lambda away = %.6f, want %.6f", res.LambdaAway, want)
	}
}

func TestOutcomes_HomeAdvantageShiftsProbability(t *testing.T) {
	m := NewModel(testModelConfig())

	// Identical teams: home advantage should make the home win more
	// likely than the away win.
	res := m.Outcomes(1.0, 1.0, 1.0, 1.0)
	if res.ProbHome <= res.ProbAway {
		t.Errorf("equal teams: p home %.4f should exceed p away %.4f", res.ProbHome, res.ProbAway)
	}
}

func TestOutcomes_LowScoreCorrectionRaisesDraw(t *testing.T) {
	withTau := testModelConfig()
	noTau := testModelConfig()
	noTau.Rho = 0

	corrected := NewModel(withTau).Outcomes(0.7, 0.7, 0.7, 0.7)
	plain := NewModel(noTau).Outcomes(0.7, 0.7, 0.7, 0.7)

	// Negative rho inflates the 0-0 cell, so a low-scoring fixture's
	// draw probability must exceed the uncorrected Poisson's.
	if corrected.ProbDraw <= plain.ProbDraw {
		t.Errorf("corrected draw %.4f should exceed uncorrected %.4f", corrected.ProbDraw, plain.ProbDraw)
	}
}

func TestOutcomes_FloorsDegenerateMultipliers(t *testing.T) {
	m := NewModel(testModelConfig())

	res := m.Outcomes(0, 1.0, 1.0, 0)
	// Both floored to 0.2: lambda_home = 0.2*0.2*1.25.
	if want := 0.2 * 0.2 * 1.25; math.Abs(res.LambdaHome-want) > 1e-9 {
		t.Errorf("lambda home = %.6f, want floored %.6f", res.LambdaHome, want)
	}
	sum := res.ProbHome + res.ProbDraw + res.ProbAway
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("probabilities sum to %.9f", sum)
	}
}

func TestOutcomes_StrongerAttackWinsMoreOften(t *testing.T) {
	m := NewModel(testModelConfig())

	strong := m.Outcomes(1.8, 0.8, 0.9, 1.0)
	weak := m.Outcomes(0.9, 1.0, 1.8, 0.8)

	if strong.ProbHome <= weak.ProbHome {
		t.Errorf("strong home attack p=%.4f should exceed weak home attack p=%.4f", strong.ProbHome, weak.ProbHome)
	}
}

func TestPoissonProb_MassSumsToOne(t *testing.T) {
	for _, lambda := range []float64{0.3, 1.0, 2.5, 4.0} {
		var sum float64
		for k := 0; k <= 30; k++ {
			sum += poissonProb(lambda, k)
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("lambda %.1f: mass sums to %.12f", lambda, sum)
		}
	}
}

func TestDixonColesTau_AdjustedCells(t *testing.T) {
	rho := -0.1

	cases := []struct {
		home, away int
		want       float64
	}{
		{0, 0, 1 - rho},
		{1, 0, 1 + rho},
		{0, 1, 1 + rho},
		{1, 1, 1 - rho},
		{2, 0, 1.0},
		{0, 2, 1.0},
		{3, 3, 1.0},
	}

	for _, tc := range cases {
		if got := dixonColesTau(tc.home, tc.away, rho); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("tau(%d, %d) = %.4f, want %.4f", tc.home, tc.away, got, tc.want)
		}
	}
}
