package market

import (
	"math"
	"testing"

	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

func TestCalculateValue_EVFormula(t *testing.T) {
	// ev_home = 0.45*2.30 - 1 = 0.035
	v, ok := CalculateValue(0.45, 0.30, 0.25, line(2.30, 3.20, 3.60))
	if !ok {
		t.Fatal("expected a value result for a valid line")
	}

	if math.Abs(v.EVHome-0.035) > 1e-9 {
		t.Errorf("ev home = %.6f, want 0.035", v.EVHome)
	}
	if math.Abs(v.EVDraw-(0.30*3.20-1)) > 1e-9 {
		t.Errorf("ev draw = %.6f, want %.6f", v.EVDraw, 0.30*3.20-1)
	}
	if math.Abs(v.EVAway-(0.25*3.60-1)) > 1e-9 {
		t.Errorf("ev away = %.6f, want %.6f", v.EVAway, 0.25*3.60-1)
	}
}

func TestCalculateValue_BestOutcomeIsArgmax(t *testing.T) {
	v, ok := CalculateValue(0.45, 0.30, 0.25, line(2.30, 3.60, 3.60))
	if !ok {
		t.Fatal("expected a value result")
	}

	// ev draw = 0.08 beats ev home = 0.035 and ev away = -0.1.
	if v.BestOutcome == nil {
		t.Fatal("expected a best value outcome")
	}
	if *v.BestOutcome != models.OutcomeDraw {
		t.Errorf("best outcome = %s, want %s", *v.BestOutcome, models.OutcomeDraw)
	}
}

func TestCalculateValue_NoPositiveEdge(t *testing.T) {
	// Every ev is negative against a heavily margined line.
	v, ok := CalculateValue(0.40, 0.30, 0.30, line(2.00, 2.80, 2.80))
	if !ok {
		t.Fatal("expected a value result")
	}
	if v.BestOutcome != nil {
		t.Errorf("best outcome = %v, want nil when no ev is positive", *v.BestOutcome)
	}
}

func TestCalculateValue_InvalidLine(t *testing.T) {
	if _, ok := CalculateValue(0.45, 0.30, 0.25, line(0, 3.20, 3.60)); ok {
		t.Error("expected no result for an invalid line")
	}
}

func TestCalculateValue_EVStoredUnclipped(t *testing.T) {
	// A tiny positive edge below any significance threshold is still
	// stored and still selects the best outcome.
	v, ok := CalculateValue(0.50, 0.25, 0.25, line(2.01, 3.00, 3.00))
	if !ok {
		t.Fatal("expected a value result")
	}
	if math.Abs(v.EVHome-0.005) > 1e-9 {
		t.Errorf("ev home = %.6f, want 0.005", v.EVHome)
	}
	if v.BestOutcome == nil || *v.BestOutcome != models.OutcomeHome {
		t.Errorf("best outcome = %v, want home", v.BestOutcome)
	}
}
