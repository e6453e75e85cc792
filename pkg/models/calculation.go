package models

import "time"

// DataQuality labels how much of a calculation relied on substituted
// defaults rather than real inputs.
type DataQuality string

const (
	QualityFull    DataQuality = "full"
	QualityPartial DataQuality = "partial"
	QualityMinimal DataQuality = "minimal"
)

// RegressionFlag signals that a team's results diverge materially from
// what its expected-goals performance implies.
type RegressionFlag string

const (
	RegressionOver  RegressionFlag = "overperforming"
	RegressionUnder RegressionFlag = "underperforming"
)

// TeamForm is the per-side form block of a calculation. XGTrend is nil
// when no expected-goals history exists, and the regression flag is only
// set when both signals are available.
type TeamForm struct {
	EMA        float64
	XGTrend    *float64
	Regression *RegressionFlag
}

// MatchCalculation is the versioned record of every quantitative signal
// the engine derives for one match. At most one current record exists per
// (match, model version).
//
// Invariants: the model and fair probability triples each sum to 1 within
// floating-point tolerance; EVHome/EVDraw/EVAway satisfy ev = p*odds - 1;
// BestValueOutcome is set only when at least one EV is positive.
type MatchCalculation struct {
	ID           string
	MatchID      string
	ModelVersion string

	ProbHome float64
	ProbDraw float64
	ProbAway float64

	ExpectedHomeGoals float64
	ExpectedAwayGoals float64

	FairHome  *float64
	FairDraw  *float64
	FairAway  *float64
	MarginPct *float64

	EVHome           *float64
	EVDraw           *float64
	EVAway           *float64
	BestValueOutcome *Outcome

	HomeForm *TeamForm
	AwayForm *TeamForm

	HomeRestDays    *int
	AwayRestDays    *int
	ImportanceScore *float64

	DataQuality  DataQuality
	CalculatedAt time.Time
}

// EV returns the stored expected value for an outcome, or nil when odds
// were unavailable.
func (c *MatchCalculation) EV(o Outcome) *float64 {
	switch o {
	case OutcomeHome:
		return c.EVHome
	case OutcomeDraw:
		return c.EVDraw
	default:
		return c.EVAway
	}
}
