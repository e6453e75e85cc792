package models

import "time"

// Outcome is one of the three 1X2 signs on the coupon.
type Outcome string

const (
	OutcomeHome Outcome = "1"
	OutcomeDraw Outcome = "X"
	OutcomeAway Outcome = "2"
)

// MatchFacts is what the sync pipeline knows about a match: the fixture
// itself and, once the match is finished, its final result.
type MatchFacts struct {
	MatchID     string
	CouponID    string
	MatchNumber int // 1-13 position on the Stryktipset coupon
	League      string
	HomeTeam    string
	AwayTeam    string
	KickoffAt   time.Time
	Result      *MatchResult
}

// MatchResult is a finalized score with optional expected goals per side.
type MatchResult struct {
	HomeGoals  int
	AwayGoals  int
	HomeXG     *float64
	AwayXG     *float64
	FinishedAt time.Time
}

// Sign returns the full-time 1X2 sign of the result.
func (r *MatchResult) Sign() Outcome {
	switch {
	case r.HomeGoals > r.AwayGoals:
		return OutcomeHome
	case r.HomeGoals < r.AwayGoals:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// OddsLine is a quoted decimal odds triple with its freshness timestamp.
type OddsLine struct {
	Home     float64
	Draw     float64
	Away     float64
	QuotedAt time.Time
}

// Valid reports whether every quoted price is usable. A single missing or
// non-positive price invalidates the whole line.
func (o *OddsLine) Valid() bool {
	return o != nil && o.Home > 1.0 && o.Draw > 1.0 && o.Away > 1.0
}

// Standing is a team's current league-table row.
type Standing struct {
	TeamID         string
	Position       int
	Played         int
	GamesRemaining int
	Points         int
	LeagueSize     int
}

// FormResult is a match outcome from one team's perspective.
type FormResult string

const (
	FormWin  FormResult = "W"
	FormDraw FormResult = "D"
	FormLoss FormResult = "L"
)

// FormMatch is one entry in a team's chronological recent-match list.
type FormMatch struct {
	PlayedAt  time.Time
	Result    FormResult
	XGFor     *float64
	XGAgainst *float64
}
