package testutil

import (
	"time"

	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

// Kickoff is the fixed match time used across tests so calculations stay
// reproducible.
var Kickoff = time.Date(2025, 12, 6, 15, 0, 0, 0, time.UTC)

// NewTestMatch creates a coupon fixture between two teams.
func NewTestMatch(matchID, homeTeam, awayTeam string, matchNumber int) *models.MatchFacts {
	return &models.MatchFacts{
		MatchID:     matchID,
		CouponID:    "coupon-2025-49",
		MatchNumber: matchNumber,
		League:      "Premier League",
		HomeTeam:    homeTeam,
		AwayTeam:    awayTeam,
		KickoffAt:   Kickoff,
	}
}

// NewTestResult creates a finalized result with expected goals.
func NewTestResult(homeGoals, awayGoals int, homeXG, awayXG float64) *models.MatchResult {
	return &models.MatchResult{
		HomeGoals:  homeGoals,
		AwayGoals:  awayGoals,
		HomeXG:     PtrFloat64(homeXG),
		AwayXG:     PtrFloat64(awayXG),
		FinishedAt: Kickoff.Add(2 * time.Hour),
	}
}

// NewTestOdds creates a quoted decimal odds line.
func NewTestOdds(home, draw, away float64) *models.OddsLine {
	return &models.OddsLine{
		Home:     home,
		Draw:     draw,
		Away:     away,
		QuotedAt: Kickoff.Add(-6 * time.Hour),
	}
}

// NewTestSnapshot creates a stored rating snapshot for a team.
func NewTestSnapshot(teamID string, elo, attack, defense float64, matchesPlayed int) *models.RatingSnapshot {
	last := Kickoff.AddDate(0, 0, -7)
	return &models.RatingSnapshot{
		TeamID:        teamID,
		ModelVersion:  "v1",
		Elo:           elo,
		Attack:        attack,
		Defense:       defense,
		MatchesPlayed: matchesPlayed,
		Confidence:    models.ConfidenceFor(matchesPlayed),
		LastMatchDate: &last,
		Version:       1,
		UpdatedAt:     last,
	}
}

// FormHistory builds a chronological recent-match list from result signs
// ('W', 'D', 'L'), oldest first, spaced a week apart ending a week before
// kickoff. When withXG is true each match carries plausible xG values.
func FormHistory(results string, withXG bool) []models.FormMatch {
	history := make([]models.FormMatch, 0, len(results))
	start := Kickoff.AddDate(0, 0, -7*len(results))
	for i, r := range results {
		m := models.FormMatch{
			PlayedAt: start.AddDate(0, 0, 7*i),
			Result:   models.FormResult(string(r)),
		}
		if withXG {
			switch m.Result {
			case models.FormWin:
				m.XGFor, m.XGAgainst = PtrFloat64(1.8), PtrFloat64(0.9)
			case models.FormDraw:
				m.XGFor, m.XGAgainst = PtrFloat64(1.2), PtrFloat64(1.2)
			default:
				m.XGFor, m.XGAgainst = PtrFloat64(0.8), PtrFloat64(1.7)
			}
		}
		history = append(history, m)
	}
	return history
}

// PtrFloat64 creates a pointer to a float64.
func PtrFloat64(val float64) *float64 {
	return &val
}

// PtrInt creates a pointer to an int.
func PtrInt(val int) *int {
	return &val
}
