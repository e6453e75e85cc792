// Package matchcontext computes contextual adjustment factors: rest days
// since each team's previous match and a league-position importance
// score.
package matchcontext

import (
	"time"

	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/config"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

// Calculator derives context factors. It is pure and safe for concurrent
// use.
type Calculator struct {
	lookbackDays int
}

// NewCalculator creates a calculator from the tunables snapshot.
func NewCalculator(cfg config.ModelConfig) *Calculator {
	return &Calculator{lookbackDays: cfg.RestDayLookbackDays}
}

// RestDays returns whole days between the match and the team's previous
// match. A previous match outside the lookback window (or none at all)
// yields nil: "insufficient data" is deliberately distinct from a large
// rest count.
func (c *Calculator) RestDays(matchDate time.Time, lastMatchDate *time.Time) *int {
	if lastMatchDate == nil {
		return nil
	}
	if lastMatchDate.After(matchDate) {
		return nil
	}

	days := int(matchDate.Sub(*lastMatchDate).Hours() / 24)
	if days > c.lookbackDays {
		return nil
	}
	return &days
}

// Importance scores how much the match matters for the league table,
// averaged across the two sides. Unavailable standings on one side fall
// back to the other; with neither available the score is nil.
func (c *Calculator) Importance(home, away *models.Standing) *float64 {
	var sum float64
	var n int
	if home != nil {
		sum += sideImportance(home)
		n++
	}
	if away != nil {
		sum += sideImportance(away)
		n++
	}
	if n == 0 {
		return nil
	}
	score := sum / float64(n)
	return &score
}

// sideImportance scores one team's proximity to the title, qualification
// and relegation cut-lines, amplified as the season runs out of games.
func sideImportance(s *models.Standing) float64 {
	if s.LeagueSize < 4 || s.Position < 1 {
		return 0
	}

	// Cut-lines: top of the table, the European qualification boundary,
	// and the relegation zone boundary.
	qualLine := 4
	if qualLine > s.LeagueSize-1 {
		qualLine = s.LeagueSize - 1
	}
	relegationLine := s.LeagueSize - 3
	if relegationLine < qualLine {
		relegationLine = s.LeagueSize - 1
	}

	dist := absInt(s.Position - 1)
	if d := absInt(s.Position - qualLine); d < dist {
		dist = d
	}
	if d := absInt(s.Position - relegationLine); d < dist {
		dist = d
	}

	span := float64(s.LeagueSize) / 4.0
	proximity := 1.0 - float64(dist)/span
	if proximity < 0 {
		proximity = 0
	}

	// A cut-line race matters more with fewer games left to change it.
	total := s.Played + s.GamesRemaining
	progress := 0.0
	if total > 0 {
		progress = float64(s.Played) / float64(total)
	}

	score := proximity * (0.5 + 0.5*progress)
	if score > 1 {
		return 1
	}
	return score
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
