package probability

import (
	"math"
	"sort"

	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/config"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

// Calibrator derives attack/defense multipliers from a historical match
// window. This is the batch/backfill path: recent matches are weighted
// exponentially, with a half-life measured in matches rather than time.
type Calibrator struct {
	halfLife   int
	maxMatches int
	floor      float64
}

// TeamMultipliers is the calibrated output for one team.
type TeamMultipliers struct {
	TeamID        string
	Attack        float64
	Defense       float64
	MatchesPlayed int
}

// NewCalibrator creates a calibrator from the tunables snapshot.
func NewCalibrator(cfg config.ModelConfig) *Calibrator {
	return &Calibrator{
		halfLife:   cfg.CalibrationHalfLife,
		maxMatches: cfg.CalibrationMaxMatches,
		floor:      cfg.MultiplierFloor,
	}
}

// Calibrate computes multipliers for every team appearing in the given
// finalized matches. A team's attack is its decay-weighted goals scored
// relative to the dataset's weighted goals-per-side average; defense is
// the same ratio for goals conceded. Matches without a result are
// skipped.
func (c *Calibrator) Calibrate(matches []models.MatchFacts) []TeamMultipliers {
	finalized := make([]models.MatchFacts, 0, len(matches))
	for _, m := range matches {
		if m.Result != nil {
			finalized = append(finalized, m)
		}
	}
	sort.Slice(finalized, func(i, j int) bool {
		return finalized[i].KickoffAt.Before(finalized[j].KickoffAt)
	})
	if c.maxMatches > 0 && len(finalized) > c.maxMatches {
		finalized = finalized[len(finalized)-c.maxMatches:]
	}
	if len(finalized) == 0 {
		return nil
	}

	type accum struct {
		scoredW   float64
		concededW float64
		weight    float64
		played    int
	}
	teams := make(map[string]*accum)

	get := func(id string) *accum {
		a, ok := teams[id]
		if !ok {
			a = &accum{}
			teams[id] = a
		}
		return a
	}

	// Weight per team counts backwards from that team's most recent match,
	// so a team with a sparse schedule is not penalized by other teams'
	// match volume. First pass indexes each team's matches.
	perTeam := make(map[string][]int)
	for i, m := range finalized {
		perTeam[m.HomeTeam] = append(perTeam[m.HomeTeam], i)
		perTeam[m.AwayTeam] = append(perTeam[m.AwayTeam], i)
	}

	var totalGoalsW, totalWeight float64
	for teamID, idxs := range perTeam {
		a := get(teamID)
		n := len(idxs)
		for pos, idx := range idxs {
			m := finalized[idx]
			age := float64(n - 1 - pos) // 0 for the most recent match
			w := math.Pow(0.5, age/float64(c.halfLife))

			var scored, conceded int
			if m.HomeTeam == teamID {
				scored, conceded = m.Result.HomeGoals, m.Result.AwayGoals
			} else {
				scored, conceded = m.Result.AwayGoals, m.Result.HomeGoals
			}

			a.scoredW += w * float64(scored)
			a.concededW += w * float64(conceded)
			a.weight += w
			a.played++

			totalGoalsW += w * float64(scored)
			totalWeight += w
		}
	}

	if totalWeight == 0 {
		return nil
	}
	avgGoals := totalGoalsW / totalWeight

	out := make([]TeamMultipliers, 0, len(teams))
	for teamID, a := range teams {
		if a.weight == 0 || avgGoals == 0 {
			continue
		}
		attack := (a.scoredW / a.weight) / avgGoals
		defense := (a.concededW / a.weight) / avgGoals
		if attack < c.floor {
			attack = c.floor
		}
		if defense < c.floor {
			defense = c.floor
		}
		out = append(out, TeamMultipliers{
			TeamID:        teamID,
			Attack:        attack,
			Defense:       defense,
			MatchesPlayed: a.played,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out
}
