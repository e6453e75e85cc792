// Package rating maintains per-team strength ratings: overall Elo plus
// attack/defense multipliers, updated after every finalized match.
package rating

import (
	"math"
	"time"

	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/config"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

// Engine computes rating updates from finalized results. It is pure; the
// Updater owns persistence and conflict retry.
type Engine struct {
	kBase         float64
	marginWeight  float64
	homeK         float64
	awayK         float64
	learningStep  float64
	floor         float64
	homeAdvantage float64
}

// NewEngine creates an engine from the tunables snapshot.
func NewEngine(cfg config.ModelConfig) *Engine {
	return &Engine{
		kBase:         cfg.EloKBase,
		marginWeight:  cfg.EloMarginWeight,
		homeK:         cfg.EloHomeMultiplier,
		awayK:         cfg.EloAwayMultiplier,
		learningStep:  cfg.RatingLearningStep,
		floor:         cfg.MultiplierFloor,
		homeAdvantage: cfg.HomeAdvantage,
	}
}

// ApplyResult returns both teams' post-match snapshots. Updates are
// applied independently per side (not zero-sum): each side uses its own
// expected score and its own K. Missing expected-goals skip the
// attack/defense blend but never block the Elo update.
func (e *Engine) ApplyResult(home, away *models.RatingSnapshot, result *models.MatchResult, matchDate time.Time) (*models.RatingSnapshot, *models.RatingSnapshot) {
	newHome := *home
	newAway := *away

	actualHome, actualAway := actualScores(result)
	margin := math.Abs(float64(result.HomeGoals - result.AwayGoals))

	expHome := expectedScore(home.Elo, away.Elo)
	expAway := expectedScore(away.Elo, home.Elo)

	kHome := e.kBase * (1 + margin*e.marginWeight) * e.homeK
	kAway := e.kBase * (1 + margin*e.marginWeight) * e.awayK

	newHome.Elo = home.Elo + kHome*(actualHome-expHome)
	newAway.Elo = away.Elo + kAway*(actualAway-expAway)

	if result.HomeXG != nil && result.AwayXG != nil {
		// Expected goals per side under the pre-match multipliers.
		expHomeXG := home.Attack * away.Defense * e.homeAdvantage
		expAwayXG := away.Attack * home.Defense

		newHome.Attack = e.blend(home.Attack, *result.HomeXG-expHomeXG)
		newHome.Defense = e.blend(home.Defense, *result.AwayXG-expAwayXG)
		newAway.Attack = e.blend(away.Attack, *result.AwayXG-expAwayXG)
		newAway.Defense = e.blend(away.Defense, *result.HomeXG-expHomeXG)
	}

	for _, s := range []*models.RatingSnapshot{&newHome, &newAway} {
		s.MatchesPlayed++
		s.Confidence = models.ConfidenceFor(s.MatchesPlayed)
		d := matchDate
		s.LastMatchDate = &d
		s.Defaulted = false
	}

	return &newHome, &newAway
}

// blend folds an xG delta into a stored multiplier with the small
// learning step, floored to keep expected goals away from zero.
func (e *Engine) blend(current, delta float64) float64 {
	v := current + e.learningStep*delta
	if v < e.floor {
		return e.floor
	}
	return v
}

// expectedScore is the classic Elo expectation for a team against an
// opponent.
func expectedScore(team, opponent float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (opponent-team)/400.0))
}

func actualScores(r *models.MatchResult) (float64, float64) {
	switch r.Sign() {
	case models.OutcomeHome:
		return 1.0, 0.0
	case models.OutcomeAway:
		return 0.0, 1.0
	default:
		return 0.5, 0.5
	}
}
