package probability

import (
	"testing"
	"time"

	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/config"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

func calibrationConfig() config.ModelConfig {
	cfg := testModelConfig()
	cfg.CalibrationHalfLife = 30
	cfg.CalibrationMaxMatches = 380
	return cfg
}

func finalizedMatch(home, away string, homeGoals, awayGoals int, kickoff time.Time) models.MatchFacts {
	return models.MatchFacts{
		MatchID:   home + "-" + away + kickoff.Format("20060102"),
		HomeTeam:  home,
		AwayTeam:  away,
		KickoffAt: kickoff,
		Result: &models.MatchResult{
			HomeGoals:  homeGoals,
			AwayGoals:  awayGoals,
			FinishedAt: kickoff.Add(2 * time.Hour),
		},
	}
}

func TestCalibrate_StrongerTeamGetsHigherAttack(t *testing.T) {
	c := NewCalibrator(calibrationConfig())
	start := time.Date(2025, 8, 1, 15, 0, 0, 0, time.UTC)

	// Team A scores heavily, team C concedes heavily.
	matches := []models.MatchFacts{
		finalizedMatch("team-a", "team-b", 3, 0, start),
		finalizedMatch("team-c", "team-a", 0, 4, start.AddDate(0, 0, 7)),
		finalizedMatch("team-b", "team-c", 2, 1, start.AddDate(0, 0, 14)),
	}

	out := c.Calibrate(matches)
	if len(out) != 3 {
		t.Fatalf("expected multipliers for 3 teams, got %d", len(out))
	}

	byTeam := make(map[string]TeamMultipliers, len(out))
	for _, m := range out {
		byTeam[m.TeamID] = m
	}

	if byTeam["team-a"].Attack <= byTeam["team-c"].Attack {
		t.Errorf("team-a attack %.3f should exceed team-c attack %.3f", byTeam["team-a"].Attack, byTeam["team-c"].Attack)
	}
	// Higher defense multiplier means more goals conceded.
	if byTeam["team-c"].Defense <= byTeam["team-a"].Defense {
		t.Errorf("team-c defense %.3f should exceed team-a defense %.3f", byTeam["team-c"].Defense, byTeam["team-a"].Defense)
	}
	if byTeam["team-a"].MatchesPlayed != 2 {
		t.Errorf("team-a matches played = %d, want 2", byTeam["team-a"].MatchesPlayed)
	}
}

func TestCalibrate_SkipsUnfinishedMatches(t *testing.T) {
	c := NewCalibrator(calibrationConfig())
	start := time.Date(2025, 8, 1, 15, 0, 0, 0, time.UTC)

	pending := finalizedMatch("team-a", "team-b", 0, 0, start)
	pending.Result = nil

	out := c.Calibrate([]models.MatchFacts{pending})
	if out != nil {
		t.Errorf("expected no multipliers from unfinished matches, got %d", len(out))
	}
}

func TestCalibrate_MultipliersRespectFloor(t *testing.T) {
	c := NewCalibrator(calibrationConfig())
	start := time.Date(2025, 8, 1, 15, 0, 0, 0, time.UTC)

	// Team B never scores; its attack must still come out at the floor.
	matches := []models.MatchFacts{
		finalizedMatch("team-a", "team-b", 5, 0, start),
		finalizedMatch("team-b", "team-a", 0, 5, start.AddDate(0, 0, 7)),
	}

	out := c.Calibrate(matches)
	byTeam := make(map[string]TeamMultipliers, len(out))
	for _, m := range out {
		byTeam[m.TeamID] = m
	}

	if got := byTeam["team-b"].Attack; got < 0.2 {
		t.Errorf("team-b attack = %.3f, want at least the 0.2 floor", got)
	}
}

func TestCalibrate_OutputSortedByTeam(t *testing.T) {
	c := NewCalibrator(calibrationConfig())
	start := time.Date(2025, 8, 1, 15, 0, 0, 0, time.UTC)

	matches := []models.MatchFacts{
		finalizedMatch("zebra", "alpha", 1, 1, start),
		finalizedMatch("mike", "zebra", 2, 0, start.AddDate(0, 0, 7)),
	}

	out := c.Calibrate(matches)
	for i := 1; i < len(out); i++ {
		if out[i-1].TeamID >= out[i].TeamID {
			t.Fatalf("output not sorted: %s before %s", out[i-1].TeamID, out[i].TeamID)
		}
	}
}
