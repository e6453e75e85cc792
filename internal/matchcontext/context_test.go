package matchcontext

import (
	"testing"
	"time"

	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/config"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

func testCalculator() *Calculator {
	return NewCalculator(config.ModelConfig{RestDayLookbackDays: 90})
}

func TestRestDays(t *testing.T) {
	c := testCalculator()
	matchDate := time.Date(2025, 12, 6, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		daysAgo  int
		wantNil  bool
		wantDays int
	}{
		{"recent match", 7, false, 7},
		{"just inside lookback", 89, false, 89},
		{"at lookback boundary", 90, false, 90},
		{"outside lookback", 91, true, 0},
		{"far outside lookback", 200, true, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			last := matchDate.AddDate(0, 0, -tc.daysAgo)
			got := c.RestDays(matchDate, &last)
			if tc.wantNil {
				if got != nil {
					t.Errorf("rest days = %d, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Fatal("rest days = nil, want a value")
			}
			if *got != tc.wantDays {
				t.Errorf("rest days = %d, want %d", *got, tc.wantDays)
			}
		})
	}
}

func TestRestDays_NoPreviousMatch(t *testing.T) {
	c := testCalculator()
	matchDate := time.Date(2025, 12, 6, 15, 0, 0, 0, time.UTC)

	if got := c.RestDays(matchDate, nil); got != nil {
		t.Errorf("rest days = %d, want nil without a previous match", *got)
	}
}

func TestRestDays_FutureLastMatch(t *testing.T) {
	c := testCalculator()
	matchDate := time.Date(2025, 12, 6, 15, 0, 0, 0, time.UTC)
	future := matchDate.AddDate(0, 0, 3)

	if got := c.RestDays(matchDate, &future); got != nil {
		t.Errorf("rest days = %d, want nil for a last match after kickoff", *got)
	}
}

func standing(position, played, remaining, leagueSize int) *models.Standing {
	return &models.Standing{
		Position:       position,
		Played:         played,
		GamesRemaining: remaining,
		LeagueSize:     leagueSize,
	}
}

func TestImportance_NoStandings(t *testing.T) {
	if got := testCalculator().Importance(nil, nil); got != nil {
		t.Errorf("importance = %.3f, want nil without standings", *got)
	}
}

func TestImportance_WithinBounds(t *testing.T) {
	c := testCalculator()

	for pos := 1; pos <= 20; pos++ {
		got := c.Importance(standing(pos, 20, 18, 20), standing(21-pos, 20, 18, 20))
		if got == nil {
			t.Fatalf("position %d: importance = nil", pos)
		}
		if *got < 0 || *got > 1 {
			t.Errorf("position %d: importance = %.3f, outside [0,1]", pos, *got)
		}
	}
}

func TestImportance_TitleRaceBeatsMidTable(t *testing.T) {
	c := testCalculator()

	leader := c.Importance(standing(1, 30, 8, 20), nil)
	midTable := c.Importance(standing(10, 30, 8, 20), nil)

	if leader == nil || midTable == nil {
		t.Fatal("expected importance scores for both")
	}
	if *leader <= *midTable {
		t.Errorf("title race %.3f should exceed mid-table %.3f", *leader, *midTable)
	}
}

func TestImportance_RelegationBattleScoresHigh(t *testing.T) {
	c := testCalculator()

	relegation := c.Importance(standing(18, 30, 8, 20), nil)
	midTable := c.Importance(standing(10, 30, 8, 20), nil)

	if *relegation <= *midTable {
		t.Errorf("relegation battle %.3f should exceed mid-table %.3f", *relegation, *midTable)
	}
}

func TestImportance_LateSeasonAmplifies(t *testing.T) {
	c := testCalculator()

	early := c.Importance(standing(1, 2, 36, 20), nil)
	late := c.Importance(standing(1, 36, 2, 20), nil)

	if *late <= *early {
		t.Errorf("late-season race %.3f should exceed early-season %.3f", *late, *early)
	}
}

func TestImportance_OneSideMissing(t *testing.T) {
	c := testCalculator()

	both := c.Importance(standing(1, 30, 8, 20), standing(10, 30, 8, 20))
	homeOnly := c.Importance(standing(1, 30, 8, 20), nil)

	if both == nil || homeOnly == nil {
		t.Fatal("expected importance scores")
	}
	// With only the contending side available the average is not diluted.
	if *homeOnly <= *both {
		t.Errorf("single-side score %.3f should exceed averaged %.3f", *homeOnly, *both)
	}
}
