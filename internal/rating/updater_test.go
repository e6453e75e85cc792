package rating

import (
	"context"
	"testing"

	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/testutil"
)

func TestRecordResult_MaterializesUnseenTeams(t *testing.T) {
	repos := testutil.NewFakeRepos()
	u := NewUpdater(NewEngine(testEngineConfig()), repos, "v1")

	facts := testutil.NewTestMatch("match-1", "home", "away", 1)
	facts.Result = testutil.NewTestResult(2, 1, 1.8, 1.0)

	if err := u.RecordResult(context.Background(), facts); err != nil {
		t.Fatalf("RecordResult failed: %v", err)
	}

	home, err := repos.GetSnapshot(context.Background(), "home", "v1")
	if err != nil {
		t.Fatalf("home snapshot missing after update: %v", err)
	}
	if home.MatchesPlayed != 1 {
		t.Errorf("matches played = %d, want 1", home.MatchesPlayed)
	}
	if home.Confidence != models.ConfidenceLow {
		t.Errorf("confidence = %s, want low", home.Confidence)
	}
	if home.Elo <= models.DefaultElo {
		t.Errorf("winner elo = %.2f, should rise above the default", home.Elo)
	}
	if home.Version != 1 {
		t.Errorf("version = %d, want 1 after first persist", home.Version)
	}

	away, err := repos.GetSnapshot(context.Background(), "away", "v1")
	if err != nil {
		t.Fatalf("away snapshot missing after update: %v", err)
	}
	if away.Elo >= models.DefaultElo {
		t.Errorf("loser elo = %.2f, should fall below the default", away.Elo)
	}
}

func TestRecordResult_RetriesOnVersionConflict(t *testing.T) {
	repos := testutil.NewFakeRepos()
	repos.ConflictSaves = 1

	u := NewUpdater(NewEngine(testEngineConfig()), repos, "v1")

	facts := testutil.NewTestMatch("match-1", "home", "away", 1)
	facts.Result = testutil.NewTestResult(1, 1, 1.2, 1.2)

	if err := u.RecordResult(context.Background(), facts); err != nil {
		t.Fatalf("RecordResult should survive one conflict: %v", err)
	}

	if _, err := repos.GetSnapshot(context.Background(), "home", "v1"); err != nil {
		t.Errorf("home snapshot missing after retried save: %v", err)
	}
}

func TestRecordResult_RequiresFinalResult(t *testing.T) {
	repos := testutil.NewFakeRepos()
	u := NewUpdater(NewEngine(testEngineConfig()), repos, "v1")

	facts := testutil.NewTestMatch("match-1", "home", "away", 1)

	if err := u.RecordResult(context.Background(), facts); err == nil {
		t.Fatal("expected an error for a match without a result")
	}
}

func TestRecordResult_AccumulatesAcrossMatches(t *testing.T) {
	repos := testutil.NewFakeRepos()
	u := NewUpdater(NewEngine(testEngineConfig()), repos, "v1")

	for i := 0; i < 5; i++ {
		facts := testutil.NewTestMatch("match", "home", "away", 1)
		facts.Result = testutil.NewTestResult(2, 0, 2.0, 0.7)
		if err := u.RecordResult(context.Background(), facts); err != nil {
			t.Fatalf("match %d: %v", i, err)
		}
	}

	home, err := repos.GetSnapshot(context.Background(), "home", "v1")
	if err != nil {
		t.Fatal(err)
	}
	if home.MatchesPlayed != 5 {
		t.Errorf("matches played = %d, want 5", home.MatchesPlayed)
	}
	if home.Confidence != models.ConfidenceMedium {
		t.Errorf("confidence = %s, want medium at 5 matches", home.Confidence)
	}
	if home.Version != 5 {
		t.Errorf("version = %d, want 5 after five persists", home.Version)
	}
}
