package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/contracts"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

// FakeRepos is an in-memory implementation of every repository contract,
// mirroring the store's optimistic-locking semantics.
type FakeRepos struct {
	mu sync.Mutex

	Snapshots map[string]*models.RatingSnapshot
	Calcs     map[string]*models.MatchCalculation
	Matches   map[string]*models.MatchFacts
	Odds      map[string]*models.OddsLine
	Standings map[string]*models.Standing
	History   map[string][]models.FormMatch

	// ConflictSaves forces that many SaveSnapshot calls to fail with a
	// version conflict before succeeding.
	ConflictSaves int
}

// NewFakeRepos creates empty fake repositories.
func NewFakeRepos() *FakeRepos {
	return &FakeRepos{
		Snapshots: make(map[string]*models.RatingSnapshot),
		Calcs:     make(map[string]*models.MatchCalculation),
		Matches:   make(map[string]*models.MatchFacts),
		Odds:      make(map[string]*models.OddsLine),
		Standings: make(map[string]*models.Standing),
		History:   make(map[string][]models.FormMatch),
	}
}

func ratingKey(teamID, modelVersion string) string {
	return teamID + "|" + modelVersion
}

func calcKey(matchID, modelVersion string) string {
	return matchID + "|" + modelVersion
}

func (f *FakeRepos) GetSnapshot(_ context.Context, teamID, modelVersion string) (*models.RatingSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.Snapshots[ratingKey(teamID, modelVersion)]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *FakeRepos) SaveSnapshot(_ context.Context, snap *models.RatingSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ConflictSaves > 0 {
		f.ConflictSaves--
		return contracts.ErrVersionConflict
	}

	key := ratingKey(snap.TeamID, snap.ModelVersion)
	existing, ok := f.Snapshots[key]
	if ok && existing.Version != snap.Version {
		return contracts.ErrVersionConflict
	}
	if !ok && snap.Version != 0 {
		return contracts.ErrVersionConflict
	}

	cp := *snap
	cp.Version = snap.Version + 1
	cp.UpdatedAt = time.Now().UTC()
	cp.Defaulted = false
	f.Snapshots[key] = &cp
	return nil
}

func (f *FakeRepos) GetLatest(_ context.Context, matchID, modelVersion string) (*models.MatchCalculation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.Calcs[calcKey(matchID, modelVersion)]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *FakeRepos) Upsert(_ context.Context, calc *models.MatchCalculation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *calc
	f.Calcs[calcKey(calc.MatchID, calc.ModelVersion)] = &cp
	return nil
}

func (f *FakeRepos) GetMatch(_ context.Context, matchID string) (*models.MatchFacts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.Matches[matchID]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *FakeRepos) UpsertMatch(_ context.Context, facts *models.MatchFacts) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *facts
	f.Matches[facts.MatchID] = &cp
	return nil
}

func (f *FakeRepos) CouponMatches(_ context.Context, couponID string) ([]models.MatchFacts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.MatchFacts
	for _, m := range f.Matches {
		if m.CouponID == couponID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *FakeRepos) LatestOdds(_ context.Context, matchID string) (*models.OddsLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	o, ok := f.Odds[matchID]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *FakeRepos) UpsertOdds(_ context.Context, matchID string, line *models.OddsLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *line
	f.Odds[matchID] = &cp
	return nil
}

func (f *FakeRepos) TeamStanding(_ context.Context, teamID string) (*models.Standing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.Standings[teamID]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *FakeRepos) UpsertStandings(_ context.Context, rows []models.Standing) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range rows {
		cp := s
		f.Standings[s.TeamID] = &cp
	}
	return nil
}

func (f *FakeRepos) RecentMatches(_ context.Context, teamID string, before time.Time, limit int) ([]models.FormMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.FormMatch
	for _, m := range f.History[teamID] {
		if m.PlayedAt.Before(before) {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *FakeRepos) AppendMatches(_ context.Context, teamID string, matches []models.FormMatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.History[teamID] = append(f.History[teamID], matches...)
	return nil
}
