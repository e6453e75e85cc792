package rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/logger"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/contracts"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

const maxSaveRetries = 3

// Updater applies finalized results to the rating store. Concurrent
// updates touching the same team are serialized at the repository
// boundary: each save carries the version it read, and a conflict
// triggers a re-read and recompute of that side only.
type Updater struct {
	engine       *Engine
	ratings      contracts.RatingRepository
	modelVersion string
}

// NewUpdater creates an updater writing through the given repository.
func NewUpdater(engine *Engine, ratings contracts.RatingRepository, modelVersion string) *Updater {
	return &Updater{engine: engine, ratings: ratings, modelVersion: modelVersion}
}

// RecordResult updates both teams' ratings from a finalized match.
// Unseen teams are lazily materialized at the defaults and persisted on
// first write.
func (u *Updater) RecordResult(ctx context.Context, facts *models.MatchFacts) error {
	if facts.Result == nil {
		return fmt.Errorf("match %s has no final result", facts.MatchID)
	}

	home, err := u.snapshot(ctx, facts.HomeTeam)
	if err != nil {
		return err
	}
	away, err := u.snapshot(ctx, facts.AwayTeam)
	if err != nil {
		return err
	}

	newHome, newAway := u.engine.ApplyResult(home, away, facts.Result, facts.KickoffAt)

	if err := u.saveSide(ctx, newHome, away, facts, true); err != nil {
		return fmt.Errorf("save home ratings: %w", err)
	}
	if err := u.saveSide(ctx, newAway, home, facts, false); err != nil {
		return fmt.Errorf("save away ratings: %w", err)
	}

	return nil
}

// saveSide persists one side's updated snapshot. On a version conflict
// the side is re-read and its update recomputed against the opponent's
// pre-match snapshot; whatever rating state the retry observes is an
// acceptable read per the engine's eventual-propagation discipline.
func (u *Updater) saveSide(ctx context.Context, updated, opponentBefore *models.RatingSnapshot, facts *models.MatchFacts, isHome bool) error {
	var err error
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		err = u.ratings.SaveSnapshot(ctx, updated)
		if err == nil {
			return nil
		}
		if !errors.Is(err, contracts.ErrVersionConflict) {
			return err
		}

		logger.Warn("rating version conflict for %s (attempt %d), retrying", updated.TeamID, attempt+1)

		fresh, readErr := u.snapshot(ctx, updated.TeamID)
		if readErr != nil {
			return readErr
		}
		if isHome {
			updated, _ = u.engine.ApplyResult(fresh, opponentBefore, facts.Result, facts.KickoffAt)
		} else {
			_, updated = u.engine.ApplyResult(opponentBefore, fresh, facts.Result, facts.KickoffAt)
		}
	}
	return err
}

// snapshot reads a team's ratings, lazily materializing the defaults for
// a team never seen under this model version.
func (u *Updater) snapshot(ctx context.Context, teamID string) (*models.RatingSnapshot, error) {
	s, err := u.ratings.GetSnapshot(ctx, teamID, u.modelVersion)
	if errors.Is(err, contracts.ErrNotFound) {
		return models.DefaultSnapshot(teamID, u.modelVersion), nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
