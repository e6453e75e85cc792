// Package contracts defines the repository interfaces the engine reads
// and writes through, keeping storage technology out of the calculation
// packages.
package contracts

import (
	"context"
	"errors"
	"time"

	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

var (
	// ErrNotFound is returned when no record exists. For calculations this
	// is a valid terminal state, not a failure.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when an optimistic rating write loses
	// a race. Callers re-read and retry.
	ErrVersionConflict = errors.New("rating version conflict")

	// ErrCorruptRating is returned for a malformed stored rating row. This
	// is the one hard-failure category: it indicates a broken invariant,
	// not missing business data, and must propagate to the caller.
	ErrCorruptRating = errors.New("corrupt rating row")
)

// RatingRepository stores one rating row per (team, kind, model version).
type RatingRepository interface {
	// GetSnapshot returns the team's combined rating view, or ErrNotFound
	// for a team never seen under this model version.
	GetSnapshot(ctx context.Context, teamID, modelVersion string) (*models.RatingSnapshot, error)

	// SaveSnapshot writes all three rating rows atomically. The write only
	// succeeds when the stored version still equals snapshot.Version;
	// otherwise ErrVersionConflict is returned. Defaulted snapshots are
	// materialized on first save.
	SaveSnapshot(ctx context.Context, snapshot *models.RatingSnapshot) error
}

// CalculationRepository stores at most one current calculation per
// (match, model version).
type CalculationRepository interface {
	GetLatest(ctx context.Context, matchID, modelVersion string) (*models.MatchCalculation, error)
	Upsert(ctx context.Context, calc *models.MatchCalculation) error
}

// MatchRepository stores the match facts delivered by the sync pipeline.
type MatchRepository interface {
	GetMatch(ctx context.Context, matchID string) (*models.MatchFacts, error)
	UpsertMatch(ctx context.Context, facts *models.MatchFacts) error
	CouponMatches(ctx context.Context, couponID string) ([]models.MatchFacts, error)
}

// OddsRepository returns the freshest quoted odds line for a match, or
// ErrNotFound when the market has not been synced.
type OddsRepository interface {
	LatestOdds(ctx context.Context, matchID string) (*models.OddsLine, error)
	UpsertOdds(ctx context.Context, matchID string, line *models.OddsLine) error
}

// StandingsRepository returns a team's current league-table row, or
// ErrNotFound when standings are unavailable.
type StandingsRepository interface {
	TeamStanding(ctx context.Context, teamID string) (*models.Standing, error)
	UpsertStandings(ctx context.Context, rows []models.Standing) error
}

// HistoryRepository returns a team's chronological recent-match list,
// most recent last, for form and trend computation.
type HistoryRepository interface {
	RecentMatches(ctx context.Context, teamID string, before time.Time, limit int) ([]models.FormMatch, error)
	AppendMatches(ctx context.Context, teamID string, matches []models.FormMatch) error
}
