package models

import "time"

// RatingKind identifies one of the three per-team rating scalars.
type RatingKind string

const (
	RatingElo     RatingKind = "elo"
	RatingAttack  RatingKind = "attack"
	RatingDefense RatingKind = "defense"
)

// Confidence is a coarse label derived from how many matches back a rating.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Default rating values for a team that has never been seen.
const (
	DefaultElo     = 1500.0
	DefaultAttack  = 1.0
	DefaultDefense = 1.0
)

// TeamRating is one stored rating row, keyed by (team, kind, model version).
type TeamRating struct {
	TeamID        string
	Kind          RatingKind
	ModelVersion  string
	Value         float64
	MatchesPlayed int
	Confidence    Confidence
	LastMatchDate *time.Time
	UpdatedAt     time.Time
}

// RatingSnapshot is the combined view of a team's three rating rows, as
// read and written in one round-trip. Version is the optimistic-locking
// counter shared by the rows; Defaulted marks a snapshot that was lazily
// materialized because the team has no stored ratings yet.
type RatingSnapshot struct {
	TeamID        string
	ModelVersion  string
	Elo           float64
	Attack        float64
	Defense       float64
	MatchesPlayed int
	Confidence    Confidence
	LastMatchDate *time.Time
	Version       int64
	UpdatedAt     time.Time
	Defaulted     bool
}

// DefaultSnapshot returns the lazily materialized rating for an unseen team.
func DefaultSnapshot(teamID, modelVersion string) *RatingSnapshot {
	return &RatingSnapshot{
		TeamID:        teamID,
		ModelVersion:  modelVersion,
		Elo:           DefaultElo,
		Attack:        DefaultAttack,
		Defense:       DefaultDefense,
		MatchesPlayed: 0,
		Confidence:    ConfidenceLow,
		Defaulted:     true,
	}
}

// ConfidenceFor derives the confidence band from a matches-played count.
// Boundaries are exact: 4 is low, 5 is medium, 14 is medium, 15 is high.
func ConfidenceFor(matchesPlayed int) Confidence {
	switch {
	case matchesPlayed < 5:
		return ConfidenceLow
	case matchesPlayed < 15:
		return ConfidenceMedium
	default:
		return ConfidenceHigh
	}
}

// Rows explodes the snapshot into its three stored rows.
func (s *RatingSnapshot) Rows() []TeamRating {
	return []TeamRating{
		{TeamID: s.TeamID, Kind: RatingElo, ModelVersion: s.ModelVersion, Value: s.Elo, MatchesPlayed: s.MatchesPlayed, Confidence: s.Confidence, LastMatchDate: s.LastMatchDate, UpdatedAt: s.UpdatedAt},
		{TeamID: s.TeamID, Kind: RatingAttack, ModelVersion: s.ModelVersion, Value: s.Attack, MatchesPlayed: s.MatchesPlayed, Confidence: s.Confidence, LastMatchDate: s.LastMatchDate, UpdatedAt: s.UpdatedAt},
		{TeamID: s.TeamID, Kind: RatingDefense, ModelVersion: s.ModelVersion, Value: s.Defense, MatchesPlayed: s.MatchesPlayed, Confidence: s.Confidence, LastMatchDate: s.LastMatchDate, UpdatedAt: s.UpdatedAt},
	}
}
