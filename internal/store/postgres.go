// Package store implements the repository contracts on Postgres, with a
// Redis write-through cache and result stream alongside.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/contracts"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

// Store wraps a Postgres connection and implements every repository
// contract the engine reads and writes.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS team_ratings (
			team_id         TEXT NOT NULL,
			kind            TEXT NOT NULL,
			model_version   TEXT NOT NULL,
			value           DOUBLE PRECISION NOT NULL,
			matches_played  INT NOT NULL DEFAULT 0,
			confidence      TEXT NOT NULL,
			last_match_date TIMESTAMPTZ,
			version         BIGINT NOT NULL DEFAULT 1,
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (team_id, kind, model_version)
		)`,
		`CREATE TABLE IF NOT EXISTS matches (
			match_id     TEXT PRIMARY KEY,
			coupon_id    TEXT NOT NULL,
			match_number INT NOT NULL,
			league       TEXT NOT NULL DEFAULT '',
			home_team    TEXT NOT NULL,
			away_team    TEXT NOT NULL,
			kickoff_at   TIMESTAMPTZ NOT NULL,
			home_goals   INT,
			away_goals   INT,
			home_xg      DOUBLE PRECISION,
			away_xg      DOUBLE PRECISION,
			finished_at  TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS match_odds (
			match_id  TEXT PRIMARY KEY,
			home      DOUBLE PRECISION NOT NULL,
			draw      DOUBLE PRECISION NOT NULL,
			away      DOUBLE PRECISION NOT NULL,
			quoted_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS standings (
			team_id         TEXT PRIMARY KEY,
			position        INT NOT NULL,
			played          INT NOT NULL,
			games_remaining INT NOT NULL,
			points          INT NOT NULL,
			league_size     INT NOT NULL,
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS team_history (
			id         BIGSERIAL PRIMARY KEY,
			team_id    TEXT NOT NULL,
			played_at  TIMESTAMPTZ NOT NULL,
			result     TEXT NOT NULL,
			xg_for     DOUBLE PRECISION,
			xg_against DOUBLE PRECISION
		)`,
		`CREATE INDEX IF NOT EXISTS team_history_team_played_idx
			ON team_history (team_id, played_at)`,
		`CREATE TABLE IF NOT EXISTS match_calculations (
			match_id            TEXT NOT NULL,
			model_version       TEXT NOT NULL,
			id                  TEXT NOT NULL,
			prob_home           DOUBLE PRECISION NOT NULL,
			prob_draw           DOUBLE PRECISION NOT NULL,
			prob_away           DOUBLE PRECISION NOT NULL,
			expected_home_goals DOUBLE PRECISION NOT NULL,
			expected_away_goals DOUBLE PRECISION NOT NULL,
			fair_home           DOUBLE PRECISION,
			fair_draw           DOUBLE PRECISION,
			fair_away           DOUBLE PRECISION,
			margin_pct          DOUBLE PRECISION,
			ev_home             DOUBLE PRECISION,
			ev_draw             DOUBLE PRECISION,
			ev_away             DOUBLE PRECISION,
			best_value_outcome  TEXT,
			home_form_ema       DOUBLE PRECISION,
			home_xg_trend       DOUBLE PRECISION,
			home_regression     TEXT,
			away_form_ema       DOUBLE PRECISION,
			away_xg_trend       DOUBLE PRECISION,
			away_regression     TEXT,
			home_rest_days      INT,
			away_rest_days      INT,
			importance_score    DOUBLE PRECISION,
			data_quality        TEXT NOT NULL,
			calculated_at       TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (match_id, model_version)
		)`,
	}

	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// GetSnapshot reads a team's three rating rows and folds them into one
// view. Zero rows is ErrNotFound; any other row count, or an unknown
// kind, is a corrupted invariant and returns ErrCorruptRating.
func (s *Store) GetSnapshot(ctx context.Context, teamID, modelVersion string) (*models.RatingSnapshot, error) {
	query := `
		SELECT kind, value, matches_played, confidence, last_match_date, version, updated_at
		FROM team_ratings
		WHERE team_id = $1 AND model_version = $2
	`

	rows, err := s.db.QueryContext(ctx, query, teamID, modelVersion)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	snap := &models.RatingSnapshot{TeamID: teamID, ModelVersion: modelVersion}
	count := 0
	for rows.Next() {
		var kind, confidence string
		var value float64
		var matchesPlayed int
		var lastMatch sql.NullTime
		var version int64
		var updatedAt time.Time

		if err := rows.Scan(&kind, &value, &matchesPlayed, &confidence, &lastMatch, &version, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan rating row: %w", err)
		}

		switch models.RatingKind(kind) {
		case models.RatingElo:
			snap.Elo = value
		case models.RatingAttack:
			snap.Attack = value
		case models.RatingDefense:
			snap.Defense = value
		default:
			return nil, fmt.Errorf("team %s kind %q: %w", teamID, kind, contracts.ErrCorruptRating)
		}

		snap.MatchesPlayed = matchesPlayed
		snap.Confidence = models.Confidence(confidence)
		if lastMatch.Valid {
			t := lastMatch.Time
			snap.LastMatchDate = &t
		}
		snap.Version = version
		snap.UpdatedAt = updatedAt
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rating rows: %w", err)
	}

	if count == 0 {
		return nil, contracts.ErrNotFound
	}
	if count != 3 {
		return nil, fmt.Errorf("team %s has %d rating rows: %w", teamID, count, contracts.ErrCorruptRating)
	}
	return snap, nil
}

// SaveSnapshot writes the three rating rows atomically with an
// optimistic version check. A snapshot read at version 0 (never stored)
// inserts fresh rows; losing either race returns ErrVersionConflict.
func (s *Store) SaveSnapshot(ctx context.Context, snap *models.RatingSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	rowsForKinds := snap.Rows()
	kinds := make([]string, len(rowsForKinds))
	values := make([]float64, len(rowsForKinds))
	for i, r := range rowsForKinds {
		kinds[i] = string(r.Kind)
		values[i] = r.Value
	}

	if snap.Version == 0 {
		query := `
			INSERT INTO team_ratings (
				team_id, kind, model_version, value, matches_played,
				confidence, last_match_date, version, updated_at
			)
			SELECT $1, UNNEST($2::text[]), $3, UNNEST($4::float8[]), $5, $6, $7, 1, $8
			ON CONFLICT (team_id, kind, model_version) DO NOTHING
		`
		res, err := tx.ExecContext(ctx, query,
			snap.TeamID, pq.Array(kinds), snap.ModelVersion, pq.Array(values),
			snap.MatchesPlayed, string(snap.Confidence), nullTime(snap.LastMatchDate), now,
		)
		if err != nil {
			return fmt.Errorf("insert ratings: %w", err)
		}
		affected, _ := res.RowsAffected()
		if affected != int64(len(kinds)) {
			return contracts.ErrVersionConflict
		}
	} else {
		query := `
			UPDATE team_ratings AS tr
			SET value = v.value,
				matches_played = $5,
				confidence = $6,
				last_match_date = $7,
				version = tr.version + 1,
				updated_at = $8
			FROM (SELECT UNNEST($2::text[]) AS kind, UNNEST($3::float8[]) AS value) AS v
			WHERE tr.team_id = $1
			  AND tr.model_version = $4
			  AND tr.kind = v.kind
			  AND tr.version = $9
		`
		res, err := tx.ExecContext(ctx, query,
			snap.TeamID, pq.Array(kinds), pq.Array(values), snap.ModelVersion,
			snap.MatchesPlayed, string(snap.Confidence), nullTime(snap.LastMatchDate), now, snap.Version,
		)
		if err != nil {
			return fmt.Errorf("update ratings: %w", err)
		}
		affected, _ := res.RowsAffected()
		if affected != int64(len(kinds)) {
			return contracts.ErrVersionConflict
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ratings: %w", err)
	}
	return nil
}

// GetLatest returns the current calculation record for a match.
func (s *Store) GetLatest(ctx context.Context, matchID, modelVersion string) (*models.MatchCalculation, error) {
	query := `
		SELECT id, prob_home, prob_draw, prob_away,
			expected_home_goals, expected_away_goals,
			fair_home, fair_draw, fair_away, margin_pct,
			ev_home, ev_draw, ev_away, best_value_outcome,
			home_form_ema, home_xg_trend, home_regression,
			away_form_ema, away_xg_trend, away_regression,
			home_rest_days, away_rest_days, importance_score,
			data_quality, calculated_at
		FROM match_calculations
		WHERE match_id = $1 AND model_version = $2
	`

	c := &models.MatchCalculation{MatchID: matchID, ModelVersion: modelVersion}
	var (
		bestValue                      sql.NullString
		homeEMA, awayEMA               sql.NullFloat64
		homeTrend, awayTrend           *float64
		homeRegression, awayRegression sql.NullString
		quality                        string
	)

	err := s.db.QueryRowContext(ctx, query, matchID, modelVersion).Scan(
		&c.ID, &c.ProbHome, &c.ProbDraw, &c.ProbAway,
		&c.ExpectedHomeGoals, &c.ExpectedAwayGoals,
		&c.FairHome, &c.FairDraw, &c.FairAway, &c.MarginPct,
		&c.EVHome, &c.EVDraw, &c.EVAway, &bestValue,
		&homeEMA, &homeTrend, &homeRegression,
		&awayEMA, &awayTrend, &awayRegression,
		&c.HomeRestDays, &c.AwayRestDays, &c.ImportanceScore,
		&quality, &c.CalculatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query calculation: %w", err)
	}

	c.DataQuality = models.DataQuality(quality)
	if bestValue.Valid {
		o := models.Outcome(bestValue.String)
		c.BestValueOutcome = &o
	}
	c.HomeForm = formFromColumns(homeEMA, homeTrend, homeRegression)
	c.AwayForm = formFromColumns(awayEMA, awayTrend, awayRegression)
	return c, nil
}

func formFromColumns(ema sql.NullFloat64, trend *float64, regression sql.NullString) *models.TeamForm {
	if !ema.Valid {
		return nil
	}
	f := &models.TeamForm{EMA: ema.Float64, XGTrend: trend}
	if regression.Valid {
		flag := models.RegressionFlag(regression.String)
		f.Regression = &flag
	}
	return f
}

// Upsert replaces the current record for (match, model version).
func (s *Store) Upsert(ctx context.Context, c *models.MatchCalculation) error {
	query := `
		INSERT INTO match_calculations (
			match_id, model_version, id,
			prob_home, prob_draw, prob_away,
			expected_home_goals, expected_away_goals,
			fair_home, fair_draw, fair_away, margin_pct,
			ev_home, ev_draw, ev_away, best_value_outcome,
			home_form_ema, home_xg_trend, home_regression,
			away_form_ema, away_xg_trend, away_regression,
			home_rest_days, away_rest_days, importance_score,
			data_quality, calculated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
		)
		ON CONFLICT (match_id, model_version) DO UPDATE SET
			id = EXCLUDED.id,
			prob_home = EXCLUDED.prob_home,
			prob_draw = EXCLUDED.prob_draw,
			prob_away = EXCLUDED.prob_away,
			expected_home_goals = EXCLUDED.expected_home_goals,
			expected_away_goals = EXCLUDED.expected_away_goals,
			fair_home = EXCLUDED.fair_home,
			fair_draw = EXCLUDED.fair_draw,
			fair_away = EXCLUDED.fair_away,
			margin_pct = EXCLUDED.margin_pct,
			ev_home = EXCLUDED.ev_home,
			ev_draw = EXCLUDED.ev_draw,
			ev_away = EXCLUDED.ev_away,
			best_value_outcome = EXCLUDED.best_value_outcome,
			home_form_ema = EXCLUDED.home_form_ema,
			home_xg_trend = EXCLUDED.home_xg_trend,
			home_regression = EXCLUDED.home_regression,
			away_form_ema = EXCLUDED.away_form_ema,
			away_xg_trend = EXCLUDED.away_xg_trend,
			away_regression = EXCLUDED.away_regression,
			home_rest_days = EXCLUDED.home_rest_days,
			away_rest_days = EXCLUDED.away_rest_days,
			importance_score = EXCLUDED.importance_score,
			data_quality = EXCLUDED.data_quality,
			calculated_at = EXCLUDED.calculated_at
	`

	var bestValue *string
	if c.BestValueOutcome != nil {
		v := string(*c.BestValueOutcome)
		bestValue = &v
	}

	homeEMA, homeTrend, homeRegr := formColumns(c.HomeForm)
	awayEMA, awayTrend, awayRegr := formColumns(c.AwayForm)

	_, err := s.db.ExecContext(ctx, query,
		c.MatchID, c.ModelVersion, c.ID,
		c.ProbHome, c.ProbDraw, c.ProbAway,
		c.ExpectedHomeGoals, c.ExpectedAwayGoals,
		c.FairHome, c.FairDraw, c.FairAway, c.MarginPct,
		c.EVHome, c.EVDraw, c.EVAway, bestValue,
		homeEMA, homeTrend, homeRegr,
		awayEMA, awayTrend, awayRegr,
		c.HomeRestDays, c.AwayRestDays, c.ImportanceScore,
		string(c.DataQuality), c.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert calculation: %w", err)
	}
	return nil
}

// GetMatch loads one match's facts.
func (s *Store) GetMatch(ctx context.Context, matchID string) (*models.MatchFacts, error) {
	query := `
		SELECT coupon_id, match_number, league, home_team, away_team, kickoff_at,
			home_goals, away_goals, home_xg, away_xg, finished_at
		FROM matches
		WHERE match_id = $1
	`

	f := &models.MatchFacts{MatchID: matchID}
	var homeGoals, awayGoals sql.NullInt64
	var homeXG, awayXG sql.NullFloat64
	var finishedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, matchID).Scan(
		&f.CouponID, &f.MatchNumber, &f.League, &f.HomeTeam, &f.AwayTeam, &f.KickoffAt,
		&homeGoals, &awayGoals, &homeXG, &awayXG, &finishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query match: %w", err)
	}

	if homeGoals.Valid && awayGoals.Valid && finishedAt.Valid {
		r := &models.MatchResult{
			HomeGoals:  int(homeGoals.Int64),
			AwayGoals:  int(awayGoals.Int64),
			FinishedAt: finishedAt.Time,
		}
		if homeXG.Valid {
			v := homeXG.Float64
			r.HomeXG = &v
		}
		if awayXG.Valid {
			v := awayXG.Float64
			r.AwayXG = &v
		}
		f.Result = r
	}
	return f, nil
}

// UpsertMatch stores the fixture and, when present, its final result.
func (s *Store) UpsertMatch(ctx context.Context, f *models.MatchFacts) error {
	query := `
		INSERT INTO matches (
			match_id, coupon_id, match_number, league, home_team, away_team,
			kickoff_at, home_goals, away_goals, home_xg, away_xg, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (match_id) DO UPDATE SET
			coupon_id = EXCLUDED.coupon_id,
			match_number = EXCLUDED.match_number,
			league = EXCLUDED.league,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			kickoff_at = EXCLUDED.kickoff_at,
			home_goals = EXCLUDED.home_goals,
			away_goals = EXCLUDED.away_goals,
			home_xg = EXCLUDED.home_xg,
			away_xg = EXCLUDED.away_xg,
			finished_at = EXCLUDED.finished_at
	`

	var homeGoals, awayGoals *int
	var homeXG, awayXG *float64
	var finishedAt *time.Time
	if f.Result != nil {
		homeGoals, awayGoals = &f.Result.HomeGoals, &f.Result.AwayGoals
		homeXG, awayXG = f.Result.HomeXG, f.Result.AwayXG
		finishedAt = &f.Result.FinishedAt
	}

	_, err := s.db.ExecContext(ctx, query,
		f.MatchID, f.CouponID, f.MatchNumber, f.League, f.HomeTeam, f.AwayTeam,
		f.KickoffAt, homeGoals, awayGoals, homeXG, awayXG, finishedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert match: %w", err)
	}
	return nil
}

// CouponMatches returns a coupon's matches in coupon order.
func (s *Store) CouponMatches(ctx context.Context, couponID string) ([]models.MatchFacts, error) {
	query := `
		SELECT match_id, match_number, league, home_team, away_team, kickoff_at
		FROM matches
		WHERE coupon_id = $1
		ORDER BY match_number
	`

	rows, err := s.db.QueryContext(ctx, query, couponID)
	if err != nil {
		return nil, fmt.Errorf("query coupon matches: %w", err)
	}
	defer rows.Close()

	var matches []models.MatchFacts
	for rows.Next() {
		f := models.MatchFacts{CouponID: couponID}
		if err := rows.Scan(&f.MatchID, &f.MatchNumber, &f.League, &f.HomeTeam, &f.AwayTeam, &f.KickoffAt); err != nil {
			return nil, fmt.Errorf("scan coupon match: %w", err)
		}
		matches = append(matches, f)
	}
	return matches, rows.Err()
}

// LatestOdds returns the freshest odds line for a match.
func (s *Store) LatestOdds(ctx context.Context, matchID string) (*models.OddsLine, error) {
	query := `SELECT home, draw, away, quoted_at FROM match_odds WHERE match_id = $1`

	line := &models.OddsLine{}
	err := s.db.QueryRowContext(ctx, query, matchID).Scan(&line.Home, &line.Draw, &line.Away, &line.QuotedAt)
	if err == sql.ErrNoRows {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query odds: %w", err)
	}
	return line, nil
}

// UpsertOdds stores the current quoted line for a match.
func (s *Store) UpsertOdds(ctx context.Context, matchID string, line *models.OddsLine) error {
	query := `
		INSERT INTO match_odds (match_id, home, draw, away, quoted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (match_id) DO UPDATE SET
			home = EXCLUDED.home,
			draw = EXCLUDED.draw,
			away = EXCLUDED.away,
			quoted_at = EXCLUDED.quoted_at
	`
	if _, err := s.db.ExecContext(ctx, query, matchID, line.Home, line.Draw, line.Away, line.QuotedAt); err != nil {
		return fmt.Errorf("upsert odds: %w", err)
	}
	return nil
}

// TeamStanding returns a team's current league-table row.
func (s *Store) TeamStanding(ctx context.Context, teamID string) (*models.Standing, error) {
	query := `
		SELECT position, played, games_remaining, points, league_size
		FROM standings
		WHERE team_id = $1
	`

	st := &models.Standing{TeamID: teamID}
	err := s.db.QueryRowContext(ctx, query, teamID).Scan(
		&st.Position, &st.Played, &st.GamesRemaining, &st.Points, &st.LeagueSize,
	)
	if err == sql.ErrNoRows {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query standing: %w", err)
	}
	return st, nil
}

// UpsertStandings batch-replaces league table rows.
func (s *Store) UpsertStandings(ctx context.Context, standings []models.Standing) error {
	if len(standings) == 0 {
		return nil
	}

	query := `
		INSERT INTO standings (team_id, position, played, games_remaining, points, league_size, updated_at)
		SELECT UNNEST($1::text[]), UNNEST($2::int[]), UNNEST($3::int[]),
			UNNEST($4::int[]), UNNEST($5::int[]), UNNEST($6::int[]), NOW()
		ON CONFLICT (team_id) DO UPDATE SET
			position = EXCLUDED.position,
			played = EXCLUDED.played,
			games_remaining = EXCLUDED.games_remaining,
			points = EXCLUDED.points,
			league_size = EXCLUDED.league_size,
			updated_at = EXCLUDED.updated_at
	`

	teamIDs := make([]string, len(standings))
	positions := make([]int, len(standings))
	played := make([]int, len(standings))
	remaining := make([]int, len(standings))
	points := make([]int, len(standings))
	sizes := make([]int, len(standings))
	for i, st := range standings {
		teamIDs[i] = st.TeamID
		positions[i] = st.Position
		played[i] = st.Played
		remaining[i] = st.GamesRemaining
		points[i] = st.Points
		sizes[i] = st.LeagueSize
	}

	_, err := s.db.ExecContext(ctx, query,
		pq.Array(teamIDs), pq.Array(positions), pq.Array(played),
		pq.Array(remaining), pq.Array(points), pq.Array(sizes),
	)
	if err != nil {
		return fmt.Errorf("upsert standings: %w", err)
	}
	return nil
}

// RecentMatches returns a team's chronological recent-match list, most
// recent last.
func (s *Store) RecentMatches(ctx context.Context, teamID string, before time.Time, limit int) ([]models.FormMatch, error) {
	query := `
		SELECT played_at, result, xg_for, xg_against
		FROM team_history
		WHERE team_id = $1 AND played_at < $2
		ORDER BY played_at DESC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, teamID, before, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var history []models.FormMatch
	for rows.Next() {
		var m models.FormMatch
		var result string
		if err := rows.Scan(&m.PlayedAt, &result, &m.XGFor, &m.XGAgainst); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		m.Result = models.FormResult(result)
		history = append(history, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	// Reverse the DESC query order into chronological order.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}

// AppendMatches batch-inserts finalized results into a team's history.
func (s *Store) AppendMatches(ctx context.Context, teamID string, matches []models.FormMatch) error {
	if len(matches) == 0 {
		return nil
	}

	query := `
		INSERT INTO team_history (team_id, played_at, result, xg_for, xg_against)
		SELECT $1, UNNEST($2::timestamptz[]), UNNEST($3::text[]),
			UNNEST($4::float8[]), UNNEST($5::float8[])
	`

	playedAts := make([]time.Time, len(matches))
	results := make([]string, len(matches))
	xgFor := make([]*float64, len(matches))
	xgAgainst := make([]*float64, len(matches))
	for i, m := range matches {
		playedAts[i] = m.PlayedAt
		results[i] = string(m.Result)
		xgFor[i] = m.XGFor
		xgAgainst[i] = m.XGAgainst
	}

	_, err := s.db.ExecContext(ctx, query,
		teamID, pq.Array(playedAts), pq.Array(results), pq.Array(xgFor), pq.Array(xgAgainst),
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func formColumns(f *models.TeamForm) (*float64, *float64, *string) {
	if f == nil {
		return nil, nil, nil
	}
	ema := f.EMA
	var regr *string
	if f.Regression != nil {
		v := string(*f.Regression)
		regr = &v
	}
	return &ema, f.XGTrend, regr
}
