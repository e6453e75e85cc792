// Package engine assembles the calculation pipeline: it gathers a
// match's inputs, invokes the probability, market, form and context
// components, and persists one versioned MatchCalculation record.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/config"
	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/form"
	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/logger"
	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/market"
	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/matchcontext"
	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/probability"
	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/rating"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/contracts"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

// Sink receives every persisted calculation, after the repository write
// succeeds. Used for the Redis write-through cache and result stream.
type Sink interface {
	StoreCalculation(ctx context.Context, calc *models.MatchCalculation) error
	GetCalculation(ctx context.Context, matchID, modelVersion string) (*models.MatchCalculation, error)
}

// Repositories bundles the stores the orchestrator reads and writes.
type Repositories struct {
	Ratings      contracts.RatingRepository
	Calculations contracts.CalculationRepository
	Matches      contracts.MatchRepository
	Odds         contracts.OddsRepository
	Standings    contracts.StandingsRepository
	History      contracts.HistoryRepository
}

// Orchestrator is the single write path for MatchCalculation records and
// the entry point for result-driven rating updates.
type Orchestrator struct {
	cfg   config.ModelConfig
	repos Repositories
	sink  Sink

	model   *probability.Model
	formEng *form.Engine
	context *matchcontext.Calculator
	updater *rating.Updater

	now func() time.Time
}

// New creates an orchestrator. sink may be nil when no cache/stream is
// wired (tests).
func New(cfg config.ModelConfig, repos Repositories, sink Sink) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		repos:   repos,
		sink:    sink,
		model:   probability.NewModel(cfg),
		formEng: form.NewEngine(cfg),
		context: matchcontext.NewCalculator(cfg),
		updater: rating.NewUpdater(rating.NewEngine(cfg), repos.Ratings, cfg.Version),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Calculate produces and persists the calculation record for one match.
// Missing business data never fails the calculation; it only degrades
// the record's data quality tier. When force is false the calculation is
// skipped if the current record is already fresher than every input.
func (o *Orchestrator) Calculate(ctx context.Context, matchID string, force bool) (*models.MatchCalculation, error) {
	facts, err := o.repos.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", matchID, err)
	}

	homeRating, homeDefaulted, err := o.ratingOrDefault(ctx, facts.HomeTeam)
	if err != nil {
		return nil, err
	}
	awayRating, awayDefaulted, err := o.ratingOrDefault(ctx, facts.AwayTeam)
	if err != nil {
		return nil, err
	}

	odds, err := o.latestOdds(ctx, matchID)
	if err != nil {
		return nil, err
	}

	if !force {
		if existing := o.freshRecord(ctx, matchID, homeRating, awayRating, odds); existing != nil {
			logger.Debug("calculation for %s is current, skipping", matchID)
			return existing, nil
		}
	}

	calc := &models.MatchCalculation{
		ID:           uuid.NewString(),
		MatchID:      matchID,
		ModelVersion: o.cfg.Version,
		CalculatedAt: o.now(),
	}

	// Scoreline surface and 1X2 probabilities.
	res := o.model.Outcomes(homeRating.Attack, homeRating.Defense, awayRating.Attack, awayRating.Defense)
	calc.ProbHome, calc.ProbDraw, calc.ProbAway = res.ProbHome, res.ProbDraw, res.ProbAway
	calc.ExpectedHomeGoals, calc.ExpectedAwayGoals = res.LambdaHome, res.LambdaAway

	// Market-derived fields are withheld entirely when the odds line is
	// missing or invalid, never computed on garbage.
	oddsOK := false
	if fair, ok := market.RemoveVig(odds); ok {
		oddsOK = true
		calc.FairHome, calc.FairDraw, calc.FairAway = &fair.Home, &fair.Draw, &fair.Away
		calc.MarginPct = &fair.MarginPct

		if v, ok := market.CalculateValue(calc.ProbHome, calc.ProbDraw, calc.ProbAway, odds); ok {
			calc.EVHome, calc.EVDraw, calc.EVAway = &v.EVHome, &v.EVDraw, &v.EVAway
			calc.BestValueOutcome = v.BestOutcome
		}
	}

	calc.HomeForm = o.teamForm(ctx, facts.HomeTeam, facts.KickoffAt)
	calc.AwayForm = o.teamForm(ctx, facts.AwayTeam, facts.KickoffAt)

	calc.HomeRestDays = o.context.RestDays(facts.KickoffAt, homeRating.LastMatchDate)
	calc.AwayRestDays = o.context.RestDays(facts.KickoffAt, awayRating.LastMatchDate)

	homeStanding := o.standing(ctx, facts.HomeTeam)
	awayStanding := o.standing(ctx, facts.AwayTeam)
	calc.ImportanceScore = o.context.Importance(homeStanding, awayStanding)

	calc.DataQuality = deriveQuality(homeDefaulted, awayDefaulted, oddsOK, calc)

	if err := o.repos.Calculations.Upsert(ctx, calc); err != nil {
		return nil, fmt.Errorf("persist calculation for %s: %w", matchID, err)
	}

	if o.sink != nil {
		if err := o.sink.StoreCalculation(ctx, calc); err != nil {
			// The repository is the source of truth; cache and stream
			// failures are logged and recovered on the next write.
			logger.Warn("store calculation in sink for %s: %v", matchID, err)
		}
	}

	logger.Info("calculated %s: p=(%.3f %.3f %.3f) quality=%s", matchID, calc.ProbHome, calc.ProbDraw, calc.ProbAway, calc.DataQuality)
	return calc, nil
}

// CalculateDraw computes every match on a coupon across a bounded worker
// pool. Matches share no mutable state, so they run concurrently; each
// failure is collected rather than aborting the rest of the draw.
func (o *Orchestrator) CalculateDraw(ctx context.Context, couponID string, force bool) ([]models.MatchCalculation, error) {
	matches, err := o.repos.Matches.CouponMatches(ctx, couponID)
	if err != nil {
		return nil, fmt.Errorf("load coupon %s: %w", couponID, err)
	}
	if len(matches) == 0 {
		return nil, contracts.ErrNotFound
	}

	type outcome struct {
		idx  int
		calc *models.MatchCalculation
		err  error
	}

	jobs := make(chan int)
	results := make(chan outcome, len(matches))

	workers := o.cfg.DrawWorkers
	if workers > len(matches) {
		workers = len(matches)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				calc, err := o.Calculate(ctx, matches[idx].MatchID, force)
				results <- outcome{idx: idx, calc: calc, err: err}
			}
		}()
	}

	for i := range matches {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(results)

	calcs := make([]models.MatchCalculation, 0, len(matches))
	var errs []error
	ordered := make([]*models.MatchCalculation, len(matches))
	for r := range results {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("match %s: %w", matches[r.idx].MatchID, r.err))
			continue
		}
		ordered[r.idx] = r.calc
	}
	for _, c := range ordered {
		if c != nil {
			calcs = append(calcs, *c)
		}
	}

	return calcs, errors.Join(errs...)
}

// RecordResult stores a finalized result, appends it to both teams'
// history and drives the rating update. Subsequent calculations read the
// updated ratings.
func (o *Orchestrator) RecordResult(ctx context.Context, matchID string, result *models.MatchResult) error {
	facts, err := o.repos.Matches.GetMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("load match %s: %w", matchID, err)
	}
	facts.Result = result

	if err := o.repos.Matches.UpsertMatch(ctx, facts); err != nil {
		return fmt.Errorf("store result for %s: %w", matchID, err)
	}

	if err := o.appendHistory(ctx, facts); err != nil {
		return err
	}

	if err := o.updater.RecordResult(ctx, facts); err != nil {
		return fmt.Errorf("update ratings for %s: %w", matchID, err)
	}

	return nil
}

// GetCalculation serves the read contract: cache first, then the
// repository. contracts.ErrNotFound means no record exists yet, which is
// a valid terminal state for the caller to surface.
func (o *Orchestrator) GetCalculation(ctx context.Context, matchID string) (*models.MatchCalculation, error) {
	if o.sink != nil {
		if calc, err := o.sink.GetCalculation(ctx, matchID, o.cfg.Version); err == nil {
			return calc, nil
		}
	}
	return o.repos.Calculations.GetLatest(ctx, matchID, o.cfg.Version)
}

// GetRating serves the rating read contract. Teams never seen yield
// contracts.ErrNotFound rather than the lazy defaults: "no rating data"
// is an explicit signal at this boundary.
func (o *Orchestrator) GetRating(ctx context.Context, teamID string) (*models.RatingSnapshot, error) {
	return o.repos.Ratings.GetSnapshot(ctx, teamID, o.cfg.Version)
}

func (o *Orchestrator) ratingOrDefault(ctx context.Context, teamID string) (*models.RatingSnapshot, bool, error) {
	s, err := o.repos.Ratings.GetSnapshot(ctx, teamID, o.cfg.Version)
	if errors.Is(err, contracts.ErrNotFound) {
		return models.DefaultSnapshot(teamID, o.cfg.Version), true, nil
	}
	if err != nil {
		// Corrupt rating rows propagate: they indicate a broken invariant,
		// not missing business data.
		return nil, false, fmt.Errorf("load ratings for %s: %w", teamID, err)
	}
	return s, false, nil
}

func (o *Orchestrator) latestOdds(ctx context.Context, matchID string) (*models.OddsLine, error) {
	odds, err := o.repos.Odds.LatestOdds(ctx, matchID)
	if errors.Is(err, contracts.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load odds for %s: %w", matchID, err)
	}
	return odds, nil
}

// freshRecord returns the current record when it is newer than every
// input's last change; staleness is an explicit timestamp comparison,
// not a flag.
func (o *Orchestrator) freshRecord(ctx context.Context, matchID string, home, away *models.RatingSnapshot, odds *models.OddsLine) *models.MatchCalculation {
	existing, err := o.repos.Calculations.GetLatest(ctx, matchID, o.cfg.Version)
	if err != nil {
		return nil
	}

	lastChanged := home.UpdatedAt
	if away.UpdatedAt.After(lastChanged) {
		lastChanged = away.UpdatedAt
	}
	if odds != nil && odds.QuotedAt.After(lastChanged) {
		lastChanged = odds.QuotedAt
	}

	if existing.CalculatedAt.Before(lastChanged) {
		return nil
	}
	return existing
}

func (o *Orchestrator) teamForm(ctx context.Context, teamID string, before time.Time) *models.TeamForm {
	history, err := o.repos.History.RecentMatches(ctx, teamID, before, o.cfg.FormWindow)
	if err != nil && !errors.Is(err, contracts.ErrNotFound) {
		logger.Warn("load history for %s: %v", teamID, err)
		return nil
	}
	return o.formEng.Compute(history)
}

func (o *Orchestrator) standing(ctx context.Context, teamID string) *models.Standing {
	s, err := o.repos.Standings.TeamStanding(ctx, teamID)
	if err != nil {
		if !errors.Is(err, contracts.ErrNotFound) {
			logger.Warn("load standing for %s: %v", teamID, err)
		}
		return nil
	}
	return s
}

// appendHistory records the finalized result in both teams' form history.
func (o *Orchestrator) appendHistory(ctx context.Context, facts *models.MatchFacts) error {
	r := facts.Result

	homeResult, awayResult := models.FormDraw, models.FormDraw
	switch r.Sign() {
	case models.OutcomeHome:
		homeResult, awayResult = models.FormWin, models.FormLoss
	case models.OutcomeAway:
		homeResult, awayResult = models.FormLoss, models.FormWin
	}

	home := models.FormMatch{PlayedAt: facts.KickoffAt, Result: homeResult, XGFor: r.HomeXG, XGAgainst: r.AwayXG}
	away := models.FormMatch{PlayedAt: facts.KickoffAt, Result: awayResult, XGFor: r.AwayXG, XGAgainst: r.HomeXG}

	if err := o.repos.History.AppendMatches(ctx, facts.HomeTeam, []models.FormMatch{home}); err != nil {
		return fmt.Errorf("append history for %s: %w", facts.HomeTeam, err)
	}
	if err := o.repos.History.AppendMatches(ctx, facts.AwayTeam, []models.FormMatch{away}); err != nil {
		return fmt.Errorf("append history for %s: %w", facts.AwayTeam, err)
	}
	return nil
}

// deriveQuality grades how much of the record rests on substituted
// defaults. Both ratings defaulted is minimal regardless of other
// inputs; any missing optional input (odds, xG trend, standings, form
// history) degrades full to partial.
func deriveQuality(homeDefaulted, awayDefaulted, oddsOK bool, calc *models.MatchCalculation) models.DataQuality {
	if homeDefaulted && awayDefaulted {
		return models.QualityMinimal
	}

	full := oddsOK &&
		calc.ImportanceScore != nil &&
		calc.HomeForm != nil && calc.HomeForm.XGTrend != nil &&
		calc.AwayForm != nil && calc.AwayForm.XGTrend != nil &&
		!homeDefaulted && !awayDefaulted

	if full {
		return models.QualityFull
	}
	return models.QualityPartial
}
