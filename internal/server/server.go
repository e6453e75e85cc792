// Package server exposes the engine's read and trigger contracts over
// HTTP. A missing calculation or rating is a valid terminal state and is
// reported as an explicit status, never silently as zeros.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/config"
	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/engine"
	"github.com/KrisMoody/stryktipset-predictor-sub006/internal/logger"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/contracts"
	"github.com/KrisMoody/stryktipset-predictor-sub006/pkg/models"
)

// SyncWriter accepts the input facts delivered alongside a recalculation
// trigger.
type SyncWriter interface {
	UpsertMatch(ctx context.Context, facts *models.MatchFacts) error
	UpsertOdds(ctx context.Context, matchID string, line *models.OddsLine) error
	UpsertStandings(ctx context.Context, rows []models.Standing) error
}

// Server routes HTTP requests to the orchestrator.
type Server struct {
	orchestrator *engine.Orchestrator
	sync         SyncWriter
	http         *http.Server
}

// New builds the server and its routes.
func New(cfg config.ServerConfig, orch *engine.Orchestrator, sync SyncWriter) *Server {
	s := &Server{orchestrator: orch, sync: sync}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/matches/{matchID}/calculation", s.handleGetCalculation).Methods(http.MethodGet)
	r.HandleFunc("/v1/teams/{teamID}/rating", s.handleGetRating).Methods(http.MethodGet)
	r.HandleFunc("/v1/matches/{matchID}/recalculate", s.handleRecalculate).Methods(http.MethodPost)
	r.HandleFunc("/v1/matches/{matchID}/result", s.handleRecordResult).Methods(http.MethodPost)
	r.HandleFunc("/v1/draws/{couponID}/recalculate", s.handleRecalculateDraw).Methods(http.MethodPost)

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the server's route table.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving requests.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetCalculation(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchID"]

	calc, err := s.orchestrator.GetCalculation(r.Context(), matchID)
	if errors.Is(err, contracts.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "not_available", "match_id": matchID})
		return
	}
	if err != nil {
		s.internalError(w, "get calculation", err)
		return
	}

	writeJSON(w, http.StatusOK, calc)
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	teamID := mux.Vars(r)["teamID"]

	snap, err := s.orchestrator.GetRating(r.Context(), teamID)
	if errors.Is(err, contracts.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "no_rating_data", "team_id": teamID})
		return
	}
	if err != nil {
		s.internalError(w, "get rating", err)
		return
	}

	writeJSON(w, http.StatusOK, ratingResponse{
		TeamID:        snap.TeamID,
		Elo:           snap.Elo,
		Attack:        snap.Attack,
		Defense:       snap.Defense,
		MatchesPlayed: snap.MatchesPlayed,
		Confidence:    snap.Confidence,
		LastMatchDate: snap.LastMatchDate,
	})
}

// recalculateRequest optionally carries the synced facts that triggered
// the recalculation, so the sync pipeline can deliver inputs and trigger
// in one call.
type recalculateRequest struct {
	Match     *matchPayload    `json:"match,omitempty"`
	Odds      *oddsPayload     `json:"odds,omitempty"`
	Standings []models.Standing `json:"standings,omitempty"`
}

type matchPayload struct {
	CouponID    string    `json:"coupon_id"`
	MatchNumber int       `json:"match_number"`
	League      string    `json:"league"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	KickoffAt   time.Time `json:"kickoff_at"`
}

type oddsPayload struct {
	Home     float64   `json:"home"`
	Draw     float64   `json:"draw"`
	Away     float64   `json:"away"`
	QuotedAt time.Time `json:"quoted_at"`
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchID"]
	force := r.URL.Query().Get("force") == "true"

	if r.ContentLength > 0 {
		var req recalculateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := s.applySync(r.Context(), matchID, &req); err != nil {
			s.internalError(w, "apply sync payload", err)
			return
		}
	}

	calc, err := s.orchestrator.Calculate(r.Context(), matchID, force)
	if errors.Is(err, contracts.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "unknown_match", "match_id": matchID})
		return
	}
	if err != nil {
		s.internalError(w, "calculate", err)
		return
	}

	writeJSON(w, http.StatusOK, calc)
}

type resultRequest struct {
	HomeGoals  int        `json:"home_goals"`
	AwayGoals  int        `json:"away_goals"`
	HomeXG     *float64   `json:"home_xg,omitempty"`
	AwayXG     *float64   `json:"away_xg,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func (s *Server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchID"]

	var req resultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.HomeGoals < 0 || req.AwayGoals < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed score"})
		return
	}

	finishedAt := time.Now().UTC()
	if req.FinishedAt != nil {
		finishedAt = *req.FinishedAt
	}

	result := &models.MatchResult{
		HomeGoals:  req.HomeGoals,
		AwayGoals:  req.AwayGoals,
		HomeXG:     req.HomeXG,
		AwayXG:     req.AwayXG,
		FinishedAt: finishedAt,
	}

	err := s.orchestrator.RecordResult(r.Context(), matchID, result)
	if errors.Is(err, contracts.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "unknown_match", "match_id": matchID})
		return
	}
	if err != nil {
		s.internalError(w, "record result", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded", "match_id": matchID})
}

func (s *Server) handleRecalculateDraw(w http.ResponseWriter, r *http.Request) {
	couponID := mux.Vars(r)["couponID"]
	force := r.URL.Query().Get("force") == "true"

	calcs, err := s.orchestrator.CalculateDraw(r.Context(), couponID, force)
	if errors.Is(err, contracts.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "unknown_coupon", "coupon_id": couponID})
		return
	}
	if err != nil && len(calcs) == 0 {
		s.internalError(w, "calculate draw", err)
		return
	}

	resp := map[string]interface{}{"coupon_id": couponID, "calculations": calcs}
	if err != nil {
		// Partial success: some matches failed but the rest computed.
		resp["errors"] = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) applySync(ctx context.Context, matchID string, req *recalculateRequest) error {
	if req.Match != nil {
		facts := &models.MatchFacts{
			MatchID:     matchID,
			CouponID:    req.Match.CouponID,
			MatchNumber: req.Match.MatchNumber,
			League:      req.Match.League,
			HomeTeam:    req.Match.HomeTeam,
			AwayTeam:    req.Match.AwayTeam,
			KickoffAt:   req.Match.KickoffAt,
		}
		if err := s.sync.UpsertMatch(ctx, facts); err != nil {
			return err
		}
	}
	if req.Odds != nil {
		line := &models.OddsLine{
			Home:     req.Odds.Home,
			Draw:     req.Odds.Draw,
			Away:     req.Odds.Away,
			QuotedAt: req.Odds.QuotedAt,
		}
		if err := s.sync.UpsertOdds(ctx, matchID, line); err != nil {
			return err
		}
	}
	if len(req.Standings) > 0 {
		if err := s.sync.UpsertStandings(ctx, req.Standings); err != nil {
			return err
		}
	}
	return nil
}

type ratingResponse struct {
	TeamID        string            `json:"team_id"`
	Elo           float64           `json:"elo"`
	Attack        float64           `json:"attack"`
	Defense       float64           `json:"defense"`
	MatchesPlayed int               `json:"matches_played"`
	Confidence    models.Confidence `json:"confidence"`
	LastMatchDate *time.Time        `json:"last_match_date,omitempty"`
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	logger.Error("%s: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response: %v", err)
	}
}
