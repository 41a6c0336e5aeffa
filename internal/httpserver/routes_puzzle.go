// internal/httpserver/routes_puzzle.go
//
// Puzzle round lifecycle endpoints (all gated):
//   - POST /puzzle            → fetch a round from the provider (solution stripped)
//   - POST /puzzle/check      → score the answer against the stored round
//   - POST /puzzle/hint       → spend a hint against the stored round
//   - POST /puzzle/difficulty → set the scoring difficulty tier
//   - GET  /stats/me          → full game statistics
//
// Every round-touching handler holds the per-player lock across its
// read-mutate-save of the player record.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/bananablitz/go-server/internal/game"
	"github.com/bananablitz/go-server/internal/puzzle"
)

func (s *Server) mountPuzzleRoutes() {
	s.r.With(s.requireAuth()).Post("/puzzle", s.handleFetchPuzzle)
	s.r.With(s.requireAuth()).Post("/puzzle/check", s.handleCheckPuzzle)
	s.r.With(s.requireAuth()).Post("/puzzle/hint", s.handleHint)
	s.r.With(s.requireAuth()).Post("/puzzle/difficulty", s.handleSetDifficulty)
	s.r.With(s.requireAuth()).Get("/stats/me", s.handleStats)
}

// -----------------------------------------------------------------------------
// POST /puzzle

// handleFetchPuzzle fetches a fresh puzzle, stores it (with solution) on
// the player record, and returns only the question. Any unresolved prior
// round is silently overwritten.
func (s *Server) handleFetchPuzzle(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	mu := s.locks.acquire(me.ID)
	mu.Lock()
	defer mu.Unlock()

	p, err := s.players.GetOrCreate(r.Context(), me.ID)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("load player")
		writeErr(w, http.StatusInternalServerError, "player_load_failed")
		return
	}

	pz, err := s.puzzles.Fetch(r.Context())
	if errors.Is(err, puzzle.ErrUpstream) {
		log.Warn().Err(err).Msg("fetch puzzle")
		writeErr(w, http.StatusBadGateway, "upstream_unavailable")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("fetch puzzle")
		writeErr(w, http.StatusInternalServerError, "fetch_failed")
		return
	}

	p.StartRound(pz.Question, pz.Solution)
	if err := s.players.Save(r.Context(), p); err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("save player")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}

	// The solution stays server-side.
	writeJSON(w, http.StatusOK, map[string]string{"question": pz.Question})
}

// -----------------------------------------------------------------------------
// POST /puzzle/check

// checkReq tolerates numeric or string answers, as clients send both.
type checkReq struct {
	Answer    any     `json:"answer"`
	TimeTaken float64 `json:"time_taken"`
	HintsUsed int     `json:"hints_used"`
}

// answerString renders the submitted answer field as a string.
func answerString(v any) string {
	switch a := v.(type) {
	case string:
		return a
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64)
	case json.Number:
		return a.String()
	default:
		return ""
	}
}

// handleCheckPuzzle scores the submitted answer and persists the updated
// progression state. The round is cleared whatever the outcome.
func (s *Server) handleCheckPuzzle(w http.ResponseWriter, r *http.Request) {
	var req checkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json")
		return
	}

	me := currentUser(r)
	mu := s.locks.acquire(me.ID)
	mu.Lock()
	defer mu.Unlock()

	p, err := s.players.GetOrCreate(r.Context(), me.ID)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("load player")
		writeErr(w, http.StatusInternalServerError, "player_load_failed")
		return
	}

	res, err := s.engine.Check(p, game.CheckInput{
		Answer:    answerString(req.Answer),
		TimeTaken: req.TimeTaken,
		HintsUsed: req.HintsUsed,
	})
	switch {
	case errors.Is(err, game.ErrMissingAnswer):
		writeErr(w, http.StatusBadRequest, "missing_answer")
		return
	case errors.Is(err, game.ErrNoActiveRound):
		writeErr(w, http.StatusConflict, "no_active_round")
		return
	case err != nil:
		log.Error().Err(err).Str("user", me.ID).Msg("check answer")
		writeErr(w, http.StatusInternalServerError, "check_failed")
		return
	}

	if err := s.players.Save(r.Context(), p); err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("save player")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// POST /puzzle/hint

// handleHint spends one hint and returns a randomly chosen hint message.
// The hint cost is charged once preconditions pass and is not rolled back.
func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	mu := s.locks.acquire(me.ID)
	mu.Lock()
	defer mu.Unlock()

	p, err := s.players.GetOrCreate(r.Context(), me.ID)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("load player")
		writeErr(w, http.StatusInternalServerError, "player_load_failed")
		return
	}

	res, err := s.engine.Hint(p)
	switch {
	case errors.Is(err, game.ErrNoHints):
		writeErr(w, http.StatusBadRequest, "no_hints_available")
		return
	case errors.Is(err, game.ErrNoActiveRound):
		writeErr(w, http.StatusConflict, "no_active_round")
		return
	case errors.Is(err, game.ErrBadSolution):
		writeErr(w, http.StatusConflict, "invalid_puzzle_solution")
		return
	case err != nil:
		log.Error().Err(err).Str("user", me.ID).Msg("hint")
		writeErr(w, http.StatusInternalServerError, "hint_failed")
		return
	}

	if err := s.players.Save(r.Context(), p); err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("save player")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// POST /puzzle/difficulty

type difficultyReq struct {
	Difficulty string `json:"difficulty"`
}

func (s *Server) handleSetDifficulty(w http.ResponseWriter, r *http.Request) {
	var req difficultyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json")
		return
	}
	d := game.Difficulty(req.Difficulty)
	if !d.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Invalid difficulty. Must be 'easy', 'medium', or 'hard'",
		})
		return
	}

	me := currentUser(r)
	mu := s.locks.acquire(me.ID)
	mu.Lock()
	defer mu.Unlock()

	p, err := s.players.GetOrCreate(r.Context(), me.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "player_load_failed")
		return
	}
	p.Difficulty = d
	if err := s.players.Save(r.Context(), p); err != nil {
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"difficulty": string(d),
		"message":    "Difficulty set to " + string(d),
	})
}

// -----------------------------------------------------------------------------
// GET /stats/me

// handleStats returns comprehensive progression statistics, including XP
// progress toward the next level.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	p, err := s.players.GetOrCreate(r.Context(), me.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "player_load_failed")
		return
	}

	xpForCurrent := (p.Level - 1) * 100
	xpForNext := p.Level * 100
	writeJSON(w, http.StatusOK, map[string]any{
		"level":             p.Level,
		"xp":                p.XP,
		"xp_progress":       p.XP - xpForCurrent,
		"xp_needed":         xpForNext - p.XP,
		"xp_for_next_level": xpForNext,
		"difficulty":        string(p.Difficulty),
		"combo":             p.ComboCount,
		"max_combo":         p.MaxCombo,
		"puzzles_solved":    p.PuzzlesSolved,
		"perfect_solves":    p.PerfectSolves,
		"daily_streak":      p.DailyChallengeStreak,
		"high_score":        p.HighScore,
		"coins":             p.Coins,
	})
}
