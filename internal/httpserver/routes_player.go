// internal/httpserver/routes_player.go
//
// Player profile and score endpoints:
//   - GET   /player       (gated) → full profile
//   - PATCH /player       (gated) → adjust coins/hints/high_score
//   - POST  /scores       (gated) → submit an arcade score
//   - GET   /leaderboard  (public) → top players by best score

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bananablitz/go-server/internal/game"
)

func (s *Server) mountPlayerRoutes() {
	s.r.With(s.requireAuth()).Get("/player", s.handlePlayerGet)
	s.r.With(s.requireAuth()).Patch("/player", s.handlePlayerPatch)
	s.r.With(s.requireAuth()).Post("/scores", s.handleSubmitScore)
	s.r.Get("/leaderboard", s.handleLeaderboard)
}

// playerView is the profile shape returned to the owning client.
// The in-flight round (and its solution) is never serialized.
type playerView struct {
	Coins         int    `json:"coins"`
	Hints         int    `json:"hints"`
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
	Difficulty    string `json:"difficulty"`
	Combo         int    `json:"combo"`
	MaxCombo      int    `json:"max_combo"`
	PuzzlesSolved int    `json:"puzzles_solved"`
	PerfectSolves int    `json:"perfect_solves"`
	DailyStreak   int    `json:"daily_streak"`
	HighScore     int    `json:"high_score"`
}

func viewOf(p *game.Player) playerView {
	return playerView{
		Coins:         p.Coins,
		Hints:         p.Hints,
		XP:            p.XP,
		Level:         p.Level,
		Difficulty:    string(p.Difficulty),
		Combo:         p.ComboCount,
		MaxCombo:      p.MaxCombo,
		PuzzlesSolved: p.PuzzlesSolved,
		PerfectSolves: p.PerfectSolves,
		DailyStreak:   p.DailyChallengeStreak,
		HighScore:     p.HighScore,
	}
}

func (s *Server) handlePlayerGet(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	p, err := s.players.GetOrCreate(r.Context(), me.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "player_load_failed")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(p))
}

// patchPlayerReq carries the adjustable resource fields. Progression
// fields (xp, level, combo, counters) are engine-owned and not patchable.
type patchPlayerReq struct {
	Coins     *int `json:"coins"`
	Hints     *int `json:"hints"`
	HighScore *int `json:"high_score"`
}

func (s *Server) handlePlayerPatch(w http.ResponseWriter, r *http.Request) {
	var req patchPlayerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if (req.Coins != nil && *req.Coins < 0) ||
		(req.Hints != nil && *req.Hints < 0) ||
		(req.HighScore != nil && *req.HighScore < 0) {
		writeErr(w, http.StatusBadRequest, "negative_value")
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
	if req.Coins != nil {
		p.Coins = *req.Coins
	}
	if req.Hints != nil {
		p.Hints = *req.Hints
	}
	if req.HighScore != nil {
		p.HighScore = *req.HighScore
	}
	if err := s.players.Save(r.Context(), p); err != nil {
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(p))
}

// -----------------------------------------------------------------------------
// Scores

type submitScoreReq struct {
	Score *int `json:"score"`
}

// handleSubmitScore records a score row and bumps the player's high score
// when exceeded.
func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var req submitScoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Score == nil {
		writeErr(w, http.StatusBadRequest, "missing_score")
		return
	}

	me := currentUser(r)
	if err := s.scores.Insert(r.Context(), me.ID, *req.Score); err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("insert score")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}

	mu := s.locks.acquire(me.ID)
	mu.Lock()
	defer mu.Unlock()

	p, err := s.players.GetOrCreate(r.Context(), me.ID)
	if err == nil && *req.Score > p.HighScore {
		p.HighScore = *req.Score
		if err := s.players.Save(r.Context(), p); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump high score")
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"username": me.Username,
		"score":    *req.Score,
		"message":  "Score submitted successfully",
	})
}

// handleLeaderboard returns the top 10 best scores, one per user.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.scores.Leaderboard(r.Context(), 10)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard query")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
