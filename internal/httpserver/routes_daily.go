// internal/httpserver/routes_daily.go
//
// Daily challenge endpoints (gated):
//   - GET  /daily-challenge       → today's status, projected reward, streak
//   - POST /daily-challenge/claim → credit the reward, advance the streak
//
// Streak transitions are pure calendar math in internal/daily; claims are
// idempotent per UTC day.

package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bananablitz/go-server/internal/daily"
)

func (s *Server) mountDailyRoutes() {
	s.r.With(s.requireAuth()).Get("/daily-challenge", s.handleDailyStatus)
	s.r.With(s.requireAuth()).Post("/daily-challenge/claim", s.handleDailyClaim)
}

// handleDailyStatus reports today's challenge without mutating the player.
func (s *Server) handleDailyStatus(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	p, err := s.players.GetOrCreate(r.Context(), me.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "player_load_failed")
		return
	}

	st := daily.Preview(p, time.Now())
	msg := fmt.Sprintf("Solve %d puzzles today to earn %d coins!", st.Target, st.Reward)
	if st.Completed {
		msg = "Daily challenge already completed today!"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"completed": st.Completed,
		"target":    st.Target,
		"reward":    st.Reward,
		"streak":    st.Streak,
		"message":   msg,
	})
}

// handleDailyClaim credits today's reward. A second claim the same day is
// rejected and leaves the player untouched.
func (s *Server) handleDailyClaim(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	mu := s.locks.acquire(me.ID)
	mu.Lock()
	defer mu.Unlock()

	p, err := s.players.GetOrCreate(r.Context(), me.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "player_load_failed")
		return
	}

	res, err := daily.Claim(p, time.Now())
	if errors.Is(err, daily.ErrAlreadyClaimed) {
		writeErr(w, http.StatusConflict, "already_claimed_today")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("daily claim")
		writeErr(w, http.StatusInternalServerError, "claim_failed")
		return
	}

	if err := s.players.Save(r.Context(), p); err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("save player")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reward":      res.Reward,
		"new_balance": res.Coins,
		"streak":      res.Streak,
		"message":     fmt.Sprintf("Daily challenge completed! Earned %d coins!", res.Reward),
	})
}
