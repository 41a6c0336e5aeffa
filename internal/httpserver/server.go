// internal/httpserver/server.go
//
// HTTP server wiring for the puzzle game backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/leaderboard", community reads.
//   - Auth endpoints: register, login, email-OTP login, logout, me.
//   - Gated endpoints: player profile, puzzle round lifecycle, daily
//     challenge, score submission, ratings/reviews writes.
//   - JWT + cookie handling, user CRUD helpers.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Require-auth middleware enforces presence and validity of a JWT.
//   - Handlers that read-mutate-save a player record take a per-player
//     lock so a concurrent fetch cannot supersede a round mid-check.

package httpserver

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bananablitz/go-server/internal/game"
	"github.com/bananablitz/go-server/internal/mailer"
	"github.com/bananablitz/go-server/internal/puzzle"
	"github.com/bananablitz/go-server/internal/store"
)

// Server bundles the router with its collaborators.
type Server struct {
	r       *chi.Mux
	db      *sql.DB
	players store.PlayerStore
	scores  *store.Scores
	social  *store.Social
	otps    *store.OTPs
	puzzles *puzzle.Client
	engine  *game.Engine
	mail    *mailer.Mailer
	locks   playerLocks
}

// New constructs a Server, installs middleware, and registers routes.
func New(db *sql.DB, players store.PlayerStore, puzzles *puzzle.Client, engine *game.Engine, mail *mailer.Mailer) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		db:      db,
		players: players,
		scores:  store.NewScores(db),
		social:  store.NewSocial(db),
		otps:    store.NewOTPs(db),
		puzzles: puzzles,
		engine:  engine,
		mail:    mail,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"banana-go","endpoints":["/health","/auth/*","POST /puzzle","POST /puzzle/check","POST /puzzle/hint","/daily-challenge","/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.mountAuthRoutes()
	s.mountPlayerRoutes()
	s.mountPuzzleRoutes()
	s.mountDailyRoutes()
	s.mountSocialRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --------------------------- per-player locking ----------------------------

// playerLocks hands out one mutex per player ID. Round-touching handlers
// hold it across their read-mutate-save so the last-writer-wins race on
// the player record cannot interleave fetch/check/hint for one player.
type playerLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (l *playerLocks) acquire(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.m == nil {
		l.m = make(map[string]*sync.Mutex)
	}
	m, ok := l.m[id]
	if !ok {
		m = &sync.Mutex{}
		l.m[id] = m
	}
	return m
}

// ------------------------------- responses ---------------------------------

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr emits the structured error body used across the API.
func writeErr(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	s := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
	if len(s) > 22 {
		return s[:22]
	}
	return s
}
