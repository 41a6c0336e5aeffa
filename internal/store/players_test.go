package store

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bananablitz/go-server/internal/game"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`
		CREATE TABLE players (
			user_id TEXT PRIMARY KEY, coins INTEGER NOT NULL DEFAULT 10,
			hints INTEGER NOT NULL DEFAULT 0, xp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1, difficulty TEXT NOT NULL DEFAULT 'medium',
			combo_count INTEGER NOT NULL DEFAULT 0, max_combo INTEGER NOT NULL DEFAULT 0,
			puzzles_solved INTEGER NOT NULL DEFAULT 0, perfect_solves INTEGER NOT NULL DEFAULT 0,
			high_score INTEGER NOT NULL DEFAULT 0, last_daily_challenge TEXT NOT NULL DEFAULT '',
			daily_challenge_streak INTEGER NOT NULL DEFAULT 0, puzzle_history TEXT NOT NULL DEFAULT '[]',
			puzzle_question TEXT NOT NULL DEFAULT '', puzzle_solution TEXT NOT NULL DEFAULT ''
		)`); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func TestPlayersGetOrCreateDefaults(t *testing.T) {
	s := NewPlayers(openTestDB(t))
	ctx := context.Background()

	p, err := s.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if p.Coins != 10 || p.Hints != 0 || p.Level != 1 || p.Difficulty != game.Medium {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if p.Round != nil {
		t.Fatal("fresh player should have no round")
	}
	if len(p.PuzzleHistory) != 0 {
		t.Fatalf("fresh history = %v", p.PuzzleHistory)
	}
}

func TestPlayersSaveRoundTrip(t *testing.T) {
	s := NewPlayers(openTestDB(t))
	ctx := context.Background()

	p, err := s.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	p.Coins = 77
	p.Hints = 3
	p.XP = 230
	p.Level = 3
	p.Difficulty = game.Hard
	p.ComboCount = 4
	p.MaxCombo = 6
	p.PuzzlesSolved = 12
	p.PerfectSolves = 5
	p.HighScore = 140
	p.LastDailyChallenge = "2026-09-01"
	p.DailyChallengeStreak = 3
	p.PuzzleHistory = []string{"q1", "q2"}
	p.StartRound("https://example.com/q3.png", "4")

	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Coins != 77 || got.XP != 230 || got.Level != 3 || got.Difficulty != game.Hard {
		t.Fatalf("progression lost: %+v", got)
	}
	if got.LastDailyChallenge != "2026-09-01" || got.DailyChallengeStreak != 3 {
		t.Fatalf("daily state lost: %+v", got)
	}
	if len(got.PuzzleHistory) != 2 || got.PuzzleHistory[1] != "q2" {
		t.Fatalf("history = %v", got.PuzzleHistory)
	}
	if got.Round == nil || got.Round.Solution != "4" {
		t.Fatalf("round = %+v", got.Round)
	}

	// Clearing the round persists as an empty pair.
	got.ClearRound()
	if err := s.Save(ctx, got); err != nil {
		t.Fatalf("Save cleared: %v", err)
	}
	again, err := s.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Round != nil {
		t.Fatalf("round should be gone, got %+v", again.Round)
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p, err := m.GetOrCreate(ctx, "u1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if p.Coins != 10 || p.Level != 1 {
		t.Fatalf("unexpected defaults: %+v", p)
	}

	p.Coins = 99
	if err := m.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := m.GetOrCreate(ctx, "u1")
	if got.Coins != 99 {
		t.Fatalf("coins = %d, want 99", got.Coins)
	}
}
