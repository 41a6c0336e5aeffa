// internal/store/players.go
//
// SQLite-backed PlayerStore. One row per account in the players table;
// the puzzle history is stored as a JSON array, the in-flight round as a
// question/solution column pair (both empty when no round is stored).

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bananablitz/go-server/internal/game"
)

// Players is the durable PlayerStore over a SQL database.
type Players struct {
	db *sql.DB
}

// NewPlayers wraps db as a PlayerStore.
func NewPlayers(db *sql.DB) *Players {
	return &Players{db: db}
}

const playerCols = `user_id, coins, hints, xp, level, difficulty,
	combo_count, max_combo, puzzles_solved, perfect_solves, high_score,
	last_daily_challenge, daily_challenge_streak, puzzle_history,
	puzzle_question, puzzle_solution`

// GetOrCreate loads the progression row for userID, inserting a fresh
// record with starting resources on first touch.
func (s *Players) GetOrCreate(ctx context.Context, userID string) (*game.Player, error) {
	p, err := s.get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("load player %s: %w", userID, err)
	}

	p = game.NewPlayer(userID)
	if _, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO players (user_id, coins, hints, level, difficulty, puzzle_history)
		VALUES (?,?,?,?,?,'[]')`,
		p.UserID, p.Coins, p.Hints, p.Level, string(p.Difficulty)); err != nil {
		return nil, fmt.Errorf("create player %s: %w", userID, err)
	}
	// Re-read in case a concurrent request created the row first.
	return s.get(ctx, userID)
}

func (s *Players) get(ctx context.Context, userID string) (*game.Player, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+playerCols+` FROM players WHERE user_id=?`, userID)

	var p game.Player
	var difficulty, history, question, solution string
	if err := row.Scan(
		&p.UserID, &p.Coins, &p.Hints, &p.XP, &p.Level, &difficulty,
		&p.ComboCount, &p.MaxCombo, &p.PuzzlesSolved, &p.PerfectSolves, &p.HighScore,
		&p.LastDailyChallenge, &p.DailyChallengeStreak, &history,
		&question, &solution,
	); err != nil {
		return nil, err
	}

	p.Difficulty = game.Difficulty(difficulty)
	if history != "" {
		if err := json.Unmarshal([]byte(history), &p.PuzzleHistory); err != nil {
			return nil, fmt.Errorf("player %s: decode history: %w", userID, err)
		}
	}
	if question != "" || solution != "" {
		p.Round = &game.Round{Question: question, Solution: solution}
	}
	return &p, nil
}

// Save writes the whole record back.
func (s *Players) Save(ctx context.Context, p *game.Player) error {
	history, err := json.Marshal(p.PuzzleHistory)
	if err != nil {
		return fmt.Errorf("player %s: encode history: %w", p.UserID, err)
	}
	var question, solution string
	if p.Round != nil {
		question, solution = p.Round.Question, p.Round.Solution
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE players SET
			coins=?, hints=?, xp=?, level=?, difficulty=?,
			combo_count=?, max_combo=?, puzzles_solved=?, perfect_solves=?, high_score=?,
			last_daily_challenge=?, daily_challenge_streak=?, puzzle_history=?,
			puzzle_question=?, puzzle_solution=?
		WHERE user_id=?`,
		p.Coins, p.Hints, p.XP, p.Level, string(p.Difficulty),
		p.ComboCount, p.MaxCombo, p.PuzzlesSolved, p.PerfectSolves, p.HighScore,
		p.LastDailyChallenge, p.DailyChallengeStreak, string(history),
		question, solution,
		p.UserID)
	if err != nil {
		return fmt.Errorf("save player %s: %w", p.UserID, err)
	}
	return nil
}
