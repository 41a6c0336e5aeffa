// internal/store/scores.go
//
// Submitted arcade scores and the global leaderboard (best score per user).

package store

import (
	"context"
	"database/sql"
	"time"
)

// Scores stores submitted score rows.
type Scores struct {
	db *sql.DB
}

// NewScores wraps db for score persistence.
func NewScores(db *sql.DB) *Scores {
	return &Scores{db: db}
}

// LeaderboardRow is one leaderboard entry: a user's best submitted score.
type LeaderboardRow struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Insert records a submitted score.
func (s *Scores) Insert(ctx context.Context, userID string, score int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (user_id, score, created_at) VALUES (?,?,?)`,
		userID, score, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Leaderboard returns the top users by best score, descending.
func (s *Scores) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.username, MAX(sc.score) AS best
		FROM scores sc
		JOIN users u ON u.id = sc.user_id
		GROUP BY sc.user_id
		ORDER BY best DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.Username, &r.Score); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
