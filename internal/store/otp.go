// internal/store/otp.go
//
// Email login codes. One active code per user: issuing a new code replaces
// any outstanding one. Codes expire after their TTL and are single use.

package store

import (
	"context"
	"database/sql"
	"time"
)

// OTPs stores email one-time codes.
type OTPs struct {
	db *sql.DB
}

// NewOTPs wraps db for OTP persistence.
func NewOTPs(db *sql.DB) *OTPs {
	return &OTPs{db: db}
}

// Create replaces any outstanding code for the user with a new one.
func (s *OTPs) Create(ctx context.Context, userID, code string, expires time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM otps WHERE user_id=?`, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO otps (user_id, code, expires_at, used) VALUES (?,?,?,0)`,
		userID, code, expires.UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}

// Consume validates and burns a code. Returns false when the code is
// unknown, already used, or expired.
func (s *OTPs) Consume(ctx context.Context, userID, code string, now time.Time) (bool, error) {
	var expires string
	err := s.db.QueryRowContext(ctx,
		`SELECT expires_at FROM otps WHERE user_id=? AND code=? AND used=0`,
		userID, code).Scan(&expires)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	exp, err := time.Parse(time.RFC3339, expires)
	if err != nil || now.UTC().After(exp) {
		return false, nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE otps SET used=1 WHERE user_id=? AND code=? AND used=0`, userID, code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// n == 0 means a concurrent verify won the race.
	return n == 1, nil
}
