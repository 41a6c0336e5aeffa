// internal/store/social.go
//
// Community content: contact form submissions, 1-5 star ratings (one per
// user, upserted), and reviews (held until approved; approval happens
// outside this service).

package store

import (
	"context"
	"database/sql"
	"time"
)

// Social stores contact messages, ratings, and reviews.
type Social struct {
	db *sql.DB
}

// NewSocial wraps db for community-content persistence.
func NewSocial(db *sql.DB) *Social {
	return &Social{db: db}
}

// ---------------------------------- contact --------------------------------

// InsertContact records a contact-form submission and returns its id.
func (s *Social) InsertContact(ctx context.Context, name, email, message string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (name, email, message, created_at) VALUES (?,?,?,?)`,
		name, email, message, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ---------------------------------- ratings --------------------------------

// RatingRow is one user's rating.
type RatingRow struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

// UpsertRating stores or replaces the user's rating.
// Returns true when the rating was newly created.
func (s *Social) UpsertRating(ctx context.Context, userID string, rating int) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM ratings WHERE user_id=?`, userID).Scan(&exists)
	created := err == sql.ErrNoRows
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ratings (user_id, rating, updated_at) VALUES (?,?,?)
		ON CONFLICT(user_id) DO UPDATE SET rating=excluded.rating, updated_at=excluded.updated_at`,
		userID, rating, time.Now().UTC().Format(time.RFC3339))
	return created, err
}

// RatingForUser returns the user's rating, or sql.ErrNoRows if absent.
func (s *Social) RatingForUser(ctx context.Context, userID string) (int, error) {
	var rating int
	err := s.db.QueryRowContext(ctx,
		`SELECT rating FROM ratings WHERE user_id=?`, userID).Scan(&rating)
	return rating, err
}

// Ratings lists all ratings plus the average.
func (s *Social) Ratings(ctx context.Context) ([]RatingRow, float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.username, r.rating
		FROM ratings r JOIN users u ON u.id = r.user_id
		ORDER BY r.updated_at DESC`)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []RatingRow{}
	sum := 0
	for rows.Next() {
		var r RatingRow
		if err := rows.Scan(&r.Username, &r.Rating); err != nil {
			return nil, 0, err
		}
		sum += r.Rating
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	avg := 0.0
	if len(out) > 0 {
		avg = float64(sum) / float64(len(out))
	}
	return out, avg, nil
}

// ---------------------------------- reviews --------------------------------

// ReviewRow is one review as listed publicly or to its author.
type ReviewRow struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Approved  bool   `json:"approved"`
	CreatedAt string `json:"createdAt"`
}

// InsertReview stores a new, unapproved review and returns its id.
func (s *Social) InsertReview(ctx context.Context, userID, title, body string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (user_id, title, body, approved, created_at) VALUES (?,?,?,0,?)`,
		userID, title, body, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ApprovedReviews lists reviews cleared for public display.
func (s *Social) ApprovedReviews(ctx context.Context) ([]ReviewRow, error) {
	return s.listReviews(ctx, `r.approved=1`, nil)
}

// ReviewsForUser lists the user's own reviews, approved or not.
func (s *Social) ReviewsForUser(ctx context.Context, userID string) ([]ReviewRow, error) {
	return s.listReviews(ctx, `r.user_id=?`, []any{userID})
}

func (s *Social) listReviews(ctx context.Context, where string, args []any) ([]ReviewRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, u.username, r.title, r.body, r.approved, r.created_at
		FROM reviews r JOIN users u ON u.id = r.user_id
		WHERE `+where+`
		ORDER BY r.created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ReviewRow{}
	for rows.Next() {
		var r ReviewRow
		if err := rows.Scan(&r.ID, &r.Username, &r.Title, &r.Body, &r.Approved, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
