// internal/httpserver/routes_social.go
//
// Community content endpoints:
//   - POST /contact       (public) → contact form
//   - GET  /ratings       (public) → all ratings + average
//   - POST /ratings       (gated)  → upsert own 1-5 rating
//   - GET  /ratings/me    (gated)  → own rating
//   - GET  /reviews       (public) → approved reviews
//   - POST /reviews       (gated)  → submit review (held for approval)
//   - GET  /reviews/mine  (gated)  → own reviews
//
// Thank-you mail is best effort: failures are logged, never surfaced.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"math"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

func (s *Server) mountSocialRoutes() {
	s.r.Post("/contact", s.handleContact)
	s.r.Get("/ratings", s.handleRatings)
	s.r.With(s.requireAuth()).Post("/ratings", s.handleSubmitRating)
	s.r.With(s.requireAuth()).Get("/ratings/me", s.handleMyRating)
	s.r.Get("/reviews", s.handleReviews)
	s.r.With(s.requireAuth()).Post("/reviews", s.handleSubmitReview)
	s.r.With(s.requireAuth()).Get("/reviews/mine", s.handleMyReviews)
}

// -----------------------------------------------------------------------------
// Contact

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || !strings.Contains(req.Email, "@") || req.Message == "" {
		writeErr(w, http.StatusBadRequest, "missing_fields")
		return
	}

	id, err := s.social.InsertContact(r.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		log.Error().Err(err).Msg("insert contact")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}

	if err := s.mail.SendContactThanks(req.Email, req.Name); err != nil {
		log.Warn().Err(err).Msg("send contact thank-you email")
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Thank you for contacting us! We'll get back to you soon.",
		"id":      id,
	})
}

// -----------------------------------------------------------------------------
// Ratings

func (s *Server) handleRatings(w http.ResponseWriter, r *http.Request) {
	rows, avg, err := s.social.Ratings(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list ratings")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ratings":        rows,
		"average_rating": math.Round(avg*100) / 100,
		"total_ratings":  len(rows),
	})
}

type ratingReq struct {
	Rating int `json:"rating"`
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	var req ratingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeErr(w, http.StatusBadRequest, "rating_out_of_range")
		return
	}

	me := currentUser(r)
	created, err := s.social.UpsertRating(r.Context(), me.ID, req.Rating)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("upsert rating")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}

	status := http.StatusOK
	msg := "Rating updated successfully"
	if created {
		status = http.StatusCreated
		msg = "Rating submitted successfully"
	}
	writeJSON(w, status, map[string]any{"message": msg, "rating": req.Rating})
}

func (s *Server) handleMyRating(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	rating, err := s.social.RatingForUser(r.Context(), me.ID)
	if err == sql.ErrNoRows {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No rating found"})
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"username": me.Username, "rating": rating})
}

// -----------------------------------------------------------------------------
// Reviews

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	rows, err := s.social.ApprovedReviews(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list reviews")
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": rows, "count": len(rows)})
}

type reviewReq struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req reviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		writeErr(w, http.StatusBadRequest, "missing_fields")
		return
	}

	me := currentUser(r)
	id, err := s.social.InsertReview(r.Context(), me.ID, req.Title, req.Body)
	if err != nil {
		log.Error().Err(err).Str("user", me.ID).Msg("insert review")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}

	if u, err := s.findUserByID(me.ID); err == nil && u.Email != "" {
		if err := s.mail.SendReviewThanks(u.Email, u.Username, req.Title); err != nil {
			log.Warn().Err(err).Msg("send review thank-you email")
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Review submitted successfully! It will be visible after admin approval.",
		"id":      id,
	})
}

func (s *Server) handleMyReviews(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	rows, err := s.social.ReviewsForUser(r.Context(), me.ID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reviews": rows, "count": len(rows)})
}
