// internal/httpserver/auth.go
//
// Authentication: password registration/login, email-OTP login, JWT
// issuance (HS256, cookie or bearer), and the require-auth middleware.
// Token blacklisting is deliberately absent; logout just clears the cookie.

package httpserver

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const otpTTL = 10 * time.Minute

// ------------------------------- routes ------------------------------------

func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/register", s.handleRegister)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/otp/request", s.handleOTPRequest)
	s.r.Post("/auth/otp/verify", s.handleOTPVerify)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
		if me == nil {
			writeErr(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		u, err := s.findUserByID(me.ID)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"id": u.ID, "username": u.Username, "email": u.Email,
		})
	})
}

// ------------------------------ handlers -----------------------------------

type registerReq struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// handleRegister creates a user plus linked player record, signs a JWT,
// and sets the auth cookie.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.createUser(body)
	if err != nil {
		status := http.StatusBadRequest
		if err.Error() == "username taken" || err.Error() == "email already exists" {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	// Create the linked player profile up front.
	if _, err := s.players.GetOrCreate(r.Context(), u.ID); err != nil {
		log.Error().Err(err).Str("user", u.ID).Msg("create player profile")
	}

	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, http.StatusCreated, map[string]string{
		"access": tok, "username": u.Username,
	})
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleLogin authenticates user+password and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.findUserByUsername(strings.TrimSpace(body.Username))
	if err != nil || !checkPassword(u.PasswordHash, body.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid username or password"})
		return
	}
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, map[string]string{
		"access": tok, "username": u.Username,
	})
}

type otpRequestReq struct {
	Email string `json:"email"`
}

// handleOTPRequest issues a 6-digit login code to a known email address.
func (s *Server) handleOTPRequest(w http.ResponseWriter, r *http.Request) {
	var body otpRequestReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Email) == "" {
		writeErr(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.findUserByEmail(strings.TrimSpace(body.Email))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User with this email was not found"})
		return
	}

	code, err := genOTPCode()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "otp_generate_failed")
		return
	}
	if err := s.otps.Create(r.Context(), u.ID, code, time.Now().Add(otpTTL)); err != nil {
		log.Error().Err(err).Str("user", u.ID).Msg("store otp")
		writeErr(w, http.StatusInternalServerError, "otp_store_failed")
		return
	}
	if err := s.mail.SendOTP(u.Email, code); err != nil {
		log.Error().Err(err).Str("user", u.ID).Msg("send otp email")
		writeErr(w, http.StatusBadGateway, "otp_send_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"detail":             "OTP sent successfully to your email",
		"expires_in_minutes": int(otpTTL.Minutes()),
	})
}

type otpVerifyReq struct {
	Email string `json:"email"`
	Code  string `json:"otp_code"`
}

// handleOTPVerify burns a valid code and logs the user in.
func (s *Server) handleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var body otpVerifyReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.findUserByEmail(strings.TrimSpace(body.Email))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User with this email was not found"})
		return
	}
	ok, err := s.otps.Consume(r.Context(), u.ID, strings.TrimSpace(body.Code), time.Now())
	if err != nil {
		log.Error().Err(err).Str("user", u.ID).Msg("verify otp")
		writeErr(w, http.StatusInternalServerError, "otp_verify_failed")
		return
	}
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid or expired OTP"})
		return
	}
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, http.StatusOK, map[string]string{
		"access": tok, "username": u.Username, "message": "Login successful via OTP",
	})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ------------------------ auth helpers & users -----------------------------

// userRow matches the users table shape.
type userRow struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// createUser validates input, checks uniqueness, hashes password, and
// inserts a new user.
func (s *Server) createUser(body registerReq) (*userRow, error) {
	username := strings.TrimSpace(body.Username)
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if err := validateRegister(username, email, body.Password, body.ConfirmPassword); err != nil {
		return nil, err
	}

	var exists int
	_ = s.db.QueryRow(`SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, errors.New("username taken")
	}
	exists = 0
	_ = s.db.QueryRow(`SELECT 1 FROM users WHERE lower(email)=?`, email).Scan(&exists)
	if exists == 1 {
		return nil, errors.New("email already exists")
	}

	h, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	id := genID()
	if _, err := s.db.Exec(`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?,?,?,?,?)`,
		id, username, email, string(h), now); err != nil {
		return nil, err
	}
	return &userRow{ID: id, Username: username, Email: email, PasswordHash: string(h), CreatedAt: mustParse(now)}, nil
}

// findUserBy* load a user row or return an error if missing.
func (s *Server) findUserByUsername(username string) (*userRow, error) {
	row := s.db.QueryRow(`SELECT id, username, email, password_hash, created_at
	                      FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}
func (s *Server) findUserByID(id string) (*userRow, error) {
	row := s.db.QueryRow(`SELECT id, username, email, password_hash, created_at
	                      FROM users WHERE id=?`, id)
	return scanUser(row)
}
func (s *Server) findUserByEmail(email string) (*userRow, error) {
	row := s.db.QueryRow(`SELECT id, username, email, password_hash, created_at
	                      FROM users WHERE lower(email)=lower(?)`, email)
	return scanUser(row)
}

// scanUser converts a *sql.Row into a userRow.
func scanUser(row *sql.Row) (*userRow, error) {
	var u userRow
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &created); err != nil {
		return nil, err
	}
	u.CreatedAt = mustParse(created)
	return &u, nil
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// checkPassword is a bcrypt verifier.
func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// validateRegister enforces the registration rules.
func validateRegister(username, email, password, confirm string) error {
	if len(username) < 3 || len(username) > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range username {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if email == "" || !strings.Contains(email, "@") {
		return errors.New("valid email required")
	}
	if len(password) < 6 || len(password) > 100 {
		return errors.New("password must be 6-100 chars")
	}
	if password != confirm {
		return errors.New("passwords don't match")
	}
	return nil
}

// genOTPCode returns a crypto-random 6-digit code, zero-padded.
func genOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT with id/username and a configurable expiry
// (JWT_EXPIRES_DAYS; default 14).
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	secret := getEnv("JWT_SECRET", "dev_secret_change_me")
	days := 14
	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}
	exp := time.Now().Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(secret))
	return ss, exp, err
}

// setAuthCookie writes the auth token cookie with appropriate security attributes.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	name := getEnv("COOKIE_NAME", "banana_token")
	secure := os.Getenv("APP_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// clearAuthCookie deletes the auth token cookie.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	name := getEnv("COOKIE_NAME", "banana_token")
	secure := os.Getenv("APP_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(getEnv("COOKIE_NAME", "banana_token")); err == nil {
		return c.Value
	}
	return ""
}

// ---------------------------- auth middleware ------------------------------

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerOrCookie(r)
			if tokenStr == "" {
				writeErr(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")), nil
			})
			if err != nil || !token.Valid {
				writeErr(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			id, _ := claims["id"].(string)
			username, _ := claims["username"].(string)
			if id == "" || username == "" {
				writeErr(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			// Ensure user still exists
			if _, err := s.findUserByID(id); err != nil {
				writeErr(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: id, Username: username})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUser pulls the authenticated user from the request context.
func currentUser(r *http.Request) *authUser {
	u, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return u
}
