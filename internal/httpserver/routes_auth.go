// internal/httpserver/routes_auth.go
//
// Accounts and ladder history.
//   - POST /auth/signup, /auth/login, /auth/logout
//   - GET  /auth/me       (require auth)
//   - GET  /ladders/mine  (optional auth: user's rows, or the guest's via cookie)
//
// Signup and login claim the guest's anonymous ladders for the account.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/m36h4/word-transform-game/internal/auth"
	"github.com/m36h4/word-transform-game/internal/ladders"
	"github.com/m36h4/word-transform-game/internal/users"
)

// credentialsReq is the payload for signup and login.
type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuth registers authentication and history routes.
func (s *Server) mountAuth() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, identity(r))
	})
	s.r.With(s.withOptionalAuth()).Get("/ladders/mine", s.handleMine)
}

// handleSignup creates a user, signs a JWT, sets the auth cookie, and claims guest ladders.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.users.Create(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, users.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken")
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.signIn(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleLogin authenticates a user, sets the auth cookie, and claims guest ladders.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.users.ByUsername(r.Context(), strings.TrimSpace(body.Username))
	if err != nil || !auth.CheckPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if !s.signIn(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, auth.Identity{ID: u.ID, Username: u.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.cookies.ClearAuth(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// signIn issues the auth cookie and moves guest rows to u.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, u *users.User) bool {
	tok, exp, err := s.signer.Sign(u.ID, u.Username)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.cookies.SetAuth(w, tok, exp)
	if c, err := r.Cookie(auth.AnonCookieName); err == nil && c.Value != "" {
		if n, err := s.ladders.Claim(r.Context(), c.Value, u.ID); err != nil {
			log.Warn().Err(err).Msg("claim anon ladders")
		} else if n > 0 {
			log.Info().Str("user", u.ID).Int64("ladders", n).Msg("claimed anon ladders")
		}
	}
	return true
}

// handleMine lists the caller's recent ladders (?limit=N, default 50).
// A limit that is not a non-negative integer is rejected; 0 means the default.
func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}
	rows, err := s.ladders.Mine(r.Context(), s.owner(w, r), limit)
	if err != nil {
		log.Error().Err(err).Msg("list ladders")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ------------------------------ identity ------------------------------------

// ctxUserKey is the context key type for storing the signed-in identity.
type ctxUserKey struct{}

func identity(r *http.Request) *auth.Identity {
	id, _ := r.Context().Value(ctxUserKey{}).(*auth.Identity)
	return id
}

// owner returns the signed-in user, or the guest's anonymous cookie (set if missing).
func (s *Server) owner(w http.ResponseWriter, r *http.Request) ladders.Owner {
	if me := identity(r); me != nil {
		return ladders.Owner{UserID: me.ID}
	}
	return ladders.Owner{AnonID: s.cookies.EnsureAnon(w, r)}
}

// authenticate resolves the request token to an existing user.
func (s *Server) authenticate(r *http.Request) (*auth.Identity, bool) {
	tok := s.cookies.Token(r)
	if tok == "" {
		return nil, false
	}
	id, err := s.signer.Parse(tok)
	if err != nil {
		return nil, false
	}
	// Ensure user still exists
	if _, err := s.users.ByID(r.Context(), id.ID); err != nil {
		return nil, false
	}
	return id, true
}

// withOptionalAuth decorates requests with the user if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := s.authenticate(r); ok {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT and injects the identity into the request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := s.authenticate(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, id)))
		})
	}
}
