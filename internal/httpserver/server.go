// internal/httpserver/server.go
//
// HTTP server wiring for the word ladder backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): mounted under /game (routes_game.go).
//   - Auth + history endpoints: /auth/*, /ladders/mine (routes_auth.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with the signed-in user when a valid
//     token is present; guests are tracked by an anonymous cookie.
//   - Persisting ladder rows is best effort: failures are logged, never
//     surfaced to the player.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/m36h4/word-transform-game/internal/auth"
	"github.com/m36h4/word-transform-game/internal/config"
	"github.com/m36h4/word-transform-game/internal/game"
	"github.com/m36h4/word-transform-game/internal/ladders"
	"github.com/m36h4/word-transform-game/internal/store"
	"github.com/m36h4/word-transform-game/internal/users"
	"github.com/m36h4/word-transform-game/internal/words"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config     *config.Config
	Dictionary *words.Dictionary
	Sessions   store.Store
	DB         *sql.DB

	// Intn drives random puzzles; nil uses frand.
	Intn func(n int) int
	// Now is the clock for daily puzzles; nil uses time.Now.
	Now func() time.Time
}

// Server bundles the router and its collaborators.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	dict     *words.Dictionary
	sessions store.Store
	ladders  *ladders.Store
	users    *users.Store
	signer   auth.Signer
	cookies  auth.Cookies
	pairs    *game.PairGenerator
	hints    *game.HintFinder
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		dict:     d.Dictionary,
		sessions: d.Sessions,
		ladders:  ladders.NewStore(d.DB),
		users:    users.NewStore(d.DB),
		signer:   auth.Signer{Secret: []byte(d.Config.JWTSecret), TTL: d.Config.JWTTTL},
		cookies:  auth.Cookies{Name: d.Config.CookieName, Secure: d.Config.Production},
		pairs:    game.NewPairGenerator(d.Dictionary, d.Intn),
		hints:    game.NewHintFinder(d.Dictionary, d.Config.HintMaxVisits),
		now:      now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(d.Config.ClientOrigin))     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "word-ladder",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/{id}/submit", "/auth/*", "/ladders/mine"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"total":    s.dict.Len(),
			"byLength": s.dict.Stats(),
			"sessions": s.sessions.Len(),
		})
	})

	// Game endpoints: optional auth (guests can play)
	s.mountGame(s.r.With(s.withOptionalAuth()))

	// Auth + history
	s.mountAuth()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router (used by main and tests).
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes a debug-level line per request with status and latency.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
