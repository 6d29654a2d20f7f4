// internal/httpserver/routes_game.go
//
// HTTP routes for playing a ladder. Every route returns the session view.
//   - POST /game/new          → create and start a session {length, mode}
//   - GET  /game/{id}         → current state
//   - POST /game/{id}/submit  → apply a move {word}
//   - POST /game/{id}/undo    → take back the latest move
//   - POST /game/{id}/restart → clear the puzzle (row recorded as abandoned)
//   - POST /game/{id}/hint    → next word along a shortest ladder
//
// Modes: "random" (default) draws from frand; "daily" draws from the date
// so every player gets the same pair for a length on a given UTC day.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/m36h4/word-transform-game/internal/daily"
	"github.com/m36h4/word-transform-game/internal/game"
	"github.com/m36h4/word-transform-game/internal/ladders"
	"github.com/m36h4/word-transform-game/internal/store"
)

const (
	modeRandom    = "random"
	modeDaily     = "daily"
	defaultLength = 4
)

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Get("/{id}", s.handleGetGame)
		r.Post("/{id}/submit", s.handleSubmit)
		r.Post("/{id}/undo", s.handleUndo)
		r.Post("/{id}/restart", s.handleRestart)
		r.Post("/{id}/hint", s.handleHint)
	})
}

// newGameReq is the payload for POST /game/new. Both fields are optional.
type newGameReq struct {
	Length int    `json:"length"`
	Mode   string `json:"mode"`
}

// handleNewGame creates a session, starts it, and records an in-progress ladder row.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	if req.Length == 0 {
		req.Length = defaultLength
	}
	if req.Mode == "" {
		req.Mode = modeRandom
	}

	pairs := s.pairs
	switch req.Mode {
	case modeRandom:
	case modeDaily:
		pairs = game.NewPairGenerator(s.dict, daily.Source(s.now(), s.cfg.DailySalt))
	default:
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}

	g := game.NewSession(s.dict, pairs, s.hints)
	if err := g.Start(req.Length); err != nil {
		s.writeGameError(w, err)
		return
	}
	if err := s.sessions.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	err := s.ladders.Begin(r.Context(), ladders.Ladder{
		ID:     g.ID,
		Owner:  s.owner(w, r),
		Mode:   req.Mode,
		Length: g.Length(),
		Start:  g.StartWord(),
		Target: g.TargetWord(),
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert ladder row")
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(g *game.Session) error { return nil })
}

// submitReq is the payload for POST /game/{id}/submit.
type submitReq struct {
	Word string `json:"word"`
}

// handleSubmit applies a move; a winning move closes the ladder row.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	var outcome *ladders.Outcome
	v, ok := s.withSession(w, r, func(g *game.Session) error {
		if err := g.Submit(req.Word); err != nil {
			return err
		}
		if g.Status() == game.StatusWon {
			outcome = &ladders.Outcome{Status: ladders.StatusWon, Path: g.History(), Hints: g.HintsUsed()}
		}
		return nil
	})
	if ok && outcome != nil {
		s.finish(r.Context(), v.ID, *outcome)
	}
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(g *game.Session) error {
		g.Undo()
		return nil
	})
}

// handleRestart clears the puzzle; an unfinished ladder is recorded as abandoned.
func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var outcome *ladders.Outcome
	v, ok := s.withSession(w, r, func(g *game.Session) error {
		if g.Status() == game.StatusInProgress {
			outcome = &ladders.Outcome{Status: ladders.StatusAbandoned, Path: g.History(), Hints: g.HintsUsed()}
		}
		g.Restart()
		return nil
	})
	if ok && outcome != nil {
		s.finish(r.Context(), v.ID, *outcome)
	}
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(g *game.Session) error {
		_, err := g.RequestHint()
		return err
	})
}

// withSession runs fn under the session lock and writes either the
// resulting view or the mapped error. ok reports whether fn succeeded.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(g *game.Session) error) (v game.View, ok bool) {
	id := chi.URLParam(r, "id")
	err := s.sessions.Update(r.Context(), id, func(g *game.Session) error {
		if err := fn(g); err != nil {
			return err
		}
		v = g.Snapshot()
		return nil
	})
	if err != nil {
		s.writeGameError(w, err)
		return v, false
	}
	writeJSON(w, http.StatusOK, v)
	return v, true
}

// writeGameError maps engine and store errors to HTTP responses.
func (s *Server) writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrInvalidWord):
		writeError(w, http.StatusUnprocessableEntity, "invalid_word")
	case errors.Is(err, game.ErrInvalidTransformation):
		writeError(w, http.StatusUnprocessableEntity, "invalid_transformation")
	case errors.Is(err, game.ErrNotInProgress):
		writeError(w, http.StatusUnprocessableEntity, "not_in_progress")
	case errors.Is(err, game.ErrUnsupportedLength):
		writeError(w, http.StatusUnprocessableEntity, "unsupported_length")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "timeout")
	default:
		log.Error().Err(err).Msg("game operation")
		writeError(w, http.StatusInternalServerError, "internal")
	}
}

// finish closes a ladder row, best effort.
func (s *Server) finish(ctx context.Context, id string, o ladders.Outcome) {
	if err := s.ladders.Finish(ctx, id, o); err != nil {
		log.Warn().Err(err).Str("gameId", id).Str("status", o.Status).Msg("finish ladder row")
	}
}
