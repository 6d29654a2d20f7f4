// internal/game/types.go
//
// Core type definitions for the word ladder engine.
// Defines:
//   - Status: lifecycle of a session (not_started → in_progress → won).
//   - Pair:   a generated (start, target) puzzle.
//   - Hint:   outcome of a shortest-path hint request.
//   - View:   plain snapshot of a session's observable state.
//   - Sentinel errors returned by session operations.

package game

import "errors"

// Status is the session lifecycle state.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
)

// Errors returned by Session operations. All of them leave the session unchanged.
var (
	ErrInvalidWord           = errors.New("invalid word")
	ErrInvalidTransformation = errors.New("invalid transformation")
	ErrNotInProgress         = errors.New("game not in progress")
	ErrUnsupportedLength     = errors.New("unsupported word length")
)

// Pair is a start/target puzzle. Fallback is set when the dictionary had
// fewer than two words of the requested length and a built-in pair was used.
type Pair struct {
	Start    string
	Target   string
	Fallback bool
}

// HintKind classifies a hint result.
type HintKind string

const (
	HintNext            HintKind = "next"
	HintAlreadyAtTarget HintKind = "already_at_target"
	HintUnreachable     HintKind = "unreachable"
)

// Hint is the result of a hint search.
//   - HintNext:            Word is the next move; Distance is the number of
//     moves from the current word to the target along a shortest ladder.
//   - HintAlreadyAtTarget: Distance is 0, Word is empty.
//   - HintUnreachable:     no ladder found (or the search cap was hit).
type Hint struct {
	Kind     HintKind `json:"kind"`
	Word     string   `json:"word,omitempty"`
	Distance int      `json:"distance"`
}

// View is a copy of a session's observable state.
type View struct {
	ID        string   `json:"id"`
	Status    Status   `json:"status"`
	Length    int      `json:"length"`
	Start     string   `json:"start"`
	Target    string   `json:"target"`
	Current   string   `json:"current"`
	History   []string `json:"history"`
	Hint      *Hint    `json:"hint,omitempty"`
	Moves     int      `json:"moves"`
	HintsUsed int      `json:"hintsUsed"`
	Fallback  bool     `json:"fallback"`
}
