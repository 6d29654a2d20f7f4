// internal/game/engine.go
//
// Session state machine for a single word ladder attempt.
// Responsibilities:
//   - Start a puzzle of a given length from the PairGenerator.
//   - Validate and apply moves (dictionary word, exactly one letter changed).
//   - Undo, restart, and on-demand hints from the HintFinder.
//   - Track state transitions: not_started → in_progress → won.
//
// Notes:
//   - All stored words are lowercase; input is lowercased before any check.
//   - The hint is transient: every state-changing operation clears it.
//   - A Session is not safe for concurrent use; callers serialize access
//     (see the store package).

package game

import (
	"encoding/hex"
	"fmt"
	"strings"

	"lukechampine.com/frand"

	"github.com/m36h4/word-transform-game/internal/words"
)

// Session holds the state of one puzzle attempt.
type Session struct {
	ID string // random hex identifier

	dict  *words.Dictionary
	pairs *PairGenerator
	hints *HintFinder

	status    Status
	length    int
	start     string
	target    string
	history   []string // history[len-1] is the current word
	hint      *Hint
	fallback  bool
	hintsUsed int
}

// NewSession returns a not-started session. Nil pairs or hints use defaults
// over dict (frand pairs, uncapped search).
func NewSession(dict *words.Dictionary, pairs *PairGenerator, hints *HintFinder) *Session {
	if pairs == nil {
		pairs = NewPairGenerator(dict, nil)
	}
	if hints == nil {
		hints = NewHintFinder(dict, 0)
	}
	return &Session{
		ID:     randomID(),
		dict:   dict,
		pairs:  pairs,
		hints:  hints,
		status: StatusNotStarted,
	}
}

// Start begins a new puzzle of the given length from any state.
func (s *Session) Start(length int) error {
	if !words.Supported(length) {
		return fmt.Errorf("%w: %d", ErrUnsupportedLength, length)
	}
	p := s.pairs.Generate(length)
	s.reset()
	s.status = StatusInProgress
	s.length = length
	s.start = strings.ToLower(p.Start)
	s.target = strings.ToLower(p.Target)
	s.history = []string{s.start}
	s.fallback = p.Fallback
	return nil
}

// Submit applies word as the next move.
//
// Validation order (first failure wins, nothing changes on failure):
//  1. the session must be in progress,
//  2. word must be in the dictionary,
//  3. word must differ from the current word in exactly one letter.
//
// Reaching the target moves the session to won.
func (s *Session) Submit(word string) error {
	if s.status != StatusInProgress {
		return ErrNotInProgress
	}
	word = strings.ToLower(strings.TrimSpace(word))
	if !s.dict.Contains(word) {
		return fmt.Errorf("%w: %q", ErrInvalidWord, word)
	}
	if !words.IsOneLetterDiff(s.CurrentWord(), word) {
		return fmt.Errorf("%w: %q to %q", ErrInvalidTransformation, s.CurrentWord(), word)
	}

	s.history = append(s.history, word)
	s.hint = nil
	if word == s.target {
		s.status = StatusWon
	}
	return nil
}

// Undo removes the latest move. It reports false, changing nothing, when the
// session is not in progress or only the start word remains.
func (s *Session) Undo() bool {
	if s.status != StatusInProgress || len(s.history) <= 1 {
		return false
	}
	s.history = s.history[:len(s.history)-1]
	s.hint = nil
	return true
}

// Restart clears the puzzle and returns the session to not started.
func (s *Session) Restart() {
	s.reset()
}

// RequestHint searches for the next move toward the target and stores it
// as the session hint.
func (s *Session) RequestHint() (Hint, error) {
	if s.status != StatusInProgress {
		return Hint{}, ErrNotInProgress
	}
	h := s.hints.Find(s.CurrentWord(), s.target)
	s.hint = &h
	s.hintsUsed++
	return h, nil
}

func (s *Session) reset() {
	s.status = StatusNotStarted
	s.length = 0
	s.start, s.target = "", ""
	s.history = nil
	s.hint = nil
	s.fallback = false
	s.hintsUsed = 0
}

// Status returns the lifecycle state.
func (s *Session) Status() Status { return s.status }

// Length returns the word length, or 0 when not started.
func (s *Session) Length() int { return s.length }

func (s *Session) StartWord() string  { return s.start }
func (s *Session) TargetWord() string { return s.target }

// CurrentWord returns the latest word in the history, or "" when not started.
func (s *Session) CurrentWord() string {
	if len(s.history) == 0 {
		return ""
	}
	return s.history[len(s.history)-1]
}

// History returns a copy of the move history, starting with the start word.
func (s *Session) History() []string {
	return append([]string(nil), s.history...)
}

// Hint returns the latest hint, or nil if none is pending.
func (s *Session) Hint() *Hint {
	if s.hint == nil {
		return nil
	}
	h := *s.hint
	return &h
}

// Moves returns the number of accepted moves still in the history.
func (s *Session) Moves() int {
	if len(s.history) == 0 {
		return 0
	}
	return len(s.history) - 1
}

// Fallback reports whether the current puzzle came from the built-in pairs.
func (s *Session) Fallback() bool { return s.fallback }

// HintsUsed counts hint requests since the puzzle started.
func (s *Session) HintsUsed() int { return s.hintsUsed }

// Snapshot returns a copy of the observable state.
func (s *Session) Snapshot() View {
	history := s.History()
	if history == nil {
		history = []string{}
	}
	return View{
		ID:        s.ID,
		Status:    s.status,
		Length:    s.length,
		Start:     s.start,
		Target:    s.target,
		Current:   s.CurrentWord(),
		History:   history,
		Hint:      s.Hint(),
		Moves:     s.Moves(),
		HintsUsed: s.hintsUsed,
		Fallback:  s.fallback,
	}
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	return hex.EncodeToString(frand.Bytes(8))
}
