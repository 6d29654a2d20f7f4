// internal/store/memory.go
//
// In-memory session store for the HTTP shell.
//
// Characteristics:
//   - Stores *game.Session values keyed by ID.
//   - Sessions are not safe for concurrent use, so every read or mutation
//     goes through Update, which holds a per-session lock.
//   - Sessions idle past a cutoff are dropped by Sweep.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/m36h4/word-transform-game/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Store holds live sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Update runs fn with exclusive access to the session.
	// fn's error is returned unchanged.
	Update(ctx context.Context, id string, fn func(s *game.Session) error) error

	// Sweep drops sessions last saved or updated before cutoff and
	// returns how many were removed.
	Sweep(cutoff time.Time) int

	// Len returns the number of stored sessions.
	Len() int
}

// entry pairs a session with the lock serializing access to it.
type entry struct {
	mu      sync.Mutex
	s       *game.Session
	touched atomic.Int64 // unix nanos of the last Save/Update
}

func (e *entry) touch() { e.touched.Store(time.Now().UnixNano()) }

// memory is a map-based Store.
type memory struct {
	mu       sync.RWMutex      // guards sessions map
	sessions map[string]*entry // keyed by Session.ID
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry)}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	e := &entry{s: s}
	e.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = e
	return nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(s *game.Session) error) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touch()
	return fn(e.s)
}

func (m *memory) Sweep(cutoff time.Time) int {
	c := cutoff.UnixNano()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.touched.Load() < c {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// RunSweeper calls Sweep every interval, dropping sessions idle longer
// than ttl, until ctx is done.
func RunSweeper(ctx context.Context, st Store, ttl, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := st.Sweep(now.Add(-ttl)); n > 0 {
				log.Debug().Int("removed", n).Int("live", st.Len()).Msg("swept idle sessions")
			}
		}
	}
}
