// internal/ladders/store.go
//
// SQLite persistence of ladder attempts.
//
// Lifecycle of a row:
//   - Begin:  inserted as in_progress when a puzzle starts.
//   - Finish: updated to won or abandoned with the final path and counters.
//   - Claim:  anonymous rows move to a user account after signup/login.
//
// The path column holds the word history as a JSON array.

package ladders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Row statuses.
const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusAbandoned  = "abandoned"
)

// ErrNotFound is returned when Finish targets an unknown or already finished row.
var ErrNotFound = errors.New("ladder not found")

// Owner identifies who played a ladder; exactly one field is set.
type Owner struct {
	UserID string
	AnonID string
}

// Ladder is one attempt.
type Ladder struct {
	ID         string     `json:"id"`
	Owner      Owner      `json:"-"`
	Mode       string     `json:"mode"`
	Length     int        `json:"length"`
	Start      string     `json:"start"`
	Target     string     `json:"target"`
	Path       []string   `json:"path"`
	Moves      int        `json:"moves"`
	Hints      int        `json:"hints"`
	Status     string     `json:"status"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Outcome is the final state written by Finish.
type Outcome struct {
	Status string
	Path   []string
	Hints  int
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Begin inserts an in-progress row.
func (s *Store) Begin(ctx context.Context, l Ladder) error {
	if l.StartedAt.IsZero() {
		l.StartedAt = time.Now().UTC()
	}
	path := l.Path
	if path == nil {
		path = []string{l.Start}
	}
	raw, err := json.Marshal(path)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO ladders
            (id, user_id, anonymous_id, mode, word_length, start_word, target_word, path, status, started_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, nullable(l.Owner.UserID), nullable(l.Owner.AnonID), l.Mode, l.Length,
		l.Start, l.Target, string(raw), StatusInProgress, l.StartedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Finish closes an in-progress row.
func (s *Store) Finish(ctx context.Context, id string, o Outcome) error {
	raw, err := json.Marshal(o.Path)
	if err != nil {
		return err
	}
	moves := 0
	if len(o.Path) > 0 {
		moves = len(o.Path) - 1
	}
	res, err := s.db.ExecContext(ctx, `
        UPDATE ladders SET status=?, path=?, moves=?, hints=?, finished_at=?
        WHERE id=? AND status=?`,
		o.Status, string(raw), moves, o.Hints, time.Now().UTC().Format(time.RFC3339), id, StatusInProgress,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Mine returns the owner's most recent ladders, newest first (default limit 50).
func (s *Store) Mine(ctx context.Context, o Owner, limit int) ([]Ladder, error) {
	if limit <= 0 {
		limit = 50
	}
	col, arg := "anonymous_id", o.AnonID
	if o.UserID != "" {
		col, arg = "user_id", o.UserID
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, COALESCE(user_id,''), COALESCE(anonymous_id,''), mode, word_length, start_word, target_word,
               path, moves, hints, status, started_at, COALESCE(finished_at,'')
        FROM ladders WHERE `+col+`=?
        ORDER BY started_at DESC, rowid DESC
        LIMIT ?`, arg, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Ladder{}
	for rows.Next() {
		var (
			l                 Ladder
			path              string
			started, finished string
		)
		if err := rows.Scan(&l.ID, &l.Owner.UserID, &l.Owner.AnonID, &l.Mode, &l.Length, &l.Start, &l.Target,
			&path, &l.Moves, &l.Hints, &l.Status, &started, &finished); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(path), &l.Path); err != nil {
			return nil, fmt.Errorf("ladder %s path: %w", l.ID, err)
		}
		l.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished != "" {
			t, _ := time.Parse(time.RFC3339, finished)
			l.FinishedAt = &t
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Claim transfers anonymous ladders to a user account.
func (s *Store) Claim(ctx context.Context, anonID, userID string) (int64, error) {
	if anonID == "" || userID == "" {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE ladders SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
