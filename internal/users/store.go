// internal/users/store.go
//
// SQLite-backed user accounts.
//   - Usernames: 3–24 chars of letters, digits, underscore; unique ignoring case.
//   - Passwords: 8–100 chars, stored as bcrypt hashes.

package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m36h4/word-transform-game/internal/auth"
)

var (
	ErrUsernameTaken = errors.New("username taken")
	ErrNotFound      = errors.New("user not found")
)

// User is a row of the users table.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Create validates input, checks uniqueness, hashes the password and inserts the user.
func (s *Store) Create(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := auth.ValidateSignup(username, password); err != nil {
		return nil, err
	}
	if _, err := s.ByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		ID:           auth.NewID(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ByUsername looks a user up ignoring case.
func (s *Store) ByUsername(ctx context.Context, username string) (*User, error) {
	return scan(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username=? COLLATE NOCASE`, username))
}

func (s *Store) ByID(ctx context.Context, id string) (*User, error) {
	return scan(s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id=?`, id))
}

func scan(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}
