// internal/auth/auth.go
//
// Credentials and request identity.
// Responsibilities:
//   - bcrypt password hashing and signup validation.
//   - HS256 JWTs carrying {id, username}.
//   - Auth and anonymous cookies; bearer-or-cookie token extraction.

package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"lukechampine.com/frand"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the signed-in user carried in tokens and request contexts.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ValidateSignup enforces basic username/password rules.
func ValidateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8-100 chars")
	}
	return nil
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// NewID creates a 22-char URL-safe random identifier (no padding).
func NewID() string {
	return base64.RawURLEncoding.EncodeToString(frand.Bytes(16))
}

// Signer issues and verifies tokens.
type Signer struct {
	Secret []byte
	TTL    time.Duration
}

// Sign returns a token for id/username and its expiry.
func (s Signer) Sign(id, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.TTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString(s.Secret)
	return ss, exp, err
}

// Parse verifies tok and returns the identity it carries.
func (s Signer) Parse(tok string) (*Identity, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{ID: id, Username: username}, nil
}

// Cookies writes the auth and anonymous cookies.
type Cookies struct {
	Name   string // auth cookie name
	Secure bool   // production: Secure + SameSite=None
}

const AnonCookieName = "ladder_anon"

func (c Cookies) sameSite() http.SameSite {
	if c.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetAuth writes the auth token cookie.
func (c Cookies) SetAuth(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		Expires:  exp,
	})
}

// ClearAuth deletes the auth token cookie.
func (c Cookies) ClearAuth(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		MaxAge:   -1,
	})
}

// EnsureAnon returns the anonymous cookie value, setting a new one if absent.
func (c Cookies) EnsureAnon(w http.ResponseWriter, r *http.Request) string {
	if ck, err := r.Cookie(AnonCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	id := NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// Token extracts a bearer token from the Authorization header or the auth cookie.
func (c Cookies) Token(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if ck, err := r.Cookie(c.Name); err == nil {
		return ck.Value
	}
	return ""
}
