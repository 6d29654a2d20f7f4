package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m36h4/word-transform-game/assets"
	"github.com/m36h4/word-transform-game/internal/config"
	"github.com/m36h4/word-transform-game/internal/db"
	"github.com/m36h4/word-transform-game/internal/game"
	"github.com/m36h4/word-transform-game/internal/ladders"
	"github.com/m36h4/word-transform-game/internal/store"
	"github.com/m36h4/word-transform-game/internal/words"
)

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

// newTestServer serves a dictionary whose sorted 3-letter pool is
// cat cog cot dog; random puzzles are always cat → dog.
func newTestServer(t *testing.T) (*client, *httptest.Server) {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn, assets.Migrations()))

	calls := 0
	intn := func(n int) int {
		v := []int{0, 3}[calls%2] % n
		calls++
		return v
	}
	fixed := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

	srv := New(Deps{
		Config: &config.Config{
			JWTSecret:    "test-secret",
			JWTTTL:       time.Hour,
			CookieName:   "ladder_token",
			ClientOrigin: "http://localhost:5173",
			DailySalt:    "salt",
		},
		Dictionary: words.New([]string{"cat", "cot", "cog", "dog", "cold", "bold", "bolt", "boat"}),
		Sessions:   store.NewMemoryStore(),
		DB:         conn,
		Intn:       intn,
		Now:        func() time.Time { return fixed },
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return newClient(t, ts), ts
}

func newClient(t *testing.T, ts *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: ts.URL, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	res, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	assert.Contains(c.t, res.Header.Get("Content-Type"), "application/json")
	if out != nil {
		// decode into a zero value so omitted fields do not carry over
		rv := reflect.ValueOf(out).Elem()
		rv.Set(reflect.Zero(rv.Type()))
		require.NoError(c.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

type errBody struct {
	Error string `json:"error"`
}

func TestPlayToWin(t *testing.T) {
	c, _ := newTestServer(t)

	var v game.View
	require.Equal(t, http.StatusOK, c.do("POST", "/game/new", map[string]any{"length": 3}, &v))
	assert.Equal(t, game.StatusInProgress, v.Status)
	assert.Equal(t, "cat", v.Start)
	assert.Equal(t, "dog", v.Target)
	assert.Equal(t, []string{"cat"}, v.History)
	id := v.ID

	var e errBody
	assert.Equal(t, http.StatusUnprocessableEntity, c.do("POST", "/game/"+id+"/submit", map[string]string{"word": "cut"}, &e))
	assert.Equal(t, "invalid_word", e.Error)
	assert.Equal(t, http.StatusUnprocessableEntity, c.do("POST", "/game/"+id+"/submit", map[string]string{"word": "dog"}, &e))
	assert.Equal(t, "invalid_transformation", e.Error)

	require.Equal(t, http.StatusOK, c.do("POST", "/game/"+id+"/hint", nil, &v))
	require.NotNil(t, v.Hint)
	assert.Equal(t, game.Hint{Kind: game.HintNext, Word: "cot", Distance: 3}, *v.Hint)

	require.Equal(t, http.StatusOK, c.do("POST", "/game/"+id+"/submit", map[string]string{"word": "COT"}, &v))
	assert.Nil(t, v.Hint)
	assert.Equal(t, "cot", v.Current)

	require.Equal(t, http.StatusOK, c.do("POST", "/game/"+id+"/undo", nil, &v))
	assert.Equal(t, []string{"cat"}, v.History)

	for _, w := range []string{"cot", "cog", "dog"} {
		require.Equal(t, http.StatusOK, c.do("POST", "/game/"+id+"/submit", map[string]string{"word": w}, &v))
	}
	assert.Equal(t, game.StatusWon, v.Status)
	assert.Equal(t, 3, v.Moves)
	assert.Equal(t, 1, v.HintsUsed)

	assert.Equal(t, http.StatusUnprocessableEntity, c.do("POST", "/game/"+id+"/submit", map[string]string{"word": "cog"}, &e))
	assert.Equal(t, "not_in_progress", e.Error)

	var rows []ladders.Ladder
	require.Equal(t, http.StatusOK, c.do("GET", "/ladders/mine", nil, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, ladders.StatusWon, rows[0].Status)
	assert.Equal(t, []string{"cat", "cot", "cog", "dog"}, rows[0].Path)
	assert.Equal(t, 1, rows[0].Hints)
}

func TestRestartAbandons(t *testing.T) {
	c, _ := newTestServer(t)

	var v game.View
	require.Equal(t, http.StatusOK, c.do("POST", "/game/new", map[string]any{"length": 3}, &v))
	id := v.ID
	require.Equal(t, http.StatusOK, c.do("POST", "/game/"+id+"/submit", map[string]string{"word": "cot"}, &v))

	require.Equal(t, http.StatusOK, c.do("POST", "/game/"+id+"/restart", nil, &v))
	assert.Equal(t, game.StatusNotStarted, v.Status)
	assert.Empty(t, v.History)
	assert.Equal(t, "", v.Current)

	// second restart is a no-op and does not touch the row again
	require.Equal(t, http.StatusOK, c.do("POST", "/game/"+id+"/restart", nil, &v))

	var e errBody
	assert.Equal(t, http.StatusUnprocessableEntity, c.do("POST", "/game/"+id+"/hint", nil, &e))
	assert.Equal(t, "not_in_progress", e.Error)

	var rows []ladders.Ladder
	require.Equal(t, http.StatusOK, c.do("GET", "/ladders/mine", nil, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, ladders.StatusAbandoned, rows[0].Status)
	assert.Equal(t, []string{"cat", "cot"}, rows[0].Path)
}

func TestGameErrors(t *testing.T) {
	c, _ := newTestServer(t)
	var e errBody

	assert.Equal(t, http.StatusNotFound, c.do("GET", "/game/nope", nil, &e))
	assert.Equal(t, "not_found", e.Error)
	assert.Equal(t, http.StatusNotFound, c.do("POST", "/game/nope/submit", map[string]string{"word": "cot"}, &e))

	assert.Equal(t, http.StatusUnprocessableEntity, c.do("POST", "/game/new", map[string]any{"length": 9}, &e))
	assert.Equal(t, "unsupported_length", e.Error)

	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/game/new", map[string]any{"mode": "weekly"}, &e))
	assert.Equal(t, "bad_mode", e.Error)

	var v game.View
	require.Equal(t, http.StatusOK, c.do("POST", "/game/new", nil, &v))
	assert.Equal(t, 4, v.Length)
}

func TestDailyModeIsShared(t *testing.T) {
	c, ts := newTestServer(t)
	other := newClient(t, ts)

	var a, b game.View
	require.Equal(t, http.StatusOK, c.do("POST", "/game/new", map[string]any{"length": 4, "mode": "daily"}, &a))
	require.Equal(t, http.StatusOK, other.do("POST", "/game/new", map[string]any{"length": 4, "mode": "daily"}, &b))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Start, b.Start)
	assert.Equal(t, a.Target, b.Target)
	assert.NotEqual(t, a.Start, a.Target)
}

func TestAuthClaimsGuestLadders(t *testing.T) {
	c, ts := newTestServer(t)

	var v game.View
	require.Equal(t, http.StatusOK, c.do("POST", "/game/new", map[string]any{"length": 3}, &v))

	var me struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	var e errBody
	assert.Equal(t, http.StatusUnauthorized, c.do("GET", "/auth/me", nil, &e))

	require.Equal(t, http.StatusOK, c.do("POST", "/auth/signup", map[string]string{"username": "alice", "password": "password1"}, &me))
	assert.Equal(t, "alice", me.Username)

	require.Equal(t, http.StatusOK, c.do("GET", "/auth/me", nil, &me))
	assert.Equal(t, "alice", me.Username)

	var rows []ladders.Ladder
	require.Equal(t, http.StatusOK, c.do("GET", "/ladders/mine", nil, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, v.ID, rows[0].ID)

	// a fresh client logging in sees the same history
	other := newClient(t, ts)
	assert.Equal(t, http.StatusUnauthorized, other.do("POST", "/auth/login", map[string]string{"username": "alice", "password": "nope-nope"}, &e))
	require.Equal(t, http.StatusOK, other.do("POST", "/auth/login", map[string]string{"username": "ALICE", "password": "password1"}, &me))
	require.Equal(t, http.StatusOK, other.do("GET", "/ladders/mine", nil, &rows))
	assert.Len(t, rows, 1)

	assert.Equal(t, http.StatusConflict, other.do("POST", "/auth/signup", map[string]string{"username": "Alice", "password": "password2"}, &e))

	require.Equal(t, http.StatusOK, other.do("POST", "/auth/logout", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, other.do("GET", "/auth/me", nil, &e))
}

func TestDiagnostics(t *testing.T) {
	c, _ := newTestServer(t)

	var health map[string]bool
	require.Equal(t, http.StatusOK, c.do("GET", "/health", nil, &health))
	assert.True(t, health["ok"])

	var stats struct {
		Total    int            `json:"total"`
		ByLength map[string]int `json:"byLength"`
		Sessions int            `json:"sessions"`
	}
	require.Equal(t, http.StatusOK, c.do("GET", "/debug/words", nil, &stats))
	assert.Equal(t, 8, stats.Total)
	assert.Equal(t, 4, stats.ByLength["3"])
	assert.Equal(t, 0, stats.Sessions)

	var v game.View
	require.Equal(t, http.StatusOK, c.do("POST", "/game/new", map[string]any{"length": 3}, &v))
	require.Equal(t, http.StatusOK, c.do("GET", "/debug/words", nil, &stats))
	assert.Equal(t, 1, stats.Sessions)

	var e errBody
	assert.Equal(t, http.StatusNotFound, c.do("GET", "/nowhere", nil, &e))
}

func TestMineLimit(t *testing.T) {
	c, _ := newTestServer(t)

	var v game.View
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, c.do("POST", "/game/new", map[string]any{"length": 3}, &v))
	}

	var rows []ladders.Ladder
	require.Equal(t, http.StatusOK, c.do("GET", "/ladders/mine?limit=2", nil, &rows))
	assert.Len(t, rows, 2)
	require.Equal(t, http.StatusOK, c.do("GET", "/ladders/mine?limit=0", nil, &rows))
	assert.Len(t, rows, 3)

	for _, bad := range []string{"abc", "-1", "2.5"} {
		var e errBody
		assert.Equal(t, http.StatusBadRequest, c.do("GET", "/ladders/mine?limit="+bad, nil, &e), bad)
		assert.Equal(t, "bad_limit", e.Error, bad)
	}
}
