package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/m36h4/word-transform-game/internal/game"
	"github.com/m36h4/word-transform-game/internal/words"
)

func newSession(t *testing.T) *game.Session {
	t.Helper()
	dict := words.New([]string{"cat", "cot", "cog", "dog"})
	s := game.NewSession(dict, nil, nil)
	if err := s.Start(3); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveUpdate(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)
	is.NoErr(st.Save(ctx, s))
	is.Equal(st.Len(), 1)

	start := s.StartWord()
	var seen string
	err := st.Update(ctx, s.ID, func(got *game.Session) error {
		seen = got.CurrentWord()
		got.Restart()
		return nil
	})
	is.NoErr(err)
	is.Equal(seen, start)

	_ = st.Update(ctx, s.ID, func(got *game.Session) error {
		is.Equal(got.Status(), game.StatusNotStarted)
		return nil
	})
}

func TestUpdateErrors(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)
	is.NoErr(st.Save(ctx, s))

	err := st.Update(ctx, "nope", func(*game.Session) error { return nil })
	is.True(errors.Is(err, ErrNotFound))

	boom := errors.New("boom")
	err = st.Update(ctx, s.ID, func(*game.Session) error { return boom })
	is.Equal(err, boom)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = st.Update(cancelled, s.ID, func(*game.Session) error { return nil })
	is.True(errors.Is(err, context.Canceled))
}

func TestUpdateSerializes(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)
	is.NoErr(st.Save(ctx, s))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.Update(ctx, s.ID, func(got *game.Session) error {
				_, err := got.RequestHint()
				return err
			})
		}()
	}
	wg.Wait()

	_ = st.Update(ctx, s.ID, func(got *game.Session) error {
		is.Equal(got.HintsUsed(), 50)
		return nil
	})
}

func TestSweep(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	st := NewMemoryStore()
	idle, busy := newSession(t), newSession(t)
	is.NoErr(st.Save(ctx, idle))
	is.NoErr(st.Save(ctx, busy))

	is.Equal(st.Sweep(time.Now().Add(-time.Hour)), 0) // nothing that old
	is.Equal(st.Len(), 2)

	time.Sleep(5 * time.Millisecond)
	cutoff := time.Now()
	time.Sleep(5 * time.Millisecond)
	is.NoErr(st.Update(ctx, busy.ID, func(*game.Session) error { return nil }))

	is.Equal(st.Sweep(cutoff), 1)
	is.Equal(st.Len(), 1)
	err := st.Update(ctx, idle.ID, func(*game.Session) error { return nil })
	is.True(errors.Is(err, ErrNotFound))
	is.NoErr(st.Update(ctx, busy.ID, func(*game.Session) error { return nil }))
}

func TestRunSweeper(t *testing.T) {
	is := is.New(t)
	st := NewMemoryStore()
	is.NoErr(st.Save(context.Background(), newSession(t)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunSweeper(ctx, st, time.Nanosecond, time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for st.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done
	is.Equal(st.Len(), 0)
}
