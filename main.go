// Command word-transform-game serves the word ladder engine over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/m36h4/word-transform-game/assets"
	"github.com/m36h4/word-transform-game/internal/config"
	"github.com/m36h4/word-transform-game/internal/db"
	"github.com/m36h4/word-transform-game/internal/httpserver"
	"github.com/m36h4/word-transform-game/internal/store"
	"github.com/m36h4/word-transform-game/internal/words"
)

const (
	gracefulShutdownTimeout = 20 * time.Second
	sessionSweepInterval    = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	dict, err := words.Load(cfg.DictionaryFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.DictionaryFile).Msg("failed to load dictionary")
	}
	log.Info().Int("words", dict.Len()).Interface("byLength", dict.Stats()).Msg("dictionary loaded")

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(context.Background(), conn, assets.Migrations()); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	sessions := store.NewMemoryStore()
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go store.RunSweeper(sweepCtx, sessions, cfg.SessionTTL, sessionSweepInterval)

	srv := httpserver.New(httpserver.Deps{
		Config:     cfg,
		Dictionary: dict,
		Sessions:   sessions,
		DB:         conn,
	})
	hs := &http.Server{Addr: ":" + cfg.Port, Handler: srv.Handler()}

	idleConnsClosed := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()
		if err := hs.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("http server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("port", cfg.Port).Msg("starting word ladder server")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	<-idleConnsClosed
	log.Info().Msg("server gracefully shut down")
}
