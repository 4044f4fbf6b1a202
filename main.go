package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessbot/internal/bot"
	"github.com/robalobadob/guessbot/internal/config"
	"github.com/robalobadob/guessbot/internal/cooldown"
	"github.com/robalobadob/guessbot/internal/httpserver"
	"github.com/robalobadob/guessbot/internal/leaderboard"
	"github.com/robalobadob/guessbot/internal/render"
	"github.com/robalobadob/guessbot/internal/store"
	"github.com/robalobadob/guessbot/internal/words"
)

const usage = `usage:
  guessbot                    run the bot HTTP adapter
  guessbot token <subject>    print a bearer token for a chat bridge
  guessbot hash <password>    print a bcrypt hash for ADMIN_PASSWORD_HASH`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	if len(os.Args) > 1 {
		if err := runTool(cfg, os.Args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func runTool(cfg config.Config, args []string) error {
	switch {
	case args[0] == "token" && len(args) == 2:
		tok, err := httpserver.SignBotToken(cfg.JWTSecret, args[1], 0)
		if err != nil {
			return err
		}
		fmt.Println(tok)
	case args[0] == "hash" && len(args) == 2:
		h, err := httpserver.HashAdminPassword(args[1])
		if err != nil {
			return err
		}
		fmt.Println(h)
	default:
		return errors.New(usage)
	}
	return nil
}

func run(ctx context.Context, cfg config.Config) error {
	if cfg.JWTSecret == config.DevSecret {
		log.Warn().Msg("BOT_JWT_SECRET not set, using the development secret")
	}

	corpus, err := words.Load(cfg.WordsDir)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	kv, err := openKV(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()
	if p, ok := kv.(store.Purger); ok {
		go purgeLoop(ctx, p, time.Minute)
	}

	renderer, err := render.NewPNG(cfg.RenderCacheBytes)
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	defer renderer.Close()

	keys := store.Keys{Prefix: cfg.KeyPrefix}
	sessions := store.NewSessions(kv, keys, cfg.SessionTTL, cfg.FinishedTTL)
	settings := store.NewSettings(kv, keys)
	board := leaderboard.New(kv, keys)

	deps := bot.Deps{
		Corpus:      corpus,
		Sessions:    sessions,
		Leaderboard: board,
		Renderer:    renderer,
		Preferences: settings,
		Limiter:     cooldown.New(cfg.ScopeCooldown, cfg.PlayerCooldown),
		Locks:       bot.NewScopeLocks(),
		Logger:      &log.Logger,
	}
	dispatcher := bot.NewDispatcher(bot.DispatcherDeps{
		Games:    []*bot.Orchestrator{bot.NewLetterGame(deps), bot.NewEquationGame(deps), bot.NewIdiomGame(deps)},
		Sessions: sessions,
		Settings: settings,
		Rankings: board,
		Catalog:  corpus,
		Logger:   &log.Logger,
	})

	srv := httpserver.New(httpserver.Options{
		Dispatcher:        dispatcher,
		Rankings:          board,
		Toggle:            settings,
		Stats:             corpus.Stats,
		JWTSecret:         cfg.JWTSecret,
		AdminUser:         cfg.AdminUser,
		AdminPasswordHash: cfg.AdminPasswordHash,
		Debug:             cfg.DebugRoutes,
		Logger:            &log.Logger,
	})
	hs := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("starting guessbot")
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

func openKV(cfg config.Config) (store.KV, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		return store.OpenSQLite(cfg.SQLitePath)
	case config.BackendMemory:
		log.Warn().Msg("memory store: sessions and leaderboards are lost on restart")
		return store.NewMemory(), nil
	default:
		return store.OpenBadger(cfg.BadgerDir)
	}
}

// purgeLoop sweeps expired rows from backends without native TTL.
func purgeLoop(ctx context.Context, p store.Purger, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := p.Purge(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("purge expired keys")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("purged expired keys")
			}
		}
	}
}
