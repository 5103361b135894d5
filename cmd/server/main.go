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
	"golang.org/x/sync/errgroup"

	"numbertrail/server/handlers"
	"numbertrail/server/persistence"
	"numbertrail/server/services"
)

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := loadConfig()
	log := newLogger(cfg, os.Stdout)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	store, err := openStore(startCtx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	defer store.Close()

	levels := services.NewLevelService(store, log.With().Str("component", "levels").Logger())
	if err := levels.Seed(startCtx); err != nil {
		return fmt.Errorf("failed to seed levels: %w", err)
	}
	if cfg.LevelsFile != "" {
		if _, err := levels.ImportPack(startCtx, cfg.LevelsFile); err != nil {
			return err
		}
	}

	sessions := services.NewSessionService(levels, log.With().Str("component", "sessions").Logger())
	clients := handlers.NewClientManager(log)
	router := handlers.NewRouter(
		handlers.NewRESTHandler(levels, sessions, clients, log),
		handlers.NewWSHandler(sessions, clients, cfg.AllowedOrigin, log),
		log,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		// hijacked websocket connections are not tracked by Shutdown
		clients.CloseAll("server shutting down")
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg Config, log zerolog.Logger) (persistence.LevelStore, error) {
	switch cfg.DBType {
	case "postgres":
		store, err := persistence.NewPostgresStore(ctx, cfg.DatabaseURL, log.With().Str("component", "postgres").Logger())
		if err != nil {
			return nil, err
		}
		log.Info().Msg("using PostgreSQL persistence")
		return store, nil
	case "json", "":
		store, err := persistence.NewJSONStore(cfg.DBFile)
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", cfg.DBFile).Msg("using JSON persistence")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown DB_TYPE %q", cfg.DBType)
	}
}
