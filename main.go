// ChessPlay - A chess game against the computer, played in the terminal
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chesscore/internal/cli"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/msgcat"
	"github.com/hailam/chesscore/internal/obslog"
	"github.com/hailam/chesscore/internal/render"
	"github.com/hailam/chesscore/internal/storage"
)

var configPath = flag.String("config", "", "path to a config file (yaml, toml or json)")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := obslog.New(cfg.LogOptions(), os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("chessplay stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	human, err := cfg.Color()
	if err != nil {
		return err
	}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return err
	}

	// Play on without statistics if the database cannot be opened.
	store, err := storage.Open(cfg.DataDir, logger.Named("storage"))
	if err != nil {
		logger.Warn("storage unavailable", zap.Error(err))
		store = nil
	} else {
		defer store.Close()
		rememberPreferences(store, cfg, logger)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eng := engine.NewEngine(rand.New(rand.NewSource(seed)), logger.Named("engine"))
	eng.SetDifficulty(level)

	session := cli.NewSession(cli.Options{
		Engine:     eng,
		Catalog:    catalog,
		Renderer:   render.New(cfg.SquareSize),
		Store:      store,
		Logger:     logger,
		Out:        os.Stdout,
		Username:   cfg.Username,
		Human:      human,
		Difficulty: level,
	})
	return session.Run(ctx, os.Stdin)
}

func rememberPreferences(store *storage.Storage, cfg *config.Config, logger *zap.Logger) {
	first, err := store.IsFirstLaunch()
	if err != nil {
		logger.Warn("reading first launch flag", zap.Error(err))
		return
	}

	prefs, err := store.LoadPreferences()
	if err != nil {
		logger.Warn("loading preferences", zap.Error(err))
		return
	}
	prefs.Username = cfg.Username
	prefs.Difficulty, _ = cfg.Level()
	prefs.PlayerColor, _ = cfg.Color()
	if err := store.SavePreferences(prefs); err != nil {
		logger.Warn("saving preferences", zap.Error(err))
		return
	}

	if first {
		if err := store.MarkFirstLaunchComplete(); err != nil {
			logger.Warn("marking first launch", zap.Error(err))
		}
		logger.Info("first launch", zap.String("username", prefs.Username))
	}
}
