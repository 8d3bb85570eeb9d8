package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"runtime/pprof"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/obslog"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	configPath = flag.String("config", "", "path to a config file (yaml, toml or json)")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	// stdout carries the protocol, so logs go to stderr.
	logger, err := obslog.New(cfg.LogOptions(), os.Stderr)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			logger.Fatal("could not create CPU profile", zap.Error(err))
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal("could not start CPU profile", zap.Error(err))
		}
		defer pprof.StopCPUProfile()
		logger.Info("CPU profiling enabled", zap.String("path", profilePath))
	}

	level, err := cfg.Level()
	if err != nil {
		logger.Fatal("bad difficulty", zap.Error(err))
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	eng := engine.NewEngine(rand.New(rand.NewSource(seed)), logger.Named("engine"))
	eng.SetDifficulty(level)

	protocol := uci.New(eng, os.Stdout, logger.Named("uci"))
	if err := protocol.Run(os.Stdin); err != nil {
		logger.Error("reading input", zap.Error(err))
	}
}
