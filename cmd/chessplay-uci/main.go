package main

import (
	"flag"
	"os"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write a cpu profile into this directory")
	depth      = flag.Int("depth", 0, "starting search depth")
	maxDepth   = flag.Int("maxdepth", 0, "starting hard ply limit")
	randomize  = flag.Bool("randomize", true, "break ties between equal moves randomly")
	verbose    = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	// stdout carries the protocol; logs go to stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(profilePath), profile.Quiet).Stop()
		log.Warn().Str("dir", profilePath).Msg("cpu profiling enabled")
	}

	cfg := engine.DefaultConfig()
	if *depth > 0 {
		cfg.Depth = *depth
	}
	if *maxDepth > 0 {
		cfg.MaxDepth = *maxDepth
	}
	cfg.Randomize = *randomize

	if err := uci.New(cfg, os.Stdin, os.Stdout).Run(); err != nil {
		log.Error().Err(err).Msg("uci")
	}
}
