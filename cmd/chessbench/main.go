// Command chessbench measures search throughput on recorded positions and
// plays engine configurations against each other.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/match"
	"github.com/hailam/chessplay/internal/record"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var (
		mode       string
		dir        string
		runs       int
		games      int
		parallel   int
		maxPlies   int
		cpuprofile string
		depth      int
		maxDepth   int
		normOffset int
		opening    string
	)
	flag.StringVar(&mode, "mode", "perf", "perf or quality")
	flag.StringVar(&dir, "dir", "test", "directory of game records (perf)")
	flag.IntVar(&runs, "runs", 10, "passes over the records (perf)")
	flag.IntVar(&games, "games", 100, "games to play (quality)")
	flag.IntVar(&parallel, "parallel", runtime.NumCPU(), "concurrent games (quality)")
	flag.IntVar(&maxPlies, "maxplies", 400, "ply cap per game (quality)")
	flag.StringVar(&opening, "opening", "", "record file played before the engines take over (quality)")
	flag.IntVar(&depth, "depth", 0, "challenger starting depth")
	flag.IntVar(&maxDepth, "maxdepth", 0, "challenger starting hard ply limit")
	flag.IntVar(&normOffset, "norm-offset", 0, "challenger pruning margin")
	flag.StringVar(&cpuprofile, "cpuprofile", "", "write a cpu profile into this directory")
	flag.Parse()

	if cpuprofile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cpuprofile)).Stop()
	}

	challenger := engine.DefaultConfig()
	if depth > 0 {
		challenger.Depth = depth
	}
	if maxDepth > 0 {
		challenger.MaxDepth = maxDepth
	}
	if normOffset > 0 {
		challenger.NormOffset = normOffset
	}

	var err error
	switch mode {
	case "perf":
		err = perf(ctx, dir, runs, challenger)
	case "quality":
		err = quality(ctx, match.QualityConfig{
			Games:      games,
			Parallel:   parallel,
			MaxPlies:   maxPlies,
			Challenger: challenger,
			Baseline:   engine.DefaultConfig(),
		}, opening)
	default:
		err = fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		log.Error().Err(err).Msg(mode)
		os.Exit(1)
	}
}

func perf(ctx context.Context, dir string, runs int, cfg engine.Config) error {
	paths, err := record.Collect(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no records in %s", dir)
	}

	report, err := match.Performance(ctx, paths, runs, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("%d searches over %d records (%v): %d nodes in %v (%.0f nodes/s)\n",
		report.Searches, report.Files, report.Read, report.Nodes, report.Elapsed, report.NodesPerSecond())
	return nil
}

func quality(ctx context.Context, cfg match.QualityConfig, opening string) error {
	if opening != "" {
		moves, err := record.Load(opening)
		if err != nil {
			return err
		}
		cfg.Opening = moves
	}

	report, err := match.Quality(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("challenger won %d, baseline won %d, undecided %d of %d games (%d plies)\n",
		report.ChallengerWins, report.BaselineWins, report.Undecided, report.Games, report.Plies)
	return nil
}
