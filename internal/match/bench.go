package match

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/record"
)

// QualityConfig configures a bot-vs-bot comparison.
type QualityConfig struct {
	Games      int
	Parallel   int // concurrent games; <= 0 means one
	MaxPlies   int
	Challenger engine.Config
	Baseline   engine.Config
	Opening    []board.Move // played before the engines take over
}

// QualityReport counts how the challenger fared.
type QualityReport struct {
	Games          int
	ChallengerWins int
	BaselineWins   int
	Undecided      int
	Plies          int
}

// Quality plays cfg.Games games between the challenger and the baseline,
// swapping colours every game. Each game gets its own pair of engines, so
// games run concurrently; the attack tables are the only shared state.
func Quality(ctx context.Context, cfg QualityConfig) (QualityReport, error) {
	parallel := cfg.Parallel
	if parallel <= 0 {
		parallel = 1
	}
	start, err := record.Replay(cfg.Opening)
	if err != nil {
		return QualityReport{}, fmt.Errorf("opening: %w", err)
	}

	var challengerWins, baselineWins, undecided, plies, done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i := 0; i < cfg.Games; i++ {
		i := i
		g.Go(func() error {
			challengerCfg, baselineCfg := cfg.Challenger, cfg.Baseline
			if challengerCfg.Seed != 0 {
				challengerCfg.Seed += int64(i)
			}
			if baselineCfg.Seed != 0 {
				baselineCfg.Seed += int64(i)
			}
			challenger := engine.New(challengerCfg)
			baseline := engine.New(baselineCfg)

			challengerColor := board.White
			white, black := challenger, baseline
			if i%2 == 1 {
				challengerColor = board.Black
				white, black = baseline, challenger
			}

			out, err := PlayGame(ctx, white, black, start, cfg.MaxPlies)
			if err != nil {
				return err
			}

			plies.Add(int64(out.Plies))
			switch {
			case !out.Decided:
				undecided.Add(1)
			case out.Winner == challengerColor:
				challengerWins.Add(1)
			default:
				baselineWins.Add(1)
			}

			log.Info().
				Int64("completed", done.Add(1)).
				Int("total", cfg.Games).
				Str("reason", out.Reason.String()).
				Msg("quality-game")
			return nil
		})
	}

	err = g.Wait()
	report := QualityReport{
		Games:          int(done.Load()),
		ChallengerWins: int(challengerWins.Load()),
		BaselineWins:   int(baselineWins.Load()),
		Undecided:      int(undecided.Load()),
		Plies:          int(plies.Load()),
	}
	return report, err
}

// Performance replays every record in paths and runs one unpruned search
// at (cfg.Depth, cfg.MaxDepth) on the final position, runs times over.
func Performance(ctx context.Context, paths []string, runs int, cfg engine.Config) (PerfReport, error) {
	report := PerfReport{Files: len(paths)}
	boards := make([]*board.Board, 0, len(paths))
	for _, path := range paths {
		b, read, err := loadPosition(path)
		if err != nil {
			return PerfReport{}, err
		}
		boards = append(boards, b)
		report.Read += read
	}

	s := engine.NewSearcher(nil, cfg)
	start := time.Now()

	for run := 0; run < runs; run++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		for _, b := range boards {
			s.Search(b, cfg.Depth, cfg.MaxDepth, engine.BaselineNorm)
			report.Searches++
		}
		log.Info().
			Int("percent", (run+1)*100/runs).
			Uint64("nodes", s.Nodes()).
			Msg("performance-run")
	}

	report.Nodes = s.Nodes()
	report.Elapsed = time.Since(start)
	return report, nil
}

// loadPosition replays the record at path and returns the final position
// and the number of decompressed bytes read.
func loadPosition(path string) (*board.Board, bytesize.ByteSize, error) {
	src, err := record.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer src.Close()

	moves, err := record.ReadSource(src)
	if err != nil {
		return nil, 0, err
	}
	b, err := record.Replay(moves)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}

	log.Debug().
		Str("path", src.Path()).
		Int("plies", len(moves)).
		Str("read", src.BytesRead().String()).
		Str("size", src.Size().String()).
		Msg("record-loaded")
	return b, src.BytesRead(), nil
}
