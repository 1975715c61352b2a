package match

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/record"
)

func tinyConfig(seed int64) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Depth, cfg.MaxDepth = 1, 1
	cfg.NormExplorationDepth = 1
	cfg.NormOffset = 1 << 20 // keep the shallow root out of the pruning window
	cfg.MaxIterations = 1
	cfg.Budget = time.Hour
	cfg.Randomize = false
	cfg.Seed = seed
	return cfg
}

func tinyEngine(seed int64) *engine.Engine {
	return engine.New(tinyConfig(seed), engine.WithLogger(zerolog.Nop()))
}

func TestPlayGame(t *testing.T) {
	t.Run("KingCaptured", func(t *testing.T) {
		b := board.NewEmptyBoard()
		b.Put(0, board.WhiteRook)  // a8
		b.Put(7, board.BlackKing)  // h8
		b.Put(63, board.WhiteKing) // h1

		out, err := PlayGame(context.Background(), tinyEngine(1), tinyEngine(2), b, 10)
		if err != nil {
			t.Fatalf("PlayGame: %v", err)
		}
		if !out.Decided || out.Reason != KingCaptured || out.Winner != board.White {
			t.Fatalf("outcome = %+v, want White capturing the king", out)
		}
		if out.Plies != 1 || out.Moves[0] != board.NewMove(0, 7) {
			t.Errorf("moves = %v, want [a8h8]", out.Moves)
		}
		if b.PieceAt(7) != board.BlackKing {
			t.Error("PlayGame modified the start position")
		}
	})

	t.Run("Starved", func(t *testing.T) {
		b := board.NewEmptyBoard()
		b.Put(7, board.BlackKing)

		out, err := PlayGame(context.Background(), tinyEngine(1), tinyEngine(2), b, 10)
		if err != nil {
			t.Fatalf("PlayGame: %v", err)
		}
		if out.Decided || out.Reason != Starved || out.Plies != 0 {
			t.Errorf("outcome = %+v, want starved before the first ply", out)
		}
	})

	t.Run("PlyLimit", func(t *testing.T) {
		out, err := PlayGame(context.Background(), tinyEngine(1), tinyEngine(2), nil, 4)
		if err != nil {
			t.Fatalf("PlayGame: %v", err)
		}
		if out.Reason != PlyLimit || out.Plies != 4 || len(out.Moves) != 4 {
			t.Errorf("outcome = %+v, want four plies", out)
		}
		replayed, err := record.Replay(out.Moves)
		if err != nil {
			t.Fatalf("Replay: %v", err)
		}
		if got := replayed.Rate(); got != out.Score {
			t.Errorf("replayed score %d, reported %d", got, out.Score)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := PlayGame(ctx, tinyEngine(1), tinyEngine(2), nil, 4)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestQuality(t *testing.T) {
	report, err := Quality(context.Background(), QualityConfig{
		Games:      4,
		Parallel:   2,
		MaxPlies:   6,
		Challenger: tinyConfig(11),
		Baseline:   tinyConfig(29),
		Opening:    []board.Move{board.NewMove(52, 36)}, // e2e4
	})
	if err != nil {
		t.Fatalf("Quality: %v", err)
	}
	if report.Games != 4 {
		t.Errorf("played %d games, want 4", report.Games)
	}
	if sum := report.ChallengerWins + report.BaselineWins + report.Undecided; sum != 4 {
		t.Errorf("outcomes add up to %d: %+v", sum, report)
	}
	if report.Plies == 0 || report.Plies > 4*6 {
		t.Errorf("plies = %d", report.Plies)
	}
}

func TestQualityRejectsIllegalOpening(t *testing.T) {
	_, err := Quality(context.Background(), QualityConfig{
		Games:      1,
		MaxPlies:   2,
		Challenger: tinyConfig(1),
		Baseline:   tinyConfig(2),
		Opening:    []board.Move{board.NewMove(30, 31)},
	})
	if !errors.Is(err, record.ErrIllegalMove) {
		t.Errorf("err = %v, want record.ErrIllegalMove", err)
	}
}

func TestPerformance(t *testing.T) {
	dir := t.TempDir()
	games := map[string][]board.Move{
		"start.txt": nil,
		"e4.zst":    {board.NewMove(52, 36), board.NewMove(12, 28)},
	}
	var paths []string
	for name, moves := range games {
		path := filepath.Join(dir, name)
		if err := record.Save(path, moves); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
		paths = append(paths, path)
	}

	cfg := tinyConfig(1)
	cfg.Depth, cfg.MaxDepth = 2, 2
	report, err := Performance(context.Background(), paths, 3, cfg)
	if err != nil {
		t.Fatalf("Performance: %v", err)
	}
	if report.Files != 2 || report.Searches != 6 {
		t.Errorf("report = %+v, want 2 files and 6 searches", report)
	}
	if report.Nodes == 0 {
		t.Error("no nodes counted")
	}
	if want := bytesize.ByteSize(len("52 36\n12 28\n")); report.Read != want {
		t.Errorf("read %v of records, want %v", report.Read, want)
	}

	if _, err := Performance(context.Background(), []string{filepath.Join(dir, "missing.txt")}, 1, cfg); err == nil {
		t.Error("expected an error for a missing record")
	}

	bad := filepath.Join(dir, "bad.txt")
	if err := record.Save(bad, []board.Move{board.NewMove(12, 28)}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Performance(context.Background(), []string{bad}, 1, cfg); !errors.Is(err, record.ErrIllegalMove) {
		t.Errorf("err = %v, want record.ErrIllegalMove", err)
	}
}
