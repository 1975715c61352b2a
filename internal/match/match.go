// Package match plays engines against each other and measures search
// throughput on recorded positions.
package match

import (
	"context"
	"errors"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
)

// Reason says why a game stopped.
type Reason int

const (
	KingCaptured Reason = iota // score crossed board.MateThreshold
	Starved                    // the side to move had no move
	PlyLimit                   // maxPlies reached
)

func (r Reason) String() string {
	switch r {
	case KingCaptured:
		return "king-captured"
	case Starved:
		return "starved"
	default:
		return "ply-limit"
	}
}

// GameOutcome describes a finished game.
type GameOutcome struct {
	Decided bool        // false for starvation and ply limit
	Winner  board.Color // valid when Decided
	Reason  Reason
	Moves   []board.Move
	Plies   int
	Score   int // final board score, White's point of view
}

// PlayGame plays white against black from start (the opening position when
// nil) until a king falls, a side is starved of moves, or maxPlies plies
// have been played. maxPlies <= 0 means no limit.
func PlayGame(ctx context.Context, white, black *engine.Engine, start *board.Board, maxPlies int) (GameOutcome, error) {
	b := board.NewBoard()
	if start != nil {
		b = start.Clone()
	}
	out := GameOutcome{Reason: PlyLimit}

	for maxPlies <= 0 || out.Plies < maxPlies {
		e := white
		if b.Turn == board.Black {
			e = black
		}

		res, err := e.Play(ctx, b)
		if errors.Is(err, engine.ErrNoMove) {
			out.Reason = Starved
			break
		}
		if err != nil {
			return out, err
		}
		out.Moves = append(out.Moves, res.Move)
		out.Plies++

		if board.IsMateScore(b.Rate()) {
			out.Decided = true
			out.Reason = KingCaptured
			out.Winner = board.White
			if b.Rate() < 0 {
				out.Winner = board.Black
			}
			break
		}
	}

	out.Score = b.Rate()
	log.Debug().
		Str("reason", out.Reason.String()).
		Int("plies", out.Plies).
		Int("score", out.Score).
		Msg("game-over")
	return out, nil
}

// PerfReport summarises a throughput benchmark.
type PerfReport struct {
	Files    int
	Read     bytesize.ByteSize // decompressed record bytes
	Searches int
	Nodes    uint64
	Elapsed  time.Duration
}

// NodesPerSecond returns the search rate.
func (r PerfReport) NodesPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Nodes) / r.Elapsed.Seconds()
}
