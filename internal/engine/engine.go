// Package engine implements the move search: a recursive negamax-style
// walk with a single-threshold forward-pruning norm, and an iterative
// deepening driver bounded by the wall-clock time of each iteration.
package engine

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessplay/internal/board"
)

// ErrNoMove is returned when the search finds nothing to play.
var ErrNoMove = errors.New("engine: no move available")

// SearchInfo describes one finished deepening iteration.
type SearchInfo struct {
	Iteration int
	Depth     int
	MaxDepth  int
	Score     int
	Move      board.Move
	Nodes     uint64
	Time      time.Duration // duration of this iteration
	Norm      int
}

// Result is the outcome of a full think.
type Result struct {
	Score      int
	Move       board.Move
	Depth      int // depth of the iteration that produced Move
	MaxDepth   int
	Iterations int
	Nodes      uint64
	Elapsed    time.Duration
	Norm       int
}

// Engine drives a Searcher through the baseline and deepening phases.
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg      Config
	searcher *Searcher
	tm       *TimeManager
	logger   zerolog.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithGenerator replaces the move generator used by the search.
func WithGenerator(g board.Generator) Option {
	return func(e *Engine) { e.searcher = NewSearcher(g, e.cfg) }
}

// New creates an engine with the given configuration.
func New(cfg Config, opts ...Option) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:    cfg,
		tm:     NewTimeManager(cfg.Budget),
		logger: log.Logger.With().Str("component", "engine").Logger(),
	}
	e.searcher = NewSearcher(nil, cfg)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's configuration with defaults filled in.
func (e *Engine) Config() Config {
	return e.cfg
}

// Searcher exposes the underlying searcher.
func (e *Engine) Searcher() *Searcher {
	return e.searcher
}

// Norm runs the shallow unpruned baseline search and derives the pruning
// norm used by the main search.
func (e *Engine) Norm(b *board.Board) int {
	d := e.cfg.NormExplorationDepth
	score, _ := e.searcher.Search(b, d, d, BaselineNorm)
	return score - e.cfg.NormOffset
}

// Think searches b without modifying it. Iterations deepen until one takes
// longer than the budget; that iteration's result is the answer. The
// context is only consulted between iterations.
func (e *Engine) Think(ctx context.Context, b *board.Board) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Move: board.NoMove}, err
	}

	e.searcher.ResetNodes()
	e.tm.Init()

	norm := e.Norm(b)
	depth, maxDepth := e.cfg.Depth, e.cfg.MaxDepth
	res := Result{Move: board.NoMove, Norm: norm}

	for iter := 1; ; iter++ {
		e.tm.BeginIteration()
		score, move := e.searcher.Search(b, depth, maxDepth, norm)
		took := e.tm.EndIteration()

		res.Score, res.Move = score, move
		res.Depth, res.MaxDepth = depth, maxDepth
		res.Iterations = iter

		e.logger.Debug().
			Int("iteration", iter).
			Int("depth", depth).
			Int("score", score).
			Str("move", move.String()).
			Uint64("nodes", e.searcher.Nodes()).
			Dur("took", took).
			Msg("iteration-finished")

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Iteration: iter,
				Depth:     depth,
				MaxDepth:  maxDepth,
				Score:     score,
				Move:      move,
				Nodes:     e.searcher.Nodes(),
				Time:      took,
				Norm:      norm,
			})
		}

		if e.tm.ShouldStop() || ctx.Err() != nil {
			break
		}
		if e.cfg.MaxIterations > 0 && iter >= e.cfg.MaxIterations {
			break
		}
		depth++
		maxDepth++
	}

	res.Nodes = e.searcher.Nodes()
	res.Elapsed = e.tm.Elapsed()

	e.logger.Info().
		Str("side", b.Turn.String()).
		Str("move", res.Move.String()).
		Int("score", res.Score).
		Int("depth", res.Depth).
		Float64("mnodes", float64(res.Nodes)/1e6).
		Dur("elapsed", res.Elapsed).
		Dur("last-iteration", e.tm.LastIteration()).
		Dur("budget", e.tm.Budget()).
		Msg("search-done")
	return res, nil
}

// Play thinks and applies the chosen move to b. It returns ErrNoMove and
// leaves b untouched when the search comes back empty.
func (e *Engine) Play(ctx context.Context, b *board.Board) (Result, error) {
	res, err := e.Think(ctx, b)
	if err != nil {
		return res, err
	}
	if res.Move.IsNone() {
		return res, ErrNoMove
	}
	b.ApplyMove(res.Move.From, res.Move.To)
	return res, nil
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if board.IsMateScore(score) {
		if score > 0 {
			return "King captured"
		}
		return "King lost"
	}

	// Convert centipawns to pawns
	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	cp := strconv.Itoa(score % 100)
	if len(cp) == 1 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(score/100) + "." + cp
}
