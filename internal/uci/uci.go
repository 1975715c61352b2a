// Package uci speaks a subset of the Universal Chess Interface over any
// reader/writer pair.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/record"
)

// ErrIllegalMove is reported for a move the generator does not produce.
var ErrIllegalMove = errors.New("uci: illegal move")

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	cfg    engine.Config
	engine *engine.Engine
	gen    board.Generator
	game   *record.Game
	logger zerolog.Logger

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // guards out

	// Search state
	searching  bool
	searchDone chan struct{}
	cancel     context.CancelFunc
}

// New creates a protocol handler reading commands from in and writing
// responses to out.
func New(cfg engine.Config, in io.Reader, out io.Writer) *UCI {
	u := &UCI{
		cfg:    cfg,
		gen:    board.NewBitboardGenerator(nil),
		game:   record.NewGame(),
		logger: log.Logger.With().Str("component", "uci").Logger(),
		in:     in,
		out:    out,
	}
	u.engine = engine.New(cfg, engine.WithLogger(u.logger))
	return u
}

// Board returns the current position.
func (u *UCI) Board() *board.Board {
	return u.game.Board
}

// Run processes commands until "quit" or the end of input. A search still
// running when input ends is waited for.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			if err := u.handlePosition(args); err != nil {
				u.printf("info string %v\n", err)
			}
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		// Debug commands
		case "d":
			u.println(u.game.Board.String())
		case "perft":
			if err := u.handlePerft(args); err != nil {
				u.printf("info string %v\n", err)
			}
		default:
			u.logger.Debug().Str("command", cmd).Msg("unknown-command")
		}
	}

	u.handleStop()
	return scanner.Err()
}

func (u *UCI) println(s string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(u.out, s)
}

func (u *UCI) printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessPlay")
	u.println("id author ChessPlay Team")
	u.println("uciok")
}

// handleNewGame resets the position.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.game = record.NewGame()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position file <record> [moves ...]
//
// The position is only replaced when every move is accepted.
func (u *UCI) handlePosition(args []string) error {
	if len(args) == 0 {
		return errors.New("position: missing argument")
	}
	u.handleStop()

	game := record.NewGame()
	rest := args[1:]

	switch args[0] {
	case "startpos":
	case "file":
		if len(rest) == 0 {
			return errors.New("position file: missing path")
		}
		moves, err := record.Load(rest[0])
		if err != nil {
			return err
		}
		if err := game.Load(moves); err != nil {
			return fmt.Errorf("%s: %w", rest[0], err)
		}
		rest = rest[1:]
	default:
		return fmt.Errorf("position: unsupported %q", args[0])
	}

	if len(rest) > 0 && rest[0] == "moves" {
		for _, s := range rest[1:] {
			m, err := u.parseMove(game.Board, s)
			if err != nil {
				return err
			}
			game.Apply(m)
		}
	}

	u.game = game
	return nil
}

// parseMove converts a long algebraic move to a board.Move and checks it
// against the generator's destinations for the side to move.
func (u *UCI) parseMove(b *board.Board, s string) (board.Move, error) {
	m, err := board.ParseMove(s)
	if err != nil {
		return board.NoMove, fmt.Errorf("%s: %w", s, err)
	}

	if !board.Moves(u.gen, b, u.engine.Config().Legality).Contains(m) {
		return board.NoMove, fmt.Errorf("%s: %w", s, ErrIllegalMove)
	}
	return m, nil
}

// handleGo starts a search on a goroutine. Clock arguments are accepted
// and ignored; "depth N" sets the starting depth of the deepening.
func (u *UCI) handleGo(args []string) {
	u.handleStop()

	eng := u.engine
	cfg := u.cfg
	for i := 0; i+1 < len(args); i++ {
		if args[i] != "depth" {
			continue
		}
		if d, err := strconv.Atoi(args[i+1]); err == nil && d > 0 {
			cfg.MaxDepth += d - cfg.Depth
			cfg.Depth = d
			eng = engine.New(cfg, engine.WithLogger(u.logger))
		}
		i++
	}
	eng.OnInfo = u.sendInfo

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.searching = true
	u.searchDone = make(chan struct{})

	b := u.game.Board.Clone()

	go func() {
		defer close(u.searchDone)

		res, err := eng.Think(ctx, b)
		if err != nil || res.Move.IsNone() {
			u.println("bestmove 0000")
			return
		}
		u.printf("bestmove %s\n", res.Move)
	}()
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		fmt.Sprintf("seldepth %d", info.MaxDepth),
	}

	if board.IsMateScore(info.Score) {
		mate := 1
		if info.Score < 0 {
			mate = -1
		}
		parts = append(parts, fmt.Sprintf("score mate %d", mate))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if !info.Move.IsNone() {
		parts = append(parts, "pv "+info.Move.String())
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleStop ends deepening after the running iteration and waits for the
// best move to be printed.
func (u *UCI) handleStop() {
	if !u.searching {
		return
	}
	u.cancel()
	<-u.searchDone
	u.searching = false
}

// handlePerft counts leaf nodes from the current position.
func (u *UCI) handlePerft(args []string) error {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			return fmt.Errorf("perft: depth must be positive, got %q", args[0])
		}
		depth = d
	}

	start := time.Now()
	nodes := board.Perft(u.gen, u.game.Board, u.engine.Config().Legality, depth)
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		u.printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
	return nil
}
