// Package session holds the state of one interactive game: whose turn it
// is, who plays each colour, the square the human has picked up, and the
// bot thinking in the background. It has no rendering; the ui package
// draws it and feeds it clicks and key presses.
package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/chessplay/internal/board"
	"github.com/hailam/chessplay/internal/engine"
	"github.com/hailam/chessplay/internal/record"
	"github.com/hailam/chessplay/internal/storage"
)

// LastGame is the name saved games are stored under.
const LastGame = "last"

// ErrNothingSaved is returned by Load when neither the database nor the
// games directory holds a saved game.
var ErrNothingSaved = errors.New("session: no saved game")

// Event tells the presentation layer what just happened.
type Event int

const (
	EventMove Event = iota
	EventCapture
	EventCastle
	EventInvalid
	EventGameOver
)

// Options configures a session.
type Options struct {
	White, Black storage.PlayerType
	Engine       engine.Config

	// Store and GamesDir are optional; without them Save and Load fail.
	Store    *storage.Storage
	GamesDir string

	// OnEvent, when set, is called synchronously from Click and Update.
	OnEvent func(Event)
}

type botReply struct {
	res engine.Result
	err error
}

// Session is a game in progress. It is driven from a single goroutine;
// only the bot's search runs elsewhere.
type Session struct {
	opts    Options
	players [2]storage.PlayerType
	cfg     engine.Config
	gen     board.Generator
	game    *record.Game

	selected board.Square
	targets  board.Bitboard
	lastMove board.Move

	engines  [2]*engine.Engine
	pending  chan botReply
	cancel   context.CancelFunc
	lastInfo engine.Result

	over    bool
	outcome storage.Outcome
	result  string
	started time.Time
}

// New starts a session at the opening position.
func New(opts Options) *Session {
	s := &Session{
		opts:    opts,
		players: [2]storage.PlayerType{opts.White, opts.Black},
		cfg:     opts.Engine,
		gen:     board.NewBitboardGenerator(nil),
	}
	s.reset(record.NewGame())
	return s
}

// reset abandons any running search and continues from game.
// Engines are rebuilt so a stale search never shares one with a new one.
func (s *Session) reset(game *record.Game) {
	s.abandonSearch()

	s.game = game
	s.selected, s.targets = board.NoSquare, 0
	s.lastMove = board.NoMove
	if n := len(game.Moves); n > 0 {
		s.lastMove = game.Moves[n-1]
	}
	s.over, s.outcome, s.result = false, storage.Unfinished, ""
	s.started = time.Now()
	s.lastInfo = engine.Result{Move: board.NoMove}

	for c := range s.engines {
		s.engines[c] = nil
		if s.players[c] == storage.Bot {
			s.engines[c] = engine.New(s.cfg)
		}
	}
	s.checkGameOver()
}

func (s *Session) abandonSearch() {
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel, s.pending = nil, nil
}

// Board returns the live board. Callers must not modify it.
func (s *Session) Board() *board.Board { return s.game.Board }

// Moves returns the moves played so far.
func (s *Session) Moves() []board.Move { return s.game.Moves }

// Selected returns the picked-up square, or board.NoSquare.
func (s *Session) Selected() board.Square { return s.selected }

// Targets returns the destinations of the selected piece.
func (s *Session) Targets() board.Bitboard { return s.targets }

// LastMove returns the most recent move, or board.NoMove.
func (s *Session) LastMove() board.Move { return s.lastMove }

// Thinking reports whether a bot search is running.
func (s *Session) Thinking() bool { return s.pending != nil }

// LastSearch returns the result of the most recent bot search.
func (s *Session) LastSearch() engine.Result { return s.lastInfo }

// Over reports whether the game has finished, and how.
func (s *Session) Over() (bool, storage.Outcome) { return s.over, s.outcome }

// Result describes the finished game, or is empty.
func (s *Session) Result() string { return s.result }

// Player returns who plays c.
func (s *Session) Player(c board.Color) storage.PlayerType { return s.players[c] }

// Randomize reports whether bots break ties randomly.
func (s *Session) Randomize() bool { return s.cfg.Randomize }

func (s *Session) emit(e Event) {
	if s.opts.OnEvent != nil {
		s.opts.OnEvent(e)
	}
}

func (s *Session) humanToMove() bool {
	return !s.over && s.players[s.game.Board.Turn] == storage.Human
}

// Click handles a click on sq by the human to move. Clicking one of the
// mover's pieces selects it; clicking one of its destinations plays the
// move; anything else clears the selection.
func (s *Session) Click(sq board.Square) {
	if !s.humanToMove() || !sq.IsValid() {
		return
	}
	b := s.game.Board

	if p := b.PieceAt(sq); p != board.Empty && p.Color() == b.Turn {
		s.selected = sq
		s.targets = s.legality().Filter(s.gen, b, sq, s.gen.Destinations(b, sq))
		return
	}

	if s.selected != board.NoSquare {
		if s.targets.IsSet(sq) {
			s.play(board.NewMove(s.selected, sq))
			return
		}
		s.emit(EventInvalid)
	}
	s.selected, s.targets = board.NoSquare, 0
}

func (s *Session) legality() board.LegalityPolicy {
	if s.cfg.Legality != nil {
		return s.cfg.Legality
	}
	return board.PseudoLegal{}
}

// play applies m and reports it.
func (s *Session) play(m board.Move) {
	b := s.game.Board
	castle := b.PieceAt(m.From).Kind() == board.King && abs(m.To.File()-m.From.File()) == 2

	captured := s.game.Apply(m)
	s.lastMove = m
	s.selected, s.targets = board.NoSquare, 0

	switch {
	case captured:
		s.emit(EventCapture)
	case castle:
		s.emit(EventCastle)
	default:
		s.emit(EventMove)
	}
	s.checkGameOver()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// checkGameOver ends the game once a king has fallen or the side to move
// has nothing to play.
func (s *Session) checkGameOver() {
	b := s.game.Board
	switch {
	case board.IsMateScore(b.Rate()):
		s.outcome = storage.WhiteWon
		if b.Rate() < 0 {
			s.outcome = storage.BlackWon
		}
		winner := board.White
		if s.outcome == storage.BlackWon {
			winner = board.Black
		}
		s.finish(fmt.Sprintf("%s wins: king captured", winner))
	case board.Moves(s.gen, b, s.legality()).Len() == 0:
		s.finish(fmt.Sprintf("%s has no move", b.Turn))
	}
}

func (s *Session) finish(result string) {
	s.over = true
	s.result = result
	s.emit(EventGameOver)

	log.Info().
		Str("result", result).
		Int("plies", len(s.game.Moves)).
		Msg("game-finished")

	if s.opts.Store == nil {
		return
	}
	err := s.opts.Store.RecordMatch(storage.MatchResult{
		Outcome:  s.outcome,
		White:    s.players[board.White],
		Black:    s.players[board.Black],
		Plies:    len(s.game.Moves),
		Duration: time.Since(s.started),
	})
	if err != nil {
		log.Warn().Err(err).Msg("record-match")
	}
}

// Update collects a finished bot search and starts the next one when a
// bot is to move. It never blocks.
func (s *Session) Update() {
	if s.pending != nil {
		select {
		case reply := <-s.pending:
			s.collect(reply)
		default:
			return
		}
	}
	s.startBot()
}

// Wait blocks until the running bot search, if any, has been applied.
func (s *Session) Wait(ctx context.Context) error {
	if s.pending == nil {
		return nil
	}
	select {
	case reply := <-s.pending:
		s.collect(reply)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) startBot() {
	if s.over || s.pending != nil {
		return
	}
	b := s.game.Board
	e := s.engines[b.Turn]
	if e == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	reply := make(chan botReply, 1)
	s.pending, s.cancel = reply, cancel

	snapshot := b.Clone()
	go func() {
		res, err := e.Think(ctx, snapshot)
		reply <- botReply{res: res, err: err}
	}()
}

func (s *Session) collect(reply botReply) {
	s.pending = nil
	s.cancel()
	s.cancel = nil

	if reply.err != nil {
		log.Warn().Err(reply.err).Msg("bot-search")
		return
	}
	s.lastInfo = reply.res
	if reply.res.Move.IsNone() {
		s.finish(fmt.Sprintf("%s has no move", s.game.Board.Turn))
		return
	}
	s.play(reply.res.Move)
}

// NewGame starts over from the opening position.
func (s *Session) NewGame() {
	s.reset(record.NewGame())
}

// ToggleRandomize flips random tie-breaking for the bots and returns the
// new setting. Running searches keep the old setting.
func (s *Session) ToggleRandomize() bool {
	s.cfg.Randomize = !s.cfg.Randomize
	for c := range s.engines {
		if s.engines[c] != nil {
			s.engines[c] = engine.New(s.cfg)
		}
	}
	s.abandonSearch()
	return s.cfg.Randomize
}

// Save stores the moves so far in the database and as a record file.
func (s *Session) Save() error {
	if s.opts.Store == nil && s.opts.GamesDir == "" {
		return errors.New("session: no storage configured")
	}
	if s.opts.Store != nil {
		if err := s.opts.Store.SaveGame(LastGame, s.game.Moves); err != nil {
			return err
		}
	}
	if s.opts.GamesDir != "" {
		if err := record.Save(s.lastPath(), s.game.Moves); err != nil {
			return err
		}
	}
	log.Info().Int("plies", len(s.game.Moves)).Msg("game-saved")
	return nil
}

// Load restores the last saved game, preferring the database copy.
func (s *Session) Load() error {
	moves, err := s.loadMoves()
	if err != nil {
		return err
	}
	game := record.NewGame()
	if err := game.Load(moves); err != nil {
		return err
	}
	s.reset(game)
	log.Info().Int("plies", len(moves)).Msg("game-loaded")
	return nil
}

// LoadRecord replaces the game with the replay of a record file.
func (s *Session) LoadRecord(path string) error {
	moves, err := record.Load(path)
	if err != nil {
		return err
	}
	game := record.NewGame()
	if err := game.Load(moves); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	s.reset(game)
	return nil
}

func (s *Session) loadMoves() ([]board.Move, error) {
	if s.opts.Store != nil {
		moves, err := s.opts.Store.LoadGame(LastGame)
		if err == nil {
			return moves, nil
		}
		if !errors.Is(err, storage.ErrGameNotFound) {
			return nil, err
		}
	}
	if s.opts.GamesDir != "" {
		moves, err := record.Load(s.lastPath())
		if err == nil {
			return moves, nil
		}
		log.Debug().Err(err).Msg("load-record")
	}
	return nil, ErrNothingSaved
}

func (s *Session) lastPath() string {
	return filepath.Join(s.opts.GamesDir, LastGame+".txt")
}

// Close abandons any running search.
func (s *Session) Close() {
	s.abandonSearch()
}
