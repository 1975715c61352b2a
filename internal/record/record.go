// Package record reads and writes game records: plain text, one ply per
// line, "<from> <to>" as base-10 square indices in 0..63.
package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hailam/chessplay/internal/board"
)

var (
	// ErrMalformedLine is returned for a line that is not two squares.
	ErrMalformedLine = errors.New("record: malformed line")
	// ErrUnsupportedFormat is returned for an unknown file extension.
	ErrUnsupportedFormat = errors.New("record: unsupported file format")
	// ErrIllegalMove is returned when a replayed move is not one the
	// generator produces for the side to move.
	ErrIllegalMove = errors.New("record: illegal move")
)

// FormatMove returns the record line for m, without newline.
func FormatMove(m board.Move) string {
	return strconv.Itoa(int(m.From)) + " " + strconv.Itoa(int(m.To))
}

// ParseLine parses one record line.
func ParseLine(line string) (board.Move, error) {
	from, to, ok := strings.Cut(line, " ")
	if !ok {
		return board.NoMove, ErrMalformedLine
	}
	f, err := parseSquare(from)
	if err != nil {
		return board.NoMove, err
	}
	t, err := parseSquare(to)
	if err != nil {
		return board.NoMove, err
	}
	return board.NewMove(f, t), nil
}

func parseSquare(s string) (board.Square, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 63 {
		return board.NoSquare, ErrMalformedLine
	}
	return board.Square(n), nil
}

// Write writes moves in record format.
func Write(w io.Writer, moves []board.Move) error {
	bw := bufio.NewWriter(w)
	for _, m := range moves {
		if _, err := bw.WriteString(FormatMove(m) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read parses a whole record. Trailing blank lines are ignored; any other
// bad line fails the load with its line number.
func Read(r io.Reader) ([]board.Move, error) {
	sc := bufio.NewScanner(r)
	return scanMoves(sc.Scan, sc.Text, sc.Err)
}

// scanMoves drives any line scanner; it is shared with Source.
func scanMoves(scan func() bool, text func() string, scanErr func() error) ([]board.Move, error) {
	var moves []board.Move
	blank := 0
	for n := 1; scan(); n++ {
		line := strings.TrimRight(text(), "\r")
		if line == "" {
			blank++
			continue
		}
		if blank > 0 {
			return nil, fmt.Errorf("line %d: %w", n-blank, ErrMalformedLine)
		}
		m, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q: %w", n, line, err)
		}
		moves = append(moves, m)
	}
	if scanErr != nil {
		if err := scanErr(); err != nil {
			return nil, err
		}
	}
	return moves, nil
}

// Replay applies moves from the opening position in order. Every move is
// checked against the generated moves of the side to move first, so a bad
// record never reaches ApplyMove.
func Replay(moves []board.Move) (*board.Board, error) {
	b := board.NewBoard()
	gen := board.NewBitboardGenerator(nil)
	for i, m := range moves {
		if !board.Moves(gen, b, nil).Contains(m) {
			return nil, fmt.Errorf("line %d: %q: %w", i+1, FormatMove(m), ErrIllegalMove)
		}
		b.ApplyMove(m.From, m.To)
	}
	return b, nil
}

// Game accumulates the moves of a game in progress together with its board.
type Game struct {
	Board *board.Board
	Moves []board.Move
}

// NewGame starts a game from the opening position.
func NewGame() *Game {
	return &Game{Board: board.NewBoard()}
}

// Apply plays m on the board and records it. Callers check m first.
func (g *Game) Apply(m board.Move) bool {
	g.Moves = append(g.Moves, m)
	return g.Board.ApplyMove(m.From, m.To)
}

// Load resets the game to the replay of moves. The game is left untouched
// when the replay fails.
func (g *Game) Load(moves []board.Move) error {
	b, err := Replay(moves)
	if err != nil {
		return err
	}
	g.Moves = append([]board.Move(nil), moves...)
	g.Board = b
	return nil
}
