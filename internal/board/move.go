package board

import "fmt"

// Move is a (from, to) square pair. Promotion is implicit: a pawn reaching
// the last row always becomes a queen.
type Move struct {
	From, To Square
}

// NoMove is the "no move found" sentinel. It must never be applied.
var NoMove = Move{From: NoSquare, To: NoSquare}

// NewMove creates a move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// IsNone reports whether m is the sentinel.
func (m Move) IsNone() bool {
	return m.From >= NoSquare || m.To >= NoSquare
}

// String returns the long algebraic form of the move (e.g., "e2e4").
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}
	return m.From.String() + m.To.String()
}

// ParseMove parses long algebraic notation. A trailing promotion letter is
// accepted for compatibility but only "q" is meaningful.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	if len(s) == 5 {
		switch s[4] {
		case 'q', 'Q', 'r', 'b', 'n':
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}
	return NewMove(from, to), nil
}

// MoveList is a list of moves in generation order.
type MoveList struct {
	moves []Move
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{moves: make([]Move, 0, 64)}
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves = append(ml.moves, m)
}

// Len returns the number of moves.
func (ml *MoveList) Len() int {
	return len(ml.moves)
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for _, x := range ml.moves {
		if x == m {
			return true
		}
	}
	return false
}

// Slice returns the underlying moves.
func (ml *MoveList) Slice() []Move {
	return ml.moves
}
