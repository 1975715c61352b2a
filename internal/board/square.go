// Package board implements the chess board representation, the precomputed
// attack and obstruction tables, move generation and incremental evaluation.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Index 0 is a8 and 63 is h1: row 0 holds Black's back rank and row 7
// holds White's, matching the placement array of the opening layout.
type Square uint8

// Named squares used by castling and tests.
const (
	A8 Square = 0
	B8 Square = 1
	C8 Square = 2
	D8 Square = 3
	E8 Square = 4
	F8 Square = 5
	G8 Square = 6
	H8 Square = 7
	A1 Square = 56
	B1 Square = 57
	C1 Square = 58
	D1 Square = 59
	E1 Square = 60
	F1 Square = 61
	G1 Square = 62
	H1 Square = 63

	NoSquare Square = 64
)

// File returns the file (column) of the square (0-7, where 0=a, 7=h).
func (sq Square) File() int {
	return int(sq) % 8
}

// Row returns the placement row of the square (0-7, where 0 is rank 8).
func (sq Square) Row() int {
	return int(sq) / 8
}

// Rank returns the chess rank of the square (1-8).
func (sq Square) Rank() int {
	return 8 - sq.Row()
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '0'+sq.Rank())
}

// NewSquare creates a square from file and row (0-indexed).
func NewSquare(file, row int) Square {
	return Square(row*8 + file)
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0]) - 'a'
	rank := int(s[1]) - '0'

	if file < 0 || file > 7 || rank < 1 || rank > 8 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, 8-rank), nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// onBoard reports whether file and row are both inside 0..7.
func onBoard(file, row int) bool {
	return file >= 0 && file < 8 && row >= 0 && row < 8
}
