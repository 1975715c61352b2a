package board

import "strings"

// RepetitionSlots is the capacity of the repetition ring.
const RepetitionSlots = 75

// openingLayout is the standard starting placement, row 0 (rank 8) first.
var openingLayout = [64]Piece{
	BlackRook, BlackKnight, BlackBishop, BlackQueen, BlackKing, BlackBishop, BlackKnight, BlackRook,
	BlackPawn, BlackPawn, BlackPawn, BlackPawn, BlackPawn, BlackPawn, BlackPawn, BlackPawn,
	Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty,
	Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty,
	Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty,
	Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty,
	WhitePawn, WhitePawn, WhitePawn, WhitePawn, WhitePawn, WhitePawn, WhitePawn, WhitePawn,
	WhiteRook, WhiteKnight, WhiteBishop, WhiteQueen, WhiteKing, WhiteBishop, WhiteKnight, WhiteRook,
}

// Board is a complete game state. It is a plain value: copying a Board
// (see Clone) yields an independent position, which is how the search
// explores branches.
type Board struct {
	// Placement is mutated only by ApplyMove and Put.
	Placement [64]Piece

	// Occupancy caches which squares each colour holds. The two sets are
	// disjoint and together match the non-empty entries of Placement.
	Occupancy [2]Bitboard

	Turn      Color
	KingMoved [2]bool
	EnPassant Square // landing square of the last double push, NoSquare if none

	// Score is the running sum of PieceSquare over the placement.
	Score int

	repetition [RepetitionSlots]uint64
	repIndex   int
	repCount   int
}

// NewBoard returns the standard opening position with White to move.
func NewBoard() *Board {
	b := NewEmptyBoard()
	for sq, p := range openingLayout {
		b.Put(Square(sq), p)
	}
	return b
}

// NewEmptyBoard returns a board with no pieces, White to move.
func NewEmptyBoard() *Board {
	return &Board{Turn: White, EnPassant: NoSquare}
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Put places p on sq, replacing whatever was there, and keeps occupancy
// and score consistent. Put(sq, Empty) clears the square.
func (b *Board) Put(sq Square, p Piece) {
	old := b.Placement[sq]
	b.Score -= PieceSquare[old][sq]
	b.Occupancy[White] &^= SquareBB(sq)
	b.Occupancy[Black] &^= SquareBB(sq)

	b.Placement[sq] = p
	if p != Empty {
		b.Occupancy[p.Color()] |= SquareBB(sq)
		b.Score += PieceSquare[p][sq]
	}
}

// PieceAt returns the piece on sq.
func (b *Board) PieceAt(sq Square) Piece {
	return b.Placement[sq]
}

// Pieces returns the squares held by c.
func (b *Board) Pieces(c Color) Bitboard {
	return b.Occupancy[c]
}

// Empty returns the squares held by nobody.
func (b *Board) Empty() Bitboard {
	return ^(b.Occupancy[White] | b.Occupancy[Black])
}

// Hash returns the position key stored in the repetition ring.
// It is the intersection of both occupancy sets, which is degenerate.
func (b *Board) Hash() uint64 {
	return uint64(b.Occupancy[White] & b.Occupancy[Black])
}

// RepetitionHistory returns the hashes recorded since the last
// irreversible move, oldest first.
func (b *Board) RepetitionHistory() []uint64 {
	out := make([]uint64, 0, b.repCount)
	start := b.repIndex - b.repCount
	for i := 0; i < b.repCount; i++ {
		out = append(out, b.repetition[(start+i+RepetitionSlots)%RepetitionSlots])
	}
	return out
}

// SeenBefore reports whether hash is in the repetition ring.
func (b *Board) SeenBefore(hash uint64) bool {
	start := b.repIndex - b.repCount
	for i := 0; i < b.repCount; i++ {
		if b.repetition[(start+i+RepetitionSlots)%RepetitionSlots] == hash {
			return true
		}
	}
	return false
}

func (b *Board) recordHash(irreversible bool) {
	b.repetition[b.repIndex] = b.Hash()
	b.repIndex = (b.repIndex + 1) % RepetitionSlots
	if b.repCount < RepetitionSlots {
		b.repCount++
	}
	if irreversible {
		b.repIndex = 0
		b.repCount = 0
	}
}

// King returns the square of c's king, or NoSquare if it has been captured.
func (b *Board) King(c Color) Square {
	king := NewPiece(King, c)
	for sq := b.Occupancy[c]; sq != 0; {
		s := sq.PopLSB()
		if b.Placement[s] == king {
			return s
		}
	}
	return NoSquare
}

// String returns an ASCII diagram of the board, rank 8 on top.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sb.WriteByte(byte('8' - row))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			sb.WriteString(b.Placement[NewSquare(file, row)].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	sb.WriteString(b.Turn.String())
	sb.WriteString(" to move\n")
	return sb.String()
}
