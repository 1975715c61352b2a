package board

// ApplyMove plays from->to for the side to move and reports whether it
// captured. The caller guarantees both squares are valid and that from
// holds a piece of the side to move; nothing is checked.
//
// A king stepping two files castles: the corner rook is relocated next to
// it. A pawn reaching the last row becomes a queen of its own colour.
func (b *Board) ApplyMove(from, to Square) bool {
	piece := b.Placement[from]
	c := piece.Color()
	irreversible := false
	b.EnPassant = NoSquare

	switch piece.Kind() {
	case King:
		irreversible = !b.KingMoved[c]
		b.KingMoved[c] = true
		if d := to.File() - from.File(); d == 2 || d == -2 {
			rookFile := 7
			if d < 0 {
				rookFile = 0
			}
			b.relocate(NewSquare(rookFile, from.Row()), (from+to)/2)
		}
	case Pawn:
		irreversible = true
		if isDoublePush(from, to) {
			b.EnPassant = to
		}
		if to.Row() == 0 || to.Row() == 7 {
			piece = NewPiece(Queen, c)
		}
	}

	captured := b.Placement[to] != Empty
	irreversible = irreversible || captured

	b.transfer(from, to, piece)
	b.recordHash(irreversible)
	b.Turn = b.Turn.Other()
	return captured
}

// relocate moves a piece without touching turn or repetition history.
// It is used for the rook half of castling.
func (b *Board) relocate(from, to Square) {
	b.transfer(from, to, b.Placement[from])
}

// transfer lifts whatever is on from and sets piece on to, capturing any
// occupant, keeping score and occupancy in step with the placement.
func (b *Board) transfer(from, to Square, piece Piece) {
	mover := b.Placement[from]
	c := mover.Color()

	b.Score -= PieceSquare[mover][from]
	b.Score -= PieceSquare[b.Placement[to]][to]
	b.Score += PieceSquare[piece][to]

	b.Occupancy[c.Other()] &^= SquareBB(to)
	b.Occupancy[c] &^= SquareBB(from)
	b.Occupancy[c] |= SquareBB(to)

	b.Placement[to] = piece
	b.Placement[from] = Empty
}

func isDoublePush(from, to Square) bool {
	return (from.Row() == 6 && to.Row() == 4) || (from.Row() == 1 && to.Row() == 3)
}
