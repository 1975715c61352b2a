package board

// Generator maps a square to the destinations of the piece standing on it.
// Destinations are pseudo-legal: nothing checks whether the mover's own
// king is left capturable. An empty square has no destinations.
type Generator interface {
	Destinations(b *Board, sq Square) Bitboard
}

// Castling path masks on row 0; shift by the back-rank row offset.
const (
	queenSidePath Bitboard = 0b00001110
	kingSidePath  Bitboard = 0b01100000
)

// BitboardGenerator answers destination queries with table lookups.
// It is the generator used by search and by the game loop.
type BitboardGenerator struct {
	t *AttackTables
}

// NewBitboardGenerator returns a generator backed by t. A nil t selects
// the shared process-wide tables.
func NewBitboardGenerator(t *AttackTables) *BitboardGenerator {
	if t == nil {
		t = Tables()
	}
	return &BitboardGenerator{t: t}
}

// Destinations implements Generator.
func (g *BitboardGenerator) Destinations(b *Board, sq Square) Bitboard {
	p := b.Placement[sq]
	if p == Empty {
		return 0
	}
	c := p.Color()
	friendly, enemy := b.Occupancy[c], b.Occupancy[c.Other()]

	switch p.Kind() {
	case Pawn:
		return g.pawn(b, sq, c, enemy)
	case Knight:
		return g.t.Knight[sq] &^ friendly
	case Bishop:
		return g.t.Slide(BishopSlider, sq, friendly, enemy)
	case Rook:
		return g.t.Slide(RookSlider, sq, friendly, enemy)
	case Queen:
		return g.t.Slide(RookSlider, sq, friendly, enemy) | g.t.Slide(BishopSlider, sq, friendly, enemy)
	case King:
		return g.t.King[sq]&^friendly | castling(b, sq, c)
	}
	return 0
}

func (g *BitboardGenerator) pawn(b *Board, sq Square, c Color, enemy Bitboard) Bitboard {
	empty := b.Empty()
	offset, startRow := pawnStep(c)

	moves := SquareBB(sq).shift(offset) & empty
	if sq.Row() == startRow {
		moves |= moves.shift(offset) & empty
	}
	return moves | g.t.PawnCapture[c][sq]&enemy
}

// pawnStep returns the push offset and the double-push row for c.
func pawnStep(c Color) (offset, startRow int) {
	if c == White {
		return -8, 6
	}
	return 8, 1
}

// castling returns the two-file king destinations available to c. The
// path to the corner must be empty and the corner must hold a rook of
// either colour; no independent rook-moved flag exists.
func castling(b *Board, sq Square, c Color) Bitboard {
	if b.KingMoved[c] {
		return 0
	}
	row := 0
	if c == White {
		row = 7
	}
	empty := b.Empty()
	var moves Bitboard

	qs := queenSidePath.shift(row * 8)
	if qs&empty == qs && b.Placement[NewSquare(0, row)].Kind() == Rook && sq.File() >= 2 {
		moves |= SquareBB(sq - 2)
	}
	ks := kingSidePath.shift(row * 8)
	if ks&empty == ks && b.Placement[NewSquare(7, row)].Kind() == Rook && sq.File() <= 5 {
		moves |= SquareBB(sq + 2)
	}
	return moves
}

// Moves lists every move of the side to move, squares in increasing order,
// after filtering through policy. A nil policy means PseudoLegal.
func Moves(g Generator, b *Board, policy LegalityPolicy) *MoveList {
	if policy == nil {
		policy = PseudoLegal{}
	}
	ml := NewMoveList()
	b.Occupancy[b.Turn].ForEach(func(from Square) {
		policy.Filter(g, b, from, g.Destinations(b, from)).ForEach(func(to Square) {
			ml.Add(NewMove(from, to))
		})
	})
	return ml
}

// Perft counts the leaf nodes of the move tree under b to the given depth.
// A depth below one counts b itself.
func Perft(g Generator, b *Board, policy LegalityPolicy, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	moves := Moves(g, b, policy)
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		child := b.Clone()
		child.ApplyMove(m.From, m.To)
		nodes += Perft(g, child, policy, depth-1)
	}
	return nodes
}
