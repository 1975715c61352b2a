package board

// LegalityPolicy post-filters the destinations of a piece. The default
// PseudoLegal keeps every generated destination.
type LegalityPolicy interface {
	Filter(g Generator, b *Board, sq Square, dests Bitboard) Bitboard
}

// PseudoLegal leaves destinations untouched.
type PseudoLegal struct{}

// Filter implements LegalityPolicy.
func (PseudoLegal) Filter(_ Generator, _ *Board, _ Square, dests Bitboard) Bitboard {
	return dests
}

// KingSafety removes king destinations the opponent attacks and freezes
// every other piece while its own king is attacked. It is a coarse check
// rule: it does not look for moves that block or capture the checker.
type KingSafety struct{}

// Filter implements LegalityPolicy.
func (KingSafety) Filter(g Generator, b *Board, sq Square, dests Bitboard) Bitboard {
	p := b.Placement[sq]
	if p == Empty {
		return 0
	}
	c := p.Color()
	attacked := Attacked(g, b, c.Other())

	if p.Kind() == King {
		return dests &^ attacked
	}
	if king := b.King(c); king != NoSquare && attacked.IsSet(king) {
		return 0
	}
	return dests
}

// Attacked returns the squares attacked by colour c. Pawns attack their
// diagonal capture squares whether or not anything stands there; pushes
// and castling do not attack.
func Attacked(g Generator, b *Board, c Color) Bitboard {
	t := Tables()
	var attacked Bitboard
	b.Occupancy[c].ForEach(func(sq Square) {
		switch b.Placement[sq].Kind() {
		case Pawn:
			attacked |= t.PawnCapture[c][sq]
		case King:
			attacked |= t.King[sq]
		default:
			attacked |= g.Destinations(b, sq)
		}
	})
	return attacked
}

// InCheck reports whether the side to move has its king attacked.
func InCheck(g Generator, b *Board) bool {
	king := b.King(b.Turn)
	return king != NoSquare && Attacked(g, b, b.Turn.Other()).IsSet(king)
}
