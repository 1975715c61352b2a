package board

// NaiveGenerator computes destinations by walking the placement array
// square by square. It ignores the occupancy caches and the attack tables
// entirely, which makes it a useful oracle for BitboardGenerator in tests.
// It is too slow for the search.
type NaiveGenerator struct{}

// Destinations implements Generator.
func (NaiveGenerator) Destinations(b *Board, sq Square) Bitboard {
	p := b.Placement[sq]
	if p == Empty {
		return 0
	}
	c := p.Color()

	switch p.Kind() {
	case Pawn:
		return naivePawn(b, sq, c)
	case Knight:
		return naiveSteps(b, sq, c, knightOffsets[:])
	case Bishop:
		return naiveSlide(b, sq, c, bishopDirections)
	case Rook:
		return naiveSlide(b, sq, c, rookDirections)
	case Queen:
		return naiveSlide(b, sq, c, rookDirections) | naiveSlide(b, sq, c, bishopDirections)
	case King:
		return naiveSteps(b, sq, c, kingOffsets[:]) | naiveCastling(b, sq, c)
	}
	return 0
}

func (b *Board) isEnemy(sq Square, c Color) bool {
	p := b.Placement[sq]
	return p != Empty && p.Color() != c
}

func (b *Board) isFriend(sq Square, c Color) bool {
	p := b.Placement[sq]
	return p != Empty && p.Color() == c
}

func naivePawn(b *Board, sq Square, c Color) Bitboard {
	var moves Bitboard
	dr := 1
	if c == White {
		dr = -1
	}
	f, r := sq.File(), sq.Row()

	for _, df := range []int{-1, 1} {
		if onBoard(f+df, r+dr) && b.isEnemy(NewSquare(f+df, r+dr), c) {
			moves |= SquareBB(NewSquare(f+df, r+dr))
		}
	}

	steps := 1
	if _, start := pawnStep(c); r == start {
		steps = 2
	}
	for i := 1; i <= steps; i++ {
		if !onBoard(f, r+i*dr) {
			break
		}
		to := NewSquare(f, r+i*dr)
		if b.Placement[to] != Empty {
			break
		}
		moves |= SquareBB(to)
	}
	return moves
}

func naiveSteps(b *Board, sq Square, c Color, offsets []direction) Bitboard {
	var moves Bitboard
	for _, d := range offsets {
		f, r := sq.File()+d.df, sq.Row()+d.dr
		if onBoard(f, r) && !b.isFriend(NewSquare(f, r), c) {
			moves |= SquareBB(NewSquare(f, r))
		}
	}
	return moves
}

func naiveSlide(b *Board, sq Square, c Color, dirs [4]direction) Bitboard {
	var moves Bitboard
	for _, d := range dirs {
		for i := 1; i < 8; i++ {
			f, r := sq.File()+i*d.df, sq.Row()+i*d.dr
			if !onBoard(f, r) {
				break
			}
			to := NewSquare(f, r)
			if b.isFriend(to, c) {
				break
			}
			moves |= SquareBB(to)
			if b.isEnemy(to, c) {
				break
			}
		}
	}
	return moves
}

// naiveCastling walks from the king toward each corner; the first piece
// met must be a rook standing on the corner itself.
func naiveCastling(b *Board, sq Square, c Color) Bitboard {
	if b.KingMoved[c] {
		return 0
	}
	var moves Bitboard
	f, r := sq.File(), sq.Row()
	for _, df := range []int{1, -1} {
		for x := f + df; x >= 0 && x <= 7; x += df {
			p := b.Placement[NewSquare(x, r)]
			if p == Empty {
				continue
			}
			if p.Kind() == Rook && (x == 0 || x == 7) && onBoard(f+2*df, r) {
				moves |= SquareBB(NewSquare(f+2*df, r))
			}
			break
		}
	}
	return moves
}
