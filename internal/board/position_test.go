package board

import "testing"

// checkInvariants verifies the occupancy caches and the running score
// against the placement array.
func checkInvariants(t *testing.T, b *Board) {
	t.Helper()
	if b.Occupancy[White]&b.Occupancy[Black] != 0 {
		t.Fatalf("occupancy sets overlap:\n%s", b.Occupancy[White]&b.Occupancy[Black])
	}
	occupied := 0
	for sq, p := range b.Placement {
		if p == Empty {
			if b.Occupancy[White].IsSet(Square(sq)) || b.Occupancy[Black].IsSet(Square(sq)) {
				t.Fatalf("empty square %s marked occupied\n%s", Square(sq), b)
			}
			continue
		}
		occupied++
		if !b.Occupancy[p.Color()].IsSet(Square(sq)) {
			t.Fatalf("%s on %s missing from %s occupancy\n%s", p, Square(sq), p.Color(), b)
		}
	}
	if n := b.Occupancy[White].PopCount() + b.Occupancy[Black].PopCount(); n != occupied {
		t.Fatalf("occupancy popcount = %d, placement holds %d pieces", n, occupied)
	}
	if got := b.Recompute(); got != b.Score {
		t.Fatalf("score = %d, recomputed %d\n%s", b.Score, got, b)
	}
}

func TestNewBoard(t *testing.T) {
	b := NewBoard()
	checkInvariants(t, b)

	if b.Turn != White {
		t.Errorf("Turn = %s, want White", b.Turn)
	}
	if b.PieceAt(E1) != WhiteKing || b.PieceAt(E8) != BlackKing {
		t.Errorf("kings misplaced:\n%s", b)
	}
	if b.Occupancy[White] != Row6|Row7 || b.Occupancy[Black] != Row0|Row1 {
		t.Errorf("unexpected occupancy:\n%s\n%s", b.Occupancy[White], b.Occupancy[Black])
	}
	if b.EnPassant != NoSquare {
		t.Errorf("EnPassant = %s, want none", b.EnPassant)
	}
	// Only the queens' d-file bonuses differ between the two sides.
	if b.Rate() != 10 {
		t.Errorf("Rate() = %d, want 10", b.Rate())
	}
}

func TestKnightMoveScenario(t *testing.T) {
	b := NewBoard()
	initial := b.Rate()
	from, to := Square(57), Square(42)

	if b.ApplyMove(from, to) {
		t.Error("knight development reported a capture")
	}
	checkInvariants(t, b)

	if b.Placement[to] != WhiteKnight {
		t.Errorf("Placement[42] = %s, want N", b.Placement[to])
	}
	if b.Placement[from] != Empty {
		t.Errorf("Placement[57] = %s, want empty", b.Placement[from])
	}
	if b.Occupancy[White].IsSet(from) || !b.Occupancy[White].IsSet(to) {
		t.Error("white occupancy not updated")
	}
	if b.Turn != Black {
		t.Errorf("Turn = %s, want Black", b.Turn)
	}
	delta := PieceSquare[WhiteKnight][to] - PieceSquare[WhiteKnight][from]
	if b.Rate() != initial+delta {
		t.Errorf("Rate() = %d, want %d", b.Rate(), initial+delta)
	}
	if delta != 50 {
		t.Errorf("knight b1-c3 delta = %d, want 50", delta)
	}
}

func TestPromotion(t *testing.T) {
	tests := []struct {
		name     string
		pawn     Piece
		from, to Square
		victim   Piece
		want     Piece
	}{
		{"white push", WhitePawn, NewSquare(0, 1), A8, Empty, WhiteQueen},
		{"white capture", WhitePawn, NewSquare(0, 1), B8, BlackRook, WhiteQueen},
		{"black push", BlackPawn, NewSquare(7, 6), H1, Empty, BlackQueen},
		{"black capture", BlackPawn, NewSquare(7, 6), G1, WhiteKnight, BlackQueen},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewEmptyBoard()
			b.Turn = tc.pawn.Color()
			b.Put(tc.from, tc.pawn)
			if tc.victim != Empty {
				b.Put(tc.to, tc.victim)
			}
			captured := b.ApplyMove(tc.from, tc.to)
			if captured != (tc.victim != Empty) {
				t.Errorf("capture = %v", captured)
			}
			if b.Placement[tc.to] != tc.want {
				t.Errorf("promoted to %s, want %s", b.Placement[tc.to], tc.want)
			}
			checkInvariants(t, b)
		})
	}
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name             string
		clear            []Square
		king, rook, dest Square
		rookTo           Square
	}{
		{"white king side", []Square{F1, G1}, E1, H1, G1, F1},
		{"white queen side", []Square{B1, C1, D1}, E1, A1, C1, D1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBoard()
			g := NewBitboardGenerator(nil)
			if g.Destinations(b, tc.king).IsSet(tc.dest) {
				t.Fatal("castling offered through occupied squares")
			}
			for _, sq := range tc.clear {
				b.Put(sq, Empty)
			}
			if !g.Destinations(b, tc.king).IsSet(tc.dest) {
				t.Fatalf("castling to %s not offered:\n%s", tc.dest, b)
			}

			b.ApplyMove(tc.king, tc.dest)
			checkInvariants(t, b)
			if b.Placement[tc.dest] != WhiteKing || b.Placement[tc.rookTo] != WhiteRook {
				t.Errorf("pieces not castled:\n%s", b)
			}
			if b.Placement[tc.rook] != Empty || b.Placement[tc.king] != Empty {
				t.Errorf("origin squares not cleared:\n%s", b)
			}
			if b.Turn != Black {
				t.Errorf("Turn = %s after castling, want Black", b.Turn)
			}
			if !b.KingMoved[White] {
				t.Error("KingMoved[White] not set")
			}
			if g.Destinations(b, tc.dest)&^Tables().King[tc.dest] != 0 {
				t.Error("castling still offered after the king moved")
			}
		})
	}
}

func TestCastlingNeedsRookOnCorner(t *testing.T) {
	b := NewBoard()
	b.Put(F1, Empty)
	b.Put(G1, Empty)
	b.Put(H1, WhiteKnight)
	if NewBitboardGenerator(nil).Destinations(b, E1).IsSet(G1) {
		t.Error("castling offered without a rook on h1")
	}
	b.Put(H1, BlackRook)
	if !NewBitboardGenerator(nil).Destinations(b, E1).IsSet(G1) {
		t.Error("corner rook is identified by kind only")
	}
}

func TestEnPassantTarget(t *testing.T) {
	b := NewBoard()
	e2, e4 := NewSquare(4, 6), NewSquare(4, 4)
	b.ApplyMove(e2, e4)
	if b.EnPassant != e4 {
		t.Errorf("EnPassant = %s, want %s", b.EnPassant, e4)
	}
	b.ApplyMove(Square(1), Square(18))
	if b.EnPassant != NoSquare {
		t.Errorf("EnPassant = %s after a knight move, want none", b.EnPassant)
	}
}

func TestRepetitionHistory(t *testing.T) {
	b := NewBoard()
	steps := []struct {
		from, to Square
		want     int
	}{
		{57, 42, 1}, // Nc3
		{1, 18, 2},  // Nc6
		{42, 57, 3}, // Nb1
		{18, 1, 4},  // Nb8
		{52, 36, 0}, // e4 resets
		{1, 18, 1},
		{60, 52, 0}, // first king move resets
		{18, 1, 1},
		{52, 60, 2}, // the king has moved already
	}
	for i, s := range steps {
		b.ApplyMove(s.from, s.to)
		if got := len(b.RepetitionHistory()); got != s.want {
			t.Errorf("after ply %d: %d entries, want %d", i+1, got, s.want)
		}
	}
	if !b.SeenBefore(b.Hash()) {
		t.Error("current hash missing from history")
	}
}

func TestRepetitionRingWraps(t *testing.T) {
	b := NewBoard()
	cycle := []Move{{57, 42}, {1, 18}, {42, 57}, {18, 1}}
	for i := 0; i < 2*RepetitionSlots+3; i++ {
		m := cycle[i%len(cycle)]
		b.ApplyMove(m.From, m.To)
	}
	if got := len(b.RepetitionHistory()); got != RepetitionSlots {
		t.Errorf("history holds %d entries, want %d", got, RepetitionSlots)
	}
}

func TestClone(t *testing.T) {
	b := NewBoard()
	c := b.Clone()
	c.ApplyMove(57, 42)
	if b.Placement[57] != WhiteKnight || b.Turn != White {
		t.Error("mutating a clone changed the original")
	}
}
