package board

import "testing"

func TestCompactExpand(t *testing.T) {
	mask := Bitboard(0b1011_0100)
	tests := []struct {
		occ  Bitboard
		want uint64
	}{
		{0, 0},
		{0b0000_0100, 0b0001},
		{0b0001_0000, 0b0010},
		{0b0010_0000, 0b0100},
		{0b1000_0000, 0b1000},
		{0b1111_1111, 0b1111},
		{0b0100_1011, 0}, // bits outside the mask are ignored
	}
	for _, tc := range tests {
		got := tc.occ.Compact(mask)
		if got != tc.want {
			t.Errorf("Compact(%b, %b) = %b, want %b", tc.occ, mask, got, tc.want)
		}
		if back := Expand(got, mask); back != tc.occ&mask {
			t.Errorf("Expand(%b, %b) = %b, want %b", got, mask, back, tc.occ&mask)
		}
	}
}

func TestRayMasks(t *testing.T) {
	tables := Tables()

	tests := []struct {
		name  string
		s     Slider
		sq    Square
		count int
	}{
		{"rook corner", RookSlider, A8, 14},
		{"rook center", RookSlider, NewSquare(3, 4), 14},
		{"bishop corner", BishopSlider, H1, 7},
		{"bishop center", BishopSlider, NewSquare(3, 4), 13},
		{"bishop edge", BishopSlider, NewSquare(0, 3), 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tables.Ray[tc.s][tc.sq].PopCount(); got != tc.count {
				t.Errorf("ray popcount = %d, want %d\n%s", got, tc.count, tables.Ray[tc.s][tc.sq])
			}
			if n := len(tables.SelfObstruction[tc.s][tc.sq]); n != 1<<tc.count {
				t.Errorf("obstruction entries = %d, want %d", n, 1<<tc.count)
			}
		})
	}
}

func TestStepMasks(t *testing.T) {
	tables := Tables()

	if got := tables.Knight[B1].PopCount(); got != 3 {
		t.Errorf("knight on b1 reaches %d squares, want 3", got)
	}
	if got := tables.King[E1].PopCount(); got != 5 {
		t.Errorf("king on e1 reaches %d squares, want 5", got)
	}
	e2 := NewSquare(4, 6)
	want := SquareBB(NewSquare(3, 5)) | SquareBB(NewSquare(5, 5))
	if got := tables.PawnCapture[White][e2]; got != want {
		t.Errorf("white pawn captures from e2:\n%s\nwant\n%s", got, want)
	}
	if got := tables.PawnCapture[Black][A8+8]; got != SquareBB(NewSquare(1, 2)) {
		t.Errorf("black pawn captures from a7:\n%s", got)
	}
}

func TestSlidingPieces(t *testing.T) {
	g := NewBitboardGenerator(nil)
	tables := Tables()

	for _, tc := range []struct {
		name  string
		piece Piece
		s     Slider
	}{
		{"rook", WhiteRook, RookSlider},
		{"bishop", WhiteBishop, BishopSlider},
	} {
		t.Run(tc.name+" empty board", func(t *testing.T) {
			for sq := Square(0); sq < NoSquare; sq++ {
				b := NewEmptyBoard()
				b.Put(sq, tc.piece)
				if got := g.Destinations(b, sq); got != tables.Ray[tc.s][sq] {
					t.Fatalf("%s on %s:\n%s\nwant\n%s", tc.name, sq, got, tables.Ray[tc.s][sq])
				}
			}
		})
	}

	// Rook on a8 with a blocker on d8 (ray distance 3).
	var file Bitboard
	for r := 1; r < 8; r++ {
		file |= SquareBB(NewSquare(0, r))
	}

	tests := []struct {
		name    string
		blocker Piece
		want    Bitboard
	}{
		{"enemy blocker", BlackKnight, file | SquareBB(B8) | SquareBB(C8) | SquareBB(D8)},
		{"friendly blocker", WhiteKnight, file | SquareBB(B8) | SquareBB(C8)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewEmptyBoard()
			b.Put(A8, WhiteRook)
			b.Put(D8, tc.blocker)
			got := g.Destinations(b, A8)
			if got != tc.want {
				t.Errorf("got\n%s\nwant\n%s", got, tc.want)
			}
			if naive := (NaiveGenerator{}).Destinations(b, A8); naive != got {
				t.Errorf("naive generator disagrees:\n%s", naive)
			}
		})
	}
}

func TestTablesShared(t *testing.T) {
	if Tables() != Tables() {
		t.Error("Tables returned different instances")
	}
	if Tables().SizeBytes() <= Tables().Entries() {
		t.Error("SizeBytes should exceed the entry count")
	}
}
