package board

import (
	"fmt"
	"math/rand"
	"testing"
)

// TestPerftStartingPosition checks move counts from the opening. No check,
// castling, en passant or promotion can occur this early, so pseudo-legal
// and legal counts coincide.
func TestPerftStartingPosition(t *testing.T) {
	tests := []struct {
		depth    int
		expected uint64
	}{
		{-1, 1},
		{0, 1},
		{1, 20},
		{2, 400},
		{3, 8902},
	}

	generators := map[string]Generator{
		"bitboard": NewBitboardGenerator(nil),
		"naive":    NaiveGenerator{},
	}
	for name, g := range generators {
		for _, tc := range tests {
			t.Run(fmt.Sprintf("%s/depth%d", name, tc.depth), func(t *testing.T) {
				got := Perft(g, NewBoard(), nil, tc.depth)
				if got != tc.expected {
					t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
				}
			})
		}
	}
}

// TestGeneratorsAgree plays seeded random games and compares both
// generators on every occupied square of every position reached.
func TestGeneratorsAgree(t *testing.T) {
	fast := NewBitboardGenerator(nil)
	naive := NaiveGenerator{}
	rng := rand.New(rand.NewSource(7))

	games, plies := 60, 120
	if testing.Short() {
		games = 10
	}

	for game := 0; game < games; game++ {
		b := NewBoard()
		for ply := 0; ply < plies; ply++ {
			for sq := Square(0); sq < NoSquare; sq++ {
				if b.Placement[sq] == Empty {
					continue
				}
				f, n := fast.Destinations(b, sq), naive.Destinations(b, sq)
				if f != n {
					t.Fatalf("game %d ply %d: %s on %s\nbitboard:\n%s\nnaive:\n%s\n%s",
						game, ply, b.Placement[sq], sq, f, n, b)
				}
			}
			checkInvariants(t, b)

			moves := Moves(fast, b, nil)
			if moves.Len() == 0 {
				break
			}
			m := moves.Get(rng.Intn(moves.Len()))
			b.ApplyMove(m.From, m.To)
		}
	}
}

func TestEmptySquareHasNoDestinations(t *testing.T) {
	b := NewBoard()
	sq := NewSquare(4, 4)
	for name, g := range map[string]Generator{"bitboard": NewBitboardGenerator(nil), "naive": NaiveGenerator{}} {
		if d := g.Destinations(b, sq); d != 0 {
			t.Errorf("%s: empty square has destinations:\n%s", name, d)
		}
	}
}

func TestPawnPushes(t *testing.T) {
	g := NewBitboardGenerator(nil)
	b := NewBoard()
	e2 := NewSquare(4, 6)
	want := SquareBB(NewSquare(4, 5)) | SquareBB(NewSquare(4, 4))
	if got := g.Destinations(b, e2); got != want {
		t.Errorf("e2 pawn:\n%s\nwant\n%s", got, want)
	}

	// A piece on e3 blocks both pushes; one on e4 only the double push.
	b.Put(NewSquare(4, 5), BlackKnight)
	if got := g.Destinations(b, e2); got != 0 {
		t.Errorf("blocked pawn:\n%s", got)
	}
	b.Put(NewSquare(4, 5), Empty)
	b.Put(NewSquare(4, 4), BlackKnight)
	if got := g.Destinations(b, e2); got != SquareBB(NewSquare(4, 5)) {
		t.Errorf("half-blocked pawn:\n%s", got)
	}

	// Black pushes toward row 7 and captures diagonally.
	d7 := NewSquare(3, 1)
	b.Put(NewSquare(2, 2), WhiteBishop)
	want = SquareBB(NewSquare(3, 2)) | SquareBB(NewSquare(3, 3)) | SquareBB(NewSquare(2, 2))
	if got := g.Destinations(b, d7); got != want {
		t.Errorf("d7 pawn:\n%s\nwant\n%s", got, want)
	}
}

func TestKingSafetyPolicy(t *testing.T) {
	g := NewBitboardGenerator(nil)
	b := NewEmptyBoard()
	b.Put(E1, WhiteKing)
	b.Put(A1, WhiteRook)
	b.Put(NewSquare(3, 0), BlackRook) // d8 covers the d-file
	b.Put(E8, BlackKing)

	king := KingSafety{}.Filter(g, b, E1, g.Destinations(b, E1))
	if king.IsSet(D1) || king.IsSet(NewSquare(3, 6)) {
		t.Errorf("king may step onto the d-file:\n%s", king)
	}
	if !king.IsSet(F1) {
		t.Errorf("king should reach f1:\n%s", king)
	}
	if InCheck(g, b) {
		t.Error("white is not in check")
	}

	b.Put(NewSquare(4, 0), BlackRook) // e8 is now a rook, checking along the e-file
	b.Put(H8, BlackKing)
	if !InCheck(g, b) {
		t.Fatal("white should be in check")
	}
	if d := (KingSafety{}).Filter(g, b, A1, g.Destinations(b, A1)); d != 0 {
		t.Errorf("rook may move while in check:\n%s", d)
	}
	if d := (PseudoLegal{}).Filter(g, b, A1, g.Destinations(b, A1)); d == 0 {
		t.Error("pseudo-legal policy filtered moves")
	}
	if n := Moves(g, b, KingSafety{}).Len(); n == 0 || n >= Moves(g, b, nil).Len() {
		t.Errorf("KingSafety left %d moves", n)
	}
}
