package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// Sign returns +1 for White and -1 for Black. Scores are stored from
// White's point of view; multiplying by Sign gives the side-to-move view.
func (c Color) Sign() int {
	if c == White {
		return 1
	}
	return -1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Kind is a colorless piece kind.
type Kind uint8

const (
	NoKind Kind = iota
	King
	Queen
	Bishop
	Knight
	Rook
	Pawn
)

// String returns the piece kind name.
func (k Kind) String() string {
	switch k {
	case King:
		return "King"
	case Queen:
		return "Queen"
	case Bishop:
		return "Bishop"
	case Knight:
		return "Knight"
	case Rook:
		return "Rook"
	case Pawn:
		return "Pawn"
	default:
		return "None"
	}
}

// Piece is a placement code: 0 is empty, 1..6 are White's
// {King, Queen, Bishop, Knight, Rook, Pawn}, 7..12 are Black's in the same order.
type Piece uint8

const (
	Empty Piece = iota
	WhiteKing
	WhiteQueen
	WhiteBishop
	WhiteKnight
	WhiteRook
	WhitePawn
	BlackKing
	BlackQueen
	BlackBishop
	BlackKnight
	BlackRook
	BlackPawn
)

// colorless collapses 1..6 and 7..12 onto the same kind.
var colorless = [13]Kind{NoKind, King, Queen, Bishop, Knight, Rook, Pawn, King, Queen, Bishop, Knight, Rook, Pawn}

// NewPiece creates a Piece from Kind and Color.
func NewPiece(k Kind, c Color) Piece {
	if k == NoKind {
		return Empty
	}
	return Piece(k) + Piece(c)*6
}

// Kind returns the colorless kind of the piece.
func (p Piece) Kind() Kind {
	return colorless[p]
}

// Color returns the Color of the piece. Empty reports White; check
// for Empty first where it matters.
func (p Piece) Color() Color {
	if p > WhitePawn {
		return Black
	}
	return White
}

// String returns the FEN-style character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p == Empty || p > BlackPawn {
		return "."
	}
	return string(".KQBNRPkqbnrp"[p])
}
