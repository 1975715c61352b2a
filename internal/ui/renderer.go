package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chessplay/internal/board"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	TargetColor    color.RGBA
	LastMoveColor  color.RGBA
	Background     color.RGBA
	TextColor      color.RGBA
	CoordColor     color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:     color.RGBA{181, 136, 99, 255},  // Brown
		SelectedSquare: color.RGBA{247, 247, 105, 180}, // Yellow highlight
		TargetColor:    color.RGBA{130, 151, 105, 200}, // Green dots
		LastMoveColor:  color.RGBA{180, 190, 100, 90},
		Background:     color.RGBA{40, 44, 52, 255},
		TextColor:      color.RGBA{220, 220, 220, 255},
		CoordColor:     color.RGBA{90, 70, 50, 255},
	}
}

// Renderer handles all drawing operations. Row 0 of the board is drawn at
// the top, so square indices map straight onto screen cells.
type Renderer struct {
	sprites    *SpriteManager
	theme      *Theme
	squareSize int
}

// NewRenderer creates a new renderer.
func NewRenderer(squareSize int) *Renderer {
	return &Renderer{
		sprites:    NewSpriteManager(squareSize),
		theme:      DefaultTheme(),
		squareSize: squareSize,
	}
}

// DrawBoard draws the squares and their coordinates.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	size := float32(r.squareSize)
	for row := 0; row < 8; row++ {
		for file := 0; file < 8; file++ {
			c := r.theme.LightSquare
			if (row+file)%2 == 1 {
				c = r.theme.DarkSquare
			}
			vector.DrawFilledRect(screen, float32(file)*size, float32(row)*size, size, size, c, false)
		}
	}
	r.drawCoordinates(screen)
}

// drawCoordinates labels files along the bottom row and ranks down the
// left column.
func (r *Renderer) drawCoordinates(screen *ebiten.Image) {
	face := GetFaceWithSize(11)
	if face == nil {
		return
	}
	for i := 0; i < 8; i++ {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64((i+1)*r.squareSize-10), float64(8*r.squareSize-15))
		op.ColorScale.ScaleWithColor(r.theme.CoordColor)
		text.Draw(screen, string(rune('a'+i)), face, op)

		op = &text.DrawOptions{}
		op.GeoM.Translate(3, float64(i*r.squareSize+2))
		op.ColorScale.ScaleWithColor(r.theme.CoordColor)
		text.Draw(screen, string(rune('8'-i)), face, op)
	}
}

// DrawHighlights marks the last move, the selected square and the
// destinations of the selected piece.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, selected board.Square, targets board.Bitboard, lastMove board.Move) {
	if !lastMove.IsNone() {
		r.highlightSquare(screen, lastMove.From, r.theme.LastMoveColor)
		r.highlightSquare(screen, lastMove.To, r.theme.LastMoveColor)
	}
	if selected != board.NoSquare {
		r.highlightSquare(screen, selected, r.theme.SelectedSquare)
	}
	targets.ForEach(func(sq board.Square) {
		r.drawTarget(screen, sq)
	})
}

func (r *Renderer) highlightSquare(screen *ebiten.Image, sq board.Square, c color.RGBA) {
	if !sq.IsValid() {
		return
	}
	x, y := SquareToScreen(sq, r.squareSize)
	size := float32(r.squareSize)
	vector.DrawFilledRect(screen, float32(x), float32(y), size, size, c, false)
}

func (r *Renderer) drawTarget(screen *ebiten.Image, sq board.Square) {
	x, y := SquareToScreen(sq, r.squareSize)
	half := float32(r.squareSize) / 2
	vector.DrawFilledCircle(screen, float32(x)+half, float32(y)+half, float32(r.squareSize)*0.15, r.theme.TargetColor, true)
}

// DrawPieces draws every piece on b.
func (r *Renderer) DrawPieces(screen *ebiten.Image, b *board.Board) {
	for sq := board.Square(0); sq < 64; sq++ {
		if p := b.PieceAt(sq); p != board.Empty {
			x, y := SquareToScreen(sq, r.squareSize)
			r.sprites.DrawPieceAt(screen, p, x, y)
		}
	}
}

// DrawStatus writes lines of text below the board, the first one in bold.
func (r *Renderer) DrawStatus(screen *ebiten.Image, lines ...string) {
	face := GetRegularFace()
	if face == nil {
		return
	}
	y := float64(8*r.squareSize + 6)
	bold := GetBoldFace()
	for i, line := range lines {
		lineFace := face
		if i == 0 && bold != nil {
			lineFace = bold
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(8, y)
		op.ColorScale.ScaleWithColor(r.theme.TextColor)
		text.Draw(screen, line, lineFace, op)
		_, h := MeasureText(line, lineFace)
		y += h + 4
	}
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}

// SquareToScreen returns the top-left pixel of sq.
func SquareToScreen(sq board.Square, squareSize int) (int, int) {
	return sq.File() * squareSize, sq.Row() * squareSize
}

// ScreenToSquare converts a pixel position to the square under it, or
// board.NoSquare off the board.
func ScreenToSquare(x, y, squareSize int) board.Square {
	if x < 0 || y < 0 || x >= 8*squareSize || y >= 8*squareSize {
		return board.NoSquare
	}
	return board.NewSquare(x/squareSize, y/squareSize)
}
