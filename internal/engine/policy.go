package engine

import "github.com/hailam/chessplay/internal/board"

// DrawPolicy decides whether a freshly reached child position counts as
// drawn, in which case it scores 0 and is not searched further.
type DrawPolicy interface {
	Drawn(parent, child *board.Board) bool
}

// NoDraws never declares a draw.
type NoDraws struct{}

// Drawn implements DrawPolicy.
func (NoDraws) Drawn(_, _ *board.Board) bool { return false }

// RepetitionDraws treats a child whose hash already sits in the parent's
// repetition ring as drawn. The board hash is coarse, so this fires far
// more often than true threefold repetition would.
type RepetitionDraws struct{}

// Drawn implements DrawPolicy.
func (RepetitionDraws) Drawn(parent, child *board.Board) bool {
	return parent.SeenBefore(child.Hash())
}

// MatePolicy decides whether a node is terminal because a king is gone.
type MatePolicy interface {
	Terminal(b *board.Board) bool
}

// NoMateCutoff keeps searching regardless of the score.
type NoMateCutoff struct{}

// Terminal implements MatePolicy.
func (NoMateCutoff) Terminal(*board.Board) bool { return false }

// MateCutoff stops at nodes whose score crossed board.MateThreshold.
type MateCutoff struct{}

// Terminal implements MatePolicy.
func (MateCutoff) Terminal(b *board.Board) bool {
	return board.IsMateScore(b.Score)
}
