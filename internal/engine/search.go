package engine

import (
	"math"
	"math/rand"

	"github.com/hailam/chessplay/internal/board"
)

// Search constants
const (
	// BaselineNorm disables pruning in the baseline search.
	BaselineNorm = -100000

	// WorstScore is the starting best score of a node. A node that
	// generates no moves returns it unchanged (starvation).
	WorstScore = math.MinInt32 / 10

	// inflation nudges every child's score before its move is applied.
	inflation = 1.01
)

// Searcher runs the recursive tree walk. It is not safe for concurrent use;
// give each goroutine its own Searcher.
type Searcher struct {
	gen      board.Generator
	legality board.LegalityPolicy
	draws    DrawPolicy
	mate     MatePolicy

	randomize bool
	rng       *rand.Rand
	nodes     uint64
}

// NewSearcher creates a searcher over gen. A nil gen uses the bitboard
// generator with the shared attack tables.
func NewSearcher(gen board.Generator, cfg Config) *Searcher {
	if gen == nil {
		gen = board.NewBitboardGenerator(nil)
	}
	cfg = cfg.withDefaults()
	return &Searcher{
		gen:       gen,
		legality:  cfg.Legality,
		draws:     cfg.Draws,
		mate:      cfg.Mate,
		randomize: cfg.Randomize,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Nodes returns the number of positions visited since the last reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// ResetNodes clears the node counter.
func (s *Searcher) ResetNodes() {
	s.nodes = 0
}

// Search returns the score of b from the side to move's point of view and
// the best move found. b is not modified.
//
// A node is terminal when depth or maxDepth is exhausted, or when it
// already looks worse than norm with fewer than three plies of depth
// left. Captures do not consume depth; maxDepth bounds the recursion.
// The number of destinations enumerated at a node is added to its score.
func (s *Searcher) Search(b *board.Board, depth, maxDepth, norm int) (int, board.Move) {
	s.nodes++
	signed := b.Score * b.Turn.Sign()
	if depth <= 0 || maxDepth <= 0 || (signed < norm && depth < 3) || s.mate.Terminal(b) {
		return signed, board.NoMove
	}

	best, bestMove := WorstScore, board.NoMove
	total := 0

	for own := b.Occupancy[b.Turn]; own != 0; {
		from := own.PopLSB()
		dests := s.legality.Filter(s.gen, b, from, s.gen.Destinations(b, from))
		total += dests.PopCount()

		for dests != 0 {
			to := dests.PopLSB()
			child := b.Clone()
			child.Score = int(float32(b.Score) * inflation)
			capture := child.ApplyMove(from, to)

			score := 0
			if !s.draws.Drawn(b, child) {
				next := depth - 1
				if capture {
					next = depth
				}
				score, _ = s.Search(child, next, maxDepth-1, -norm)
				score = -score
			}

			if score > best || (s.randomize && score == best && s.rng.Intn(2) == 0) {
				best, bestMove = score, board.NewMove(from, to)
			}
		}
	}

	return best + total, bestMove
}
