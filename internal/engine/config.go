package engine

import (
	"time"

	"github.com/hailam/chessplay/internal/board"
)

// Config holds the knobs of the search and its iterative-deepening driver.
type Config struct {
	Depth    int // starting depth of the main search
	MaxDepth int // starting hard ply limit of the main search

	// NormExplorationDepth is the depth of the baseline search that
	// derives the pruning norm; NormOffset is subtracted from its score.
	NormExplorationDepth int
	NormOffset           int

	// Randomize breaks exact score ties with a coin flip.
	Randomize bool

	// Budget is the per-iteration wall-clock limit: deepening stops after
	// the first iteration that takes longer.
	Budget time.Duration

	// MaxIterations caps the number of deepening iterations; 0 is unlimited.
	MaxIterations int

	// Seed seeds the tie-break generator; 0 picks a time-based seed.
	Seed int64

	// Policies. Nil selects the defaults (pseudo-legal, no draws, no mate cutoff).
	Legality board.LegalityPolicy
	Draws    DrawPolicy
	Mate     MatePolicy
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Depth:                4,
		MaxDepth:             5,
		NormExplorationDepth: 2,
		NormOffset:           320,
		Randomize:            true,
		Budget:               100 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	if c.Legality == nil {
		c.Legality = board.PseudoLegal{}
	}
	if c.Draws == nil {
		c.Draws = NoDraws{}
	}
	if c.Mate == nil {
		c.Mate = NoMateCutoff{}
	}
	if c.Budget <= 0 {
		c.Budget = DefaultConfig().Budget
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}
