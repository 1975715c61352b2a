package board

import (
	"sync"

	"github.com/inhies/go-bytesize"
	"github.com/rs/zerolog/log"
)

// Slider selects one of the two sliding piece families with their own tables.
type Slider uint8

const (
	RookSlider Slider = iota
	BishopSlider
)

// direction is a (file, row) step.
type direction struct{ df, dr int }

var (
	rookDirections   = [4]direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirections = [4]direction{{1, 1}, {-1, -1}, {-1, 1}, {1, -1}}

	knightOffsets = [8]direction{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = [8]direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {-1, -1}, {-1, 1}, {1, -1}}
)

func (s Slider) directions() [4]direction {
	if s == RookSlider {
		return rookDirections
	}
	return bishopDirections
}

// AttackTables holds every precomputed lookup used by move generation.
// It is immutable once built and safe for concurrent readers.
type AttackTables struct {
	Knight      [64]Bitboard
	King        [64]Bitboard
	PawnCapture [2][64]Bitboard // [Color][Square]

	// Ray is the full unobstructed reach of a slider on an empty board.
	Ray [2][64]Bitboard // [Slider][Square]

	// SelfObstruction[s][sq][Compact(friendly, Ray)] stops before the first
	// friendly blocker; OpponentObstruction[s][sq][Compact(enemy, Ray)]
	// stops on the first enemy blocker.
	SelfObstruction     [2][64][]Bitboard
	OpponentObstruction [2][64][]Bitboard
}

var (
	tablesOnce   sync.Once
	sharedTables *AttackTables
)

// Tables returns the process-wide attack tables, building them on the first
// call. Concurrent first callers block until the single build finishes.
func Tables() *AttackTables {
	tablesOnce.Do(func() {
		sharedTables = BuildAttackTables()
		log.Debug().
			Int("entries", sharedTables.Entries()).
			Str("size", bytesize.New(float64(sharedTables.SizeBytes())).String()).
			Msg("attack tables built")
	})
	return sharedTables
}

// BuildAttackTables builds a fresh table set. Prefer Tables unless an
// independent copy is required.
func BuildAttackTables() *AttackTables {
	t := &AttackTables{}
	t.initStepAttacks()
	t.initPawnCaptures()
	t.initRays()
	t.initObstructions()
	return t
}

func (t *AttackTables) initStepAttacks() {
	for sq := Square(0); sq < NoSquare; sq++ {
		t.Knight[sq] = stepMask(sq, knightOffsets[:])
		t.King[sq] = stepMask(sq, kingOffsets[:])
	}
}

func stepMask(sq Square, offsets []direction) Bitboard {
	var mask Bitboard
	for _, d := range offsets {
		f, r := sq.File()+d.df, sq.Row()+d.dr
		if onBoard(f, r) {
			mask |= SquareBB(NewSquare(f, r))
		}
	}
	return mask
}

func (t *AttackTables) initPawnCaptures() {
	for sq := Square(0); sq < NoSquare; sq++ {
		// White pawns advance toward row 0, Black pawns toward row 7.
		t.PawnCapture[White][sq] = stepMask(sq, []direction{{-1, -1}, {1, -1}})
		t.PawnCapture[Black][sq] = stepMask(sq, []direction{{-1, 1}, {1, 1}})
	}
}

func (t *AttackTables) initRays() {
	for _, s := range []Slider{RookSlider, BishopSlider} {
		for sq := Square(0); sq < NoSquare; sq++ {
			t.Ray[s][sq] = walk(sq, s.directions(), 0, false)
		}
	}
}

// initObstructions enumerates every subset of each ray mask. The two
// tables differ only in whether the blocking square itself is reachable.
func (t *AttackTables) initObstructions() {
	for _, s := range []Slider{RookSlider, BishopSlider} {
		dirs := s.directions()
		for sq := Square(0); sq < NoSquare; sq++ {
			ray := t.Ray[s][sq]
			n := uint64(1) << ray.PopCount()
			self := make([]Bitboard, n)
			opponent := make([]Bitboard, n)
			for idx := uint64(0); idx < n; idx++ {
				blockers := Expand(idx, ray)
				self[idx] = walk(sq, dirs, blockers, false)
				opponent[idx] = walk(sq, dirs, blockers, true)
			}
			t.SelfObstruction[s][sq] = self
			t.OpponentObstruction[s][sq] = opponent
		}
	}
}

// walk casts rays from sq until they leave the board or hit a blocker.
// includeBlocker decides whether the first blocked square is part of the result.
func walk(sq Square, dirs [4]direction, blockers Bitboard, includeBlocker bool) Bitboard {
	var reach Bitboard
	for _, d := range dirs {
		for f, r := sq.File()+d.df, sq.Row()+d.dr; onBoard(f, r); f, r = f+d.df, r+d.dr {
			bb := SquareBB(NewSquare(f, r))
			if blockers&bb != 0 {
				if includeBlocker {
					reach |= bb
				}
				break
			}
			reach |= bb
		}
	}
	return reach
}

// Slide returns the exact reach of a slider on sq given both occupancies.
func (t *AttackTables) Slide(s Slider, sq Square, friendly, enemy Bitboard) Bitboard {
	ray := t.Ray[s][sq]
	return t.SelfObstruction[s][sq][friendly.Compact(ray)] &
		t.OpponentObstruction[s][sq][enemy.Compact(ray)]
}

// Entries returns the total number of obstruction table entries.
func (t *AttackTables) Entries() int {
	n := 0
	for s := range t.SelfObstruction {
		for sq := range t.SelfObstruction[s] {
			n += len(t.SelfObstruction[s][sq]) + len(t.OpponentObstruction[s][sq])
		}
	}
	return n
}

// SizeBytes returns the approximate memory held by the tables.
func (t *AttackTables) SizeBytes() int {
	const fixed = (64 + 64 + 2*64 + 2*64) * 8
	return fixed + t.Entries()*8
}
