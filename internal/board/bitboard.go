package board

import (
	"math/bits"
	"strings"
)

// Bitboard represents a 64-bit board where each bit corresponds to a square.
// Bit 0 = a8, bit 7 = h8, bit 56 = a1, bit 63 = h1.
type Bitboard uint64

// Row masks, row 0 first.
const (
	Row0 Bitboard = 0x00000000000000FF
	Row1 Bitboard = Row0 << 8
	Row6 Bitboard = Row0 << 48
	Row7 Bitboard = Row0 << 56
)

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// IsSet returns true if the bit at the given square is set.
func (b Bitboard) IsSet(sq Square) bool {
	return b&(1<<sq) != 0
}

// PopCount returns the number of set bits (population count).
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the least significant bit (lowest square index).
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes and returns the least significant bit.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// ForEach calls the function for each set square in increasing order.
func (b Bitboard) ForEach(f func(Square)) {
	for b != 0 {
		f(b.PopLSB())
	}
}

// Compact packs the bits of b selected by mask into a dense integer:
// the i-th lowest set bit of mask becomes bit i of the result (PEXT).
func (b Bitboard) Compact(mask Bitboard) uint64 {
	var out uint64
	for i := 0; mask != 0; i++ {
		sq := mask.PopLSB()
		if b.IsSet(sq) {
			out |= 1 << i
		}
	}
	return out
}

// Expand is the inverse of Compact: bit i of index is placed on the
// i-th lowest set bit of mask (PDEP).
func Expand(index uint64, mask Bitboard) Bitboard {
	var out Bitboard
	for i := 0; mask != 0; i++ {
		sq := mask.PopLSB()
		if index&(1<<i) != 0 {
			out |= SquareBB(sq)
		}
	}
	return out
}

// shift moves every bit by offset squares, dropping bits that leave the board.
func (b Bitboard) shift(offset int) Bitboard {
	switch {
	case offset >= 64 || offset <= -64:
		return 0
	case offset >= 0:
		return b << offset
	default:
		return b >> -offset
	}
}

// String returns a visual representation of the bitboard, row 0 on top.
func (b Bitboard) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		sb.WriteByte(byte('8' - row))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			if b.IsSet(NewSquare(file, row)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
