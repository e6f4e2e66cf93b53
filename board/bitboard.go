// Package board holds the 5x5 Onitama board primitives: cells, sides,
// and 25-bit bitboards.
package board

import (
	"math/bits"
	"strings"
)

// Bitboard has one bit per cell; bit i is cell i. Only the low 25 bits
// are ever set.
type Bitboard uint32

const (
	Empty Bitboard = 0
	Full  Bitboard = 1<<NumCells - 1
)

// BB returns a bitboard with only the given cell set.
func BB(c Cell) Bitboard {
	return 1 << c
}

// Of returns a bitboard with every given cell set.
func Of(cells ...Cell) Bitboard {
	var b Bitboard
	for _, c := range cells {
		b |= BB(c)
	}
	return b
}

func (b Bitboard) Set(c Cell) Bitboard {
	return b | BB(c)
}

func (b Bitboard) Clear(c Cell) Bitboard {
	return b &^ BB(c)
}

func (b Bitboard) IsSet(c Cell) bool {
	return b&BB(c) != 0
}

// Count returns the number of set bits.
func (b Bitboard) Count() int {
	return bits.OnesCount32(uint32(b))
}

// LSB returns the lowest set cell, or NoCell for an empty board.
func (b Bitboard) LSB() Cell {
	if b == 0 {
		return NoCell
	}
	return Cell(bits.TrailingZeros32(uint32(b)))
}

// PopLSB removes and returns the lowest set cell.
func (b *Bitboard) PopLSB() Cell {
	c := b.LSB()
	*b &= *b - 1
	return c
}

// ForEach calls fn for every set cell in ascending order.
func (b Bitboard) ForEach(fn func(Cell)) {
	for b != 0 {
		fn(b.PopLSB())
	}
}

// Cells returns the set cells in ascending order.
func (b Bitboard) Cells() []Cell {
	cells := make([]Cell, 0, b.Count())
	b.ForEach(func(c Cell) {
		cells = append(cells, c)
	})
	return cells
}

// Rotate returns the board turned 180 degrees: cell i moves to cell 24-i.
func (b Bitboard) Rotate() Bitboard {
	return Bitboard(bits.Reverse32(uint32(b&Full)) >> (32 - NumCells))
}

// String draws the board as five rows, top row first.
func (b Bitboard) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.IsSet(NewCell(row, col)) {
				sb.WriteByte('x')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
