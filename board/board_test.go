package board

import (
	"testing"

	"github.com/matryer/is"
)

func TestCellNotation(t *testing.T) {
	is := is.New(t)
	is.Equal(Cell(22).String(), "c1")
	is.Equal(Cell(2).String(), "c5")
	is.Equal(Cell(0).String(), "a5")
	is.Equal(Cell(24).String(), "e1")
	is.Equal(NoCell.String(), "-")

	for c := Cell(0); c < NoCell; c++ {
		parsed, err := ParseCell(c.String())
		is.NoErr(err)
		is.Equal(parsed, c)
	}
	c, err := ParseCell("17")
	is.NoErr(err)
	is.Equal(c, Cell(17))

	_, err = ParseCell("f3")
	is.True(err != nil)
	_, err = ParseCell("25")
	is.True(err != nil)
}

func TestSides(t *testing.T) {
	is := is.New(t)
	is.Equal(Red.Other(), Blue)
	is.Equal(Blue.Other(), Red)
	is.Equal(Goal(Red), Cell(2))
	is.Equal(Goal(Blue), Cell(22))
	is.Equal(KingStart(Red), Cell(22))
	is.Equal(StartPieces(Blue), Of(0, 1, 2, 3, 4))
	is.Equal(StartPieces(Red), Of(20, 21, 22, 23, 24))

	s, err := ParseSide("BLUE")
	is.NoErr(err)
	is.Equal(s, Blue)
	_, err = ParseSide("green")
	is.True(err != nil)
}

func TestBitboardOps(t *testing.T) {
	is := is.New(t)
	b := Of(3, 7, 24)
	is.Equal(b.Count(), 3)
	is.True(b.IsSet(7))
	is.True(!b.IsSet(8))
	is.Equal(b.Cells(), []Cell{3, 7, 24})
	is.Equal(b.LSB(), Cell(3))
	c := b.PopLSB()
	is.Equal(c, Cell(3))
	is.Equal(b, Of(7, 24))
	is.Equal(Empty.LSB(), NoCell)
	is.Equal(b.Clear(7), Of(24))
	is.Equal(Of(0, 1, 12).Rotate(), Of(24, 23, 12))
	is.Equal(Full.Rotate(), Full)
	is.Equal(Of(0, 24).String(), "x....\n.....\n.....\n.....\n....x\n")
}

func TestShiftCenterIsIdentity(t *testing.T) {
	is := is.New(t)
	for p := Bitboard(0); p < 1<<10; p++ {
		// any pattern with bits in columns 0-4 of rows 0-1
		is.Equal(ShiftTo(p, Center), p&Full)
	}
}

func TestShiftNeverWraps(t *testing.T) {
	is := is.New(t)
	// Every pattern cell, shifted onto every board cell, lands either on the
	// board at the matching offset or nowhere.
	for pc := Cell(0); pc < NoCell; pc++ {
		dr, dc := pc.Row()-Center.Row(), pc.Col()-Center.Col()
		for c := Cell(0); c < NoCell; c++ {
			got := ShiftTo(BB(pc), c)
			r, col := c.Row()+dr, c.Col()+dc
			if r < 0 || r >= Size || col < 0 || col >= Size {
				is.Equal(got, Empty)
				continue
			}
			is.Equal(got, BB(NewCell(r, col)))
		}
	}
}

func TestColumnMask(t *testing.T) {
	is := is.New(t)
	is.Equal(ColumnMask[2], Full)
	is.Equal(ColumnMask[0].Count(), 15)
	is.Equal(ColumnMask[1].Count(), 20)
	is.True(!ColumnMask[0].IsSet(NewCell(0, 3)))
	is.True(!ColumnMask[4].IsSet(NewCell(4, 1)))
}
