package tinymove

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/move"
)

func TestTinyMove(t *testing.T) {
	is := is.New(t)
	for from := board.Cell(0); from < board.NoCell; from++ {
		for to := board.Cell(0); to < board.NoCell; to++ {
			for slot := uint8(0); slot < 2; slot++ {
				m := move.New(from, to, slot)
				tm := MoveToTinyMove(m)
				is.True(tm != NoMove)
				m2, ok := TinyMoveToMove(tm)
				is.True(ok)
				is.Equal(m, m2)
			}
		}
	}
}

func TestNoMove(t *testing.T) {
	is := is.New(t)
	_, ok := TinyMoveToMove(NoMove)
	is.True(!ok)
}
