package equity

import (
	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/game"
)

// KingSafety rewards threatening the enemy king and keeping our own out of
// reach, and rewards marching the king toward its goal.
type KingSafety struct {
	ThreatWeight  int
	AdvanceWeight int
}

func kingAdvance(king board.Cell, side board.Side) int {
	if king == board.NoCell {
		return 0
	}
	if side == board.Red {
		return board.HomeRow(board.Red) - king.Row()
	}
	return king.Row() - board.HomeRow(board.Blue)
}

func threatened(king board.Cell, ctrl board.Bitboard) int {
	if king != board.NoCell && ctrl.IsSet(king) {
		return 1
	}
	return 0
}

func (ks *KingSafety) Evaluate(s *game.State) int {
	score := 0
	if ks.ThreatWeight != 0 {
		score += ks.ThreatWeight * (threatened(s.Other.King, s.MyControl()) -
			threatened(s.My.King, s.OtherControl()))
	}
	if ks.AdvanceWeight != 0 {
		score += ks.AdvanceWeight * (kingAdvance(s.My.King, s.Color) -
			kingAdvance(s.Other.King, s.Color.Other()))
	}
	return score
}
