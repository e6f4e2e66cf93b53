package game

import (
	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/cards"
	"github.com/domino14/onitama/move"
)

// MaxMoves bounds the moves of any position: five pieces, two cards of at
// most four destinations each.
const MaxMoves = MaxPieces * 2 * 4

// GenMoves returns every legal move for the side to move, by ascending
// source cell, then hand slot, then ascending destination. A side with no
// legal step gets exactly two passes, one per hand slot.
func (s *State) GenMoves() []move.Move {
	return s.AppendMoves(make([]move.Move, 0, MaxMoves))
}

// AppendMoves is GenMoves writing into dst, for callers that reuse a buffer.
func (s *State) AppendMoves(dst []move.Move) []move.Move {
	start := len(dst)
	masks := s.handMasks()
	own := s.My.Pieces
	for pieces := own; pieces != 0; {
		from := pieces.PopLSB()
		for slot, mask := range masks {
			targets := board.ShiftTo(mask, from) &^ own
			for targets != 0 {
				dst = append(dst, move.New(from, targets.PopLSB(), uint8(slot)))
			}
		}
	}
	if len(dst) == start {
		dst = append(dst, move.NewPass(s.My.King, 0), move.NewPass(s.My.King, 1))
	}
	return dst
}

// CountMoves is len(GenMoves()) without building the list.
func (s *State) CountMoves() int {
	masks := s.handMasks()
	own := s.My.Pieces
	n := 0
	for pieces := own; pieces != 0; {
		from := pieces.PopLSB()
		n += (board.ShiftTo(masks[0], from) &^ own).Count()
		n += (board.ShiftTo(masks[1], from) &^ own).Count()
	}
	if n == 0 {
		return 2
	}
	return n
}

func (s *State) handMasks() [2]board.Bitboard {
	return [2]board.Bitboard{
		cards.Mask(s.My.Cards[0], s.Color),
		cards.Mask(s.My.Cards[1], s.Color),
	}
}

// Control is the set of cells a player threatens with either card, whether
// or not the cell is occupied.
func Control(p Player, side board.Side) board.Bitboard {
	m0 := cards.Mask(p.Cards[0], side)
	m1 := cards.Mask(p.Cards[1], side)
	var ctrl board.Bitboard
	for pieces := p.Pieces; pieces != 0; {
		from := pieces.PopLSB()
		ctrl |= board.ShiftTo(m0, from) | board.ShiftTo(m1, from)
	}
	return ctrl
}

// MyControl and OtherControl are Control for the two players of s.
func (s *State) MyControl() board.Bitboard {
	return Control(s.My, s.Color)
}

func (s *State) OtherControl() board.Bitboard {
	return Control(s.Other, s.Color.Other())
}
