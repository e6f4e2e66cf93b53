package game

import (
	"fmt"

	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/cards"
	"github.com/domino14/onitama/move"
)

// Apply plays m and returns the resulting position, seen from the new side
// to move. m must come from s.GenMoves(); moves from anywhere else go
// through ApplyChecked.
func (s State) Apply(m move.Move) State {
	my, other := s.My, s.Other

	if m.From == my.King {
		my.King = m.To
	}
	kingCaptured := other.King == m.To
	other.Pieces = other.Pieces.Clear(m.To)
	if kingCaptured {
		other.King = board.NoCell
	}
	// Clear before set so a pass leaves the piece where it is.
	my.Pieces = my.Pieces.Clear(m.From).Set(m.To)

	table := my.Cards[m.Slot]
	my.Cards[m.Slot] = s.Table

	return State{
		My:         other,
		Other:      my,
		Table:      table,
		Color:      s.Color.Other(),
		InProgress: !kingCaptured && my.King != board.Goal(s.Color),
	}
}

// ValidateMove checks that m is one of the moves GenMoves would produce.
func (s *State) ValidateMove(m move.Move) error {
	if !s.InProgress {
		return fmt.Errorf("%w: game is over", ErrIllegalMove)
	}
	if m.Slot > 1 {
		return fmt.Errorf("%w: hand slot %d", ErrIllegalMove, m.Slot)
	}
	if !m.From.Valid() || !m.To.Valid() {
		return fmt.Errorf("%w: cell out of range in %s", ErrIllegalMove, m)
	}
	if move.Find(s.GenMoves(), m) < 0 {
		return fmt.Errorf("%w: %s is not playable", ErrIllegalMove,
			m.ShortDescription(s.My.Cards[m.Slot]))
	}
	return nil
}

// ApplyChecked validates m before applying it.
func (s State) ApplyChecked(m move.Move) (State, error) {
	if err := s.ValidateMove(m); err != nil {
		return s, err
	}
	return s.Apply(m), nil
}

// MoveFor finds the move that takes the piece on from to to using the named
// card from the mover's hand. A pass is written with from == to == the
// mover's king.
func (s *State) MoveFor(card cards.Card, from, to board.Cell) (move.Move, error) {
	var slot uint8
	switch card {
	case s.My.Cards[0]:
		slot = 0
	case s.My.Cards[1]:
		slot = 1
	default:
		return move.Move{}, fmt.Errorf("%w: %s is not in %s's hand", ErrIllegalMove, card, s.Color)
	}
	m := move.New(from, to, slot)
	return m, s.ValidateMove(m)
}
