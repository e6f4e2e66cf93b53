// Package move holds the Onitama move value.
package move

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/cards"
)

// MoveType is either a step or a forced pass.
type MoveType uint8

const (
	MoveTypeStep MoveType = iota
	MoveTypePass
)

// Move names a source cell, a destination cell, and which of the mover's
// two hand slots was used. A pass keeps From == To on the mover's king but
// still uses up a card.
type Move struct {
	From board.Cell
	To   board.Cell
	Slot uint8
}

func New(from, to board.Cell, slot uint8) Move {
	return Move{From: from, To: to, Slot: slot}
}

// NewPass creates the null move used when no piece can move.
func NewPass(king board.Cell, slot uint8) Move {
	return Move{From: king, To: king, Slot: slot}
}

func (m Move) Action() MoveType {
	if m.From == m.To {
		return MoveTypePass
	}
	return MoveTypeStep
}

func (m Move) IsPass() bool {
	return m.Action() == MoveTypePass
}

// String provides a string just for debugging purposes.
func (m Move) String() string {
	if m.IsPass() {
		return fmt.Sprintf("pass/%d", m.Slot)
	}
	return fmt.Sprintf("%s%s/%d", m.From, m.To, m.Slot)
}

// ShortDescription renders the move with the card it used, for logging or
// user display.
func (m Move) ShortDescription(card cards.Card) string {
	if m.IsPass() {
		return fmt.Sprintf("%s pass", card)
	}
	return fmt.Sprintf("%s %s-%s", card, m.From, m.To)
}

// Find returns the index of m in moves, or -1.
func Find(moves []Move, m Move) int {
	_, idx, ok := lo.FindIndexOf(moves, func(o Move) bool { return o == m })
	if !ok {
		return -1
	}
	return idx
}

// UsingSlot keeps only the moves made with the given hand slot.
func UsingSlot(moves []Move, slot uint8) []Move {
	return lo.Filter(moves, func(m Move, _ int) bool { return m.Slot == slot })
}

// Strings renders a list of moves for logs.
func Strings(moves []Move) []string {
	return lo.Map(moves, func(m Move, _ int) string { return m.String() })
}
