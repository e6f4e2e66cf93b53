// Package cards is the fixed table of the sixteen movement cards.
package cards

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/domino14/onitama/board"
)

var (
	ErrUnknownCard   = errors.New("unknown card")
	ErrDuplicateCard = errors.New("duplicate card")
)

// Card identifies one of the sixteen movement patterns.
type Card uint8

const (
	Boar Card = iota
	Cobra
	Crab
	Crane
	Dragon
	Eel
	Elephant
	Frog
	Goose
	Horse
	Mantis
	Monkey
	Ox
	Rabbit
	Rooster
	Tiger

	NumCards
)

// A card's grid as printed, seen from Red's seat: the piece stands on the
// 'o' and forward is up. 'x' marks a destination.
var grids = [NumCards][board.Size]string{
	Boar: {
		".....",
		"..x..",
		".xox.",
		".....",
		".....",
	},
	Cobra: {
		".....",
		"...x.",
		".xo..",
		"...x.",
		".....",
	},
	Crab: {
		".....",
		"..x..",
		"x.o.x",
		".....",
		".....",
	},
	Crane: {
		".....",
		"..x..",
		"..o..",
		".x.x.",
		".....",
	},
	Dragon: {
		".....",
		"x...x",
		"..o..",
		".x.x.",
		".....",
	},
	Eel: {
		".....",
		".x...",
		"..ox.",
		".x...",
		".....",
	},
	Elephant: {
		".....",
		".x.x.",
		".xox.",
		".....",
		".....",
	},
	Frog: {
		".....",
		".x...",
		"x.o..",
		"...x.",
		".....",
	},
	Goose: {
		".....",
		".x...",
		".xox.",
		"...x.",
		".....",
	},
	Horse: {
		".....",
		"..x..",
		".xo..",
		"..x..",
		".....",
	},
	Mantis: {
		".....",
		".x.x.",
		"..o..",
		"..x..",
		".....",
	},
	Monkey: {
		".....",
		".x.x.",
		"..o..",
		".x.x.",
		".....",
	},
	Ox: {
		".....",
		"..x..",
		"..ox.",
		"..x..",
		".....",
	},
	Rabbit: {
		".....",
		"...x.",
		"..o.x",
		".x...",
		".....",
	},
	Rooster: {
		".....",
		"...x.",
		".xox.",
		".x...",
		".....",
	},
	Tiger: {
		"..x..",
		".....",
		"..o..",
		"..x..",
		".....",
	},
}

var names = [NumCards]string{
	"boar", "cobra", "crab", "crane", "dragon", "eel", "elephant", "frog",
	"goose", "horse", "mantis", "monkey", "ox", "rabbit", "rooster", "tiger",
}

// stamps is the colour printed on each card.
var stamps = [NumCards]board.Side{
	Boar: board.Red, Cobra: board.Red, Crab: board.Blue, Crane: board.Blue,
	Dragon: board.Red, Eel: board.Blue, Elephant: board.Red, Frog: board.Red,
	Goose: board.Blue, Horse: board.Red, Mantis: board.Red, Monkey: board.Blue,
	Ox: board.Blue, Rabbit: board.Blue, Rooster: board.Red, Tiger: board.Blue,
}

var (
	masks  [NumCards][2]board.Bitboard
	titles [NumCards]string
	byName = map[string]Card{}
	titler = cases.Title(language.English)
)

func init() {
	for c := Card(0); c < NumCards; c++ {
		m := compile(grids[c])
		masks[c][board.Red] = m
		masks[c][board.Blue] = m.Rotate()
		titles[c] = titler.String(names[c])
		byName[names[c]] = c
	}
}

func compile(grid [board.Size]string) board.Bitboard {
	var m board.Bitboard
	for row, line := range grid {
		for col, ch := range line {
			if ch == 'x' {
				m = m.Set(board.NewCell(row, col))
			}
		}
	}
	return m
}

// Mask returns the card's destinations relative to board.Center, as seen by
// the given side. Blue sits across the table so its masks are rotated.
func Mask(c Card, s board.Side) board.Bitboard {
	return masks[c][s]
}

func (c Card) Valid() bool {
	return c < NumCards
}

// Stamp is the colour printed on the card. Whoever matches the table card's
// stamp moves first.
func (c Card) Stamp() board.Side {
	return stamps[c]
}

// Key is the lower-case name used on the wire.
func (c Card) Key() string {
	if !c.Valid() {
		return fmt.Sprintf("card(%d)", c)
	}
	return names[c]
}

func (c Card) String() string {
	if !c.Valid() {
		return c.Key()
	}
	return titles[c]
}

// Parse looks up a card by name, ignoring case.
func Parse(name string) (Card, error) {
	c, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return NumCards, fmt.Errorf("%w: %q", ErrUnknownCard, name)
	}
	return c, nil
}

// All returns every card in table order.
func All() []Card {
	all := make([]Card, NumCards)
	for i := range all {
		all[i] = Card(i)
	}
	return all
}
