package cards

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/onitama/board"
)

func TestMasksAreRotations(t *testing.T) {
	is := is.New(t)
	for _, c := range All() {
		red, blue := Mask(c, board.Red), Mask(c, board.Blue)
		is.Equal(blue, red.Rotate())
		is.Equal(red.Count(), blue.Count())
		is.True(!red.IsSet(board.Center))
		is.Equal(red&^board.Full, board.Empty)
	}
}

func TestSpecificMasks(t *testing.T) {
	is := is.New(t)
	// Tiger jumps two forward or steps one back.
	is.Equal(Mask(Tiger, board.Red), board.Of(2, 17))
	is.Equal(Mask(Tiger, board.Blue), board.Of(22, 7))
	// Crab is left-right symmetric so only the vertical direction flips.
	is.Equal(Mask(Crab, board.Red), board.Of(7, 10, 14))
	is.Equal(Mask(Crab, board.Blue), board.Of(17, 10, 14))
	is.Equal(Mask(Monkey, board.Red), Mask(Monkey, board.Blue))
}

func TestStampsSplitEvenly(t *testing.T) {
	is := is.New(t)
	reds := 0
	for _, c := range All() {
		if c.Stamp() == board.Red {
			reds++
		}
	}
	is.Equal(reds, 8)
	is.Equal(Crab.Stamp(), board.Blue)
	is.Equal(Boar.Stamp(), board.Red)
}

func TestNames(t *testing.T) {
	is := is.New(t)
	is.Equal(Elephant.String(), "Elephant")
	is.Equal(Elephant.Key(), "elephant")
	for _, c := range All() {
		p, err := Parse(c.String())
		is.NoErr(err)
		is.Equal(p, c)
	}
	_, err := Parse("Unicorn")
	is.True(errors.Is(err, ErrUnknownCard))
}

func TestDeck(t *testing.T) {
	is := is.New(t)
	d, err := ParseDeck([]string{"elephant", "horse", "boar", "ox", "crab"})
	is.NoErr(err)
	is.Equal(d.Red(), [2]Card{Elephant, Horse})
	is.Equal(d.Blue(), [2]Card{Boar, Ox})
	is.Equal(d.Table(), Crab)
	is.Equal(d.String(), "Elephant Horse Boar Ox Crab")

	_, err = ParseDeck([]string{"elephant", "horse", "boar", "ox", "horse"})
	is.True(errors.Is(err, ErrDuplicateCard))
	_, err = ParseDeck([]string{"elephant", "horse"})
	is.True(err != nil)

	bad := Deck{Boar, Ox, Crab, Tiger, NumCards}
	is.True(errors.Is(bad.Validate(), ErrUnknownCard))

	for i := 0; i < 100; i++ {
		is.NoErr(Draw().Validate())
	}
}
