package board

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownSide = errors.New("unknown side")

// Side is a player colour. Red starts on the bottom row and moves up;
// Blue starts on the top row and moves down.
type Side uint8

const (
	Red Side = iota
	Blue
)

func (s Side) Other() Side {
	return s ^ 1
}

func (s Side) String() string {
	if s == Red {
		return "red"
	}
	return "blue"
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "blue":
		return Blue, nil
	}
	return Red, fmt.Errorf("%w: %q", ErrUnknownSide, s)
}

// HomeRow is the row a side's pieces start on.
func HomeRow(s Side) int {
	if s == Red {
		return Size - 1
	}
	return 0
}

// KingStart is where a side's king begins the game.
func KingStart(s Side) Cell {
	return NewCell(HomeRow(s), Size/2)
}

// Goal is the opponent's starting king cell. Reaching it with the king wins.
func Goal(s Side) Cell {
	return KingStart(s.Other())
}

// StartPieces is the full home row for a side.
func StartPieces(s Side) Bitboard {
	var b Bitboard
	for col := 0; col < Size; col++ {
		b = b.Set(NewCell(HomeRow(s), col))
	}
	return b
}
