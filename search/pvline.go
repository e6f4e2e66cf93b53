package search

import (
	"fmt"
	"strings"

	"github.com/domino14/onitama/game"
)

// Credit: MIT-licensed https://github.com/algerbrex/blunder/blob/main/engine/search.go
type PVLine struct {
	Moves []game.Turn
	value Value
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Moves = nil
}

// Update the principal variation line with a new best move,
// and a new line of best play after the best move.
func (pvLine *PVLine) Update(t game.Turn, newPVLine PVLine, v Value) {
	pvLine.Clear()
	pvLine.Moves = append(pvLine.Moves, t)
	pvLine.Moves = append(pvLine.Moves, newPVLine.Moves...)
	pvLine.value = v
}

// Value is the value of the line for the side that plays its first move.
func (pvLine PVLine) Value() Value {
	return pvLine.value
}

// Convert the principal variation line to a string.
func (pvLine PVLine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %s\n", pvLine.value)
	for i, t := range pvLine.Moves {
		fmt.Fprintf(&sb, "%d: %s\n", i+1, t)
	}
	return sb.String()
}

func (pvLine PVLine) NLBString() string {
	// no line breaks
	var sb strings.Builder
	fmt.Fprintf(&sb, "PV; val %s; ", pvLine.value)
	for i, t := range pvLine.Moves {
		fmt.Fprintf(&sb, "%d: %s; ", i+1, t)
	}
	return sb.String()
}
