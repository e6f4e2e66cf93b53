package tinymove

import (
	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/move"
)

// TinyMove packs a move into 16 bits so it fits in a transposition table
// entry.
type TinyMove uint16

// Schema:
// bits 0-4   from cell
// bits 5-9   to cell
// bit  10    hand slot
// bit  15    set on every real move, so the zero value means "no move"
//
//  15   11    7    3
//  v000 0stt tttf ffff

const (
	cellMask  = 0x1F
	toShift   = 5
	slotShift = 10
	validBit  = 1 << 15
)

// NoMove is the empty TinyMove.
const NoMove TinyMove = 0

func MoveToTinyMove(m move.Move) TinyMove {
	return TinyMove(uint16(m.From)|uint16(m.To)<<toShift|uint16(m.Slot&1)<<slotShift) | validBit
}

// TinyMoveToMove unpacks tm. ok is false for NoMove.
func TinyMoveToMove(tm TinyMove) (m move.Move, ok bool) {
	if tm&validBit == 0 {
		return move.Move{}, false
	}
	return move.Move{
		From: board.Cell(tm & cellMask),
		To:   board.Cell((tm >> toShift) & cellMask),
		Slot: uint8((tm >> slotShift) & 1),
	}, true
}
