package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	Size     = 5
	NumCells = Size * Size
)

var ErrInvalidCell = errors.New("invalid cell")

// Cell is a board position, row*5+col, with row 0 at the top (Blue's home
// row) and row 4 at the bottom (Red's home row).
type Cell uint8

// NoCell marks a captured king.
const NoCell Cell = NumCells

// Center is the cell every movement pattern is authored around.
const Center Cell = 12

func NewCell(row, col int) Cell {
	return Cell(row*Size + col)
}

func (c Cell) Row() int {
	return int(c) / Size
}

func (c Cell) Col() int {
	return int(c) % Size
}

func (c Cell) Valid() bool {
	return c < NoCell
}

// String renders the cell in algebraic form: file a-e is the column, rank
// 1-5 counts up from Red's home row. Cell 22 is "c1", cell 2 is "c5".
func (c Cell) String() string {
	if !c.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+c.Col(), Size-c.Row())
}

// ParseCell is the inverse of String. It also accepts a bare index 0-24.
func ParseCell(s string) (Cell, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 2 && s[0] >= 'a' && s[0] <= 'e' && s[1] >= '1' && s[1] <= '5' {
		col := int(s[0] - 'a')
		row := Size - int(s[1]-'0')
		return NewCell(row, col), nil
	}
	if idx, err := strconv.Atoi(s); err == nil && idx >= 0 && idx < NumCells {
		return Cell(idx), nil
	}
	return NoCell, fmt.Errorf("%w: %q", ErrInvalidCell, s)
}
