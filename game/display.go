package game

import (
	"fmt"
	"strings"

	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/cards"
)

func addText(lines []string, row int, hpad int, text string) {
	lines[row] = lines[row] + strings.Repeat(" ", hpad) + text
}

func pieceAt(red, blue Player, c board.Cell) byte {
	switch {
	case c == red.King:
		return 'R'
	case red.Pieces.IsSet(c):
		return 'r'
	case c == blue.King:
		return 'B'
	case blue.Pieces.IsSet(c):
		return 'b'
	}
	return '.'
}

func handString(hand [2]cards.Card) string {
	return fmt.Sprintf("%s, %s", hand[0], hand[1])
}

// ToDisplayText turns the position into a displayable string: the board
// from Red's seat with the hands and status alongside.
func (s *State) ToDisplayText() string {
	red, blue := s.RedBlue()
	lines := make([]string, 0, board.Size+2)
	lines = append(lines, "   a b c d e")
	for row := 0; row < board.Size; row++ {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%d ", board.Size-row)
		for col := 0; col < board.Size; col++ {
			sb.WriteByte(' ')
			sb.WriteByte(pieceAt(red, blue, board.NewCell(row, col)))
		}
		lines = append(lines, sb.String())
	}
	lines = append(lines, "")

	hpad := 3
	addText(lines, 1, hpad, "Blue: "+handString(blue.Cards))
	addText(lines, 3, hpad, "Table: "+s.Table.String())
	addText(lines, 5, hpad, "Red: "+handString(red.Cards))
	if w, over := s.Winner(); over {
		lines[len(lines)-1] = fmt.Sprintf("Game over, %s wins.", w)
	} else {
		lines[len(lines)-1] = fmt.Sprintf("%s to move.", s.Color)
	}
	return strings.Join(lines, "\n")
}

// CardDisplayText draws a card's pattern as the given side sees it from
// Red's seat, with 'o' for the piece and 'x' for its destinations.
func CardDisplayText(c cards.Card, side board.Side) string {
	mask := cards.Mask(c, side)
	var sb strings.Builder
	sb.WriteString(c.String())
	sb.WriteByte('\n')
	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			cell := board.NewCell(row, col)
			switch {
			case cell == board.Center:
				sb.WriteByte('o')
			case mask.IsSet(cell):
				sb.WriteByte('x')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
