package board

// ColumnMask[c] covers every row of columns c-2 through c+2, clipped to the
// board. A pattern shifted onto a cell in column c can only legally land in
// those columns; anything else wrapped around a side edge.
var ColumnMask [Size]Bitboard

func init() {
	for c := 0; c < Size; c++ {
		var m Bitboard
		for row := 0; row < Size; row++ {
			for col := max(0, c-2); col <= min(Size-1, c+2); col++ {
				m = m.Set(NewCell(row, col))
			}
		}
		ColumnMask[c] = m
	}
}

// ShiftTo moves a pattern authored around Center so that it is centred on
// cell c instead, dropping every bit that would leave the board.
func ShiftTo(pattern Bitboard, c Cell) Bitboard {
	var shifted Bitboard
	if c >= Center {
		shifted = pattern << (c - Center)
	} else {
		shifted = pattern >> (Center - c)
	}
	return shifted & Full & ColumnMask[c.Col()]
}
