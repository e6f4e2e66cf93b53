package equity

import (
	"github.com/domino14/onitama/game"
)

const (
	DefaultPieceWeight  = 10
	DefaultSquareWeight = 1
)

// MaterialControl counts pieces and threatened cells:
//
//	PieceWeight*(my pieces - their pieces) + SquareWeight*(my control - their control)
//
// where control is every cell a side's cards reach from its pieces,
// occupied or not.
type MaterialControl struct {
	PieceWeight  int
	SquareWeight int
}

func NewMaterialControl() *MaterialControl {
	return &MaterialControl{PieceWeight: DefaultPieceWeight, SquareWeight: DefaultSquareWeight}
}

func (mc *MaterialControl) Evaluate(s *game.State) int {
	pieces := s.My.Pieces.Count() - s.Other.Pieces.Count()
	squares := s.MyControl().Count() - s.OtherControl().Count()
	return mc.PieceWeight*pieces + mc.SquareWeight*squares
}
