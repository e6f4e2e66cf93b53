package equity

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/onitama/game"
)

const (
	MaterialEvaluator   = "material"
	KingSafetyEvaluator = "kingsafety"
)

var ErrUnknownEvaluator = errors.New("unknown evaluator")

// Combined sums the scores of several evaluators.
type Combined []Evaluator

func (c Combined) Evaluate(s *game.State) int {
	total := 0
	for _, e := range c {
		total += e.Evaluate(s)
	}
	return total
}

// Weights configures the built-in evaluators.
type Weights struct {
	Piece       int
	Square      int
	KingThreat  int
	KingAdvance int
}

func DefaultWeights() Weights {
	return Weights{Piece: DefaultPieceWeight, Square: DefaultSquareWeight}
}

// New builds an evaluator by name.
func New(name string, w Weights) (Evaluator, error) {
	mc := &MaterialControl{PieceWeight: w.Piece, SquareWeight: w.Square}
	switch name {
	case MaterialEvaluator, "":
		return mc, nil
	case KingSafetyEvaluator:
		log.Debug().Int("threat", w.KingThreat).Int("advance", w.KingAdvance).
			Msg("using-king-safety")
		return Combined{mc, &KingSafety{ThreatWeight: w.KingThreat, AdvanceWeight: w.KingAdvance}}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvaluator, name)
}
