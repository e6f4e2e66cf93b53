// Package equity holds the static evaluators the search scores leaf
// positions with.
package equity

import (
	"github.com/domino14/onitama/game"
)

// Evaluator scores a position from the point of view of the side to move:
// positive is good for s.My. It must not be called on a finished game; the
// search checks for that first.
type Evaluator interface {
	Evaluate(s *game.State) int
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(s *game.State) int

func (f EvaluatorFunc) Evaluate(s *game.State) int {
	return f(s)
}
