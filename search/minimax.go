// Package search finds the best move in an Onitama position.
//
// Minimax and AlphaBeta are the plain fixed-depth recursions; Solver layers
// iterative deepening, a transposition table, parallel root search and
// work budgets on top of the same recursion.
package search

import (
	"github.com/domino14/onitama/equity"
	"github.com/domino14/onitama/game"
	"github.com/domino14/onitama/move"
)

// Minimax values s by exhaustive search to the given depth. A finished game
// is a Loss(0) for the side to move; the horizon is scored by ev.
func Minimax(s *game.State, depth int, ev equity.Evaluator) Value {
	if !s.InProgress {
		return Loss(0)
	}
	if depth == 0 {
		return Eval(ev.Evaluate(s))
	}
	best := NegInf
	for _, m := range s.GenMoves() {
		child := s.Apply(m)
		v := Minimax(&child, depth-1, ev).Flip()
		if v.Greater(best) {
			best = v
		}
	}
	return best
}

// AlphaBeta is Minimax with fail-soft alpha-beta pruning. When the true
// value lies strictly inside (alpha, beta) it is returned exactly;
// otherwise the result is a bound on the same side of the window as the
// true value.
func AlphaBeta(s *game.State, depth int, alpha, beta Value, ev equity.Evaluator) Value {
	if !s.InProgress {
		return Loss(0)
	}
	if depth == 0 {
		return Eval(ev.Evaluate(s))
	}
	best := NegInf
	for _, m := range s.GenMoves() {
		child := s.Apply(m)
		v := AlphaBeta(&child, depth-1, beta.Unflip(), alpha.Unflip(), ev).Flip()
		if v.Greater(best) {
			best = v
			alpha = Max(alpha, best)
			if !best.Less(beta) {
				break
			}
		}
	}
	return best
}

// ChooseMove searches every move to depth-1 and returns the first one with
// the best value.
func ChooseMove(s *game.State, depth int, ev equity.Evaluator) (move.Move, Value) {
	depth = max(depth, 1)
	var bestMove move.Move
	best := NegInf
	for _, m := range s.GenMoves() {
		child := s.Apply(m)
		v := Minimax(&child, depth-1, ev).Flip()
		if v.Greater(best) {
			best, bestMove = v, m
		}
	}
	return bestMove, best
}

// ChooseMoveAlphaBeta returns the same move and value as ChooseMove.
func ChooseMoveAlphaBeta(s *game.State, depth int, ev equity.Evaluator) (move.Move, Value) {
	depth = max(depth, 1)
	var bestMove move.Move
	best := NegInf
	for _, m := range s.GenMoves() {
		child := s.Apply(m)
		// A child that cannot beat best comes back as a bound no better
		// than best, so the strict comparison keeps the first best move.
		v := AlphaBeta(&child, depth-1, NegInf, best.Unflip(), ev).Flip()
		if v.Greater(best) {
			best, bestMove = v, m
		}
	}
	return bestMove, best
}
