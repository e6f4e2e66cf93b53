package search

import (
	"cmp"
	"fmt"
)

type kind int8

// Kinds are declared worst first so that comparing kinds orders values of
// different kinds.
const (
	kindNegInf kind = iota
	kindLoss
	kindEval
	kindWin
	kindPosInf
)

// Value is a search result from the point of view of the side to move: a
// forced win or loss in some number of plies, or a heuristic score when
// nothing is forced within the horizon.
//
// Values are totally ordered: every Win beats every Eval, which beats every
// Loss. A faster Win is better; a slower Loss is better. NegInf and PosInf
// sit below and above everything and only ever appear as search bounds.
type Value struct {
	kind kind
	n    int32
}

var (
	NegInf = Value{kind: kindNegInf}
	PosInf = Value{kind: kindPosInf}
)

func Win(plies int) Value {
	return Value{kind: kindWin, n: int32(plies)}
}

func Loss(plies int) Value {
	return Value{kind: kindLoss, n: int32(plies)}
}

func Eval(score int) Value {
	return Value{kind: kindEval, n: int32(score)}
}

func (v Value) IsWin() bool  { return v.kind == kindWin }
func (v Value) IsLoss() bool { return v.kind == kindLoss }
func (v Value) IsEval() bool { return v.kind == kindEval }

// Proven is true for a forced Win or Loss.
func (v Value) Proven() bool {
	return v.kind == kindWin || v.kind == kindLoss
}

// Plies is the distance of a Win or Loss.
func (v Value) Plies() int {
	return int(v.n)
}

// Score is the heuristic score of an Eval.
func (v Value) Score() int {
	return int(v.n)
}

// Compare returns -1, 0 or +1 as a is worse than, equal to, or better
// than b.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		return cmp.Compare(a.kind, b.kind)
	}
	switch a.kind {
	case kindLoss, kindEval:
		return cmp.Compare(a.n, b.n)
	case kindWin:
		return cmp.Compare(b.n, a.n)
	}
	return 0
}

func (v Value) Less(o Value) bool    { return Compare(v, o) < 0 }
func (v Value) Greater(o Value) bool { return Compare(v, o) > 0 }

func Max(a, b Value) Value {
	if b.Greater(a) {
		return b
	}
	return a
}

func Min(a, b Value) Value {
	if b.Less(a) {
		return b
	}
	return a
}

// Flip converts a child's value into its parent's point of view, one ply
// further away.
func (v Value) Flip() Value {
	switch v.kind {
	case kindWin:
		return Loss(int(v.n) + 1)
	case kindLoss:
		return Win(int(v.n) + 1)
	case kindEval:
		return Eval(-int(v.n))
	case kindNegInf:
		return PosInf
	}
	return NegInf
}

// Unflip is the inverse of Flip. It turns a parent's bound into the
// matching bound for a child.
func (v Value) Unflip() Value {
	switch v.kind {
	case kindWin:
		return Loss(int(v.n) - 1)
	case kindLoss:
		return Win(int(v.n) - 1)
	case kindEval:
		return Eval(-int(v.n))
	case kindNegInf:
		return PosInf
	}
	return NegInf
}

// Pred is the greatest value strictly worse than v. Searching with Pred(a)
// as the lower bound keeps results equal to a exact.
func (v Value) Pred() Value {
	switch v.kind {
	case kindWin:
		return Win(int(v.n) + 1)
	case kindLoss:
		return Loss(int(v.n) - 1)
	case kindEval:
		return Eval(int(v.n) - 1)
	}
	return v
}

func (v Value) String() string {
	switch v.kind {
	case kindWin:
		return fmt.Sprintf("win in %d", v.n)
	case kindLoss:
		return fmt.Sprintf("loss in %d", v.n)
	case kindEval:
		return fmt.Sprintf("eval %+d", v.n)
	case kindNegInf:
		return "-inf"
	}
	return "+inf"
}
