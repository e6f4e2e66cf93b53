package search

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownStrategy = errors.New("unknown search strategy")

// Strategy decides how the Solver spends its depth.
type Strategy int

const (
	// StrategyFixed searches once, straight to the requested depth.
	StrategyFixed Strategy = iota
	// StrategyIterative searches depth 1, 2, ... up to the requested depth,
	// keeping the last depth that finished inside the budget.
	StrategyIterative
	// StrategyAdaptive is iterative deepening that stops re-searching root
	// moves that have fallen well behind the best one.
	StrategyAdaptive
)

var strategyNames = map[Strategy]string{
	StrategyFixed:     "fixed",
	StrategyIterative: "iterative",
	StrategyAdaptive:  "adaptive",
}

func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return StrategyFixed, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}
