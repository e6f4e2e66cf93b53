package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/domino14/onitama/cards"
	"github.com/domino14/onitama/move"
)

var ErrNothingToUndo = errors.New("no moves to undo")

// Turn is one recorded move with the card that was used for it.
type Turn struct {
	Move move.Move
	Card cards.Card
}

func (t Turn) String() string {
	return t.Move.ShortDescription(t.Card)
}

// Game is a match in progress: the opening position plus a stack of every
// position reached since, so moves can be taken back.
type Game struct {
	uid    string
	states []State
	turns  []Turn
}

func NewGame(start State) *Game {
	return &Game{
		uid:    uuid.NewString(),
		states: []State{start},
	}
}

func (g *Game) Uid() string {
	return g.uid
}

// State is the current position.
func (g *Game) State() State {
	return g.states[len(g.states)-1]
}

func (g *Game) Start() State {
	return g.states[0]
}

func (g *Game) Playing() bool {
	return g.State().InProgress
}

// Turn is the number of moves played so far.
func (g *Game) Turn() int {
	return len(g.turns)
}

// PlayMove validates and plays m.
func (g *Game) PlayMove(m move.Move) error {
	cur := g.State()
	next, err := cur.ApplyChecked(m)
	if err != nil {
		return fmt.Errorf("turn %d: %w", g.Turn()+1, err)
	}
	g.turns = append(g.turns, Turn{Move: m, Card: cur.My.Cards[m.Slot]})
	g.states = append(g.states, next)
	return nil
}

// UnplayLastMove restores the position before the last move.
func (g *Game) UnplayLastMove() error {
	if len(g.turns) == 0 {
		return ErrNothingToUndo
	}
	g.turns = g.turns[:len(g.turns)-1]
	g.states = g.states[:len(g.states)-1]
	return nil
}

// History lists the moves played, oldest first.
func (g *Game) History() []Turn {
	return append([]Turn(nil), g.turns...)
}
