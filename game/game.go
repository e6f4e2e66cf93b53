// Package game encapsulates the rules of Onitama: the position, move
// generation, and the turn transition. A State is a plain value; playing a
// move returns a new State and never touches the old one, so the search can
// hold many hypothetical positions at once.
package game

import (
	"errors"
	"fmt"

	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/cards"
)

const MaxPieces = board.Size

var (
	ErrInvalidState = errors.New("invalid game state")
	ErrIllegalMove  = errors.New("illegal move")
)

// Player is one side's pieces and hand.
type Player struct {
	Cards  [2]cards.Card
	Pieces board.Bitboard
	// King is the cell holding this side's king, or board.NoCell once it has
	// been captured.
	King board.Cell
}

// State is a position. It is stored from the point of view of the side to
// move: My is always the mover and Color is My's colour.
type State struct {
	My         Player
	Other      Player
	Table      cards.Card
	Color      board.Side
	InProgress bool
}

func newPlayer(s board.Side, hand [2]cards.Card) Player {
	return Player{
		Cards:  hand,
		Pieces: board.StartPieces(s),
		King:   board.KingStart(s),
	}
}

// FromDeck sets up the opening position for the given deal. The side whose
// colour is stamped on the table card moves first.
func FromDeck(d cards.Deck) (State, error) {
	if err := d.Validate(); err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	red := newPlayer(board.Red, d.Red())
	blue := newPlayer(board.Blue, d.Blue())
	return FromPlayers(red, blue, d.Table(), d.Table().Stamp(), true)
}

// NewRandom deals a random deck and sets up the opening position.
func NewRandom() State {
	s, err := FromDeck(cards.Draw())
	if err != nil {
		// a drawn deck is always valid
		panic(err)
	}
	return s
}

// FromPlayers builds a position from fixed-colour players, as a transport
// layer or test would describe it, and checks that it is well formed.
func FromPlayers(red, blue Player, table cards.Card, toMove board.Side, inProgress bool) (State, error) {
	d := cards.Deck{red.Cards[0], red.Cards[1], blue.Cards[0], blue.Cards[1], table}
	if err := d.Validate(); err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	for _, p := range []struct {
		side board.Side
		pl   Player
	}{{board.Red, red}, {board.Blue, blue}} {
		if p.pl.Pieces&^board.Full != 0 {
			return State{}, fmt.Errorf("%w: %s has pieces off the board", ErrInvalidState, p.side)
		}
		if p.pl.Pieces.Count() > MaxPieces {
			return State{}, fmt.Errorf("%w: %s has %d pieces", ErrInvalidState, p.side, p.pl.Pieces.Count())
		}
		if p.pl.King == board.NoCell {
			if inProgress {
				return State{}, fmt.Errorf("%w: %s king captured but game in progress", ErrInvalidState, p.side)
			}
			continue
		}
		if !p.pl.King.Valid() || !p.pl.Pieces.IsSet(p.pl.King) {
			return State{}, fmt.Errorf("%w: %s king at %s is not one of its pieces", ErrInvalidState, p.side, p.pl.King)
		}
		if inProgress && p.pl.King == board.Goal(p.side) {
			return State{}, fmt.Errorf("%w: %s king already on its goal", ErrInvalidState, p.side)
		}
	}
	if red.Pieces&blue.Pieces != 0 {
		return State{}, fmt.Errorf("%w: pieces overlap at %v", ErrInvalidState, (red.Pieces & blue.Pieces).Cells())
	}
	s := State{Table: table, Color: toMove, InProgress: inProgress}
	if toMove == board.Red {
		s.My, s.Other = red, blue
	} else {
		s.My, s.Other = blue, red
	}
	return s, nil
}

// RedBlue returns the players by colour rather than by turn.
func (s *State) RedBlue() (red, blue Player) {
	if s.Color == board.Red {
		return s.My, s.Other
	}
	return s.Other, s.My
}

// Deck returns the five cards of this game in deal order, with the hands
// as they currently stand.
func (s *State) Deck() cards.Deck {
	red, blue := s.RedBlue()
	return cards.Deck{red.Cards[0], red.Cards[1], blue.Cards[0], blue.Cards[1], s.Table}
}

// Goal is the cell the mover's king is trying to reach.
func (s *State) Goal() board.Cell {
	return board.Goal(s.Color)
}

// Winner reports who won a finished game. After Apply ends a game the side
// to move is the one that lost, but positions read off the wire are judged
// by the kings.
func (s *State) Winner() (board.Side, bool) {
	if s.InProgress {
		return board.Red, false
	}
	switch {
	case s.My.King == board.NoCell, s.Other.King == board.Goal(s.Color.Other()):
		return s.Color.Other(), true
	case s.Other.King == board.NoCell, s.My.King == board.Goal(s.Color):
		return s.Color, true
	}
	return s.Color.Other(), true
}
