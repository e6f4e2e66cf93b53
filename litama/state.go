package litama

import (
	"fmt"
	"strings"

	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/cards"
	"github.com/domino14/onitama/game"
	"github.com/domino14/onitama/move"
)

const (
	cellEmpty    = '0'
	cellBluePawn = '1'
	cellBlueKing = '2'
	cellRedPawn  = '3'
	cellRedKing  = '4'
)

func parseHand(names []string, side board.Side) ([2]cards.Card, error) {
	var hand [2]cards.Card
	if len(names) != 2 {
		return hand, fmt.Errorf("%w: %s holds %d cards", ErrBadMessage, side, len(names))
	}
	for i, n := range names {
		c, err := cards.Parse(n)
		if err != nil {
			return hand, fmt.Errorf("%w: %w", ErrBadMessage, err)
		}
		hand[i] = c
	}
	return hand, nil
}

// StateFromMsg rebuilds the position described by a state message.
func StateFromMsg(msg *StateMsg) (game.State, error) {
	if len(msg.Board) != board.NumCells {
		return game.State{}, fmt.Errorf("%w: board has %d cells", ErrBadMessage, len(msg.Board))
	}
	red := game.Player{King: board.NoCell}
	blue := game.Player{King: board.NoCell}
	for i := 0; i < board.NumCells; i++ {
		c := board.Cell(i)
		switch msg.Board[i] {
		case cellEmpty:
		case cellBluePawn:
			blue.Pieces = blue.Pieces.Set(c)
		case cellBlueKing:
			if blue.King != board.NoCell {
				return game.State{}, fmt.Errorf("%w: second blue king at %v", ErrBadMessage, c)
			}
			blue.Pieces = blue.Pieces.Set(c)
			blue.King = c
		case cellRedPawn:
			red.Pieces = red.Pieces.Set(c)
		case cellRedKing:
			if red.King != board.NoCell {
				return game.State{}, fmt.Errorf("%w: second red king at %v", ErrBadMessage, c)
			}
			red.Pieces = red.Pieces.Set(c)
			red.King = c
		default:
			return game.State{}, fmt.Errorf("%w: board character %q", ErrBadMessage, msg.Board[i])
		}
	}

	var err error
	if red.Cards, err = parseHand(msg.Cards.Red, board.Red); err != nil {
		return game.State{}, err
	}
	if blue.Cards, err = parseHand(msg.Cards.Blue, board.Blue); err != nil {
		return game.State{}, err
	}
	table, err := cards.Parse(msg.Cards.Side)
	if err != nil {
		return game.State{}, fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	toMove, err := board.ParseSide(msg.CurrentTurn)
	if err != nil {
		return game.State{}, fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	var inProgress bool
	switch strings.ToLower(msg.GameState) {
	case GameInProgress:
		inProgress = true
	case GameEnded:
	default:
		return game.State{}, fmt.Errorf("%w: gameState %q", ErrBadMessage, msg.GameState)
	}
	return game.FromPlayers(red, blue, table, toMove, inProgress)
}

// StateToMsg describes s the way the server would. Moves are not part of
// a position and are left empty.
func StateToMsg(matchID string, s *game.State) *StateMsg {
	red, blue := s.RedBlue()
	var sb strings.Builder
	for i := 0; i < board.NumCells; i++ {
		c := board.Cell(i)
		switch {
		case c == red.King:
			sb.WriteByte(cellRedKing)
		case red.Pieces.IsSet(c):
			sb.WriteByte(cellRedPawn)
		case c == blue.King:
			sb.WriteByte(cellBlueKing)
		case blue.Pieces.IsSet(c):
			sb.WriteByte(cellBluePawn)
		default:
			sb.WriteByte(cellEmpty)
		}
	}
	msg := &StateMsg{
		MatchID:     matchID,
		CurrentTurn: s.Color.String(),
		Cards: CardsObj{
			Red:  []string{red.Cards[0].Key(), red.Cards[1].Key()},
			Blue: []string{blue.Cards[0].Key(), blue.Cards[1].Key()},
			Side: s.Table.Key(),
		},
		Moves:     []string{},
		Board:     sb.String(),
		GameState: GameInProgress,
	}
	if w, over := s.Winner(); over {
		msg.GameState = GameEnded
		msg.Winner = w.String()
	}
	return msg
}

// MoveCommand is the text command that plays m for the side to move in s.
func MoveCommand(matchID, token string, s *game.State, m move.Move) string {
	return fmt.Sprintf("move %s %s %s %s%s", matchID, token,
		s.My.Cards[m.Slot].Key(), m.From, m.To)
}

func CreateCommand() string {
	return "create"
}

func JoinCommand(matchID string) string {
	return "join " + matchID
}

// ParseMove turns the card and cells of a wire move into a Move for the
// side to move in s. The move must be legal in s.
func ParseMove(s *game.State, cardName, from, to string) (move.Move, error) {
	card, err := cards.Parse(cardName)
	if err != nil {
		return move.Move{}, fmt.Errorf("%w: %w", game.ErrIllegalMove, err)
	}
	f, err := board.ParseCell(from)
	if err != nil {
		return move.Move{}, fmt.Errorf("%w: %w", game.ErrIllegalMove, err)
	}
	t, err := board.ParseCell(to)
	if err != nil {
		return move.Move{}, fmt.Errorf("%w: %w", game.ErrIllegalMove, err)
	}
	return s.MoveFor(card, f, t)
}

// ParseMoveCommand splits the "<card> <from><to>" tail of a move command,
// as echoed in a state message's move list, and parses it like ParseMove.
func ParseMoveCommand(s *game.State, text string) (move.Move, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 || len(fields[1]) != 4 {
		return move.Move{}, fmt.Errorf("%w: move text %q", game.ErrIllegalMove, text)
	}
	return ParseMove(s, fields[0], fields[1][:2], fields[1][2:])
}
