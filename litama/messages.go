// Package litama converts between game positions and the messages of the
// Litama Onitama server. It does not open connections; callers own the
// socket and hand this package the message bodies.
package litama

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrBadMessage        = errors.New("malformed litama message")
	ErrUnexpectedMessage = errors.New("unexpected litama message")
)

const (
	TypeCreate   = "create"
	TypeJoin     = "join"
	TypeState    = "state"
	TypeMove     = "move"
	TypeSpectate = "spectate"
	TypeError    = "error"
)

const (
	GameInProgress = "in progress"
	GameEnded      = "ended"
)

type envelope struct {
	MessageType string `json:"messageType"`
}

type CreateMsg struct {
	MatchID string `json:"matchId"`
	Token   string `json:"token"`
	Color   string `json:"color"`
}

type JoinMsg struct {
	MatchID string `json:"matchId"`
	Token   string `json:"token"`
	Color   string `json:"color"`
}

type CardsObj struct {
	Red  []string `json:"red"`
	Blue []string `json:"blue"`
	Side string   `json:"side"`
}

// StateMsg is the server's view of a match after every move.
type StateMsg struct {
	MatchID     string   `json:"matchId"`
	CurrentTurn string   `json:"currentTurn"`
	Cards       CardsObj `json:"cards"`
	Moves       []string `json:"moves"`
	// Board is 25 characters, one per cell from the top left: '0' empty,
	// '1' blue pawn, '2' blue king, '3' red pawn, '4' red king.
	Board     string `json:"board"`
	GameState string `json:"gameState"`
	Winner    string `json:"winner"`
}

type MoveMsg struct {
	MatchID string `json:"matchId"`
}

type SpectateMsg struct {
	MatchID string `json:"matchId"`
}

type ErrorMsg struct {
	MatchID string `json:"matchId"`
	Error   string `json:"error"`
	Command string `json:"command"`
}

// Decode parses one server message and returns a pointer to the struct
// matching its messageType.
func Decode(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	var msg any
	switch env.MessageType {
	case TypeCreate:
		msg = &CreateMsg{}
	case TypeJoin:
		msg = &JoinMsg{}
	case TypeState:
		msg = &StateMsg{}
	case TypeMove:
		msg = &MoveMsg{}
	case TypeSpectate:
		msg = &SpectateMsg{}
	case TypeError:
		msg = &ErrorMsg{}
	default:
		return nil, fmt.Errorf("%w: unknown messageType %q", ErrBadMessage, env.MessageType)
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	return msg, nil
}

// DecodeState decodes a message that must be a state update. A server
// error message is reported with its text.
func DecodeState(data []byte) (*StateMsg, error) {
	msg, err := Decode(data)
	if err != nil {
		return nil, err
	}
	switch m := msg.(type) {
	case *StateMsg:
		return m, nil
	case *ErrorMsg:
		return nil, fmt.Errorf("%w: server error %q for command %q",
			ErrUnexpectedMessage, m.Error, m.Command)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnexpectedMessage, msg)
}

// Encode marshals msg with its messageType tag.
func Encode(msg any) ([]byte, error) {
	var t string
	switch msg.(type) {
	case *CreateMsg, CreateMsg:
		t = TypeCreate
	case *JoinMsg, JoinMsg:
		t = TypeJoin
	case *StateMsg, StateMsg:
		t = TypeState
	case *MoveMsg, MoveMsg:
		t = TypeMove
	case *SpectateMsg, SpectateMsg:
		t = TypeSpectate
	case *ErrorMsg, ErrorMsg:
		t = TypeError
	default:
		return nil, fmt.Errorf("%w: cannot encode %T", ErrBadMessage, msg)
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	// splice the tag into the object
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["messageType"], _ = json.Marshal(t)
	return json.Marshal(fields)
}
