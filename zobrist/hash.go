package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/cards"
	"github.com/domino14/onitama/game"
	"github.com/domino14/onitama/move"
)

const bignum = 1<<63 - 2

// generate a zobrist hash for an Onitama position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// Hands are hashed as sets: two positions that differ only in which slot
// holds which card are the same position.
type Zobrist struct {
	blueToMove uint64

	pieceTable [2][board.NumCells]uint64
	kingTable  [2][board.NumCells + 1]uint64
	handTable  [2][cards.NumCards]uint64
	tableCard  [cards.NumCards]uint64
}

func rnd() uint64 {
	return frand.Uint64n(bignum) + 1
}

func (z *Zobrist) Initialize() {
	for s := range 2 {
		for c := range board.NumCells {
			z.pieceTable[s][c] = rnd()
		}
		for c := range board.NumCells + 1 {
			z.kingTable[s][c] = rnd()
		}
		for c := range cards.NumCards {
			z.handTable[s][c] = rnd()
		}
	}
	for c := range cards.NumCards {
		z.tableCard[c] = rnd()
	}
	z.blueToMove = rnd()
}

// New returns an initialized Zobrist.
func New() *Zobrist {
	z := &Zobrist{}
	z.Initialize()
	return z
}

func (z *Zobrist) hashPlayer(p game.Player, side board.Side) uint64 {
	key := uint64(0)
	p.Pieces.ForEach(func(c board.Cell) {
		key ^= z.pieceTable[side][c]
	})
	key ^= z.kingTable[side][p.King]
	key ^= z.handTable[side][p.Cards[0]]
	key ^= z.handTable[side][p.Cards[1]]
	return key
}

func (z *Zobrist) Hash(s *game.State) uint64 {
	key := z.hashPlayer(s.My, s.Color) ^ z.hashPlayer(s.Other, s.Color.Other())
	key ^= z.tableCard[s.Table]
	if s.Color == board.Blue {
		key ^= z.blueToMove
	}
	return key
}

// AddMove returns the hash of s.Apply(m) given key, the hash of s.
func (z *Zobrist) AddMove(key uint64, s *game.State, m move.Move) uint64 {
	us, them := s.Color, s.Color.Other()

	// For a pass these cancel out.
	key ^= z.pieceTable[us][m.From]
	key ^= z.pieceTable[us][m.To]
	if m.From == s.My.King {
		key ^= z.kingTable[us][m.From]
		key ^= z.kingTable[us][m.To]
	}
	if s.Other.Pieces.IsSet(m.To) {
		key ^= z.pieceTable[them][m.To]
		if s.Other.King == m.To {
			key ^= z.kingTable[them][m.To]
			key ^= z.kingTable[them][board.NoCell]
		}
	}

	used := s.My.Cards[m.Slot]
	key ^= z.handTable[us][used]
	key ^= z.handTable[us][s.Table]
	key ^= z.tableCard[s.Table]
	key ^= z.tableCard[used]

	key ^= z.blueToMove
	return key
}
