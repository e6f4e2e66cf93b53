// Package perft counts the positions reachable from a start position. The
// counts have no heuristic content; they pin the move generator and Apply
// against known reference numbers.
package perft

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/domino14/onitama/game"
	"github.com/domino14/onitama/move"
)

// Perft returns the number of positions exactly depth plies from s. A game
// that ends early counts once, where it ended. A depth below zero counts
// as zero.
func Perft(s *game.State, depth int) uint64 {
	var bufs [][]move.Move
	if depth > 0 {
		bufs = make([][]move.Move, depth+1)
	}
	return perft(s, depth, bufs)
}

func perft(s *game.State, depth int, bufs [][]move.Move) uint64 {
	if depth <= 0 || !s.InProgress {
		return 1
	}
	moves := s.AppendMoves(bufs[depth][:0])
	bufs[depth] = moves
	var n uint64
	for _, m := range moves {
		child := s.Apply(m)
		n += perft(&child, depth-1, bufs)
	}
	return n
}

// Bulk returns the same count as Perft but stops one ply early, counting
// moves rather than applying them. Every move leads to exactly one
// position, finished or not.
func Bulk(s *game.State, depth int) uint64 {
	if depth <= 0 || !s.InProgress {
		return 1
	}
	if depth == 1 {
		return uint64(s.CountMoves())
	}
	var n uint64
	for _, m := range s.GenMoves() {
		child := s.Apply(m)
		n += Bulk(&child, depth-1)
	}
	return n
}

// DivideEntry is one root move's share of a perft count.
type DivideEntry struct {
	Move  move.Move
	Card  string
	Nodes uint64
}

func (d DivideEntry) String() string {
	return fmt.Sprintf("%s (%s): %d", d.Move, d.Card, d.Nodes)
}

// Divide splits the perft count by root move, in generator order.
func Divide(s *game.State, depth int) []DivideEntry {
	if depth <= 0 || !s.InProgress {
		return nil
	}
	moves := s.GenMoves()
	out := make([]DivideEntry, len(moves))
	for i, m := range moves {
		child := s.Apply(m)
		out[i] = DivideEntry{
			Move:  m,
			Card:  s.My.Cards[m.Slot].String(),
			Nodes: Bulk(&child, depth-1),
		}
	}
	return out
}

// Parallel is Perft with the root moves spread over up to threads
// goroutines. It stops early, with ctx's error, if ctx is cancelled
// between root moves.
func Parallel(ctx context.Context, s *game.State, depth, threads int) (uint64, error) {
	if depth <= 0 || !s.InProgress {
		return 1, nil
	}
	moves := s.GenMoves()
	counts := make([]uint64, len(moves))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(threads, 1))
	for i, m := range moves {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			child := s.Apply(m)
			counts[i] = Bulk(&child, depth-1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	var n uint64
	for _, c := range counts {
		n += c
	}
	return n, nil
}
