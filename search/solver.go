package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/onitama/equity"
	"github.com/domino14/onitama/game"
	"github.com/domino14/onitama/move"
	"github.com/domino14/onitama/tinymove"
	"github.com/domino14/onitama/zobrist"
)

const (
	// MaxDepth bounds the search depth; the transposition table stores
	// depths in a byte.
	MaxDepth = 64
	// budgets are checked once every this many nodes.
	budgetCheckInterval = 1024

	DefaultDepth          = 5
	DefaultTTableFraction = 0.05
)

var (
	ErrGameOver      = errors.New("game is over")
	ErrSearchAborted = errors.New("search aborted")
	ErrNoResult      = errors.New("search finished no depth")
)

// Options configure a Solver.
type Options struct {
	Depth   int
	Threads int
	// Nodes is a node budget; 0 means unlimited.
	Nodes uint64
	// Pruning turns on alpha-beta cutoffs. Without it every node is
	// searched with a full window.
	Pruning bool
	TTable  bool
	// TTableFraction is the share of system memory given to the
	// transposition table.
	TTableFraction float64
	Strategy       Strategy
	// AdaptiveMargin is how far, in evaluation points, a root move may
	// trail the best one before StrategyAdaptive stops deepening it.
	AdaptiveMargin int
}

func DefaultOptions() Options {
	return Options{
		Depth:          DefaultDepth,
		Threads:        1,
		Pruning:        true,
		TTable:         true,
		TTableFraction: DefaultTTableFraction,
		Strategy:       StrategyIterative,
		AdaptiveMargin: equity.DefaultPieceWeight,
	}
}

// RootMove is one legal move at the root and the value it had at the
// deepest depth it was searched to.
type RootMove struct {
	Move  move.Move
	Value Value
	Depth int
	// Exact is false when Value is only an upper bound: the move was
	// shown to be no better than the best one without being fully valued.
	Exact bool
}

type Result struct {
	Move    move.Move
	Value   Value
	Depth   int
	Nodes   uint64
	PV      PVLine
	Elapsed time.Duration
	Roots   []RootMove
}

// Solver searches positions for their best move. A Solver may be reused
// across positions but runs one Solve at a time.
type Solver struct {
	opts    Options
	eval    equity.Evaluator
	zobrist *zobrist.Zobrist
	ttable  *TranspositionTable
	ttSized float64

	nodes atomic.Uint64
}

func NewSolver(ev equity.Evaluator, opts Options) *Solver {
	s := &Solver{
		eval:    ev,
		zobrist: zobrist.New(),
		ttable:  &TranspositionTable{},
	}
	s.SetOptions(opts)
	return s
}

func (s *Solver) Options() Options {
	return s.opts
}

func (s *Solver) SetOptions(opts Options) {
	opts.Depth = min(max(opts.Depth, 1), MaxDepth)
	opts.Threads = max(opts.Threads, 1)
	if opts.TTableFraction <= 0 {
		opts.TTableFraction = DefaultTTableFraction
	}
	s.opts = opts
}

func (s *Solver) Evaluator() equity.Evaluator {
	return s.eval
}

// TTable exposes the transposition table, mostly for its stats.
func (s *Solver) TTable() *TranspositionTable {
	return s.ttable
}

func (s *Solver) resetTTable() {
	if s.opts.Threads > 1 {
		s.ttable.SetMultiThreadedMode()
	} else {
		s.ttable.SetSingleThreadedMode()
	}
	if s.ttSized != s.opts.TTableFraction || s.ttable.table == nil {
		s.ttable.Reset(s.opts.TTableFraction)
		s.ttSized = s.opts.TTableFraction
		return
	}
	s.ttable.ResetBits(s.ttable.sizePowerOf2)
}

// Solve finds the best move for the side to move in st.
//
// The deepest depth that finishes inside the budget (ctx and the node
// budget) is returned. Depth 1 always runs to completion, so any position
// still in play gets a move unless ctx was already done on entry. A fixed
// search runs depth 1 and then its requested depth, and falls back to the
// depth 1 answer when the budget runs out.
func (s *Solver) Solve(ctx context.Context, st game.State) (Result, error) {
	if !st.InProgress {
		return Result{}, ErrGameOver
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrNoResult, err)
	}
	tstart := time.Now()
	s.nodes.Store(0)
	if s.opts.TTable {
		s.resetTTable()
	}

	moves := st.GenMoves()
	roots := make([]RootMove, len(moves))
	for i, m := range moves {
		roots[i] = RootMove{Move: m, Value: NegInf}
	}
	all := make([]int, len(roots))
	for i := range all {
		all[i] = i
	}
	rootKey := s.zobrist.Hash(&st)

	// A fixed search runs depth 1, which never aborts, then the requested
	// depth.
	depths := make([]int, 0, s.opts.Depth)
	if s.opts.Strategy == StrategyFixed {
		depths = append(depths, 1)
		if s.opts.Depth > 1 {
			depths = append(depths, s.opts.Depth)
		}
	} else {
		for d := 1; d <= s.opts.Depth; d++ {
			depths = append(depths, d)
		}
	}

	var res Result
	done := make(chan struct{})
	g := errgroup.Group{}
	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Uint64("nodes", nodes).
					Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	completed := false
	for _, d := range depths {
		log.Debug().Int("plies", d).Msg("deepening-iteratively")
		cands := s.candidates(roots, d, all)
		best, pv, err := s.searchRoot(ctx, &st, rootKey, roots, cands, d, completed)
		if err == nil && roots[best].Value.IsLoss() && len(cands) < len(roots) {
			// Everything still being deepened loses; look at the rest
			// again before giving up on them.
			log.Debug().Int("plies", d).Msg("adaptive-research")
			best, pv, err = s.searchRoot(ctx, &st, rootKey, roots, all, d, completed)
			cands = all
		}
		if err != nil {
			if errors.Is(err, ErrSearchAborted) {
				log.Info().Err(err).Int("completed-depth", res.Depth).Msg("search-aborted")
				break
			}
			close(done)
			g.Wait()
			return res, err
		}
		completed = true
		res = Result{
			Move:  roots[best].Move,
			Value: roots[best].Value,
			Depth: d,
			PV:    pv,
			Roots: slices.Clone(roots),
		}
		log.Info().Int("ply", d).Str("value", res.Value.String()).
			Str("pv", pv.NLBString()).Msg("best-val")
		if res.Value.IsWin() || (res.Value.IsLoss() && len(cands) == len(roots)) {
			log.Debug().Int("plies", d).Str("value", res.Value.String()).Msg("proven-result")
			break
		}
	}
	close(done)
	g.Wait()

	res.Nodes = s.nodes.Load()
	res.Elapsed = time.Since(tstart)
	ev := log.Info().Str("best-move", res.Move.String()).
		Str("value", res.Value.String()).
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", res.Elapsed)
	if s.opts.TTable {
		stats := s.ttable.Stats()
		ev = ev.Uint64("ttable-created", stats.Created).
			Uint64("ttable-lookups", stats.Lookups).
			Uint64("ttable-hits", stats.Hits).
			Uint64("ttable-t2collisions", stats.T2Collisions)
	}
	ev.Msg("solve-returning")
	return res, nil
}

// candidates returns the indexes of the root moves to search at depth d.
func (s *Solver) candidates(roots []RootMove, d int, all []int) []int {
	if s.opts.Strategy != StrategyAdaptive || d == 1 {
		return all
	}
	best := NegInf
	nonLoss := false
	for _, r := range roots {
		best = Max(best, r.Value)
		if !r.Value.IsLoss() {
			nonLoss = true
		}
	}
	cands := make([]int, 0, len(roots))
	for i, r := range roots {
		switch {
		case r.Value.IsLoss() && nonLoss:
			continue
		case r.Value.IsEval() && best.IsEval() &&
			r.Value.Score() < best.Score()-s.opts.AdaptiveMargin:
			continue
		}
		cands = append(cands, i)
	}
	return cands
}

type rootResult struct {
	v     Value
	exact bool
	pv    PVLine
}

// searchRoot searches the given root moves to depth d and records their
// values in roots. It returns the index of the best move, the first one
// in move order among equals, and its principal variation.
//
// Each move is searched with a window just below the best exact value
// found so far. A move that fails low cannot be the best, and one that
// doesn't has an exact value, so the choice does not depend on the order
// in which parallel workers finish.
func (s *Solver) searchRoot(ctx context.Context, st *game.State, key uint64,
	roots []RootMove, cands []int, d int, abortable bool) (int, PVLine, error) {

	results := make([]rootResult, len(cands))
	var mu sync.Mutex
	alpha := NegInf

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Threads)
	for i, idx := range cands {
		g.Go(func() error {
			lo := NegInf
			if s.opts.Pruning {
				mu.Lock()
				lo = alpha.Pred()
				mu.Unlock()
			}
			m := roots[idx].Move
			child := st.Apply(m)
			childKey := s.zobrist.AddMove(key, st, m)
			w := &worker{solver: s, ctx: gctx, abortable: abortable}
			var childPV PVLine
			v, err := w.negamax(&child, childKey, d-1, PosInf.Unflip(), lo.Unflip(), &childPV)
			if err != nil {
				return err
			}
			v = v.Flip()
			r := rootResult{v: v, exact: v.Greater(lo)}
			r.pv.Update(game.Turn{Move: m, Card: st.My.Cards[m.Slot]}, childPV, v)
			results[i] = r
			if r.exact {
				mu.Lock()
				alpha = Max(alpha, v)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, PVLine{}, err
	}

	best, bestIdx := -1, -1
	for i, idx := range cands {
		r := results[i]
		roots[idx].Value = r.v
		roots[idx].Depth = d
		roots[idx].Exact = r.exact
		if r.exact && (best < 0 || r.v.Greater(results[best].v)) {
			best, bestIdx = i, idx
		}
	}
	if best < 0 {
		// Not reachable: the first exact value only raises alpha.
		panic("search: no exact root value")
	}
	return bestIdx, results[best].pv, nil
}

// worker carries the per-goroutine state of one subtree search.
type worker struct {
	solver    *Solver
	ctx       context.Context
	abortable bool
	moveBufs  [MaxDepth + 1][]move.Move
}

func (w *worker) checkBudget(n uint64) error {
	if !w.abortable || n%budgetCheckInterval != 0 {
		return nil
	}
	if err := w.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrSearchAborted, err)
	}
	if budget := w.solver.opts.Nodes; budget > 0 && n > budget {
		return fmt.Errorf("%w: node budget %d exhausted", ErrSearchAborted, budget)
	}
	return nil
}

func (w *worker) negamax(st *game.State, key uint64, depth int, alpha, beta Value, pv *PVLine) (Value, error) {
	s := w.solver
	if err := w.checkBudget(s.nodes.Add(1)); err != nil {
		return NegInf, err
	}
	if !st.InProgress {
		return Loss(0), nil
	}
	if depth == 0 {
		return Eval(s.eval.Evaluate(st)), nil
	}

	ttMove := tinymove.NoMove
	if s.opts.TTable {
		entry := s.ttable.lookup(key)
		if entry.valid() {
			ttMove = entry.play
			// Only same-depth entries give the value this depth would.
			if int(entry.depth) == depth {
				v := entry.value()
				switch entry.flag {
				case TTExact:
					return v, nil
				case TTLower:
					alpha = Max(alpha, v)
				case TTUpper:
					beta = Min(beta, v)
				}
				if !alpha.Less(beta) {
					return v, nil
				}
			}
		}
	}
	alphaOrig, betaOrig := alpha, beta

	moves := st.AppendMoves(w.moveBufs[depth][:0])
	w.moveBufs[depth] = moves
	orderMoves(st, moves, ttMove)

	best := NegInf
	var bestMove move.Move
	var childPV PVLine
	for _, m := range moves {
		child := st.Apply(m)
		childKey := key
		if s.opts.TTable {
			childKey = s.zobrist.AddMove(key, st, m)
		}
		v, err := w.negamax(&child, childKey, depth-1, beta.Unflip(), alpha.Unflip(), &childPV)
		if err != nil {
			return v, err
		}
		v = v.Flip()
		if v.Greater(best) {
			best, bestMove = v, m
			pv.Update(game.Turn{Move: m, Card: st.My.Cards[m.Slot]}, childPV, v)
			if s.opts.Pruning {
				alpha = Max(alpha, best)
				if !best.Less(beta) {
					break
				}
			}
		}
		childPV.Clear()
	}

	if s.opts.TTable {
		flag := uint8(TTExact)
		if !best.Greater(alphaOrig) {
			flag = TTUpper
		} else if !best.Less(betaOrig) {
			flag = TTLower
		}
		s.ttable.store(key, best, flag, depth, tinymove.MoveToTinyMove(bestMove))
	}
	return best, nil
}

// orderMoves puts moves that end the game first, then the stored best
// move, then captures. The sort is stable so the generator's order breaks
// ties.
func orderMoves(st *game.State, moves []move.Move, ttMove tinymove.TinyMove) {
	goal := st.Goal()
	score := func(m move.Move) int {
		switch {
		case m.To == st.Other.King || (m.From == st.My.King && m.To == goal):
			return 3
		case ttMove != tinymove.NoMove && tinymove.MoveToTinyMove(m) == ttMove:
			return 2
		case st.Other.Pieces.IsSet(m.To):
			return 1
		}
		return 0
	}
	slices.SortStableFunc(moves, func(a, b move.Move) int {
		return score(b) - score(a)
	})
}
