// Package automatic plays the engine against itself: one game at a time
// through a GameRunner, or many at once through PlayGames.
package automatic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"

	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/cards"
	"github.com/domino14/onitama/config"
	"github.com/domino14/onitama/game"
	"github.com/domino14/onitama/search"
)

var ErrNoGame = errors.New("no game in progress")

// GameResult is the outcome of one self-play game.
type GameResult struct {
	ID         string
	Deck       cards.Deck
	FirstMover board.Side
	Winner     board.Side
	// Draw is set when the game hit the ply cap before anyone won.
	Draw  bool
	Plies int
	Moves []string
}

// Fingerprint identifies the game by its deal and moves, so repeated
// games can be spotted.
func (g GameResult) Fingerprint() uint64 {
	return xxhash.Sum64String(g.Deck.String() + "|" + strings.Join(g.Moves, " "))
}

func (g GameResult) WinnerString() string {
	if g.Draw {
		return "draw"
	}
	return g.Winner.String()
}

// GameRunner plays bot-vs-bot games, each side searching with its own
// solver.
type GameRunner struct {
	game       *game.Game
	config     *config.Config
	solvers    [2]*search.Solver
	maxPlies   int
	searchTime time.Duration
	logchan    chan string
}

// NewGameRunner sets up both sides from cfg. Every turn played is written
// to logchan as a CSV line when logchan is not nil.
func NewGameRunner(logchan chan string, cfg *config.Config) (*GameRunner, error) {
	r := &GameRunner{
		config:     cfg,
		logchan:    logchan,
		maxPlies:   cfg.GetInt(config.ConfigMaxPlies),
		searchTime: cfg.GetDuration(config.ConfigSearchTime),
	}
	for _, side := range []board.Side{board.Red, board.Blue} {
		s, err := cfg.NewSolver()
		if err != nil {
			return nil, err
		}
		r.solvers[side] = s
	}
	return r, nil
}

// splitTTable shrinks both solvers' transposition tables to a share of
// the configured memory fraction, for when ways solvers search at once.
func (r *GameRunner) splitTTable(ways int) {
	for _, s := range r.solvers {
		opts := s.Options()
		opts.TTableFraction /= float64(max(ways, 1))
		s.SetOptions(opts)
	}
}

// StartGame deals d and starts a new game.
func (r *GameRunner) StartGame(d cards.Deck) error {
	st, err := game.FromDeck(d)
	if err != nil {
		return err
	}
	r.game = game.NewGame(st)
	return nil
}

func (r *GameRunner) Game() *game.Game {
	return r.game
}

// PlayBestTurn searches for the side to move and plays the move found.
func (r *GameRunner) PlayBestTurn(ctx context.Context) (search.Result, error) {
	if r.game == nil || !r.game.Playing() {
		return search.Result{}, ErrNoGame
	}
	st := r.game.State()
	sctx := ctx
	if r.searchTime > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, r.searchTime)
		defer cancel()
	}
	res, err := r.solvers[st.Color].Solve(sctx, st)
	if err != nil {
		return res, err
	}
	if err := r.game.PlayMove(res.Move); err != nil {
		return res, err
	}
	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v,%v\n",
			r.game.Uid(),
			r.game.Turn(),
			st.Color,
			st.My.Cards[res.Move.Slot].Key(),
			res.Move,
			res.Value,
			res.Depth,
			res.Nodes)
	}
	return res, nil
}

// PlayGame plays a full game from d. It stops at the ply cap, calling the
// game a draw, or when ctx is done.
func (r *GameRunner) PlayGame(ctx context.Context, d cards.Deck) (GameResult, error) {
	if err := r.StartGame(d); err != nil {
		return GameResult{}, err
	}
	start := r.game.Start()
	for r.game.Playing() && r.game.Turn() < r.maxPlies {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		if _, err := r.PlayBestTurn(ctx); err != nil {
			return GameResult{}, err
		}
	}
	res := GameResult{
		ID:         r.game.Uid(),
		Deck:       d,
		FirstMover: start.Color,
		Plies:      r.game.Turn(),
	}
	for _, t := range r.game.History() {
		res.Moves = append(res.Moves, t.Move.String())
	}
	final := r.game.State()
	if w, over := final.Winner(); over {
		res.Winner = w
	} else {
		res.Draw = true
	}
	log.Debug().Str("gid", res.ID).Str("deck", d.String()).
		Str("winner", res.WinnerString()).Int("plies", res.Plies).
		Msg("game-over")
	return res, nil
}
