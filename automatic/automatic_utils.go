package automatic

// Computer vs computer games, run in bulk.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/onitama/cards"
	"github.com/domino14/onitama/config"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

const (
	turnLogHeader = "gameID,turn,side,card,move,value,depth,nodes\n"
	gameLogHeader = "gameID,deck,firstmover,winner,plies\n"
)

// deckFor returns the deck for game i: the configured deck, the i'th of
// decks if given, or a fresh random deal.
func deckFor(cfg *config.Config, decks []cards.Deck, i int) (cards.Deck, error) {
	if len(decks) > 0 {
		return decks[i%len(decks)], nil
	}
	d, ok, err := cfg.Deck()
	if err != nil {
		return d, err
	}
	if ok {
		return d, nil
	}
	return cards.Draw(), nil
}

// newRunners builds one runner per thread. Every solver of every runner
// may search at the same time, so they split the configured
// transposition table memory between them.
func newRunners(cfg *config.Config, threads int, turnLog chan string) ([]*GameRunner, error) {
	runners := make([]*GameRunner, max(threads, 1))
	for i := range runners {
		r, err := NewGameRunner(turnLog, cfg)
		if err != nil {
			return nil, err
		}
		r.splitTTable(2 * len(runners))
		runners[i] = r
	}
	return runners, nil
}

// PlayGames plays numGames games over threads goroutines and returns the
// results in game order. Turns are written to turnLog if it is not nil.
// If ctx is cancelled the games finished so far are returned with ctx's
// error.
func PlayGames(ctx context.Context, cfg *config.Config, decks []cards.Deck,
	numGames, threads int, turnLog chan string) ([]GameResult, error) {

	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	log.Debug().Int("games", numGames).Int("threads", threads).Msg("starting-games")
	results := make([]GameResult, numGames)
	done := make([]bool, numGames)
	jobs := make(chan int)

	runners, err := newRunners(cfg, threads, turnLog)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range numGames {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("got-stop-signal")
				return nil
			}
		}
		return nil
	})
	for _, r := range runners {
		g.Go(func() error {
			for i := range jobs {
				d, err := deckFor(cfg, decks, i)
				if err != nil {
					return err
				}
				res, err := r.PlayGame(gctx, d)
				if err != nil {
					return err
				}
				results[i] = res
				done[i] = true
				CVCCounter.Add(1)
			}
			return nil
		})
	}
	err = g.Wait()
	finished := results[:0]
	for i, res := range results {
		if done[i] {
			finished = append(finished, res)
		}
	}
	if err == nil {
		err = ctx.Err()
	}
	log.Info().Int("finished", len(finished)).Msg("all-games-finished")
	return finished, err
}

// StartCompVCompGames plays games like PlayGames, writing every turn to
// outputFilename and a row per game to outputFilename + ".games". It
// returns the summary of the games that finished.
func StartCompVCompGames(ctx context.Context, cfg *config.Config, decks []cards.Deck,
	numGames, threads int, outputFilename string) (Summary, error) {

	turnFile, err := os.Create(outputFilename)
	if err != nil {
		return Summary{}, err
	}
	defer turnFile.Close()
	gameFile, err := os.Create(outputFilename + ".games")
	if err != nil {
		return Summary{}, err
	}
	defer gameFile.Close()

	logChan := make(chan string, 100)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		turnFile.WriteString(turnLogHeader)
		for msg := range logChan {
			turnFile.WriteString(msg)
		}
		log.Debug().Msg("exiting-turn-logger")
	}()

	CVCCounter.Set(0)
	results, err := PlayGames(ctx, cfg, decks, numGames, threads, logChan)
	close(logChan)
	wg.Wait()

	gameFile.WriteString(gameLogHeader)
	for _, r := range results {
		fmt.Fprintf(gameFile, "%v,%v,%v,%v,%v\n", r.ID, r.Deck, r.FirstMover, r.WinnerString(), r.Plies)
	}
	return Summarize(results), err
}
