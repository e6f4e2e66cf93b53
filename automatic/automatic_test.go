package automatic

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/cards"
	"github.com/domino14/onitama/config"
)

var fixtureDeck = cards.Deck{cards.Elephant, cards.Horse, cards.Boar, cards.Ox, cards.Crab}

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigSearchDepth, 2)
	cfg.Set(config.ConfigTTableFraction, 1e-6)
	cfg.Set(config.ConfigMaxPlies, 40)
	return cfg
}

func TestPlayGame(t *testing.T) {
	is := is.New(t)
	r, err := NewGameRunner(nil, testConfig())
	is.NoErr(err)
	res, err := r.PlayGame(context.Background(), fixtureDeck)
	is.NoErr(err)
	is.True(res.Plies > 0)
	is.True(res.Plies <= 40)
	is.Equal(len(res.Moves), res.Plies)
	is.Equal(res.FirstMover, board.Blue)
	is.Equal(res.Draw, r.Game().Playing())
	if res.Draw {
		is.Equal(res.Plies, 40)
	}

	// the engine is deterministic
	again, err := r.PlayGame(context.Background(), fixtureDeck)
	is.NoErr(err)
	is.Equal(again.Moves, res.Moves)
	is.Equal(again.Fingerprint(), res.Fingerprint())
	is.True(again.ID != res.ID)
}

func TestPlayBestTurnLogs(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 1)
	r, err := NewGameRunner(logchan, testConfig())
	is.NoErr(err)

	_, err = r.PlayBestTurn(context.Background())
	is.True(errors.Is(err, ErrNoGame))

	is.NoErr(r.StartGame(fixtureDeck))
	res, err := r.PlayBestTurn(context.Background())
	is.NoErr(err)
	is.Equal(res.Depth, 2)
	line := <-logchan
	fields := strings.Split(strings.TrimSpace(line), ",")
	is.Equal(len(fields), 8)
	is.Equal(fields[0], r.Game().Uid())
	is.Equal(fields[1], "1")
	is.Equal(fields[2], "blue")
	is.Equal(fields[4], res.Move.String())
}

func TestPlayGames(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	cfg.Set(config.ConfigDeck, "elephant,horse,boar,ox,crab")
	results, err := PlayGames(context.Background(), cfg, nil, 4, 2, nil)
	is.NoErr(err)
	is.Equal(len(results), 4)
	ids := map[string]bool{}
	for _, r := range results {
		is.Equal(r.Deck, fixtureDeck)
		ids[r.ID] = true
	}
	is.Equal(len(ids), 4)

	s := Summarize(results)
	is.Equal(s.Games, 4)
	is.Equal(s.DistinctGames, 1)
	is.Equal(s.RedWins+s.BlueWins+s.Draws, 4)
}

func TestRunnersSplitTTable(t *testing.T) {
	is := is.New(t)
	cfg := testConfig()
	cfg.Set(config.ConfigTTableFraction, 0.2)
	runners, err := newRunners(cfg, 4, nil)
	is.NoErr(err)
	is.Equal(len(runners), 4)
	for _, r := range runners {
		for _, s := range r.solvers {
			is.True(math.Abs(s.Options().TTableFraction-0.2/8) < 1e-12)
		}
	}

	runners, err = newRunners(cfg, 0, nil)
	is.NoErr(err)
	is.Equal(len(runners), 1)
	is.True(math.Abs(runners[0].solvers[board.Red].Options().TTableFraction-0.1) < 1e-12)
}

func TestPlayGamesDecks(t *testing.T) {
	is := is.New(t)
	decks := []cards.Deck{
		fixtureDeck,
		{cards.Tiger, cards.Dragon, cards.Frog, cards.Rabbit, cards.Crab},
	}
	results, err := PlayGames(context.Background(), testConfig(), decks, 3, 3, nil)
	is.NoErr(err)
	is.Equal(len(results), 3)
	is.Equal(results[0].Deck, decks[0])
	is.Equal(results[1].Deck, decks[1])
	is.Equal(results[2].Deck, decks[0])
}

func TestPlayGamesCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := PlayGames(ctx, testConfig(), nil, 4, 2, nil)
	is.True(errors.Is(err, context.Canceled))
	is.Equal(len(results), 0)
}

func TestCompVCompLogs(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "games.csv")
	cfg := testConfig()
	cfg.Set(config.ConfigMaxPlies, 20)
	summary, err := StartCompVCompGames(context.Background(), cfg, nil, 3, 2, path)
	is.NoErr(err)
	is.Equal(summary.Games, 3)

	turns, err := os.ReadFile(path)
	is.NoErr(err)
	lines := strings.Split(strings.TrimSpace(string(turns)), "\n")
	is.Equal(lines[0]+"\n", turnLogHeader)
	is.True(summary.MaxPlies <= 20)
	// one line per turn
	is.True(math.Abs(float64(len(lines)-1)-summary.MeanPlies*3) < 1e-6)

	analyzed, err := AnalyzeLogFile(path + ".games")
	is.NoErr(err)
	is.Equal(analyzed.Games, summary.Games)
	is.Equal(analyzed.RedWins, summary.RedWins)
	is.Equal(analyzed.Draws, summary.Draws)
	is.Equal(analyzed.MeanPlies, summary.MeanPlies)
	is.Equal(analyzed.DistinctGames, 3)
}

func TestCompVCompDecks(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	deckPath := filepath.Join(dir, "decks.txt")
	decks := []cards.Deck{
		fixtureDeck,
		{cards.Tiger, cards.Dragon, cards.Frog, cards.Rabbit, cards.Crab},
	}
	is.NoErr(SaveDecks(decks, deckPath))
	loaded, err := LoadDecks(deckPath)
	is.NoErr(err)

	path := filepath.Join(dir, "games.csv")
	cfg := testConfig()
	cfg.Set(config.ConfigMaxPlies, 10)
	summary, err := StartCompVCompGames(context.Background(), cfg, loaded, 2, 1, path)
	is.NoErr(err)
	is.Equal(summary.Games, 2)

	games, err := os.ReadFile(path + ".games")
	is.NoErr(err)
	rows := strings.Split(strings.TrimSpace(string(games)), "\n")
	is.Equal(len(rows), 3)
	is.True(strings.Contains(rows[1], decks[0].String()))
	is.True(strings.Contains(rows[2], decks[1].String()))
}

func TestSummarize(t *testing.T) {
	is := is.New(t)
	results := []GameResult{
		{ID: "a", Deck: fixtureDeck, FirstMover: board.Blue, Winner: board.Red, Plies: 10, Moves: []string{"x"}},
		{ID: "b", Deck: fixtureDeck, FirstMover: board.Blue, Winner: board.Blue, Plies: 20, Moves: []string{"y"}},
		{ID: "c", Deck: fixtureDeck, FirstMover: board.Red, Winner: board.Red, Plies: 30, Moves: []string{"x"}},
		{ID: "d", Deck: fixtureDeck, FirstMover: board.Red, Draw: true, Plies: 40, Moves: []string{"z"}},
	}
	s := Summarize(results)
	is.Equal(s.Games, 4)
	is.Equal(s.RedWins, 2)
	is.Equal(s.BlueWins, 1)
	is.Equal(s.Draws, 1)
	is.Equal(s.FirstMoverWins, 2)
	is.Equal(s.DistinctGames, 3)
	is.Equal(s.MeanPlies, 25.0)
	is.Equal(s.MinPlies, 10)
	is.Equal(s.MaxPlies, 40)
	is.Equal(s.RedScore, 2.5/4)
	is.True(s.RedScoreLow < s.RedScore && s.RedScore < s.RedScoreHigh)
	is.Equal(s.FirstMoverScore, 2.5/4)

	y, err := s.YAML()
	is.NoErr(err)
	is.True(strings.Contains(y, "red_wins: 2\n"))
	is.True(strings.Contains(y, "distinct_games: 3\n"))
	is.True(s.Histogram(4, 30) != "")
	is.True(strings.Contains(s.String(), "Red wins: 2  Blue wins: 1  Draws: 1"))

	empty := Summarize(nil)
	is.Equal(empty.Games, 0)
	is.Equal(empty.Histogram(4, 30), "")
}

func TestDecksRoundTrip(t *testing.T) {
	is := is.New(t)
	decks := GenerateDecks(5)
	for _, d := range decks {
		is.NoErr(d.Validate())
	}
	path := filepath.Join(t.TempDir(), "decks.txt")
	is.NoErr(SaveDecks(decks, path))
	back, err := LoadDecks(path)
	is.NoErr(err)
	is.Equal(back, decks)

	is.NoErr(os.WriteFile(path, []byte("ox ox boar crab eel\n"), 0o644))
	_, err = LoadDecks(path)
	is.True(errors.Is(err, cards.ErrDuplicateCard))
}
