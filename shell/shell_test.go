package shell

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/onitama/automatic"
	"github.com/domino14/onitama/config"
	"github.com/domino14/onitama/game"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func testController(t *testing.T) (*ShellController, *bytes.Buffer) {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDeck, "elephant,horse,boar,ox,crab")
	cfg.Set(config.ConfigSearchDepth, 2)
	cfg.Set(config.ConfigTTableFraction, 1e-6)
	cfg.Set(config.ConfigMaxPlies, 20)
	var buf bytes.Buffer
	sc, err := newController(cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	return sc, &buf
}

func run(sc *ShellController, line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	return sc.handle(cmd)
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -logfile /path/to/log.txt",
			&shellcmd{"autoplay", nil, CmdOptions{"logfile": {"/path/to/log.txt"}}},
			nil},
		{"play ox c1 c2",
			&shellcmd{"play", []string{"ox", "c1", "c2"}, CmdOptions{}},
			nil},
		{"solve -depth 7 -threads 4 ",
			&shellcmd{"solve", nil, CmdOptions{"depth": {"7"}, "threads": {"4"}}},
			nil},
		{"set adaptive-margin -5",
			&shellcmd{"set", []string{"adaptive-margin", "-5"}, CmdOptions{}},
			nil},
		{`set deck "ox boar eel crab frog"`,
			&shellcmd{"set", []string{"deck", "ox boar eel crab frog"}, CmdOptions{}},
			nil},
		{"perft 3 -divide",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func TestNoGame(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	for _, line := range []string{"show", "gen", "play ox c1 c2", "bot", "solve", "eval", "perft 1", "undo", "export"} {
		_, err := run(sc, line)
		is.True(errors.Is(err, errNoGame))
	}
}

func TestUnknownCommand(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	_, err := run(sc, "castle")
	is.True(err != nil)
}

func TestNewGameAndPlay(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)

	r, err := run(sc, "new")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "Blue to move."))

	r, err = run(sc, "gen")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "10 moves for blue:"))
	is.True(strings.Contains(r.message, "Boar a5-a4"))

	r, err = run(sc, "play boar a5 a4")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "Played Boar a5-a4"))
	is.Equal(sc.game.Turn(), 1)

	r, err = run(sc, "show")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "1. Boar a5-a4"))

	_, err = run(sc, "undo")
	is.NoErr(err)
	is.Equal(sc.game.Turn(), 0)

	_, err = run(sc, "play OX a5a4")
	is.NoErr(err)
	is.Equal(sc.game.Turn(), 1)

	_, err = run(sc, "play ox a5 e1")
	is.True(errors.Is(err, game.ErrIllegalMove))
	is.Equal(sc.game.Turn(), 1)

	_, err = run(sc, "play ox")
	is.True(err != nil)
}

func TestNewWithCards(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)

	_, err := run(sc, "new boar ox elephant horse frog")
	is.NoErr(err)
	st := sc.game.State()
	is.Equal(st.Deck().String(), "Boar Ox Elephant Horse Frog")

	_, err = run(sc, "new random")
	is.NoErr(err)
	st = sc.game.State()
	is.NoErr(st.Deck().Validate())

	_, err = run(sc, "new boar boar elephant horse frog")
	is.True(err != nil)
	_, err = run(sc, "new boar ox")
	is.True(err != nil)
}

func TestShowCards(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	_, err := run(sc, "new")
	is.NoErr(err)
	r, err := run(sc, "show cards")
	is.NoErr(err)
	for _, name := range []string{"Red Elephant", "Red Horse", "Blue Boar", "Blue Ox", "Table, for blue Crab"} {
		is.True(strings.Contains(r.message, name))
	}
}

func TestBotRefusesHumanSide(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	sc.config.Set(config.ConfigHuman, "blue")

	_, err := run(sc, "new")
	is.NoErr(err)
	_, err = run(sc, "bot")
	is.True(errors.Is(err, errHumanToMove))
	is.Equal(sc.game.Turn(), 0)

	_, err = run(sc, "play boar a5 a4")
	is.NoErr(err)
	r, err := run(sc, "bot")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "Played "))
	is.Equal(sc.game.Turn(), 2)
}

func TestBotMovesFirst(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	sc.config.Set(config.ConfigHuman, "red")
	r, err := run(sc, "new")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "The bot moves first"))
}

func TestSolveCommand(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	_, err := run(sc, "new")
	is.NoErr(err)

	r, err := run(sc, "solve -depth 1 -strategy fixed")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "Best move: "))
	is.True(strings.Contains(r.message, "Depth 1,"))
	is.True(strings.Contains(r.message, "Root moves:"))
	// per-search options do not stick
	is.Equal(sc.solver.Options().Depth, 2)
	is.Equal(sc.game.Turn(), 0)

	_, err = run(sc, "solve -strategy sideways")
	is.True(err != nil)
	_, err = run(sc, "solve -time soon")
	is.True(err != nil)
}

func TestEvalCommand(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	_, err := run(sc, "new")
	is.NoErr(err)
	r, err := run(sc, "eval")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "Static evaluation for blue: "))
}

func TestPerftCommand(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	_, err := run(sc, "new")
	is.NoErr(err)

	r, err := run(sc, "perft 3 -threads 2")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "perft(3) = 1989 "))

	r, err = run(sc, "perft 2 -divide true")
	is.NoErr(err)
	lines := strings.Split(r.message, "\n")
	is.Equal(len(lines), 11)
	is.True(strings.Contains(lines[0], "(Boar)"))
	is.Equal(lines[10], "Total: 130")

	_, err = run(sc, "perft 0")
	is.True(err != nil)
	_, err = run(sc, "perft deep")
	is.True(err != nil)
}

func TestSetCommand(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)

	r, err := run(sc, "set search-depth 4")
	is.NoErr(err)
	is.Equal(r.message, "search-depth set to 4")
	is.Equal(sc.config.GetInt(config.ConfigSearchDepth), 4)
	is.Equal(sc.solver.Options().Depth, 4)

	_, err = run(sc, "set search-depth 99")
	is.True(errors.Is(err, config.ErrInvalidConfig))
	is.Equal(sc.config.GetInt(config.ConfigSearchDepth), 4)

	_, err = run(sc, "set no-such-key 1")
	is.True(errors.Is(err, config.ErrInvalidConfig))

	r, err = run(sc, "set search-strategy")
	is.NoErr(err)
	is.Equal(r.message, "search-strategy: iterative")

	r, err = run(sc, "set")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "\n  search-depth: 4"))
}

func TestSetWritesConfigFile(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "onitama.yaml")
	is.NoErr(os.WriteFile(path, []byte("search-depth: 3\n"), 0o644))

	cfg := &config.Config{}
	is.NoErr(cfg.Load([]string{"--config", path}))
	sc, err := newController(cfg, &bytes.Buffer{})
	is.NoErr(err)
	_, err = run(sc, "set max-plies 77")
	is.NoErr(err)

	reloaded := &config.Config{}
	is.NoErr(reloaded.Load([]string{"--config", path}))
	is.Equal(reloaded.GetInt(config.ConfigMaxPlies), 77)
	is.Equal(reloaded.GetInt(config.ConfigSearchDepth), 3)
}

func TestLoadExport(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	_, err := run(sc, "new")
	is.NoErr(err)
	_, err = run(sc, "play boar a5 a4")
	is.NoErr(err)
	want := sc.game.State()

	r, err := run(sc, "export")
	is.NoErr(err)
	is.True(strings.Contains(r.message, `"messageType":"state"`))

	path := filepath.Join(t.TempDir(), "state.json")
	_, err = run(sc, "export "+path)
	is.NoErr(err)

	_, err = run(sc, "new random")
	is.NoErr(err)
	_, err = run(sc, "load "+path)
	is.NoErr(err)
	is.Equal(sc.game.State(), want)
	is.Equal(sc.game.Turn(), 0)

	_, err = run(sc, "load "+filepath.Join(t.TempDir(), "missing.json"))
	is.True(err != nil)
}

func TestScript(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	path := filepath.Join(t.TempDir(), "opening.lua")
	script := `
onitama_new("")
local out = onitama_play("boar a5 a4")
if string.find(out, "^ERROR") then error(out) end
out = onitama_play("boar a5 a4")
if not string.find(out, "^ERROR") then error("replayed an illegal move") end
if not onitama_playing() then error("game should be on") end
onitama_bot()
`
	is.NoErr(os.WriteFile(path, []byte(script), 0o644))
	_, err := run(sc, "script "+path)
	is.NoErr(err)
	is.Equal(sc.game.Turn(), 2)

	is.NoErr(os.WriteFile(path, []byte(`error("boom")`), 0o644))
	_, err = run(sc, "script "+path)
	is.True(err != nil)

	_, err = run(sc, "script")
	is.True(err != nil)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	r, err := run(sc, "help")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "Usage:"))
	r, err = run(sc, "help perft")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "perft <depth>"))
	r, err = run(sc, "help ../shell")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "There is no help text"))
}

func TestAutoplayCommand(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	path := filepath.Join(t.TempDir(), "selfplay.txt")
	r, err := run(sc, "autoplay 2 -threads 2 -logfile "+path)
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "Games played: 2\n"))
	is.True(strings.HasSuffix(r.message, "Turns written to "+path))
	_, err = os.Stat(path + ".games")
	is.NoErr(err)
}

func TestAutoplayDecksYAML(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	dir := t.TempDir()
	deckfile := filepath.Join(dir, "decks.txt")
	r, err := run(sc, "gendecks 3 "+deckfile)
	is.NoErr(err)
	is.Equal(r.message, "Wrote 3 decks to "+deckfile)
	decks, err := automatic.LoadDecks(deckfile)
	is.NoErr(err)
	is.Equal(len(decks), 3)

	logfile := filepath.Join(dir, "selfplay.txt")
	r, err = run(sc, "autoplay 3 -threads 1 -decks "+deckfile+" -yaml true -logfile "+logfile)
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "games: 3\n"))
	is.True(strings.HasSuffix(r.message, "Turns written to "+logfile))

	games, err := os.ReadFile(logfile + ".games")
	is.NoErr(err)
	rows := strings.Split(strings.TrimSpace(string(games)), "\n")
	is.Equal(len(rows), 4)
	for i, d := range decks {
		is.True(strings.Contains(rows[i+1], d.String()))
	}

	r, err = run(sc, "analyze "+logfile+".games")
	is.NoErr(err)
	is.True(strings.HasPrefix(r.message, "Games played: 3\n"))
	r, err = run(sc, "analyze "+logfile+".games -yaml true")
	is.NoErr(err)
	is.True(strings.Contains(r.message, "games: 3\n"))

	_, err = run(sc, "autoplay 1 -decks "+filepath.Join(dir, "missing.txt"))
	is.True(errors.Is(err, os.ErrNotExist))
	_, err = run(sc, "analyze")
	is.True(err != nil)
	_, err = run(sc, "gendecks 0 "+deckfile)
	is.True(err != nil)
}

func TestExecuteShowsErrors(t *testing.T) {
	is := is.New(t)
	sc, buf := testController(t)
	sc.Execute("show")
	is.Equal(buf.String(), "Error: "+errNoGame.Error()+"\n")
	buf.Reset()
	sc.Execute("   ")
	is.Equal(buf.String(), "")
	sc.Execute("eval -x")
	is.Equal(buf.String(), "Error: "+errWrongOptionSyntax.Error()+"\n")
}
