package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/onitama/automatic"
	"github.com/domino14/onitama/board"
	"github.com/domino14/onitama/cards"
	"github.com/domino14/onitama/config"
	"github.com/domino14/onitama/game"
	"github.com/domino14/onitama/litama"
	"github.com/domino14/onitama/move"
	"github.com/domino14/onitama/perft"
	"github.com/domino14/onitama/search"
)

const defaultAutoplayLog = "/tmp/onitama_autoplay.txt"

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) DurationDefault(key string, defaultD time.Duration) (time.Duration, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultD, nil
	}
	return time.ParseDuration(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) state() (game.State, error) {
	if sc.game == nil {
		return game.State{}, errNoGame
	}
	return sc.game.State(), nil
}

func (sc *ShellController) startGame(st game.State) *Response {
	sc.game = game.NewGame(st)
	log.Debug().Str("gid", sc.game.Uid()).Str("deck", st.Deck().String()).Msg("new-game")
	out := st.ToDisplayText()
	if human, ok, _ := sc.config.Human(); ok && st.InProgress && st.Color != human {
		out += "\nThe bot moves first; type bot."
	}
	return msg(out)
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	var d cards.Deck
	switch {
	case len(cmd.args) == 1 && cmd.args[0] == "random":
		d = cards.Draw()
	case len(cmd.args) == cards.DeckSize:
		var err error
		if d, err = cards.ParseDeck(cmd.args); err != nil {
			return nil, err
		}
	case len(cmd.args) == 0:
		preset, ok, err := sc.config.Deck()
		if err != nil {
			return nil, err
		}
		if ok {
			d = preset
		} else {
			d = cards.Draw()
		}
	default:
		return nil, errors.New("new [random | <red1> <red2> <blue1> <blue2> <table>]")
	}
	st, err := game.FromDeck(d)
	if err != nil {
		return nil, err
	}
	return sc.startGame(st), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	if len(cmd.args) > 0 && cmd.args[0] == "cards" {
		red, blue := st.RedBlue()
		var sb strings.Builder
		for _, c := range red.Cards {
			sb.WriteString("Red " + game.CardDisplayText(c, board.Red) + "\n")
		}
		for _, c := range blue.Cards {
			sb.WriteString("Blue " + game.CardDisplayText(c, board.Blue) + "\n")
		}
		sb.WriteString("Table, for " + st.Color.String() + " " + game.CardDisplayText(st.Table, st.Color))
		return msg(sb.String()), nil
	}
	var sb strings.Builder
	sb.WriteString(st.ToDisplayText())
	for i, t := range sc.game.History() {
		if i == 0 {
			sb.WriteString("\n\nMoves:")
		}
		fmt.Fprintf(&sb, "\n%3d. %s", i+1, t)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	moves := st.GenMoves()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d moves for %s:", len(moves), st.Color)
	for i, m := range moves {
		fmt.Fprintf(&sb, "\n%3d: %s", i+1, m.ShortDescription(st.My.Cards[m.Slot]))
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	var m move.Move
	switch len(cmd.args) {
	case 3:
		m, err = litama.ParseMove(&st, cmd.args[0], cmd.args[1], cmd.args[2])
	case 2:
		m, err = litama.ParseMoveCommand(&st, cmd.args[0]+" "+cmd.args[1])
	default:
		return nil, errors.New("play <card> <from> <to>")
	}
	if err != nil {
		return nil, err
	}
	return sc.commit(m)
}

func (sc *ShellController) commit(m move.Move) (*Response, error) {
	card := sc.game.State().My.Cards[m.Slot]
	if err := sc.game.PlayMove(m); err != nil {
		return nil, err
	}
	st := sc.game.State()
	return msg("Played " + m.ShortDescription(card) + "\n" + st.ToDisplayText()), nil
}

func (sc *ShellController) runSearch(st game.State, limit time.Duration) (search.Result, error) {
	ctx := context.Background()
	if limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}
	return sc.solver.Solve(ctx, st)
}

func (sc *ShellController) bot(cmd *shellcmd) (*Response, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	human, ok, err := sc.config.Human()
	if err != nil {
		return nil, err
	}
	if ok && st.Color == human {
		return nil, errHumanToMove
	}
	res, err := sc.runSearch(st, sc.config.GetDuration(config.ConfigSearchTime))
	if err != nil {
		return nil, err
	}
	log.Info().Str("move", res.Move.String()).Str("value", res.Value.String()).
		Int("depth", res.Depth).Msg("bot-move")
	return sc.commit(res.Move)
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if err := sc.game.UnplayLastMove(); err != nil {
		return nil, err
	}
	st := sc.game.State()
	return msg(st.ToDisplayText()), nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	saved := sc.solver.Options()
	opts := saved
	if opts.Depth, err = cmd.options.IntDefault("depth", opts.Depth); err != nil {
		return nil, err
	}
	if opts.Threads, err = cmd.options.IntDefault("threads", opts.Threads); err != nil {
		return nil, err
	}
	if s := cmd.options.String("strategy"); s != "" {
		if opts.Strategy, err = search.ParseStrategy(s); err != nil {
			return nil, err
		}
	}
	limit, err := cmd.options.DurationDefault("time", sc.config.GetDuration(config.ConfigSearchTime))
	if err != nil {
		return nil, err
	}
	sc.solver.SetOptions(opts)
	defer sc.solver.SetOptions(saved)

	res, err := sc.runSearch(st, limit)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Best move: %s, value %s\n", res.Move.ShortDescription(st.My.Cards[res.Move.Slot]), res.Value)
	fmt.Fprintf(&sb, "Depth %d, %d nodes in %v\n", res.Depth, res.Nodes, res.Elapsed.Round(time.Millisecond))
	sb.WriteString(res.PV.String())
	sb.WriteString("Root moves:")
	for _, r := range res.Roots {
		bound := ""
		if !r.Exact {
			bound = "<= "
		}
		fmt.Fprintf(&sb, "\n  %-20s %s%s (depth %d)", r.Move.ShortDescription(st.My.Cards[r.Move.Slot]),
			bound, r.Value, r.Depth)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	v := sc.solver.Evaluator().Evaluate(&st)
	return msg(fmt.Sprintf("Static evaluation for %s: %d", st.Color, v)), nil
}

func (sc *ShellController) perft(cmd *shellcmd) (*Response, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("perft <depth> [-divide true] [-threads n]")
	}
	depth, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if depth < 1 {
		return nil, errors.New("perft depth must be at least 1")
	}
	start := time.Now()
	if cmd.options.Bool("divide") {
		var sb strings.Builder
		var total uint64
		for _, e := range perft.Divide(&st, depth) {
			sb.WriteString(e.String() + "\n")
			total += e.Nodes
		}
		fmt.Fprintf(&sb, "Total: %d", total)
		return msg(sb.String()), nil
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigSearchThreads))
	if err != nil {
		return nil, err
	}
	n, err := perft.Parallel(context.Background(), &st, depth, threads)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	log.Debug().Uint64("nodes", n).Dur("elapsed", elapsed).Msg("perft-done")
	return msg(fmt.Sprintf("perft(%d) = %d (%v, %.0f nodes/s)", depth, n,
		elapsed.Round(time.Millisecond), float64(n)/elapsed.Seconds())), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	numGames := 1
	if len(cmd.args) > 0 {
		var err error
		if numGames, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
	}
	threads, err := cmd.options.IntDefault("threads", max(1, runtime.NumCPU()))
	if err != nil {
		return nil, err
	}
	logfile := cmd.options.String("logfile")
	if logfile == "" {
		logfile = defaultAutoplayLog
	}
	var decks []cards.Deck
	if deckfile := cmd.options.String("decks"); deckfile != "" {
		if decks, err = automatic.LoadDecks(deckfile); err != nil {
			return nil, err
		}
	}
	summary, err := automatic.StartCompVCompGames(context.Background(), sc.config, decks,
		numGames, threads, logfile)
	if err != nil {
		return nil, err
	}
	out, err := summaryText(summary, cmd.options.Bool("yaml"))
	if err != nil {
		return nil, err
	}
	return msg(out + "Turns written to " + logfile), nil
}

func summaryText(summary automatic.Summary, asYAML bool) (string, error) {
	if asYAML {
		return summary.YAML()
	}
	return summary.String() + summary.Histogram(10, 40), nil
}

// analyze summarises the per-game log of an earlier autoplay run.
func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need the .games file written by autoplay")
	}
	summary, err := automatic.AnalyzeLogFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	out, err := summaryText(summary, cmd.options.Bool("yaml"))
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimSuffix(out, "\n")), nil
}

// gendecks writes n random deals to a file, one per line, for autoplay
// -decks to replay.
func (sc *ShellController) gendecks(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: gendecks <n> <file>")
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("need at least one deck, got %d", n)
	}
	if err := automatic.SaveDecks(automatic.GenerateDecks(n), cmd.args[1]); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("Wrote %d decks to %s", n, cmd.args[1])), nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	keys := sc.config.AllKeys()
	slices.Sort(keys)
	if len(cmd.args) == 0 {
		var sb strings.Builder
		sb.WriteString("Settings:")
		for _, k := range keys {
			fmt.Fprintf(&sb, "\n  %s: %v", k, sc.config.Get(k))
		}
		return msg(sb.String()), nil
	}
	key := cmd.args[0]
	if !lo.Contains(keys, key) {
		return nil, fmt.Errorf("%w: no such setting %q", config.ErrInvalidConfig, key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%s: %v", key, sc.config.Get(key))), nil
	}
	old := sc.config.Get(key)
	sc.config.Set(key, strings.Join(cmd.args[1:], " "))
	if err := sc.config.Validate(); err != nil {
		sc.config.Set(key, old)
		return nil, err
	}
	solver, err := sc.config.NewSolver()
	if err != nil {
		sc.config.Set(key, old)
		return nil, err
	}
	sc.solver = solver
	if key == config.ConfigDebug {
		if sc.config.GetBool(config.ConfigDebug) {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	}
	if sc.config.ConfigFileUsed() != "" {
		if err := sc.config.Write(); err != nil {
			return nil, err
		}
	}
	return msg(fmt.Sprintf("%s set to %v", key, sc.config.Get(key))), nil
}

// load starts a game from a saved Litama state message.
func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("load <state.json>")
	}
	data, err := os.ReadFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	m, err := litama.DecodeState(data)
	if err != nil {
		return nil, err
	}
	st, err := litama.StateFromMsg(m)
	if err != nil {
		return nil, err
	}
	return sc.startGame(st), nil
}

// export writes the position as a Litama state message, to a file if one
// is named.
func (sc *ShellController) export(cmd *shellcmd) (*Response, error) {
	st, err := sc.state()
	if err != nil {
		return nil, err
	}
	data, err := litama.Encode(litama.StateToMsg(sc.game.Uid(), &st))
	if err != nil {
		return nil, err
	}
	if len(cmd.args) == 0 {
		return msg(string(data)), nil
	}
	if err := os.WriteFile(cmd.args[0], data, 0o644); err != nil {
		return nil, err
	}
	return msg("Exported to " + cmd.args[0]), nil
}
