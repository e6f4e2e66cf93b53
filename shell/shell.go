// Package shell is the interactive front end: a readline prompt that
// drives a game, the engine, perft and self-play.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/onitama/config"
	"github.com/domino14/onitama/game"
	"github.com/domino14/onitama/search"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress; start one with new")
	errHumanToMove       = errors.New("it is the human side's turn; use play")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	game   *game.Game
	solver *search.Solver
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31monitama>\033[0m ",
		HistoryFile:     "/tmp/onitama_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    completer,

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})

	if err != nil {
		panic(err)
	}
	sc, err := newController(cfg, l.Stderr())
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

// newController builds a controller that writes to w and has no prompt.
func newController(cfg *config.Config, w io.Writer) (*ShellController, error) {
	solver, err := cfg.NewSolver()
	if err != nil {
		return nil, err
	}
	return &ShellController{out: w, config: cfg, solver: solver}, nil
}

func isOption(field string) bool {
	// negative numbers are arguments
	return len(field) > 1 && field[0] == '-' && (field[1] < '0' || field[1] > '9')
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if !isOption(fields[i]) {
			args = append(args, fields[i])
			continue
		}
		if i == len(fields)-1 {
			return nil, errWrongOptionSyntax
		}
		key := fields[i][1:]
		options[key] = append(options[key], fields[i+1])
		i++
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) handle(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "help", "h", "?":
		return sc.help(cmd)
	case "new", "n":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "gen", "g":
		return sc.generate(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "bot", "b":
		return sc.bot(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "solve":
		return sc.solve(cmd)
	case "eval":
		return sc.eval(cmd)
	case "perft":
		return sc.perft(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "analyze":
		return sc.analyze(cmd)
	case "gendecks":
		return sc.gendecks(cmd)
	case "set":
		return sc.set(cmd)
	case "load":
		return sc.load(cmd)
	case "export":
		return sc.export(cmd)
	case "script":
		return sc.script(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// executeLine runs one line of input and shows what it returns.
func (sc *ShellController) executeLine(line string) {
	cmd, err := extractFields(line)
	if err == errNoData {
		return
	}
	if err != nil {
		sc.showError(err)
		return
	}
	resp, err := sc.handle(cmd)
	if err != nil {
		sc.showError(err)
	} else if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		sc.executeLine(line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Execute runs a single command line without the prompt.
func (sc *ShellController) Execute(line string) {
	sc.executeLine(line)
}
