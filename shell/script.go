package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("onitama_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// shellFunction exposes a shell command to Lua. The function takes the
// rest of the command line as its one argument and returns the command's
// output, or the error prefixed with "ERROR: ".
func shellFunction(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := L.OptString(1, "")
		sc := getShell(L)
		cmd, err := extractFields(name + " " + lv)
		if err != nil {
			log.Err(err).Str("cmd", name).Msg("error-parsing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := sc.handle(cmd)
		if err != nil {
			log.Err(err).Str("cmd", name).Msg("error-executing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		L.Push(lua.LString(r.message))
		// return number of results pushed to stack.
		return 1
	}
}

func Playing(L *lua.LState) int {
	sc := getShell(L)
	L.Push(lua.LBool(sc.game != nil && sc.game.Playing()))
	return 1
}

var scriptCommands = []string{
	"new", "show", "gen", "play", "bot", "undo", "solve", "eval", "perft", "set",
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("onitama_shell", lsc)
	for _, name := range scriptCommands {
		L.SetGlobal("onitama_"+name, L.NewFunction(shellFunction(name)))
	}
	L.SetGlobal("onitama_playing", L.NewFunction(Playing))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
