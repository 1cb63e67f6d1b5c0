package shell

import (
	"errors"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("tetris_shell")
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

// Run executes one shell command line and returns its output. Errors come
// back as a string starting with "ERROR: ".
func Run(L *lua.LState) int {
	line := L.CheckString(1)
	sc := getShell(L)
	r, err := sc.handle(line)
	if err != nil {
		log.Err(err).Str("line", line).Msg("error-executing-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
	if r == nil {
		L.Push(lua.LString(""))
	} else {
		L.Push(lua.LString(r.message))
	}
	// return number of results pushed to stack.
	return 1
}

// Stats returns a table with the current game's statistics, or nil if no
// game is running.
func Stats(L *lua.LState) int {
	sc := getShell(L)
	if sc.game == nil {
		L.Push(lua.LNil)
		return 1
	}
	st := sc.game.Stats()
	t := L.NewTable()
	L.SetField(t, "lines", lua.LNumber(st.Lines))
	L.SetField(t, "score", lua.LNumber(st.Score))
	L.SetField(t, "pieces", lua.LNumber(st.Pieces))
	L.SetField(t, "level", lua.LNumber(st.Level))
	L.SetField(t, "current", lua.LString(st.Current.String()))
	L.SetField(t, "next", lua.LString(st.Next.String()))
	L.SetField(t, "game_over", lua.LBool(st.GameOver))
	L.Push(t)
	return 1
}

// Board returns the board rows, top first, in the format load reads.
func Board(L *lua.LState) int {
	sc := getShell(L)
	if sc.game == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(sc.game.Grid().String()))
	return 1
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()
	luajson.Preload(L)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("tetris_shell", lsc)
	L.SetGlobal("tetris_run", L.NewFunction(Run))
	L.SetGlobal("tetris_stats", L.NewFunction(Stats))
	L.SetGlobal("tetris_board", L.NewFunction(Board))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("there was a error")
		return nil, err
	}
	return nil, nil
}
