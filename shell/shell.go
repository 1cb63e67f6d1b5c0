// Package shell is an interactive command line for watching and poking at
// the AI: stepping a game, listing placements, running self-play and Lua
// scripts.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/tetrisai/automatic"
	"github.com/domino14/tetrisai/config"
	"github.com/domino14/tetrisai/game"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game in progress; start one with `new`")
	errAutoplaying       = errors.New("self-play is already running; use `autoplay stop`")
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	i, err := strconv.Atoi(v[0])
	if err != nil {
		return 0, fmt.Errorf("option -%s: %w", key, err)
	}
	return i, nil
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// extractFields splits a line into a command, its positional arguments and
// its -key value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	sc := &shellcmd{cmd: fields[0], options: CmdOptions{}}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if len(f) > 1 && strings.HasPrefix(f, "-") {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := f[1:]
			sc.options[key] = append(sc.options[key], fields[i+1])
			i++
			continue
		}
		sc.args = append(sc.args, f)
	}
	return sc, nil
}

type ShellController struct {
	l      *readline.Instance
	out    io.Writer
	config *config.Config

	game *game.AIGame

	autoplayMu     sync.Mutex
	autoplayCancel context.CancelFunc
	autoplayDone   chan struct{}
	lastSummary    *automatic.Summary
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

func completer() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(commandNames))
	for _, c := range commandNames {
		switch c {
		case "autoplay":
			items = append(items, readline.PcItem(c, readline.PcItem("stop"),
				readline.PcItem("status"), readline.PcItem("-games"),
				readline.PcItem("-threads"), readline.PcItem("-log")))
		case "set":
			setItems := make([]readline.PrefixCompleterInterface, 0, len(settingNames))
			for _, s := range settingNames {
				setItems = append(setItems, readline.PcItem(s))
			}
			items = append(items, readline.PcItem(c, setItems...))
		default:
			items = append(items, readline.PcItem(c))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[36mtetrisai>\033[0m ",
		HistoryFile:     cfg.GetString(config.ConfigHistoryFile),
		AutoComplete:    completer(),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newController(cfg, l.Stderr())
	sc.l = l
	return sc
}

// newController makes a controller without a terminal, writing to out.
func newController(cfg *config.Config, out io.Writer) *ShellController {
	return &ShellController{config: cfg, out: out}
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "new", "n":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "step":
		return sc.step(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "gen":
		return sc.generate(cmd)
	case "best":
		return sc.best(cmd)
	case "path":
		return sc.path(cmd)
	case "stats":
		return sc.stats(cmd)
	case "set":
		return sc.set(cmd)
	case "load":
		return sc.load(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "script":
		return sc.script(cmd)
	case "help", "h":
		return sc.help(cmd)
	default:
		m := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(m)
		return nil, errors.New(m)
	}
}

func (sc *ShellController) dispatch(line string) {
	resp, err := sc.handle(line)
	if err != nil {
		sc.showError(err)
	} else if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

// Execute runs a single command line and returns.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if strings.TrimSpace(line) == "exit" {
		sig <- syscall.SIGINT
		return
	}
	sc.dispatch(line)
	sc.waitAutoplay()
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
		if line == "" {
			continue
		}
		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		sc.dispatch(line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any running self-play.
func (sc *ShellController) Cleanup() {
	sc.stopAutoplay()
	sc.waitAutoplay()
	log.Info().Msg("shell cleaned up")
}
