package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/tetrisai/automatic"
	"github.com/domino14/tetrisai/board"
	"github.com/domino14/tetrisai/config"
	"github.com/domino14/tetrisai/equity"
	"github.com/domino14/tetrisai/game"
	"github.com/domino14/tetrisai/move"
	"github.com/domino14/tetrisai/piece"
)

const defaultGenPlays = 15

var commandNames = []string{
	"new", "show", "step", "play", "gen", "best", "path", "stats", "set",
	"load", "autoplay", "script", "help", "exit",
}

var settingNames = []string{
	config.ConfigPlies, config.ConfigWeights, config.ConfigLevel,
	config.ConfigSeed, config.ConfigThreads, config.ConfigGames,
	config.ConfigMaxPieces,
}

func (sc *ShellController) needGame() error {
	if sc.game == nil {
		return errNoGame
	}
	return nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	var source game.PieceSource
	if seq := cmd.options.String("seq"); seq != "" {
		s, err := game.ParseSequence(seq)
		if err != nil {
			return nil, err
		}
		source = s
	} else if seedStr := cmd.options.String("seed"); seedStr != "" {
		seed, err := strconv.ParseUint(seedStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad seed: %w", err)
		}
		source = game.NewRandomSource(seed)
	}
	g, err := game.NewFromConfig(sc.config, source)
	if err != nil {
		return nil, err
	}
	sc.game = g
	return msg(g.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText()), nil
}

func countArg(cmd *shellcmd) (int, error) {
	if len(cmd.args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return 0, fmt.Errorf("bad count: %w", err)
	}
	if n < 1 {
		return 0, errors.New("count must be at least 1")
	}
	return n, nil
}

func (sc *ShellController) step(cmd *shellcmd) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	n, err := countArg(cmd)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n && sc.game.State() != game.GameOver; i++ {
		sc.game.Step()
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	n, err := countArg(cmd)
	if err != nil {
		return nil, err
	}
	var played []string
	for i := 0; i < n; i++ {
		m, lines, ok := sc.game.PlayPiece()
		if !ok {
			break
		}
		desc := m.ShortDescription()
		if lines > 0 {
			desc += fmt.Sprintf(" (%d lines)", lines)
		}
		played = append(played, desc)
	}
	var sb strings.Builder
	sb.WriteString(sc.game.ToDisplayText())
	if len(played) > 0 {
		sb.WriteString("Played: " + strings.Join(played, ", ") + "\n")
	}
	if sc.game.State() == game.GameOver {
		sb.WriteString("Game over.\n")
	}
	return msg(sb.String()), nil
}

type genRow struct {
	m       move.Move
	lines   int
	quality float64
}

func moveTableHeader() string {
	return "     Move        Lines  Quality\n"
}

func moveTableRow(idx int, r genRow) string {
	return fmt.Sprintf("%3d: %-12s%-7d%.4f\n", idx+1, r.m.ShortDescription(), r.lines, r.quality)
}

// generate lists the resting placements of a piece on the current board,
// best single-placement quality first.
func (sc *ShellController) generate(cmd *shellcmd) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	n, err := cmd.options.IntDefault("n", defaultGenPlays)
	if err != nil {
		return nil, err
	}
	p := sc.game.Stats().Current
	if letter := cmd.options.String("piece"); letter != "" {
		if p, err = piece.FromLetter(letter); err != nil {
			return nil, err
		}
	}
	sim := sc.game.Simulator()
	if !sim.Analyze(p) {
		return msg(fmt.Sprintf("%v has no placement on this board", p)), nil
	}
	calc := sim.Calculator()
	rows := lo.Map(sim.Plays(), func(m move.Move, _ int) genRow {
		g := sim.Grid()
		g.Imprint(m.Footprint(), m.Col, m.Row)
		g, lines := board.Eliminate(g)
		return genRow{m: m, lines: lines, quality: calc.Quality(g)}
	})
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].quality > rows[j].quality })

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d placements for %v\n", len(rows), p))
	sb.WriteString(moveTableHeader())
	for i, r := range rows[:min(n, len(rows))] {
		sb.WriteString(moveTableRow(i, r))
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	st := sc.game.Stats()
	sim := sc.game.Simulator()
	start := time.Now()
	m, ok := sim.BestMove(st.Current, st.Next)
	if !ok {
		return msg(fmt.Sprintf("no placement for %v", st.Current)), nil
	}
	return msg(fmt.Sprintf("best: %v (%d plies, %d positions, %v)",
		m.ShortDescription(), sim.Plies(), sim.Evaluated(),
		time.Since(start).Round(time.Microsecond))), nil
}

func (sc *ShellController) path(cmd *shellcmd) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	if to := cmd.options.String("to"); to != "" {
		return sc.pathTo(to)
	}
	moves, cursor := sc.game.Path()
	if len(moves) == 0 {
		return msg("no piece is falling"), nil
	}
	return msg(pathText(moves, cursor)), nil
}

// pathTo shows how a piece would reach the given resting placement on the
// current board.
func (sc *ShellController) pathTo(desc string) (*Response, error) {
	m, err := move.FromShortDescription(desc)
	if err != nil {
		return nil, err
	}
	sim := sc.game.Simulator()
	if !sim.Analyze(m.Piece) {
		return nil, fmt.Errorf("%v cannot enter the board", m.Piece)
	}
	if !lo.Contains(sim.Plays(), m) {
		return nil, fmt.Errorf("%v is not a resting placement on this board", desc)
	}
	return msg(pathText(sim.Interpolate(m), -1)), nil
}

func pathText(moves []move.Move, cursor int) string {
	var sb strings.Builder
	for i, m := range moves {
		marker := "  "
		if i == cursor-1 {
			marker = "> "
		}
		sb.WriteString(fmt.Sprintf("%s%3d: %v\n", marker, i, m.ShortDescription()))
	}
	return sb.String()
}

func (sc *ShellController) stats(cmd *shellcmd) (*Response, error) {
	if err := sc.needGame(); err != nil {
		return nil, err
	}
	st := sc.game.Stats()
	g := sc.game.Grid()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("lines: %d\nscore: %d\npieces: %d\nlevel: %d\n",
		st.Lines, st.Score, st.Pieces, st.Level))
	sb.WriteString(fmt.Sprintf("current: %v\nnext: %v\nstate: %v\n",
		st.Current, st.Next, sc.game.State()))
	sb.WriteString(fmt.Sprintf("filled: %d\nhash: %x\n", g.FilledCells(), g.Hash()))
	if ev, ok := sc.game.Simulator().Calculator().(*equity.Evaluator); ok {
		feats := ev.Features(g)
		for f := equity.Feature(0); f < equity.NumFeatures; f++ {
			sb.WriteString(fmt.Sprintf("%v: %.4f\n", f, feats[f]))
		}
		sb.WriteString(fmt.Sprintf("quality: %.4f\n", ev.Quality(g)))
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) settingsText() string {
	var sb strings.Builder
	sb.WriteString("Settings:\n")
	for _, k := range settingNames {
		sb.WriteString(fmt.Sprintf("  %s: %v\n", k, sc.config.Get(k)))
	}
	return sb.String()
}

// set changes a setting. Search settings apply to the running game too.
func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.settingsText()), nil
	}
	key := cmd.args[0]
	if !lo.Contains(settingNames, key) {
		return nil, fmt.Errorf("no such setting: %s", key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%s: %v", key, sc.config.Get(key))), nil
	}
	value := cmd.args[1]

	switch key {
	case config.ConfigWeights:
		w, err := equity.ParseWeights(value)
		if err != nil {
			return nil, err
		}
		if sc.game != nil {
			sc.game.Simulator().SetCalculator(equity.NewEvaluator(w))
		}
		sc.config.Set(key, w.String())
		return msg("set " + key + " to " + w.String()), nil
	case config.ConfigSeed:
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad %s: %w", key, err)
		}
		sc.config.Set(key, seed)
	default:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("bad %s: %w", key, err)
		}
		switch key {
		case config.ConfigPlies, config.ConfigThreads:
			if n < 1 {
				return nil, fmt.Errorf("%s must be at least 1", key)
			}
		case config.ConfigGames, config.ConfigMaxPieces:
			if n < 0 {
				return nil, fmt.Errorf("%s must not be negative", key)
			}
		}
		if sc.game != nil {
			switch key {
			case config.ConfigPlies:
				sc.game.Simulator().SetPlies(n)
			case config.ConfigLevel:
				sc.game.SetLevel(n)
				n = sc.game.Stats().Level
			}
		}
		sc.config.Set(key, n)
	}
	return msg(fmt.Sprintf("set %s to %v", key, sc.config.Get(key))), nil
}

func readRows(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open board file: %w", err)
	}
	defer f.Close()
	var rows []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		rows = append(rows, line)
	}
	return rows, scanner.Err()
}

// load replaces the board with rows given on the line or read from -file.
// The last row is the bottom of the board.
func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	rows := cmd.args
	if path := cmd.options.String("file"); path != "" {
		var err error
		if rows, err = readRows(path); err != nil {
			return nil, err
		}
	}
	if len(rows) == 0 {
		return nil, errors.New("usage: load <row> [<row> ...] or load -file <path>")
	}
	g, err := board.ParseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("could not parse board: %w", err)
	}
	if sc.game == nil {
		if _, err := sc.newGame(&shellcmd{cmd: "new", options: CmdOptions{}}); err != nil {
			return nil, err
		}
	}
	sc.game.SetGrid(g)
	log.Debug().Str("hash", fmt.Sprintf("%x", g.Hash())).Msg("loaded-board")
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) autoplayRunning() bool {
	sc.autoplayMu.Lock()
	defer sc.autoplayMu.Unlock()
	return sc.autoplayDone != nil
}

func (sc *ShellController) stopAutoplay() {
	sc.autoplayMu.Lock()
	defer sc.autoplayMu.Unlock()
	if sc.autoplayCancel != nil {
		sc.autoplayCancel()
	}
}

func (sc *ShellController) waitAutoplay() {
	sc.autoplayMu.Lock()
	done := sc.autoplayDone
	sc.autoplayMu.Unlock()
	if done != nil {
		<-done
	}
}

func summaryText(s *automatic.Summary) string {
	var sb strings.Builder
	out, err := s.YAML(false)
	if err != nil {
		return "could not render summary: " + err.Error()
	}
	sb.Write(out)
	if err := s.WriteHistogram(&sb); err != nil {
		sb.WriteString("could not draw histogram: " + err.Error() + "\n")
	}
	return sb.String()
}

// autoplay runs self-play games in the background.
func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) > 0 {
		switch cmd.args[0] {
		case "stop":
			if !sc.autoplayRunning() {
				return nil, errors.New("self-play is not running")
			}
			sc.stopAutoplay()
			return msg("stopping self-play"), nil
		case "status":
			if sc.autoplayRunning() {
				return msg(fmt.Sprintf("self-play running; %d games played so far",
					automatic.GamesPlayed.Value())), nil
			}
			sc.autoplayMu.Lock()
			last := sc.lastSummary
			sc.autoplayMu.Unlock()
			if last == nil {
				return msg("self-play has not been run"), nil
			}
			return msg(summaryText(last)), nil
		default:
			return nil, fmt.Errorf("unknown autoplay argument %q", cmd.args[0])
		}
	}
	if sc.autoplayRunning() {
		return nil, errAutoplaying
	}
	games, err := cmd.options.IntDefault("games", sc.config.GetInt(config.ConfigGames))
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigThreads))
	if err != nil {
		return nil, err
	}
	var logWriter io.WriteCloser
	logPath := cmd.options.String("log")
	if logPath == "" {
		logPath = sc.config.GetString(config.ConfigLogFile)
	}
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return nil, fmt.Errorf("could not create log file: %w", err)
		}
		logWriter = f
	}

	// set may change the shared config while the games run
	cfg := sc.config.Snapshot()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sc.autoplayMu.Lock()
	sc.autoplayCancel = cancel
	sc.autoplayDone = done
	sc.autoplayMu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		var w io.Writer
		if logWriter != nil {
			w = logWriter
			defer logWriter.Close()
		}
		summary, err := automatic.PlayGames(ctx, cfg, games, threads, w)
		sc.autoplayMu.Lock()
		sc.autoplayCancel = nil
		sc.autoplayDone = nil
		if err == nil {
			sc.lastSummary = summary
		}
		sc.autoplayMu.Unlock()
		if err != nil {
			log.Err(err).Msg("self-play-failed")
			sc.showError(err)
			return
		}
		sc.showMessage(summaryText(summary))
	}()
	return msg(fmt.Sprintf("playing %d games on %d threads; `autoplay stop` ends early",
		games, threads)), nil
}
