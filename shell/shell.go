// Package shell implements the interactive tubesort console.
package shell

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/cesium62/tubesort/config"
	"github.com/cesium62/tubesort/game"
	"github.com/cesium62/tubesort/gameio"
	"github.com/cesium62/tubesort/postprocess"
	"github.com/cesium62/tubesort/solver"
)

// ShellController drives the read-eval loop: it holds the currently
// loaded puzzle and the last solution.
type ShellController struct {
	l   *readline.Instance
	cfg *config.Config

	curFile  string
	curBoard *game.Board
	solution *solver.SearchState
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "load <path/to/puzzle.json> - load a puzzle file\n")
	io.WriteString(w, "show - display the loaded board\n")
	io.WriteString(w, "solve [depth] - run the solver; depth only affects hidden-piece boards\n")
	io.WriteString(w, "steps - show the reordered step list for the last solution\n")
	io.WriteString(w, "summary - show the step list grouped into merge/empty lines\n")
	io.WriteString(w, "exit - leave\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mtubesort>\033[0m ",
		HistoryFile:     cfg.HistoryFile,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &ShellController{l: l, cfg: cfg}
}

// Loop runs until exit or EOF.
func (sc *ShellController) Loop() {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields, err := shellquote.Split(line)
		if err != nil {
			showMessage("error: "+err.Error(), sc.l.Stderr())
			continue
		}
		if done := sc.execute(fields); done {
			break
		}
	}
	log.Debug().Msg("leaving shell loop")
}

func (sc *ShellController) execute(fields []string) bool {
	cmd, args := fields[0], fields[1:]
	var err error
	switch cmd {
	case "load":
		err = sc.load(args)
	case "show":
		err = sc.show()
	case "solve":
		err = sc.solve(args)
	case "steps":
		err = sc.steps()
	case "summary":
		err = sc.summary()
	case "help":
		usage(sc.l.Stderr())
	case "exit", "quit":
		return true
	default:
		showMessage("unknown command; try `help`", sc.l.Stderr())
	}
	if err != nil {
		showMessage("error: "+err.Error(), sc.l.Stderr())
	}
	return false
}

func (sc *ShellController) load(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: load <path>")
	}
	b, err := gameio.LoadBoard(args[0])
	if err != nil {
		return err
	}
	sc.curFile = args[0]
	sc.curBoard = b
	sc.solution = nil
	return sc.show()
}

func (sc *ShellController) show() error {
	if sc.curBoard == nil {
		return fmt.Errorf("no puzzle loaded")
	}
	showMessage(sc.curBoard.String(), sc.l.Stderr())
	return nil
}

func (sc *ShellController) solve(args []string) error {
	if sc.curBoard == nil {
		return fmt.Errorf("no puzzle loaded")
	}
	depth := sc.cfg.Depth
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d <= 0 {
			return fmt.Errorf("depth must be a positive integer")
		}
		depth = d
	}

	sol, err := solver.Solve(context.Background(),
		solver.NewSearchState(sc.curBoard), depth, sc.cfg.Debug)
	if err != nil {
		return err
	}
	sc.solution = sol

	out := sc.l.Stderr()
	if sol.Board().IsWinning() {
		for _, s := range sol.PathStrings() {
			showMessage(s, out)
		}
		return nil
	}
	if len(sol.Path()) == 0 {
		showMessage("no progress possible from this position", out)
		return nil
	}
	showMessage("Follow the steps, update the blocks, and run again:", out)
	sc.printRevealWalk(sol, out)
	return nil
}

// printRevealWalk replays a partial (hidden-piece) solution and tells
// the player which covered slot to fill in after the revealing move.
func (sc *ShellController) printRevealWalk(sol *solver.SearchState, out io.Writer) {
	cur := sc.curBoard
	for _, mv := range sol.Path() {
		next, err := cur.Apply(mv)
		if err != nil {
			log.Error().Err(err).Str("move", mv.String()).Msg("replay failed")
			return
		}
		showMessage(mv.String(), out)
		if next.JustRevealed() {
			if o, ok := newlyRevealed(cur, next); ok {
				showMessage(fmt.Sprintf("Update node at column %d, row %d", o.Col+1, o.Row+1), out)
			}
		}
		cur = next
	}
}

func newlyRevealed(before, after *game.Board) (game.Origin, bool) {
	prior := map[game.Origin]struct{}{}
	for _, o := range before.RevealedOrigins() {
		prior[o] = struct{}{}
	}
	for _, o := range after.RevealedOrigins() {
		if _, ok := prior[o]; !ok {
			return o, true
		}
	}
	return game.Origin{}, false
}

func (sc *ShellController) steps() error {
	if sc.solution == nil {
		return fmt.Errorf("no solution yet; run `solve` first")
	}
	steps, err := postprocess.Reorder(sc.solution, sc.curBoard)
	if err != nil {
		return err
	}
	out := sc.l.Stderr()
	for _, st := range steps {
		label := st.Label
		if st.Collapsible {
			label += " (forced)"
		}
		showMessage(label, out)
	}
	return nil
}

func (sc *ShellController) summary() error {
	if sc.solution == nil {
		return fmt.Errorf("no solution yet; run `solve` first")
	}
	steps, err := postprocess.Reorder(sc.solution, sc.curBoard)
	if err != nil {
		return err
	}
	sums, err := postprocess.Summarize(steps, sc.curBoard)
	if err != nil {
		return err
	}
	out := sc.l.Stderr()
	for _, s := range sums {
		showMessage(s.Text, out)
	}
	return nil
}
