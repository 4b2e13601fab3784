package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cesium62/tubesort/config"
	"github.com/cesium62/tubesort/gameio"
	"github.com/cesium62/tubesort/postprocess"
	"github.com/cesium62/tubesort/shell"
	"github.com/cesium62/tubesort/solver"
)

var (
	debugFlag = flag.Bool("debug", false, "enable debug logging")
	depthFlag = flag.Int("depth", 0, "hidden-piece search depth (overrides config)")
)

func main() {
	flag.Parse()

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	log.Logger = log.Output(output)

	cfg := &config.Config{}
	if err := cfg.Load(); err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if *depthFlag > 0 {
		cfg.Depth = *depthFlag
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if flag.NArg() > 0 {
		if err := solveFiles(flag.Args(), cfg); err != nil {
			log.Fatal().Err(err).Msg("batch solve failed")
		}
		return
	}

	shell.NewShellController(cfg).Loop()
}

// solveFiles runs one solver call per puzzle file. Each search is a
// single synchronous call; the files just run in parallel with each
// other.
func solveFiles(paths []string, cfg *config.Config) error {
	g, ctx := errgroup.WithContext(context.Background())
	results := make([][]string, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			board, err := gameio.LoadBoard(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			sol, err := solver.Solve(ctx, solver.NewSearchState(board), cfg.Depth, cfg.Debug)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			lines := []string{path + ":"}
			if sol.Board().IsWinning() {
				steps, err := postprocess.Reorder(sol, board)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				for _, st := range steps {
					lines = append(lines, "  "+st.Label)
				}
			} else if len(sol.Path()) == 0 {
				lines = append(lines, "  (no progress possible)")
			} else {
				for _, s := range sol.PathStrings() {
					lines = append(lines, "  "+s)
				}
				lines = append(lines, "  (partial: reveals hidden pieces, then re-run)")
			}
			results[i] = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, lines := range results {
		for _, l := range lines {
			fmt.Println(l)
		}
	}
	return nil
}
