package postprocess

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/cesium62/tubesort/game"
)

// Summary is one grouped presentation line covering a run of steps:
// consecutive pours merging one color into a tube, or consecutive pours
// draining one tube.
type Summary struct {
	Text  string
	Steps []Step
}

type summaryStep struct {
	step      Step
	src, dst  int
	color     game.Color
	hasColor  bool
	completes bool
}

// Summarize groups an ordered step list into reader-facing lines. A run
// of steps pouring one color into one tube becomes "Merge <color> from
// tubes S... into tube D"; a run draining one source becomes "Empty tube
// S into tubes D...". The longer grouping wins, merge on ties, and a run
// containing a tube-completing pour gets a "(completes tube)" suffix.
// The steps must be transfers replayable from root, as Reorder returns
// them.
func Summarize(steps []Step, root *game.Board) ([]Summary, error) {
	infos := make([]summaryStep, len(steps))
	sim := root
	for i, st := range steps {
		if st.Move.Type() != game.MoveTypeTransfer {
			return nil, ErrUndoInSolution
		}
		src, dst := st.Move.Tubes()
		info := summaryStep{step: st, src: src, dst: dst}
		if t := sim.Tube(src); len(t) > 0 && t[len(t)-1].Kind == game.KindKnown {
			info.color = t[len(t)-1].Color
			info.hasColor = true
		}
		next, err := sim.Apply(st.Move)
		if err != nil {
			return nil, fmt.Errorf("postprocess: replaying step %d: %w", i+1, err)
		}
		info.completes = next.TubeCompleted(dst)
		infos[i] = info
		sim = next
	}

	var out []Summary
	for i := 0; i < len(infos); {
		head := infos[i]

		mergeEnd := i + 1
		for mergeEnd < len(infos) && infos[mergeEnd].dst == head.dst &&
			infos[mergeEnd].hasColor == head.hasColor && infos[mergeEnd].color == head.color {
			mergeEnd++
		}
		emptyEnd := i + 1
		for emptyEnd < len(infos) && infos[emptyEnd].src == head.src {
			emptyEnd++
		}

		end := mergeEnd
		if emptyEnd > mergeEnd {
			end = emptyEnd
		}
		run := infos[i:end]

		var text string
		if end == mergeEnd {
			text = fmt.Sprintf("Merge %s from tubes %s into tube %d",
				colorLabel(head), tubeList(run, func(s summaryStep) int { return s.src }), head.dst+1)
		} else {
			text = fmt.Sprintf("Empty tube %d into tubes %s",
				head.src+1, tubeList(run, func(s summaryStep) int { return s.dst }))
		}
		if lo.SomeBy(run, func(s summaryStep) bool { return s.completes }) {
			text += " (completes tube)"
		}
		out = append(out, Summary{
			Text:  text,
			Steps: lo.Map(run, func(s summaryStep, _ int) Step { return s.step }),
		})
		i = end
	}
	return out, nil
}

func colorLabel(s summaryStep) string {
	if !s.hasColor {
		return "unknown color"
	}
	return s.color.Hex()
}

// tubeList renders the distinct 1-based tube numbers of a run, ascending.
func tubeList(run []summaryStep, pick func(summaryStep) int) string {
	ids := lo.Uniq(lo.Map(run, func(s summaryStep, _ int) int { return pick(s) + 1 }))
	sort.Ints(ids)
	return strings.Join(lo.Map(ids, func(n int, _ int) string { return strconv.Itoa(n) }), ", ")
}
