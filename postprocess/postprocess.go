// Package postprocess turns a raw solution into a friendlier move order.
// It rebuilds the genuine ordering dependencies between moves as a DAG,
// strips implied edges, and re-linearizes with a heuristic that groups
// related pours together.
package postprocess

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/cesium62/tubesort/game"
	"github.com/cesium62/tubesort/solver"
)

var (
	ErrUndoInSolution = errors.New("postprocess: solution contains an undo")
	ErrChainMismatch  = errors.New("postprocess: board chain does not match path length")
)

// Sentinel graph nodes framing the move nodes (which use their move
// index as ID).
const (
	startID int64 = -1
	endID   int64 = -2
)

// Step is one annotated move of the final presentation order.
type Step struct {
	Move game.Move
	// Seq is the 1-based position in the presented order.
	Seq   int
	Label string
	// Collapsible marks a forced move: at its point in the replay it was
	// the only legal transfer. Advisory only.
	Collapsible bool
}

// moveInfo carries the per-move context the scoring heuristic looks at,
// extracted from the original board chain.
type moveInfo struct {
	src, dst int
	// color of the lifted piece, when it was a Known piece.
	color    game.Color
	hasColor bool
	// color exposed on the source top by this move, if any.
	reveal    game.Color
	hasReveal bool
}

// Reorder re-linearizes a solution for presentation. It applies only to
// solutions of fully-known boards in Normal or NoCombo mode; Queue-mode
// and hidden-piece solutions come back annotated in their original
// order. The root must be the board the solution was searched from.
func Reorder(sol *solver.SearchState, root *game.Board) ([]Step, error) {
	moves := sol.Path()
	for _, m := range moves {
		if m.Type() != game.MoveTypeTransfer {
			return nil, ErrUndoInSolution
		}
	}
	chain, err := boardChain(sol, len(moves))
	if err != nil {
		return nil, err
	}

	if root.Mode() == game.ModeQueue || root.ContainsHidden() {
		return annotate(moves, nil), nil
	}

	infos := collectInfos(moves, chain)
	g := buildGraph(moves, infos, root.NumTubes())
	reduceTransitive(g)
	order := priorityTopoSort(g, infos, root)

	ordered := make([]game.Move, len(order))
	for i, idx := range order {
		ordered[i] = moves[idx]
	}
	return annotate(ordered, root), nil
}

// boardChain walks the previous links from the final board back to the
// root and returns the boards oldest-first. The chain must be exactly
// one longer than the move list.
func boardChain(sol *solver.SearchState, nmoves int) ([]*game.Board, error) {
	var chain []*game.Board
	for b := sol.Board(); b != nil; b = b.Previous() {
		chain = append(chain, b)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	if len(chain) != nmoves+1 {
		return nil, fmt.Errorf("%w: %d boards for %d moves", ErrChainMismatch, len(chain), nmoves)
	}
	return chain, nil
}

func collectInfos(moves []game.Move, chain []*game.Board) []moveInfo {
	infos := make([]moveInfo, len(moves))
	for i, m := range moves {
		src, dst := m.Tubes()
		info := moveInfo{src: src, dst: dst}
		before := chain[i].Tube(src)
		lifted := before[len(before)-1]
		if lifted.Kind == game.KindKnown {
			info.color = lifted.Color
			info.hasColor = true
		}
		after := chain[i+1].Tube(src)
		if len(after) > 0 && after[len(after)-1].Kind == game.KindKnown {
			info.reveal = after[len(after)-1].Color
			info.hasReveal = true
		}
		infos[i] = info
	}
	return infos
}

// buildGraph links each move to the previous move that touched either of
// its tubes. Moves touching two virgin tubes hang off the start
// sentinel; moves nothing depends on feed the end sentinel.
func buildGraph(moves []game.Move, infos []moveInfo, numTubes int) *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	g.AddNode(simple.Node(startID))
	g.AddNode(simple.Node(endID))
	for i := range moves {
		g.AddNode(simple.Node(int64(i)))
	}

	const untouched = -3
	lastTouch := make([]int64, numTubes)
	for i := range lastTouch {
		lastTouch[i] = untouched
	}
	for i := range moves {
		id := int64(i)
		info := infos[i]
		srcPrev := lastTouch[info.src]
		dstPrev := lastTouch[info.dst]
		if srcPrev != untouched {
			g.SetEdge(g.NewEdge(simple.Node(srcPrev), simple.Node(id)))
		}
		if dstPrev != untouched {
			g.SetEdge(g.NewEdge(simple.Node(dstPrev), simple.Node(id)))
		}
		if srcPrev == untouched && dstPrev == untouched {
			g.SetEdge(g.NewEdge(simple.Node(startID), simple.Node(id)))
		}
		lastTouch[info.src] = id
		lastTouch[info.dst] = id
	}
	for i := range moves {
		if g.From(int64(i)).Len() == 0 {
			g.SetEdge(g.NewEdge(simple.Node(int64(i)), simple.Node(endID)))
		}
	}
	return g
}

// reduceTransitive removes every edge whose endpoints stay connected
// through some other directed path, leaving the minimal DAG of genuine
// ordering constraints.
func reduceTransitive(g *simple.DirectedGraph) {
	edges := graph.EdgesOf(g.Edges())
	for _, e := range edges {
		u, v := e.From().ID(), e.To().ID()
		g.RemoveEdge(u, v)
		if !reachable(g, u, v) {
			g.SetEdge(e)
		}
	}
}

func reachable(g graph.Directed, from, to int64) bool {
	seen := map[int64]bool{from: true}
	stack := []int64{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		it := g.From(cur)
		for it.Next() {
			id := it.Node().ID()
			if id == to {
				return true
			}
			if !seen[id] {
				seen[id] = true
				stack = append(stack, id)
			}
		}
	}
	return false
}

// priorityTopoSort is Kahn's algorithm with a scoring pass over each
// zero-in-degree generation: completing a tube scores 8, continuing the
// previous move's color 4, pouring the color the previous move exposed
// 2, touching a tube the previous move touched 1. Ties go to the
// smaller original move index. The start sentinel always releases first;
// sentinels are skipped in the emitted order.
func priorityTopoSort(g *simple.DirectedGraph, infos []moveInfo, root *game.Board) []int {
	indeg := map[int64]int{}
	var zero []int64
	nodes := g.Nodes()
	for nodes.Next() {
		id := nodes.Node().ID()
		d := g.To(id).Len()
		indeg[id] = d
		if d == 0 {
			zero = append(zero, id)
		}
	}

	var (
		order      []int
		sim        = root
		prevColor  game.Color
		hasPrev    bool
		prevReveal game.Color
		hasReveal  bool
		prevTubes  map[int]bool
	)

	score := func(id int64) int {
		info := infos[id]
		s := 0
		if next, err := sim.Apply(game.NewTransfer(info.src, info.dst)); err == nil &&
			next.TubeCompleted(info.dst) {
			s += 8
		}
		if hasPrev && info.hasColor && info.color == prevColor {
			s += 4
		}
		if hasReveal && info.hasColor && info.color == prevReveal {
			s += 2
		}
		if prevTubes != nil && (prevTubes[info.src] || prevTubes[info.dst]) {
			s += 1
		}
		return s
	}

	for len(zero) > 0 {
		var current int64
		if at := indexOf(zero, startID); at >= 0 {
			current = startID
			zero = append(zero[:at], zero[at+1:]...)
		} else {
			bestAt := 0
			bestScore := -1
			for i, id := range zero {
				var sc int
				if id == endID {
					sc = -1
				} else {
					sc = score(id)
				}
				// Strict improvement only: earlier entries are smaller
				// original indexes, which win ties.
				if sc > bestScore || (sc == bestScore && betterTie(id, zero[bestAt])) {
					bestScore = sc
					bestAt = i
				}
			}
			current = zero[bestAt]
			zero = append(zero[:bestAt], zero[bestAt+1:]...)
		}

		succs := g.From(current)
		for succs.Next() {
			id := succs.Node().ID()
			indeg[id]--
			if indeg[id] == 0 {
				zero = append(zero, id)
			}
		}

		if current == startID || current == endID {
			continue
		}

		info := infos[current]
		prevColor, hasPrev = info.color, info.hasColor
		prevReveal, hasReveal = info.reveal, info.hasReveal
		prevTubes = map[int]bool{info.src: true, info.dst: true}
		if next, err := sim.Apply(game.NewTransfer(info.src, info.dst)); err == nil {
			sim = next
		}
		order = append(order, int(current))
	}
	return order
}

// betterTie prefers the smaller original move index; sentinels lose.
func betterTie(a, b int64) bool {
	if a < 0 {
		return false
	}
	if b < 0 {
		return true
	}
	return a < b
}

func indexOf(ids []int64, want int64) int {
	for i, id := range ids {
		if id == want {
			return i
		}
	}
	return -1
}

// annotate numbers and labels the moves, and flags forced ones. root may
// be nil for ineligible solutions, which are labeled without the
// collapsible analysis.
func annotate(moves []game.Move, root *game.Board) []Step {
	steps := make([]Step, len(moves))
	sim := root
	for i, m := range moves {
		steps[i] = Step{
			Move:  m,
			Seq:   i + 1,
			Label: fmt.Sprintf("%02d: %s", i+1, m),
		}
		if sim == nil {
			continue
		}
		transfers := transferMoves(sim)
		if len(transfers) == 1 && transfers[0] == m {
			steps[i].Collapsible = true
		}
		if next, err := sim.Apply(m); err == nil {
			sim = next
		}
	}
	return steps
}

func transferMoves(b *game.Board) []game.Move {
	var out []game.Move
	for _, m := range b.LegalMoves() {
		if m.Type() == game.MoveTypeTransfer {
			out = append(out, m)
		}
	}
	return out
}
