// Package solver runs best-first searches over puzzle boards. Boards
// without hidden pieces are searched to a winning state; boards with
// hidden pieces are searched for a short path that usefully uncovers
// information, restarting with a shrinking depth budget when progress
// stalls.
package solver

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/cesium62/tubesort/game"
	"github.com/cesium62/tubesort/signature"
)

// DefaultDepth is the restart budget for hidden-piece searches.
const DefaultDepth = 8

// Solver owns the bookkeeping of one solve call: the creation-order
// counter threaded through every state it mints, and the debug switch.
// The whole search is one synchronous CPU-bound call with no internal
// parallelism; cancel the context to abandon it wholesale.
type Solver struct {
	debug    bool
	seq      uint64
	nodes    uint64
	restarts int
}

// Nodes reports how many states the last search expanded.
func (s *Solver) Nodes() uint64 {
	return s.nodes
}

// Restarts reports how many times the hidden-piece search abandoned its
// frontier and resumed from the best candidate.
func (s *Solver) Restarts() int {
	return s.restarts
}

// seenAtLeast reports whether the discovered map already holds this
// position with an undo budget at least as good; such states are worth
// revisiting only with strictly more undos in hand.
func seenAtLeast(discovered map[signature.Key]int, key signature.Key, budget int) bool {
	prev, seen := discovered[key]
	return seen && prev >= budget
}

// Solve dispatches on whether the root board holds any hidden piece.
// For fully-known boards it returns the first winning state found, or
// the root itself (empty path) when the board is unreachable. For
// hidden-piece boards it returns the best partial-reveal state per the
// candidate rules, falling back to the untouched root when no reveal is
// reachable. depth only applies to hidden-piece searches.
func Solve(ctx context.Context, root *SearchState, depth int, debug bool) (*SearchState, error) {
	s := &Solver{debug: debug}
	if !root.Board().ContainsHidden() {
		return s.solveKnown(ctx, root)
	}
	return s.solveHidden(ctx, root, depth)
}

func (s *Solver) nextSeq() uint64 {
	s.seq++
	return s.seq
}

// rankKnown orders fully-known search: shortest path first, then the
// structural heuristic (segment count, completed-tube count), then
// creation order.
func rankKnown(st *SearchState) []int {
	b := st.Board()
	return []int{len(st.Path()), b.Segments(), b.CompletedTubes(), int(st.seq)}
}

// rankHidden orders hidden-piece search: most uncovered pieces first,
// then most immediate reveal opportunities, then states that themselves
// just revealed, then the fully-known ordering.
func rankHidden(st *SearchState) []int {
	b := st.Board()
	revealedBit := 1
	if b.JustRevealed() {
		revealedBit = 0
	}
	return []int{
		-b.UnknownRevealedCount(),
		-b.RevealableInOne(),
		revealedBit,
		len(st.Path()),
		b.Segments(),
		b.CompletedTubes(),
		int(st.seq),
	}
}

func (s *Solver) solveKnown(ctx context.Context, root *SearchState) (*SearchState, error) {
	front := newFrontier(rankKnown)
	front.push(root)
	discovered := make(map[signature.Key]int)

	// Path length of the best winning state seen so far; states at or
	// past it cannot improve on it.
	best := math.MaxInt
	expanded := 0

	for front.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st := front.pop()
		b := st.Board()

		if b.IsWinning() {
			log.Debug().Int("expanded", expanded).Int("moves", len(st.Path())).
				Msg("search-complete")
			return st, nil
		}
		if len(st.Path()) >= best {
			continue
		}
		key := signature.For(b)
		if seenAtLeast(discovered, key, b.UndoBudget()) {
			continue
		}
		discovered[key] = b.UndoBudget()
		expanded++
		s.nodes++
		if s.debug {
			log.Debug().Int("expanded", expanded).Int("segments", b.Segments()).
				Uint64("sig", key.Hash64()).Msg("popped")
		}

		for _, mv := range b.LegalMoves() {
			nb, err := b.Apply(mv)
			if err != nil {
				return nil, err
			}
			child := st.child(nb, mv, s.nextSeq())
			if nb.IsWinning() {
				if len(child.path) >= best {
					continue
				}
				best = len(child.path)
			} else if len(child.path) >= best {
				continue
			}
			front.push(child)
		}
	}
	// Unreachable board: no failure signal, just the root with an empty
	// path.
	return root, nil
}

// revealDone reports whether a freshly-revealing state already exposes
// as much as a reveal search can: at most one piece on the board remains
// truly unknown.
func revealDone(b *game.Board) bool {
	return b.UnknownCount() <= 1
}

// moreValuable ranks candidate reveal states: more uncovered pieces,
// then more immediate reveal opportunities, then a shorter path, then
// fewer segments.
func moreValuable(a, b *SearchState) bool {
	ar, br := a.Board().UnknownRevealedCount(), b.Board().UnknownRevealedCount()
	if ar != br {
		return ar > br
	}
	ai, bi := a.Board().RevealableInOne(), b.Board().RevealableInOne()
	if ai != bi {
		return ai > bi
	}
	if len(a.Path()) != len(b.Path()) {
		return len(a.Path()) < len(b.Path())
	}
	return a.Board().Segments() < b.Board().Segments()
}

func (s *Solver) solveHidden(ctx context.Context, root *SearchState, depth int) (*SearchState, error) {
	front := newFrontier(rankHidden)
	front.push(root)
	discovered := make(map[signature.Key]int)

	var candidate *SearchState
	candidateAt := math.MaxInt
	expanded := 0

	for front.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st := front.pop()
		b := st.Board()

		key := signature.For(b)
		if seenAtLeast(discovered, key, b.UndoBudget()) {
			continue
		}
		discovered[key] = b.UndoBudget()
		expanded++
		s.nodes++
		if s.debug {
			log.Debug().Int("depth", depth).Int("expanded", expanded).
				Int("revealed", b.UnknownRevealedCount()).
				Int("segments", b.Segments()).Uint64("sig", key.Hash64()).
				Msg("popped")
		}

		if depth == 0 {
			// Depth budget exhausted: states only compete on fewest
			// segments, and the survivor is returned when the frontier
			// drains.
			if candidate == nil || b.Segments() < candidate.Board().Segments() {
				candidate = st
			}
		} else {
			if b.Meaningful() {
				if revealDone(b) {
					log.Debug().Int("expanded", expanded).
						Int("moves", len(st.Path())).Msg("reveal-search-complete")
					return st, nil
				}
				if candidate == nil {
					if expanded > 1 {
						candidate = st
						candidateAt = expanded
						if s.debug {
							log.Debug().Int("expanded", expanded).Msg("first-candidate")
						}
					}
				} else if moreValuable(st, candidate) {
					candidate = st
					candidateAt = expanded
					if s.debug {
						log.Debug().Int("expanded", expanded).
							Int("revealed", b.UnknownRevealedCount()).
							Msg("candidate-updated")
					}
				}
			}
			if candidate != nil && expanded > 2*candidateAt {
				// Progress has stalled; restart from the candidate with
				// one less depth to spend.
				s.restarts++
				log.Debug().Int("expanded", expanded).Int("depth", depth).
					Msg("restarting-from-candidate")
				return s.solveHidden(ctx, candidate, depth-1)
			}
		}

		for _, mv := range b.LegalMoves() {
			nb, err := b.Apply(mv)
			if err != nil {
				return nil, err
			}
			front.push(st.child(nb, mv, s.nextSeq()))
		}
	}

	if candidate != nil {
		return candidate, nil
	}
	return root, nil
}
