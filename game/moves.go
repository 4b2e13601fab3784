package game

import "fmt"

// LegalMoves enumerates every legal move from this board.
//
// A tube is a valid source if it is non-empty and not already completed.
// Every tube below capacity is a destination candidate, except that only
// the first empty tube is kept: empty tubes are interchangeable, so
// pouring into a later one is redundant. An Undo is offered last when the
// board has hidden pieces, a previous board, and undo budget left.
func (b *Board) LegalMoves() []Move {
	var result []Move

	dests := make([]int, 0, len(b.tubes))
	emptySeen := false
	for i, t := range b.tubes {
		if len(t) >= b.capacity {
			continue
		}
		if len(t) == 0 {
			if emptySeen {
				continue
			}
			emptySeen = true
		}
		dests = append(dests, i)
	}

	for src, st := range b.tubes {
		if len(st) == 0 || b.tubeCompleted(st) {
			continue
		}
		lift := b.liftable(st)

		for _, dst := range dests {
			if dst == src {
				continue
			}
			dt := b.tubes[dst]

			if len(dt) == 0 {
				// Dumping a whole single-color tube into an empty one
				// changes nothing; skip the no-op.
				if lift.Kind == KindKnown && st.monochromeKnown() {
					continue
				}
				result = append(result, NewTransfer(src, dst))
				continue
			}
			if lift.Kind == KindKnown && dt.top().Kind == KindKnown &&
				dt.top().Color == lift.Color {
				result = append(result, NewTransfer(src, dst))
			}
		}
	}

	if b.containsHidden && b.prev != nil && b.undoBudget > 0 {
		result = append(result, NewUndo())
	}
	return result
}

// liftable returns the piece a pour would pick up from the tube: the top
// in Normal and NoCombo modes, the bottom in Queue mode.
func (b *Board) liftable(t Tube) Node {
	if b.mode == ModeQueue {
		return t[0]
	}
	return t.top()
}

// Apply plays a move against the board and returns the resulting board.
// The receiver is never modified; the result's Previous link points back
// at it (or, for an undo, two boards back).
func (b *Board) Apply(m Move) (*Board, error) {
	switch m.Type() {
	case MoveTypeTransfer:
		return b.applyTransfer(m)
	case MoveTypeUndo:
		return b.applyUndo()
	}
	return nil, fmt.Errorf("unhandled move type %d", m.Type())
}

func (b *Board) applyTransfer(m Move) (*Board, error) {
	if m.src < 0 || m.src >= len(b.tubes) || m.dst < 0 || m.dst >= len(b.tubes) {
		return nil, ErrBadTubeIndex
	}
	if m.src == m.dst {
		return nil, fmt.Errorf("transfer within tube %d", m.src+1)
	}
	if len(b.tubes[m.src]) == 0 {
		return nil, fmt.Errorf("transfer from empty tube %d", m.src+1)
	}

	tubes := make([]Tube, len(b.tubes))
	copy(tubes, b.tubes)
	src := append(Tube{}, b.tubes[m.src]...)
	dst := append(Tube{}, b.tubes[m.dst]...)

	lift := b.liftable(src)
	switch {
	case lift.Kind == KindUnknownRevealed:
		// An opaque piece moves alone.
		dst = append(dst, src.top())
		src = src[:len(src)-1]
	case lift.Kind == KindKnown:
		switch b.mode {
		case ModeNoCombo:
			dst = append(dst, src.top())
			src = src[:len(src)-1]
		case ModeNormal:
			for len(src) > 0 && len(dst) < b.capacity &&
				src.top().Kind == KindKnown && src.top().Color == lift.Color {
				dst = append(dst, src.top())
				src = src[:len(src)-1]
			}
		case ModeQueue:
			for len(src) > 0 && len(dst) < b.capacity &&
				src[0].Kind == KindKnown && src[0].Color == lift.Color {
				dst = append(dst, src[0])
				src = src[1:]
			}
		}
	}
	// A still-unknown liftable moves nothing; the reveal below handles it.

	justRevealed := false
	var revealedOrigin Origin
	revealed := false
	if len(src) > 0 && src.top().Kind == KindUnknown {
		revealedOrigin = src.top().Origin
		src[len(src)-1] = RevealedNode(revealedOrigin)
		revealed = true
	}

	tubes[m.src] = src
	tubes[m.dst] = dst

	nb := b.derive(tubes, b.undoBudget)
	nb.prev = b
	if revealed {
		if _, seen := b.revealed[revealedOrigin]; !seen {
			justRevealed = true
		}
		nb.revealed[revealedOrigin] = struct{}{}
		nb.justRevealed = justRevealed
	}
	return nb, nil
}

// applyUndo rolls the position back one board, spending an undo. A piece
// once revealed stays revealed: any node whose origin is in the current
// revealed set comes back as UnknownRevealed even though the rest of the
// tubes are restored.
func (b *Board) applyUndo() (*Board, error) {
	switch {
	case b.prev == nil:
		return nil, ErrNoHistory
	case !b.containsHidden:
		return nil, ErrNoHiddenPieces
	case b.undoBudget <= 0:
		return nil, ErrUndoBudget
	}

	tubes := make([]Tube, len(b.prev.tubes))
	for i, t := range b.prev.tubes {
		nt := make(Tube, len(t))
		for j, n := range t {
			if _, seen := b.revealed[n.Origin]; seen {
				n = RevealedNode(n.Origin)
			}
			nt[j] = n
		}
		tubes[i] = nt
	}

	nb := b.derive(tubes, b.undoBudget-1)
	nb.prev = b.prev.prev
	return nb, nil
}
