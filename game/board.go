package game

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the pouring rules for a board.
type Mode uint8

const (
	// ModeNormal pours the whole same-colored top run at once.
	ModeNormal Mode = iota
	// ModeNoCombo pours exactly one piece per move.
	ModeNoCombo
	// ModeQueue lifts from the bottom of the source instead of the top.
	ModeQueue
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeNoCombo:
		return "NO_COMBO"
	case ModeQueue:
		return "QUEUE"
	}
	return "UNHANDLED"
}

// ParseMode converts the boundary integer encoding (0/1/2) into a Mode.
func ParseMode(v int) (Mode, error) {
	if v < 0 || v > int(ModeQueue) {
		return ModeNormal, fmt.Errorf("unknown game mode %d", v)
	}
	return Mode(v), nil
}

// ModeFromName converts an enum name ("NORMAL", "NO_COMBO", "QUEUE").
func ModeFromName(name string) (Mode, error) {
	switch strings.ToUpper(name) {
	case "NORMAL":
		return ModeNormal, nil
	case "NO_COMBO":
		return ModeNoCombo, nil
	case "QUEUE":
		return ModeQueue, nil
	}
	return ModeNormal, fmt.Errorf("unknown game mode %q", name)
}

// DefaultUndoBudget is the undo allowance a board gets when the input
// does not specify one.
const DefaultUndoBudget = 5

var (
	ErrTubeLengths       = errors.New("tubes have differing lengths and no capacity was given")
	ErrEmptyBelowFilled  = errors.New("empty node below a filled node")
	ErrTubeOverCapacity  = errors.New("tube exceeds capacity")
	ErrFillCount         = errors.New("filled node count is not a multiple of capacity")
	ErrColorOverCapacity = errors.New("color occurs more often than capacity allows")
	ErrNoHistory         = errors.New("no previous board to undo to")
	ErrNoHiddenPieces    = errors.New("undo requires a hidden piece on the board")
	ErrUndoBudget        = errors.New("undo budget exhausted")
	ErrBadTubeIndex      = errors.New("tube index out of range")
)

// Tube is an ordered stack of nodes, bottom to top, with trailing empty
// slots trimmed away.
type Tube []Node

func (t Tube) top() Node {
	return t[len(t)-1]
}

// monochromeKnown reports whether every piece in the tube is a Known
// piece of one color.
func (t Tube) monochromeKnown() bool {
	for _, n := range t {
		if n.Kind != KindKnown || n.Color != t[0].Color {
			return false
		}
	}
	return len(t) > 0
}

// Board is an immutable puzzle state. Boards are created once from
// external input and after that only by applying a Move to an existing
// Board; they are never mutated.
type Board struct {
	tubes      []Tube
	capacity   int
	mode       Mode
	undoBudget int

	// prev points at the board this one was derived from; nil for the
	// root. Undo walks this chain, and the postprocessor reconstructs
	// the move history from it.
	prev *Board
	// revealed holds the origins of every hidden piece uncovered across
	// the whole game history, including positions rolled back by undos.
	revealed map[Origin]struct{}
	// justRevealed is true iff the move that produced this board
	// uncovered a hidden piece for the first time.
	justRevealed   bool
	containsHidden bool

	memo boardMemo
}

// NewBoard validates raw tube input and builds the root board. capacity 0
// means "infer from the common tube length"; inference fails when tube
// lengths disagree. Trailing empty slots are trimmed from each tube.
//
// Auto-complete convenience: if exactly one color falls short of capacity
// and the hidden-piece count equals the shortfall exactly, the hidden
// pieces are resolved to that color before validation. The mode is kept
// as given.
func NewBoard(groups [][]Node, undoBudget, capacity int, mode Mode) (*Board, error) {
	if capacity <= 0 {
		for _, g := range groups {
			if capacity == 0 {
				capacity = len(g)
			} else if len(g) != capacity {
				return nil, ErrTubeLengths
			}
		}
	}
	if capacity <= 0 {
		return nil, ErrTubeLengths
	}

	groups = autoComplete(groups, capacity)

	b := &Board{
		tubes:      make([]Tube, 0, len(groups)),
		capacity:   capacity,
		mode:       mode,
		undoBudget: undoBudget,
		revealed:   map[Origin]struct{}{},
	}

	colorCounts := map[Color]int{}
	filled := 0
	for _, g := range groups {
		tube := make(Tube, 0, len(g))
		// Scan top-down so a trailing run of empties is legal but an
		// empty under a piece is not.
		seenFilled := false
		for i := len(g) - 1; i >= 0; i-- {
			n := g[i]
			if n.Kind == KindEmpty {
				if seenFilled {
					return nil, ErrEmptyBelowFilled
				}
				continue
			}
			seenFilled = true
			tube = append(tube, n)
			filled++
			if n.Kind == KindKnown {
				colorCounts[n.Color]++
			} else {
				b.containsHidden = true
			}
		}
		reverse(tube)
		if len(tube) > capacity {
			return nil, ErrTubeOverCapacity
		}
		b.tubes = append(b.tubes, tube)
	}

	if filled%capacity != 0 {
		return nil, ErrFillCount
	}
	for c, ct := range colorCounts {
		if ct > capacity {
			return nil, fmt.Errorf("%w: %s seen %d times (capacity %d)",
				ErrColorOverCapacity, c.Hex(), ct, capacity)
		}
	}
	return b, nil
}

// autoComplete resolves hidden pieces to the single incomplete color when
// they account for exactly that color's shortfall. Otherwise the input is
// returned untouched.
func autoComplete(groups [][]Node, capacity int) [][]Node {
	colorCounts := map[Color]int{}
	hidden := 0
	for _, g := range groups {
		for _, n := range g {
			switch n.Kind {
			case KindKnown:
				colorCounts[n.Color]++
			case KindUnknown, KindUnknownRevealed:
				hidden++
			}
		}
	}
	var incomplete []Color
	for c, ct := range colorCounts {
		if ct > 0 && ct < capacity {
			incomplete = append(incomplete, c)
		}
	}
	if len(incomplete) != 1 || hidden == 0 {
		return groups
	}
	target := incomplete[0]
	if capacity-colorCounts[target] != hidden {
		return groups
	}

	resolved := make([][]Node, len(groups))
	for gi, g := range groups {
		ng := make([]Node, len(g))
		for i, n := range g {
			if n.Kind == KindUnknown || n.Kind == KindUnknownRevealed {
				n = KnownNode(target, n.Origin)
			}
			ng[i] = n
		}
		resolved[gi] = ng
	}
	return resolved
}

// derive builds a successor board from already-trimmed tubes, skipping
// root validation. Callers fill in prev/revealed/justRevealed.
func (b *Board) derive(tubes []Tube, undoBudget int) *Board {
	nb := &Board{
		tubes:      tubes,
		capacity:   b.capacity,
		mode:       b.mode,
		undoBudget: undoBudget,
		revealed:   map[Origin]struct{}{},
	}
	for o := range b.revealed {
		nb.revealed[o] = struct{}{}
	}
	for _, t := range tubes {
		for _, n := range t {
			if n.hidden() {
				nb.containsHidden = true
			}
		}
	}
	return nb
}

func (b *Board) NumTubes() int {
	return len(b.tubes)
}

// Tube returns one tube of the board. The returned slice is the board's
// own storage; treat it as read-only.
func (b *Board) Tube(i int) Tube {
	return b.tubes[i]
}

func (b *Board) Capacity() int {
	return b.capacity
}

func (b *Board) Mode() Mode {
	return b.mode
}

func (b *Board) UndoBudget() int {
	return b.undoBudget
}

// Previous returns the board this one was derived from, or nil for the
// root board.
func (b *Board) Previous() *Board {
	return b.prev
}

// JustRevealed reports whether the move that produced this board
// uncovered a new hidden piece.
func (b *Board) JustRevealed() bool {
	return b.justRevealed
}

// ContainsHidden reports whether any piece on the board is still an
// opaque marker (Unknown or UnknownRevealed).
func (b *Board) ContainsHidden() bool {
	return b.containsHidden
}

// RevealedOrigins returns the origins uncovered across the whole game
// history, in no particular order.
func (b *Board) RevealedOrigins() []Origin {
	out := make([]Origin, 0, len(b.revealed))
	for o := range b.revealed {
		out = append(out, o)
	}
	return out
}

// tubeCompleted reports whether the tube is a full, single-color stack of
// Known pieces.
func (b *Board) tubeCompleted(t Tube) bool {
	if len(t) != b.capacity {
		return false
	}
	return t.monochromeKnown()
}

// TubeCompleted reports whether tube i is a completed stack.
func (b *Board) TubeCompleted(i int) bool {
	return b.tubeCompleted(b.tubes[i])
}

// String renders the board one tube per line, for debugging.
func (b *Board) String() string {
	var sb strings.Builder
	for i, t := range b.tubes {
		fmt.Fprintf(&sb, "%2d:", i+1)
		for _, n := range t {
			sb.WriteString(" ")
			sb.WriteString(n.String())
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func reverse(t Tube) {
	for i, j := 0, len(t)-1; i < j; i, j = i+1, j-1 {
		t[i], t[j] = t[j], t[i]
	}
}
