package game

import (
	"fmt"
	"strings"
)

// NodeKind is the kind of a single puzzle piece slot.
type NodeKind uint8

const (
	KindEmpty NodeKind = iota
	KindKnown
	KindUnknown
	KindUnknownRevealed
)

// The single-character tokens used by the JSON puzzle format.
const (
	tokenEmpty           = "_"
	tokenKnown           = "."
	tokenUnknown         = "?"
	tokenUnknownRevealed = "!"
)

func (k NodeKind) String() string {
	switch k {
	case KindEmpty:
		return tokenEmpty
	case KindKnown:
		return tokenKnown
	case KindUnknown:
		return tokenUnknown
	case KindUnknownRevealed:
		return tokenUnknownRevealed
	}
	return "UNHANDLED"
}

// ParseNodeKind converts a format token back into a NodeKind.
func ParseNodeKind(tok string) (NodeKind, error) {
	switch tok {
	case tokenEmpty:
		return KindEmpty, nil
	case tokenKnown:
		return KindKnown, nil
	case tokenUnknown:
		return KindUnknown, nil
	case tokenUnknownRevealed:
		return KindUnknownRevealed, nil
	}
	return 0, fmt.Errorf("unknown node kind token %q", tok)
}

// Color is an RGB triple with value equality. Two nodes hold the same
// color exactly when their Color structs compare equal.
type Color struct {
	R, G, B uint8
}

// ParseColor parses a "#rrggbb" hex string (the leading '#' is optional).
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	var c Color
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return c, nil
}

// Hex renders the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Origin is the fixed (column, row) a piece occupied when the board was
// built. It is assigned once and never changes; hidden pieces are tracked
// by it across reveals and undos.
type Origin struct {
	Col, Row int
}

// Node is one puzzle piece or empty slot. Color is meaningful only when
// Kind is KindKnown.
type Node struct {
	Kind   NodeKind
	Color  Color
	Origin Origin
}

// KnownNode builds a colored piece.
func KnownNode(c Color, origin Origin) Node {
	return Node{Kind: KindKnown, Color: c, Origin: origin}
}

// UnknownNode builds a hidden piece whose color has not been seen yet.
func UnknownNode(origin Origin) Node {
	return Node{Kind: KindUnknown, Origin: origin}
}

// RevealedNode builds a hidden piece that has been uncovered. Its true
// color is tracked by the caller, not by this engine.
func RevealedNode(origin Origin) Node {
	return Node{Kind: KindUnknownRevealed, Origin: origin}
}

// EmptyNode builds an empty slot.
func EmptyNode(origin Origin) Node {
	return Node{Kind: KindEmpty, Origin: origin}
}

func (n Node) hidden() bool {
	return n.Kind == KindUnknown || n.Kind == KindUnknownRevealed
}

func (n Node) String() string {
	if n.Kind == KindKnown {
		return n.Color.Hex()
	}
	return n.Kind.String()
}
