package game

import (
	"fmt"
	"strconv"
	"strings"
)

// MoveType is a type of move: a pour between two tubes, or an undo.
type MoveType uint8

const (
	MoveTypeTransfer MoveType = iota
	MoveTypeUndo
)

// Move is a pure value descriptor of an action. Applying one to a Board
// produces a new Board; it never mutates anything.
type Move struct {
	action MoveType
	src    int
	dst    int
}

// NewTransfer creates a pour from tube src into tube dst (0-based).
func NewTransfer(src, dst int) Move {
	return Move{action: MoveTypeTransfer, src: src, dst: dst}
}

// NewUndo creates an undo move.
func NewUndo() Move {
	return Move{action: MoveTypeUndo}
}

func (m Move) Type() MoveType {
	return m.action
}

// Tubes returns the source and destination tube indexes of a transfer.
// They are meaningless for an undo.
func (m Move) Tubes() (src, dst int) {
	return m.src, m.dst
}

// String serializes the move the way the step lists show it: 1-based
// "<src> -> <dst>" for a transfer, the literal "Undo" otherwise.
func (m Move) String() string {
	if m.action == MoveTypeUndo {
		return "Undo"
	}
	return fmt.Sprintf("%d -> %d", m.src+1, m.dst+1)
}

// ParseMove does the inverse of String.
func ParseMove(s string) (Move, error) {
	if s == "Undo" {
		return NewUndo(), nil
	}
	parts := strings.Split(s, " -> ")
	if len(parts) != 2 {
		return Move{}, fmt.Errorf("unknown move %q", s)
	}
	src, err := strconv.Atoi(parts[0])
	if err != nil {
		return Move{}, fmt.Errorf("bad source tube in %q", s)
	}
	dst, err := strconv.Atoi(parts[1])
	if err != nil {
		return Move{}, fmt.Errorf("bad destination tube in %q", s)
	}
	if src < 1 || dst < 1 {
		return Move{}, fmt.Errorf("tube indexes in %q must be positive", s)
	}
	return NewTransfer(src-1, dst-1), nil
}
