package game

import (
	"testing"

	"github.com/matryer/is"
)

func TestMoveStringRoundTrip(t *testing.T) {
	is := is.New(t)

	mv := NewTransfer(0, 6)
	is.Equal(mv.String(), "1 -> 7")

	parsed, err := ParseMove("1 -> 7")
	is.NoErr(err)
	is.Equal(parsed, mv)

	undo, err := ParseMove("Undo")
	is.NoErr(err)
	is.Equal(undo.Type(), MoveTypeUndo)
	is.Equal(undo.String(), "Undo")
}

func TestParseMoveErrors(t *testing.T) {
	is := is.New(t)

	for _, bad := range []string{"", "1 ->", "x -> 2", "1 -> y", "0 -> 2"} {
		_, err := ParseMove(bad)
		is.True(err != nil)
	}
}

func TestParseModeNames(t *testing.T) {
	is := is.New(t)

	m, err := ModeFromName("queue")
	is.NoErr(err)
	is.Equal(m, ModeQueue)

	_, err = ModeFromName("sideways")
	is.True(err != nil)

	m, err = ParseMode(1)
	is.NoErr(err)
	is.Equal(m, ModeNoCombo)

	_, err = ParseMode(9)
	is.True(err != nil)
}
