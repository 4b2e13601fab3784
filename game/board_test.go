package game

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

var (
	red   = Color{R: 0xff}
	green = Color{G: 0xff}
	blue  = Color{B: 0xff}
)

// knowns builds a tube of colored pieces for column col, bottom to top.
func knowns(col int, colors ...Color) []Node {
	out := make([]Node, len(colors))
	for i, c := range colors {
		out[i] = KnownNode(c, Origin{Col: col, Row: i})
	}
	return out
}

func TestCapacityInference(t *testing.T) {
	is := is.New(t)

	b, err := NewBoard([][]Node{
		knowns(0, red, red, blue, blue),
		knowns(1, blue, blue, red, red),
	}, DefaultUndoBudget, 0, ModeNormal)
	is.NoErr(err)
	is.Equal(b.Capacity(), 4)
	is.Equal(b.NumTubes(), 2)
}

func TestCapacityInferenceMismatch(t *testing.T) {
	is := is.New(t)

	_, err := NewBoard([][]Node{
		knowns(0, red, red),
		knowns(1, red, red, red, red),
	}, DefaultUndoBudget, 0, ModeNormal)
	is.True(errors.Is(err, ErrTubeLengths))
}

func TestTrailingEmptySlotsTrimmed(t *testing.T) {
	is := is.New(t)

	b, err := NewBoard([][]Node{
		knowns(0, red, red),
		{EmptyNode(Origin{Col: 1, Row: 0}), EmptyNode(Origin{Col: 1, Row: 1})},
	}, DefaultUndoBudget, 0, ModeNormal)
	is.NoErr(err)
	is.Equal(len(b.Tube(0)), 2)
	is.Equal(len(b.Tube(1)), 0)
}

func TestEmptyBelowFilledRejected(t *testing.T) {
	is := is.New(t)

	_, err := NewBoard([][]Node{
		{EmptyNode(Origin{Col: 0, Row: 0}), KnownNode(red, Origin{Col: 0, Row: 1})},
		knowns(1, red),
	}, DefaultUndoBudget, 2, ModeNormal)
	is.True(errors.Is(err, ErrEmptyBelowFilled))
}

func TestTubeOverCapacityRejected(t *testing.T) {
	is := is.New(t)

	_, err := NewBoard([][]Node{
		knowns(0, red, green, blue),
	}, DefaultUndoBudget, 2, ModeNormal)
	is.True(errors.Is(err, ErrTubeOverCapacity))
}

func TestFillCountRejected(t *testing.T) {
	is := is.New(t)

	_, err := NewBoard([][]Node{
		knowns(0, red, green, blue),
	}, DefaultUndoBudget, 4, ModeNormal)
	is.True(errors.Is(err, ErrFillCount))
}

func TestColorOverCapacityRejected(t *testing.T) {
	is := is.New(t)

	_, err := NewBoard([][]Node{
		knowns(0, red, red),
		knowns(1, red, blue),
	}, DefaultUndoBudget, 2, ModeNormal)
	is.True(errors.Is(err, ErrColorOverCapacity))
}

func TestAutoCompleteResolvesSingleShortColor(t *testing.T) {
	is := is.New(t)

	// Blue is the only incomplete color and the two hidden pieces cover
	// its shortfall exactly, so they resolve to blue up front.
	b, err := NewBoard([][]Node{
		knowns(0, red, red, red, red),
		{
			KnownNode(blue, Origin{Col: 1, Row: 0}),
			KnownNode(blue, Origin{Col: 1, Row: 1}),
			UnknownNode(Origin{Col: 1, Row: 2}),
			UnknownNode(Origin{Col: 1, Row: 3}),
		},
		{
			EmptyNode(Origin{Col: 2, Row: 0}),
			EmptyNode(Origin{Col: 2, Row: 1}),
			EmptyNode(Origin{Col: 2, Row: 2}),
			EmptyNode(Origin{Col: 2, Row: 3}),
		},
	}, DefaultUndoBudget, 0, ModeNormal)
	is.NoErr(err)
	is.True(!b.ContainsHidden())
	is.Equal(b.UnknownCount(), 0)
	is.True(b.IsWinning())
}

func TestAutoCompleteSkippedWhenAmbiguous(t *testing.T) {
	is := is.New(t)

	// Two colors are incomplete, so the single hidden piece cannot be
	// resolved and stays opaque.
	b, err := NewBoard([][]Node{
		{UnknownNode(Origin{Col: 0, Row: 0}), KnownNode(red, Origin{Col: 0, Row: 1})},
		knowns(1, blue),
		knowns(2, green, green, green),
	}, DefaultUndoBudget, 3, ModeNormal)
	is.NoErr(err)
	is.True(b.ContainsHidden())
	is.Equal(b.UnknownCount(), 1)
}

func TestWinningPredicate(t *testing.T) {
	is := is.New(t)

	won, err := NewBoard([][]Node{
		knowns(0, red, red),
		{},
	}, DefaultUndoBudget, 2, ModeNormal)
	is.NoErr(err)
	is.True(won.IsWinning())
	is.Equal(won.CompletedTubes(), 1)

	split, err := NewBoard([][]Node{
		knowns(0, red, blue),
		knowns(1, blue, red),
	}, DefaultUndoBudget, 2, ModeNormal)
	is.NoErr(err)
	is.True(!split.IsWinning())
	is.Equal(split.CompletedTubes(), 0)
}
