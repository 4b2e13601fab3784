package game

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

// revealBoard has a hidden piece at the bottom of tube 1 and another at
// the top of tube 2, with an empty tube 3 to pour into.
func revealBoard(t *testing.T, undoBudget int) *Board {
	t.Helper()
	b, err := NewBoard([][]Node{
		{UnknownNode(Origin{Col: 0, Row: 0}), KnownNode(red, Origin{Col: 0, Row: 1})},
		{KnownNode(red, Origin{Col: 1, Row: 0}), UnknownNode(Origin{Col: 1, Row: 1})},
		{},
	}, undoBudget, 2, ModeNormal)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestLegalMovesKeepsFirstEmptyOnly(t *testing.T) {
	is := is.New(t)

	b, err := NewBoard([][]Node{
		knowns(0, red, blue),
		{},
		{},
	}, DefaultUndoBudget, 2, ModeNormal)
	is.NoErr(err)

	is.Equal(b.LegalMoves(), []Move{NewTransfer(0, 1)})
}

func TestLegalMovesSkipsMonochromeIntoEmpty(t *testing.T) {
	is := is.New(t)

	b, err := NewBoard([][]Node{
		knowns(0, red, red),
		knowns(1, blue, blue, blue, blue),
		knowns(2, red, red),
		{},
	}, DefaultUndoBudget, 4, ModeNormal)
	is.NoErr(err)

	// Tube 1 may not dump into the empty tube (a no-op) and tube 2 is
	// completed, so only the two red merges remain.
	is.Equal(b.LegalMoves(), []Move{NewTransfer(0, 2), NewTransfer(2, 0)})
}

func TestApplyNormalMovesWholeRun(t *testing.T) {
	is := is.New(t)

	b, err := NewBoard([][]Node{
		knowns(0, red, red, blue, blue),
		knowns(1, blue, blue, red, red),
		{},
	}, DefaultUndoBudget, 4, ModeNormal)
	is.NoErr(err)

	nb, err := b.Apply(NewTransfer(0, 2))
	is.NoErr(err)
	is.Equal(len(nb.Tube(0)), 2)
	is.Equal(len(nb.Tube(2)), 2)
	is.Equal(nb.Tube(2).top().Color, blue)
	is.Equal(nb.Previous(), b)
	is.True(!nb.JustRevealed())
	// The source board is untouched.
	is.Equal(len(b.Tube(0)), 4)
}

func TestApplyNormalRunBoundedByCapacity(t *testing.T) {
	is := is.New(t)

	b, err := NewBoard([][]Node{
		knowns(0, blue, red, red, red),
		knowns(1, blue, blue, red),
		knowns(2, blue),
	}, DefaultUndoBudget, 4, ModeNormal)
	is.NoErr(err)

	// Three reds sit atop tube 1 but tube 2 has only one free slot.
	nb, err := b.Apply(NewTransfer(0, 1))
	is.NoErr(err)
	is.Equal(len(nb.Tube(0)), 3)
	is.Equal(len(nb.Tube(1)), 4)
	is.Equal(nb.Tube(1).top().Color, red)
}

func TestApplyNoComboMovesOnePiece(t *testing.T) {
	is := is.New(t)

	b, err := NewBoard([][]Node{
		knowns(0, red, red, blue, blue),
		knowns(1, blue, blue, red, red),
		{},
	}, DefaultUndoBudget, 4, ModeNoCombo)
	is.NoErr(err)

	nb, err := b.Apply(NewTransfer(0, 2))
	is.NoErr(err)
	is.Equal(len(nb.Tube(0)), 3)
	is.Equal(len(nb.Tube(2)), 1)
}

func TestApplyQueueLiftsFromBottom(t *testing.T) {
	is := is.New(t)

	b, err := NewBoard([][]Node{
		knowns(0, red, red, blue, blue),
		knowns(1, blue, blue, red, red),
		{},
	}, DefaultUndoBudget, 4, ModeQueue)
	is.NoErr(err)

	nb, err := b.Apply(NewTransfer(0, 2))
	is.NoErr(err)
	// The bottom red run comes out, leaving the blues.
	is.Equal(nb.Tube(0), Tube(knowns(0, red, red, blue, blue)[2:]))
	is.Equal(len(nb.Tube(2)), 2)
	is.Equal(nb.Tube(2)[0].Color, red)
}

func TestTransferRevealsUnknown(t *testing.T) {
	is := is.New(t)

	b := revealBoard(t, DefaultUndoBudget)
	nb, err := b.Apply(NewTransfer(0, 2))
	is.NoErr(err)

	is.Equal(nb.Tube(0)[0].Kind, KindUnknownRevealed)
	is.True(nb.JustRevealed())
	is.Equal(nb.RevealedOrigins(), []Origin{{Col: 0, Row: 0}})
	is.Equal(nb.UnknownCount(), 1)
	is.Equal(nb.UnknownRevealedCount(), 1)
	is.True(nb.Meaningful())
}

func TestLiftingStillUnknownTopOnlyReveals(t *testing.T) {
	is := is.New(t)

	// Tube 2's top is a still-covered piece; pouring it moves nothing
	// but flips it to revealed.
	b := revealBoard(t, DefaultUndoBudget)
	nb, err := b.Apply(NewTransfer(1, 2))
	is.NoErr(err)

	is.Equal(len(nb.Tube(1)), 2)
	is.Equal(len(nb.Tube(2)), 0)
	is.Equal(nb.Tube(1).top().Kind, KindUnknownRevealed)
	is.True(nb.JustRevealed())
}

func TestRevealedPieceMovesAlone(t *testing.T) {
	is := is.New(t)

	b, err := NewBoard([][]Node{
		{KnownNode(red, Origin{Col: 0, Row: 0}), RevealedNode(Origin{Col: 0, Row: 1})},
		{KnownNode(red, Origin{Col: 1, Row: 0}), UnknownNode(Origin{Col: 1, Row: 1})},
		{},
	}, DefaultUndoBudget, 2, ModeNormal)
	is.NoErr(err)

	nb, err := b.Apply(NewTransfer(0, 2))
	is.NoErr(err)
	is.Equal(len(nb.Tube(2)), 1)
	is.Equal(nb.Tube(2)[0].Kind, KindUnknownRevealed)
	// The red left behind is already known, so nothing new is revealed.
	is.True(!nb.JustRevealed())
}

func TestLegalMovesOffersUndoAfterReveal(t *testing.T) {
	is := is.New(t)

	b := revealBoard(t, DefaultUndoBudget)
	nb, err := b.Apply(NewTransfer(0, 2))
	is.NoErr(err)

	// With both stuck tubes opaque-topped the only way forward is back.
	is.Equal(nb.LegalMoves(), []Move{NewUndo()})
}

func TestUndoRestoresButKeepsReveals(t *testing.T) {
	is := is.New(t)

	b := revealBoard(t, DefaultUndoBudget)
	b1, err := b.Apply(NewTransfer(0, 2))
	is.NoErr(err)
	b2, err := b1.Apply(NewUndo())
	is.NoErr(err)

	is.Equal(len(b2.Tube(0)), 2)
	is.Equal(b2.Tube(0)[0].Kind, KindUnknownRevealed)
	is.Equal(b2.Tube(0).top().Color, red)
	is.Equal(len(b2.Tube(2)), 0)
	is.Equal(b2.UndoBudget(), DefaultUndoBudget-1)
	is.Equal(b2.Previous(), nil)
	is.True(!b2.JustRevealed())
	is.Equal(b2.RevealedOrigins(), []Origin{{Col: 0, Row: 0}})
}

func TestUndoErrors(t *testing.T) {
	is := is.New(t)

	root := revealBoard(t, 0)
	_, err := root.Apply(NewUndo())
	is.True(errors.Is(err, ErrNoHistory))

	b1, err := root.Apply(NewTransfer(0, 2))
	is.NoErr(err)
	_, err = b1.Apply(NewUndo())
	is.True(errors.Is(err, ErrUndoBudget))

	known, err := NewBoard([][]Node{
		knowns(0, red, blue),
		knowns(1, blue, red),
		{},
	}, DefaultUndoBudget, 2, ModeNormal)
	is.NoErr(err)
	k1, err := known.Apply(NewTransfer(0, 2))
	is.NoErr(err)
	_, err = k1.Apply(NewUndo())
	is.True(errors.Is(err, ErrNoHiddenPieces))
}

func TestApplyBadTubeIndex(t *testing.T) {
	is := is.New(t)

	b, err := NewBoard([][]Node{
		knowns(0, red, red),
		{},
	}, DefaultUndoBudget, 2, ModeNormal)
	is.NoErr(err)

	_, err = b.Apply(NewTransfer(0, 7))
	is.True(errors.Is(err, ErrBadTubeIndex))
}

func TestPreviousChainWalksToRoot(t *testing.T) {
	is := is.New(t)

	b, err := NewBoard([][]Node{
		knowns(0, red, blue),
		knowns(1, blue, red),
		{},
	}, DefaultUndoBudget, 2, ModeNormal)
	is.NoErr(err)

	b1, err := b.Apply(NewTransfer(0, 2))
	is.NoErr(err)
	b2, err := b1.Apply(NewTransfer(1, 0))
	is.NoErr(err)

	is.Equal(b2.Previous(), b1)
	is.Equal(b2.Previous().Previous(), b)
	is.Equal(b.Previous(), nil)
}
