package game

import "github.com/samber/lo"

// boardMemo caches derived metrics. Boards are immutable and owned by a
// single search invocation, so lazy memoization is safe.
type boardMemo struct {
	structureDone bool
	segments      int
	completed     int
	unknowns      int
	revealedUnk   int

	winningDone bool
	winning     bool

	revealableDone bool
	revealable     int
}

func (b *Board) structure() {
	if b.memo.structureDone {
		return
	}
	for _, t := range b.tubes {
		for i, n := range t {
			switch n.Kind {
			case KindUnknown:
				b.memo.unknowns++
			case KindUnknownRevealed:
				b.memo.revealedUnk++
			}
			// Hidden pieces never merge into a segment, even next to
			// another hidden piece.
			if i == 0 || n.hidden() || t[i-1].Kind != n.Kind || t[i-1].Color != n.Color {
				b.memo.segments++
			}
		}
	}
	b.memo.completed = lo.CountBy(b.tubes, b.tubeCompleted)
	b.memo.structureDone = true
}

// Segments counts the maximal same-kind, same-color runs across all
// tubes. Fewer segments means a tidier board; the searches use it as
// their structural heuristic.
func (b *Board) Segments() int {
	b.structure()
	return b.memo.segments
}

// CompletedTubes counts full single-color stacks.
func (b *Board) CompletedTubes() int {
	b.structure()
	return b.memo.completed
}

// UnknownCount counts pieces whose color is still truly unknown.
func (b *Board) UnknownCount() int {
	b.structure()
	return b.memo.unknowns
}

// UnknownRevealedCount counts uncovered-but-opaque pieces.
func (b *Board) UnknownRevealedCount() int {
	b.structure()
	return b.memo.revealedUnk
}

// IsWinning reports whether every tube is empty or completed.
func (b *Board) IsWinning() bool {
	if !b.memo.winningDone {
		b.memo.winning = lo.EveryBy(b.tubes, func(t Tube) bool {
			return len(t) == 0 || b.tubeCompleted(t)
		})
		b.memo.winningDone = true
	}
	return b.memo.winning
}

// RevealableInOne counts the legal transfers that would uncover a new
// hidden piece immediately. Undo never reveals and is not counted.
func (b *Board) RevealableInOne() int {
	if !b.memo.revealableDone {
		for _, m := range b.LegalMoves() {
			if m.Type() != MoveTypeTransfer {
				continue
			}
			nb, err := b.Apply(m)
			if err == nil && nb.justRevealed {
				b.memo.revealable++
			}
		}
		b.memo.revealableDone = true
	}
	return b.memo.revealable
}

// Meaningful reports whether this board both uncovered a new piece and
// still shows at least one opaque marker; the hidden-piece search only
// treats such boards as candidate results.
func (b *Board) Meaningful() bool {
	return b.justRevealed && b.UnknownRevealedCount() > 0
}
