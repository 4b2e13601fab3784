package solver

import (
	"github.com/cesium62/tubesort/game"
)

// SearchState pairs a board with the ordered moves that reached it from
// the search root. The seq tag is assigned by the solver in creation
// order and only breaks priority ties, keeping expansion deterministic.
type SearchState struct {
	board *game.Board
	path  []game.Move
	seq   uint64
}

// NewSearchState wraps a root board with an empty path.
func NewSearchState(b *game.Board) *SearchState {
	return &SearchState{board: b}
}

// NewSearchStateWithPath wraps a board reached by an already-known move
// sequence, for callers that rebuild a solution outside a search.
func NewSearchStateWithPath(b *game.Board, path []game.Move) *SearchState {
	return &SearchState{board: b, path: path}
}

func (s *SearchState) Board() *game.Board {
	return s.board
}

// Path returns the moves taken from the root. Callers must not modify
// the returned slice.
func (s *SearchState) Path() []game.Move {
	return s.path
}

// PathStrings serializes the path the way the boundary expects:
// "<src+1> -> <dst+1>" per transfer, "Undo" for an undo.
func (s *SearchState) PathStrings() []string {
	out := make([]string, len(s.path))
	for i, m := range s.path {
		out[i] = m.String()
	}
	return out
}

// child extends the state by one move. The path is copied, never shared.
func (s *SearchState) child(b *game.Board, m game.Move, seq uint64) *SearchState {
	path := make([]game.Move, len(s.path)+1)
	copy(path, s.path)
	path[len(s.path)] = m
	return &SearchState{board: b, path: path, seq: seq}
}
