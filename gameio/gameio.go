// Package gameio reads and writes the JSON puzzle format the board
// editor produces. The format is lenient on input: the mode may arrive
// under "gameMode" or "mode", by enum name or number, and the capacity
// under "groupCapacity" or "rows".
package gameio

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/cesium62/tubesort/game"
)

type jsonNode struct {
	NodeType    string `json:"nodeType"`
	OriginalPos [2]int `json:"originalPos"`
	Color       string `json:"color,omitempty"`
}

type jsonPuzzle struct {
	Groups        [][]jsonNode `json:"groups"`
	UndoCount     *int         `json:"undoCount,omitempty"`
	GameMode      any          `json:"gameMode,omitempty"`
	Mode          any          `json:"mode,omitempty"`
	GroupCapacity any          `json:"groupCapacity,omitempty"`
	Rows          any          `json:"rows,omitempty"`
	Cols          int          `json:"cols,omitempty"`
	Colors        int          `json:"colors,omitempty"`
}

// FromJSON decodes a puzzle document into a root board.
func FromJSON(data []byte) (*game.Board, error) {
	var doc jsonPuzzle
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("gameio: %w", err)
	}

	groups := make([][]game.Node, len(doc.Groups))
	for gi, g := range doc.Groups {
		nodes := make([]game.Node, len(g))
		for ni, jn := range g {
			n, err := decodeNode(jn)
			if err != nil {
				return nil, fmt.Errorf("gameio: tube %d slot %d: %w", gi+1, ni+1, err)
			}
			nodes[ni] = n
		}
		groups[gi] = nodes
	}

	undo := game.DefaultUndoBudget
	if doc.UndoCount != nil {
		undo = *doc.UndoCount
	}
	mode := decodeMode(doc.GameMode, doc.Mode)
	capacity := decodeCapacity(doc.GroupCapacity, doc.Rows)

	return game.NewBoard(groups, undo, capacity, mode)
}

// LoadBoard reads a puzzle file from disk.
func LoadBoard(path string) (*game.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromJSON(data)
}

func decodeNode(jn jsonNode) (game.Node, error) {
	kind, err := game.ParseNodeKind(jn.NodeType)
	if err != nil {
		return game.Node{}, err
	}
	origin := game.Origin{Col: jn.OriginalPos[0], Row: jn.OriginalPos[1]}
	if kind != game.KindKnown {
		return game.Node{Kind: kind, Origin: origin}, nil
	}
	if jn.Color == "" {
		return game.Node{}, fmt.Errorf("known node missing color")
	}
	c, err := game.ParseColor(jn.Color)
	if err != nil {
		return game.Node{}, err
	}
	return game.KnownNode(c, origin), nil
}

// decodeMode accepts an enum name, a numeric string, or a number, under
// either key; anything unrecognized falls back to Normal.
func decodeMode(values ...any) game.Mode {
	for _, v := range values {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			if m, err := game.ModeFromName(t); err == nil {
				return m
			}
			if n, err := strconv.Atoi(t); err == nil {
				if m, err := game.ParseMode(n); err == nil {
					return m
				}
			}
			log.Warn().Str("mode", t).Msg("unrecognized game mode, using NORMAL")
			return game.ModeNormal
		case float64:
			if m, err := game.ParseMode(int(t)); err == nil {
				return m
			}
			log.Warn().Float64("mode", t).Msg("unrecognized game mode, using NORMAL")
			return game.ModeNormal
		}
	}
	return game.ModeNormal
}

// decodeCapacity accepts a number or numeric string under either key;
// zero means "infer from tube lengths".
func decodeCapacity(values ...any) int {
	for _, v := range values {
		switch t := v.(type) {
		case nil:
			continue
		case float64:
			return int(t)
		case string:
			if n, err := strconv.Atoi(t); err == nil {
				return n
			}
		}
	}
	return 0
}

// ToJSON encodes a board back into the puzzle document, including the
// compatibility fields some generators expect.
func ToJSON(b *game.Board) ([]byte, error) {
	groups := make([][]jsonNode, b.NumTubes())
	colors := map[game.Color]struct{}{}
	for i := range groups {
		t := b.Tube(i)
		nodes := make([]jsonNode, len(t))
		for j, n := range t {
			jn := jsonNode{
				NodeType:    n.Kind.String(),
				OriginalPos: [2]int{n.Origin.Col, n.Origin.Row},
			}
			if n.Kind == game.KindKnown {
				jn.Color = n.Color.Hex()
				colors[n.Color] = struct{}{}
			}
			nodes[j] = jn
		}
		groups[i] = nodes
	}

	undo := b.UndoBudget()
	doc := jsonPuzzle{
		Groups:        groups,
		UndoCount:     &undo,
		GameMode:      b.Mode().String(),
		Mode:          int(b.Mode()),
		GroupCapacity: b.Capacity(),
		Rows:          b.Capacity(),
		Cols:          b.NumTubes(),
		Colors:        len(colors),
	}
	return json.MarshalIndent(doc, "", "  ")
}
