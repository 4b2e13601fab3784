// Package signature produces canonical board keys for search
// deduplication. The key ignores tube order (tubes are interchangeable
// containers) but preserves node order within each tube, since that
// determines what remains reachable.
package signature

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash"

	"github.com/cesium62/tubesort/game"
)

// Key is the canonical form of a board: each tube encoded bottom-to-top,
// the encodings sorted as a set and concatenated. Keys are exact; two
// boards share a Key iff they are the same position up to tube order.
// The undo budget is deliberately not part of the key — the search
// compares budgets separately when it revisits a position.
type Key string

// For computes the canonical key of a board.
//
// Each node contributes its kind, plus its color when Known, plus its
// origin when hidden: two hidden pieces at different origins are not
// interchangeable once one has been uncovered somewhere in the history.
func For(b *game.Board) Key {
	tubes := make([][]byte, b.NumTubes())
	for i := range tubes {
		tubes[i] = encodeTube(b.Tube(i))
	}
	sort.Slice(tubes, func(i, j int) bool {
		return bytes.Compare(tubes[i], tubes[j]) < 0
	})
	var buf bytes.Buffer
	for _, enc := range tubes {
		buf.Write(enc)
	}
	return Key(buf.String())
}

func encodeTube(t game.Tube) []byte {
	// Length-prefixed, fixed payload per kind, so concatenated tubes
	// cannot alias each other.
	enc := make([]byte, 0, 1+len(t)*5)
	enc = append(enc, byte(len(t)))
	for _, n := range t {
		enc = append(enc, byte(n.Kind))
		switch n.Kind {
		case game.KindKnown:
			enc = append(enc, n.Color.R, n.Color.G, n.Color.B, 0)
		case game.KindUnknown, game.KindUnknownRevealed:
			enc = binary.BigEndian.AppendUint16(enc, uint16(n.Origin.Col))
			enc = binary.BigEndian.AppendUint16(enc, uint16(n.Origin.Row))
		}
	}
	return enc
}

// Hash64 is a compact digest of the key, for logging and display. Dedup
// maps use the exact Key itself.
func (k Key) Hash64() uint64 {
	return xxhash.Sum64String(string(k))
}
