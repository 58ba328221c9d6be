// Package engine implements search, evaluation, the transposition table,
// the opening book reader, and the public Engine API on top of the
// position package.
package engine

import (
	"encoding/binary"
	"io"
	"log"
	"os"

	"chessengine/position"
)

// TTFlag records how a stored score relates to the true value of the
// position: an exact score, or a bound from a cutoff.
type TTFlag uint8

const (
	TTNone TTFlag = iota
	TTExact
	TTLowerBound
	TTUpperBound
	TTBook
)

// TTEntry is one transposition table slot, kept at or under 32 bytes as
// spec §3 requires.
type TTEntry struct {
	Key   uint64
	Best  position.Move
	Score int16
	Depth int8
	Flag  TTFlag
}

// TranspositionTable is a flat, power-of-two-sized array indexed by
// key & (len-1); spec §3/§4.5 mandate this indexing scheme and the
// replacement rule below, in place of the clustered/hash-modulo schemes
// some engines use.
type TranspositionTable struct {
	entries []TTEntry
	mask    uint64
}

// NewTranspositionTable builds a table with capacity rounded up to the
// next power of two (minimum 1024 entries).
func NewTranspositionTable(sizeHint int) *TranspositionTable {
	size := 1024
	for size < sizeHint {
		size <<= 1
	}
	return &TranspositionTable{
		entries: make([]TTEntry, size),
		mask:    uint64(size - 1),
	}
}

func (tt *TranspositionTable) index(key uint64) uint64 { return key & tt.mask }

// Probe looks up a key and, if present, returns the entry whatever its
// stored depth (callers compare Depth themselves), with its score
// converted from the stored node-relative mate distance back to a
// distance from the root at the given ply.
func (tt *TranspositionTable) Probe(key uint64, ply int) (TTEntry, bool) {
	e := tt.entries[tt.index(key)]
	if e.Flag == TTNone || e.Key != key {
		return TTEntry{}, false
	}
	e.Score = adjustMateScore(e.Score, -ply)
	return e, true
}

// Store writes an entry, applying the replacement policy spec §4.5
// specifies: replace iff the existing slot's key differs from ours, or
// our depth is greater, or our flag is exact. Scores are mate-distance
// adjusted to be ply-independent before storage.
func (tt *TranspositionTable) Store(key uint64, best position.Move, score int32, depth int, flag TTFlag, ply int) {
	idx := tt.index(key)
	existing := tt.entries[idx]
	adjusted := adjustMateScore(int16(score), ply)
	if existing.Flag != TTNone && existing.Key == key {
		if int(existing.Depth) >= depth && flag != TTExact {
			return
		}
	}
	tt.entries[idx] = TTEntry{Key: key, Best: best, Score: adjusted, Depth: int8(depth), Flag: flag}
}

// Clear wipes every slot; called by Engine.NewGame.
func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = TTEntry{}
	}
}

// Resize rebuilds the table at a new (power-of-two-rounded) size,
// discarding existing entries.
func (tt *TranspositionTable) Resize(sizeHint int) {
	size := 1024
	for size < sizeHint {
		size <<= 1
	}
	tt.entries = make([]TTEntry, size)
	tt.mask = uint64(size - 1)
}

// loadSeed pre-populates the table from a TT-dump file (spec §6's optional
// transposition-table dump): the format mirrors the opening book's per-key
// record, but one move per key, tagged TTBook so it is visibly distinct
// from search-produced entries. It always returns nil: a missing file, or
// one cut short at a record's key, is logged; a record cut short after its
// key ends loading without a log line. Entries read before the cut stay.
func (tt *TranspositionTable) loadSeed(path string) error {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("engine: TT seed file %q unavailable (%v), starting with an empty table", path, err)
		return nil
	}
	defer f.Close()

	for {
		var key uint64
		if err := binary.Read(f, binary.LittleEndian, &key); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Printf("engine: TT seed file %q truncated (%v), stopping early", path, err)
			return nil
		}
		var count uint16
		if err := binary.Read(f, binary.LittleEndian, &count); err != nil {
			return nil
		}
		for i := uint16(0); i < count; i++ {
			var from, to, promo uint16
			var weight uint32
			if err := binary.Read(f, binary.LittleEndian, &from); err != nil {
				return nil
			}
			if err := binary.Read(f, binary.LittleEndian, &to); err != nil {
				return nil
			}
			if err := binary.Read(f, binary.LittleEndian, &promo); err != nil {
				return nil
			}
			if err := binary.Read(f, binary.LittleEndian, &weight); err != nil {
				return nil
			}
			if i == 0 {
				move := position.Move{
					From:      position.Square(from),
					To:        position.Square(to),
					Promotion: position.PieceType(promo),
				}
				idx := tt.index(key)
				tt.entries[idx] = TTEntry{Key: key, Best: move, Score: int16(weight), Depth: 0, Flag: TTBook}
			}
		}
	}
}

// Mate scores are stored as distance from the storing node (Store passes
// +ply, moving the score away from the root-relative value) so that probing
// the same mating sequence at a different ply still yields a comparable
// bound; Probe passes -ply to turn it back into a distance from the root.
//
// Real mate scores returned by search are -checkmate+ply / checkmate-ply
// with ply in [1, maxPly], so the weakest one has magnitude
// checkmate-maxPly. The threshold must sit strictly below that or this
// check never fires and mate scores are never ply-adjusted.
const mateScoreThreshold = checkmate - maxPly - 1

func adjustMateScore(score int16, plyDelta int) int16 {
	s := int32(score)
	if s > mateScoreThreshold {
		s += int32(plyDelta)
	} else if s < -mateScoreThreshold {
		s -= int32(plyDelta)
	}
	return int16(s)
}
