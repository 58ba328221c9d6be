package engine

import (
	"encoding/binary"
	"io"
	"log"
	"math/rand"
	"os"

	"chessengine/position"
)

// BookMove is one weighted candidate move for a book position.
type BookMove struct {
	Move   position.Move
	Weight uint32
}

// OpeningBook is a precomputed, read-only map from Zobrist key to weighted
// candidate moves, loaded from the binary format resolved from the
// original book writer: repeated records of a little-endian u64 key and
// u16 move count, followed by that many u16 from / u16 to / u16 promotion /
// u32 weight tuples.
type OpeningBook struct {
	entries map[uint64][]BookMove
	rng     *rand.Rand
}

// LoadOpeningBook reads a book file. A missing or malformed file is not
// fatal (spec §7): a missing file gives an empty book, a malformed one
// keeps the entries read before the fault; either case is logged once.
func LoadOpeningBook(path string) *OpeningBook {
	book := &OpeningBook{
		entries: make(map[uint64][]BookMove),
		rng:     rand.New(rand.NewSource(1)),
	}
	f, err := os.Open(path)
	if err != nil {
		log.Printf("engine: opening book %q unavailable (%v), continuing without one", path, err)
		return book
	}
	defer f.Close()

	if err := book.readAll(f); err != nil && err != io.EOF {
		log.Printf("engine: opening book %q truncated or malformed (%v), using entries read so far", path, err)
	}
	return book
}

func (b *OpeningBook) readAll(r io.Reader) error {
	for {
		var key uint64
		if err := binary.Read(r, binary.LittleEndian, &key); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		var count uint16
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return err
		}
		moves := make([]BookMove, 0, count)
		for i := uint16(0); i < count; i++ {
			var from, to, promo uint16
			var weight uint32
			if err := binary.Read(r, binary.LittleEndian, &from); err != nil {
				return err
			}
			if err := binary.Read(r, binary.LittleEndian, &to); err != nil {
				return err
			}
			if err := binary.Read(r, binary.LittleEndian, &promo); err != nil {
				return err
			}
			if err := binary.Read(r, binary.LittleEndian, &weight); err != nil {
				return err
			}
			moves = append(moves, BookMove{
				Move: position.Move{
					From:      position.Square(from),
					To:        position.Square(to),
					Promotion: position.PieceType(promo),
				},
				Weight: weight,
			})
		}
		b.entries[key] = moves
	}
}

// Probe performs a weighted-random draw among the candidate moves stored
// for the given Zobrist key, matching the original book's probe algorithm:
// accumulate total weight, draw a uniform integer in [1, total], and walk
// the list until the running sum covers the draw.
func (b *OpeningBook) Probe(key uint64) (position.Move, bool) {
	moves, ok := b.entries[key]
	if !ok || len(moves) == 0 {
		return position.NullMove, false
	}
	var total uint32
	for _, m := range moves {
		total += m.Weight
	}
	if total == 0 {
		return moves[0].Move, true
	}
	r := uint32(b.rng.Int63n(int64(total))) + 1
	var acc uint32
	for _, m := range moves {
		acc += m.Weight
		if r <= acc {
			return m.Move, true
		}
	}
	return moves[len(moves)-1].Move, true
}

// Size reports how many distinct positions the book covers, for diagnostics.
func (b *OpeningBook) Size() int { return len(b.entries) }
