package engine

import (
	"testing"

	"chessengine/position"
)

func TestTTStoreProbeRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1024)
	key := uint64(0xDEADBEEF)
	m := position.Move{From: position.Square(12), To: position.Square(28)}
	tt.Store(key, m, 150, 6, TTExact, 0)

	entry, ok := tt.Probe(key, 0)
	if !ok {
		t.Fatalf("expected probe hit")
	}
	if entry.Best != m {
		t.Fatalf("expected best move %v, got %v", m, entry.Best)
	}
	if entry.Score != 150 {
		t.Fatalf("expected score 150, got %d", entry.Score)
	}
}

func TestTTProbeMissOnDifferentKey(t *testing.T) {
	tt := NewTranspositionTable(1024)
	tt.Store(1, position.Move{}, 10, 4, TTExact, 0)
	if _, ok := tt.Probe(2, 0); ok {
		t.Fatalf("expected probe miss for a key never stored")
	}
}

func TestTTReplacementKeepsDeeperEntry(t *testing.T) {
	tt := NewTranspositionTable(1024)
	key := uint64(42)
	tt.Store(key, position.Move{From: position.Square(8)}, 10, 8, TTLowerBound, 0)
	tt.Store(key, position.Move{From: position.Square(9)}, 20, 2, TTLowerBound, 0)

	entry, ok := tt.Probe(key, 0)
	if !ok {
		t.Fatalf("expected probe hit")
	}
	if entry.Best.From != position.Square(8) {
		t.Fatalf("shallower store should not replace a deeper one, got best from %v", entry.Best.From)
	}
}

func TestTTReplacementAllowsExactOverDeeper(t *testing.T) {
	tt := NewTranspositionTable(1024)
	key := uint64(42)
	tt.Store(key, position.Move{From: position.Square(8)}, 10, 8, TTLowerBound, 0)
	tt.Store(key, position.Move{From: position.Square(9)}, 20, 2, TTExact, 0)

	entry, ok := tt.Probe(key, 0)
	if !ok {
		t.Fatalf("expected probe hit")
	}
	if entry.Best.From != position.Square(9) {
		t.Fatalf("an exact entry should replace a deeper bound regardless of depth")
	}
}

func TestTTClearWipesEntries(t *testing.T) {
	tt := NewTranspositionTable(1024)
	tt.Store(7, position.Move{}, 5, 3, TTExact, 0)
	tt.Clear()
	if _, ok := tt.Probe(7, 0); ok {
		t.Fatalf("expected no entries after Clear")
	}
}

func TestAdjustMateScoreOnlyTouchesMateScores(t *testing.T) {
	if got := adjustMateScore(100, 5); got != 100 {
		t.Fatalf("non-mate score should be unaffected, got %d", got)
	}
	mate := int16(mateScoreThreshold + 10)
	if got := adjustMateScore(mate, 3); got != mate+3 {
		t.Fatalf("expected mate score adjusted by +3, got %d", got)
	}
}
