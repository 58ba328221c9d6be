package position

import "testing"

// TestNoLegalMoveLeavesOwnKingInCheck walks a few plies deep from the start
// position and checks the invariant spec §8 requires: after making any
// generated move, the side that just moved must not be in check.
func TestNoLegalMoveLeavesOwnKingInCheck(t *testing.T) {
	var walk func(pos *Position, depth int)
	walk = func(pos *Position, depth int) {
		if depth == 0 {
			return
		}
		for _, m := range pos.GenerateLegalMoves() {
			mover := pos.SideToMove()
			ok, u := pos.MakeMove(m)
			if !ok {
				t.Fatalf("move %s returned by GenerateLegalMoves was rejected by MakeMove", m)
			}
			if pos.InCheck(mover) {
				t.Fatalf("move %s left %v's own king in check", m, mover)
			}
			walk(pos, depth-1)
			pos.UnmakeMove(u)
		}
	}
	walk(NewStartPosition(), 3)
}

func TestCastlingMovesGenerated(t *testing.T) {
	pos, err := ParseFEN("R3K2R/8/8/8/8/8/8/r3k2r w KQkq - 0 1")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var sawKingside, sawQueenside bool
	for _, m := range pos.GenerateLegalMoves() {
		if m.From == SqE1 && m.To == SqG1 {
			sawKingside = true
		}
		if m.From == SqE1 && m.To == SqC1 {
			sawQueenside = true
		}
	}
	if !sawKingside || !sawQueenside {
		t.Fatalf("expected both white castling moves, got kingside=%v queenside=%v", sawKingside, sawQueenside)
	}
}

func TestCastlingBlockedThroughCheck(t *testing.T) {
	// Black rook on the g-file covers g1, which the king must pass through
	// on the kingside castle.
	pos, err := ParseFEN("6RK/8/8/8/8/8/8/r3k2r w KQ - 0 1")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	for _, m := range pos.GenerateLegalMoves() {
		if m.From == SqE1 && m.To == SqG1 {
			t.Fatal("castling through an attacked square should not be generated")
		}
	}
}
