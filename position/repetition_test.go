package position

import "testing"

// TestThreefoldRepetitionByKnightShuffle drives the position through a
// repeating knight-shuffle sequence (Ng1-f3-g1 for both sides) and checks
// that the third occurrence of the starting position is detected, per
// spec §8's repetition test scenario.
func TestThreefoldRepetitionByKnightShuffle(t *testing.T) {
	pos := NewStartPosition()
	if pos.IsThreefoldRepetition() {
		t.Fatal("start position should not already be a repetition")
	}

	play := func(from, to Square) {
		ok, _ := pos.MakeMove(Move{From: from, To: to})
		if !ok {
			t.Fatalf("expected move %v->%v to be legal", from, to)
		}
	}

	// White knight out to f3 and back, Black mirrors with its own knight.
	// SqG1 -> SqF3 -> SqG1 is a legal repeating shuffle under any square
	// numbering, since it only depends on knight geometry.
	g1f3 := findKnightHop(pos, SqG1)
	play(SqG1, g1f3)
	g8f6 := findKnightHop(pos, SqG8)
	play(SqG8, g8f6)
	play(g1f3, SqG1)
	play(g8f6, SqG8)
	if pos.IsThreefoldRepetition() {
		t.Fatal("position has only repeated twice so far (occurrences: start, here)")
	}

	play(SqG1, g1f3)
	play(SqG8, g8f6)
	play(g1f3, SqG1)
	play(g8f6, SqG8)
	if !pos.IsThreefoldRepetition() {
		t.Fatal("expected threefold repetition after the second full shuffle cycle")
	}
}

func findKnightHop(pos *Position, from Square) Square {
	for _, m := range pos.GenerateLegalMoves() {
		if m.From == from {
			return m.To
		}
	}
	panic("no legal knight move found")
}

func TestFiftyMoveDrawByHalfmoveClock(t *testing.T) {
	pos, err := ParseFEN("7K/8/8/8/8/8/8/7k w - - 99 60")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if pos.IsFiftyMoveDraw() {
		t.Fatal("halfmove clock 99 should not yet be a draw")
	}
	ok, _ := pos.MakeMove(Move{From: SqH1, To: SqG1})
	if !ok {
		t.Fatal("expected king move to be legal")
	}
	if !pos.IsFiftyMoveDraw() {
		t.Fatal("halfmove clock should have reached 100 after a non-pawn, non-capture move")
	}
}
