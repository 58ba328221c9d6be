package position

import "testing"

func TestStartPositionFENRoundTrip(t *testing.T) {
	pos := NewStartPosition()
	if err := pos.Validate(); err != nil {
		t.Fatalf("start position invalid: %v", err)
	}
	got := pos.ToFEN()
	if got != StartFEN {
		t.Fatalf("round trip mismatch:\n got: %s\nwant: %s", got, StartFEN)
	}
}

func TestParseFENRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"not a fen at all",
		"RNBQKBNR/PPPPPPPP/8/8/8/8/pppppppp w KQkq - 0 1", // missing a rank
		"RNBQKBNR/PPPPPPPP/8/8/8/8/pppppppp/rnbqkbnr x KQkq - 0 1",
	}
	for _, fen := range cases {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("expected error for FEN %q, got nil", fen)
		}
	}
}

func TestEnPassantRoundTrip(t *testing.T) {
	pos := NewStartPosition()
	moves := pos.GenerateLegalMoves()
	var pushMove Move
	found := false
	for _, m := range moves {
		if pos.PieceAt(m.From).Type() == Pawn && abs8(int(m.To)-int(m.From)) == 16 {
			pushMove = m
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected a double pawn push from the start position")
	}
	ok, _ := pos.MakeMove(pushMove)
	if !ok {
		t.Fatal("double pawn push rejected as illegal")
	}
	if pos.EnPassantSquare() == NoSquare {
		t.Fatal("expected en passant square to be set after double push")
	}
	fen := pos.ToFEN()
	reparsed, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("reparsing own FEN failed: %v", err)
	}
	if reparsed.EnPassantSquare() != pos.EnPassantSquare() {
		t.Fatalf("en passant square lost across FEN round trip")
	}
}
