package engine

import (
	"testing"

	"chessengine/position"
)

func TestEvaluateStartPositionIsRoughlySymmetric(t *testing.T) {
	pos := position.NewStartPosition()
	score := Evaluate(pos)
	if score < -30 || score > 30 {
		t.Fatalf("expected the start position to evaluate near zero, got %d", score)
	}
}

func TestEvaluateExtraQueenFavorsThatSide(t *testing.T) {
	// Black (uppercase, per the inverted mailbox convention) has an extra
	// queen on an otherwise bare board; white to move should see a large
	// negative score.
	pos, err := position.ParseFEN("4k3/8/8/8/8/8/3Q4/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	score := Evaluate(pos)
	if score > -700 {
		t.Fatalf("expected a large negative score for white facing black's extra queen, got %d", score)
	}
}

func TestEvaluateInsufficientMaterialIsNearDraw(t *testing.T) {
	pos, err := position.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	score := Evaluate(pos)
	if score < -5 || score > 5 {
		t.Fatalf("expected a bare king vs king score near zero, got %d", score)
	}
}

func TestPhaseIsZeroAtStartAndOneWithNoMaterial(t *testing.T) {
	start := position.NewStartPosition()
	if p := Phase(start); p > 0.05 {
		t.Fatalf("expected near-zero phase (midgame) at the start position, got %f", p)
	}

	bare, err := position.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}
	if p := Phase(bare); p < 0.95 {
		t.Fatalf("expected phase near one (endgame) with no material left, got %f", p)
	}
}
