package engine

import "chessengine/position"

// Move ordering stages, applied in this order when scoring a move list for
// search (spec §4.7.1): TT move first, then good captures/promotions by
// MVV-LVA, then up to two killer moves per ply, then quiet moves by
// history score, then bad captures last.
const (
	scoreTTMove    = 1_000_000
	scorePromotion = 800_000
	scoreGoodCap   = 700_000
	scoreKiller1   = 600_000
	scoreKiller2   = 599_000
	scoreBadCap    = -100_000
)

// mvvLva[victim][attacker] ranks captures by "most valuable victim, least
// valuable attacker"; indices follow position.PieceType (0 unused).
var mvvLva [7][7]int32

func init() {
	// A capture is scored primarily by the victim's value and secondarily
	// by preferring the cheapest attacker. This only ranks captures within
	// a band; whether a capture lands in the good or the bad band is
	// decided by SEE in ScoreMove.
	for victim := position.Pawn; victim <= position.King; victim++ {
		for attacker := position.Pawn; attacker <= position.King; attacker++ {
			mvvLva[victim][attacker] = int32(pieceValue[victim])*10 - int32(pieceValue[attacker])
		}
	}
}

const maxPly = 100

// OrderingState holds the killer and history tables, which persist across
// a game (cleared only by Engine.NewGame).
type OrderingState struct {
	killers [maxPly + 1][2]position.Move
	history [2][64][64]int32
}

// maxHistoryValue bounds history scores in both directions so quiet moves
// stay below the killer band and above the bad-capture band.
const maxHistoryValue = 1 << 16

// NewOrderingState returns a zeroed ordering state.
func NewOrderingState() *OrderingState { return &OrderingState{} }

// Clear resets killers and history, as Engine.NewGame requires.
func (o *OrderingState) Clear() {
	*o = OrderingState{}
}

// RecordKiller shifts a new killer into ply's two-slot table when a quiet
// move causes a beta cutoff.
func (o *OrderingState) RecordKiller(ply int, m position.Move) {
	if ply > maxPly {
		return
	}
	if o.killers[ply][0] == m {
		return
	}
	o.killers[ply][1] = o.killers[ply][0]
	o.killers[ply][0] = m
}

// UpdateHistory applies the bonus to the move that caused the cutoff and
// the malus (bonus/4) to every other quiet move tried before it at this
// node, per spec §4.7.1. Values are capped; the whole table is halved on
// overflow rather than clamped, so relative ordering is preserved.
func (o *OrderingState) UpdateHistory(side position.Color, depth int, cutoff position.Move, triedQuiets []position.Move) {
	bonus := int32(depth * depth)
	malus := bonus / 4
	h := &o.history[side]
	h[cutoff.From][cutoff.To] += bonus
	if h[cutoff.From][cutoff.To] > maxHistoryValue {
		o.ageHistory()
	}
	for _, m := range triedQuiets {
		if m == cutoff {
			continue
		}
		h[m.From][m.To] -= malus
		if h[m.From][m.To] < -maxHistoryValue {
			o.ageHistory()
		}
	}
}

func (o *OrderingState) ageHistory() {
	for c := 0; c < 2; c++ {
		for f := 0; f < 64; f++ {
			for t := 0; t < 64; t++ {
				o.history[c][f][t] /= 2
			}
		}
	}
}

func (o *OrderingState) historyScore(side position.Color, m position.Move) int32 {
	return o.history[side][m.From][m.To]
}

// ScoreMove assigns an ordering score to one move, given the TT move for
// this node (if any) and whose turn it is (for history lookup).
func (o *OrderingState) ScoreMove(pos *position.Position, m position.Move, ttMove position.Move, ply int, side position.Color) int32 {
	if m == ttMove {
		return scoreTTMove
	}
	if m.Promotion == position.Queen {
		return scorePromotion
	}
	if m.IsCapture {
		victim := pos.PieceAt(m.To)
		if victim == position.NoPiece {
			// En passant: the captured pawn's square differs from m.To.
			victim = position.PieceFromType(side.Other(), position.Pawn)
		}
		attacker := pos.PieceAt(m.From)
		s := mvvLva[victim.Type()][attacker.Type()]
		if staticExchangeEval(pos, m) < 0 {
			return scoreBadCap + s
		}
		return scoreGoodCap + s
	}
	if ply <= maxPly {
		if o.killers[ply][0] == m {
			return scoreKiller1
		}
		if o.killers[ply][1] == m {
			return scoreKiller2
		}
	}
	return o.historyScore(side, m)
}

// OrderMoves sorts moves in place by descending ordering score (a simple
// selection sort, since move lists are short and only the next
// best-scoring move is usually needed before a cutoff occurs anyway).
func (o *OrderingState) OrderMoves(pos *position.Position, moves []position.Move, ttMove position.Move, ply int, side position.Color) {
	scores := make([]int32, len(moves))
	for i, m := range moves {
		scores[i] = o.ScoreMove(pos, m, ttMove, ply, side)
	}
	for i := 0; i < len(moves); i++ {
		best := i
		for j := i + 1; j < len(moves); j++ {
			if scores[j] > scores[best] {
				best = j
			}
		}
		if best != i {
			moves[i], moves[best] = moves[best], moves[i]
			scores[i], scores[best] = scores[best], scores[i]
		}
	}
}
