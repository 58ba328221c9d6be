package engine

import "chessengine/position"

// staticExchangeEval estimates the material outcome of a capture sequence
// on the destination square, used to separate "good" from "bad" captures
// in move ordering and to prune clearly-losing captures in quiescence
// search (spec §4.8 allows SEE-based capture pruning as an
// implementation choice).
func staticExchangeEval(pos *position.Position, m position.Move) int32 {
	to := m.To
	occ := pos.AllOccupied()
	attacker := pos.PieceAt(m.From)
	victim := pos.PieceAt(to)
	victimValue := pieceValue[victim.Type()]

	occ = occ.Clear(m.From)
	side := attacker.Color().Other()

	gains := []int32{victimValue}
	capturedValue := pieceValue[attacker.Type()]

	for {
		attackerSq, attackerPiece, found := leastValuableAttacker(pos, to, side, occ)
		if !found {
			break
		}
		gains = append(gains, capturedValue)
		capturedValue = pieceValue[attackerPiece.Type()]
		occ = occ.Clear(attackerSq)
		side = side.Other()
	}

	// Negamax fold: each side only continues the capture sequence if doing
	// so nets more than stopping would.
	score := gains[len(gains)-1]
	for i := len(gains) - 2; i >= 0; i-- {
		score = gains[i] - max32(0, score)
	}
	return score
}

func leastValuableAttacker(pos *position.Position, sq position.Square, side position.Color, occ position.Bitboard) (position.Square, position.Piece, bool) {
	attackers := pos.AttackersToWithOcc(sq, side, occ) & occ
	if attackers == 0 {
		return 0, position.NoPiece, false
	}
	best := position.Square(-1)
	bestValue := int32(1 << 30)
	for bb := attackers; bb != 0; {
		var s position.Square
		s, bb = bb.PopLSB()
		p := pos.PieceAt(s)
		v := pieceValue[p.Type()]
		if v < bestValue {
			bestValue = v
			best = s
		}
	}
	if best < 0 {
		return 0, position.NoPiece, false
	}
	return best, pos.PieceAt(best), true
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
