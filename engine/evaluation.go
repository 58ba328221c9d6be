package engine

import "chessengine/position"

// Evaluation is a pure, deterministic static evaluator: no search, no
// make/undo, just a function of the current position. Scores are
// accumulated from White's perspective internally and Evaluate negates the
// total when Black is to move, so callers receive a side-to-move score.
//
// Scoped to exactly the terms spec §4.6 lists; the teacher's much larger
// tuned evaluation (pawn-hash cache, space terms, king tropism, material
// imbalance tables, ...) is not ported — see DESIGN.md.

// Piece values used both for material scoring and the phase formula.
var pieceValue = [7]int32{0, 100, 320, 330, 500, 900, 0}

const totalStartMaterial = 2*(100*8+320*2+330*2+500*2+900*1) // both sides' non-king material at the start

var pawnPSQT = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPSQT = [64]int32{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPSQT = [64]int32{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var kingMidgamePSQT = [64]int32{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePSQT = [64]int32{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// psqtIndex mirrors a PSQT lookup for the reversed file mapping and,
// additionally, for Black (whose natural orientation is rank-flipped
// relative to White's tables above).
func psqtIndex(sq position.Square, c position.Color) int {
	rank := sq.Rank()
	file := sq.File()
	if c == position.Black {
		rank = 7 - rank
	}
	// PSQT tables above are written a-file-first per row; the board's
	// reversed file mapping means file 0 here is the h-file, so mirror it.
	file = 7 - file
	return rank*8 + file
}

// Phase returns a fraction in [0,1]: 0 at the start of the game (full
// material on board), approaching 1 as material is traded off, per spec
// §4.6's phase formula (totalStart - current) / totalStart.
func Phase(pos *position.Position) float64 {
	current := materialSum(pos)
	if current >= totalStartMaterial {
		return 0
	}
	return float64(totalStartMaterial-current) / float64(totalStartMaterial)
}

func materialSum(pos *position.Position) int32 {
	var sum int32
	for c := position.White; c <= position.Black; c++ {
		for pt := position.Pawn; pt <= position.Queen; pt++ {
			sum += int32(pos.PieceBB(c, pt).Count()) * pieceValue[pt]
		}
	}
	return sum
}

// Evaluate computes the static score of the position from the perspective
// of the side to move.
func Evaluate(pos *position.Position) int32 {
	if isInsufficientMaterial(pos) {
		// A tiny nonzero nudge (rather than a hard zero) keeps search from
		// treating every insufficient-material position as a perfectly
		// flat draw, which otherwise flattens move ordering near the end
		// of drawn-out endgames.
		return materialSignNudge(pos)
	}

	phase := Phase(pos)
	var mg, eg int32

	for c := position.White; c <= position.Black; c++ {
		sign := int32(1)
		if c == position.Black {
			sign = -1
		}
		mg += sign * materialAndPSQT(pos, c, kingMidgamePSQT)
		eg += sign * materialAndPSQT(pos, c, kingEndgamePSQT)
	}

	score := int32(float64(mg)*(1-phase) + float64(eg)*phase)

	score += bishopBonus(pos, position.White) - bishopBonus(pos, position.Black)

	if phase <= 0.6 {
		score += kingSafety(pos, position.White, phase) - kingSafety(pos, position.Black, phase)
	}
	score += kingMobilityProxy(pos, position.White) - kingMobilityProxy(pos, position.Black)

	if phase > 0.6 {
		score += noPawnsLatePenalty(pos, position.White) - noPawnsLatePenalty(pos, position.Black)
	}

	score += pawnStructure(pos, position.White) - pawnStructure(pos, position.Black)
	score += mobility(pos, position.White) - mobility(pos, position.Black)

	if phase > 0.6 && abs32(score) > 400 {
		score = int32(float64(score) * (1 + phase/2.5))
		score += endgameKingDistanceBonus(pos, score)
	}

	if pos.SideToMove() == position.Black {
		return -score
	}
	return score
}

func materialAndPSQT(pos *position.Position, c position.Color, kingPSQT [64]int32) int32 {
	var score int32
	add := func(pt position.PieceType, table *[64]int32) {
		bb := pos.PieceBB(c, pt)
		for bb != 0 {
			var sq position.Square
			sq, bb = bb.PopLSB()
			score += pieceValue[pt]
			if table != nil {
				score += table[psqtIndex(sq, c)]
			}
		}
	}
	add(position.Pawn, &pawnPSQT)
	add(position.Knight, &knightPSQT)
	add(position.Bishop, &bishopPSQT)
	add(position.Rook, nil)
	add(position.Queen, nil)
	kbb := pos.PieceBB(c, position.King)
	if kbb != 0 {
		sq, _ := kbb.PopLSB()
		score += kingPSQT[psqtIndex(sq, c)]
	}
	return score
}

// bishopBonus rewards the bishop pair and grows slightly as pawns leave
// the board (bishops get stronger in open positions).
func bishopBonus(pos *position.Position, c position.Color) int32 {
	bishops := pos.PieceBB(c, position.Bishop).Count()
	if bishops == 0 {
		return 0
	}
	var bonus int32
	if bishops >= 2 {
		bonus += 50
	}
	pawns := pos.PieceBB(c, position.Pawn).Count()
	bonus += int32(8-pawns) * 2
	return bonus
}

// kingSafety applies a pawn-shield check minus a pawn-storm penalty; the
// caller applies it only while the phase is still closer to the middlegame
// (<=0.6), per spec §4.6.
func kingSafety(pos *position.Position, c position.Color, phase float64) int32 {
	kbb := pos.PieceBB(c, position.King)
	if kbb == 0 {
		return 0
	}
	kingSq, _ := kbb.PopLSB()
	shieldSquares := kingShieldSquares(kingSq, c)
	shieldCount := 0
	for _, sq := range shieldSquares {
		if sq == position.NoSquare {
			continue
		}
		if pos.PieceAt(sq).Type() == position.Pawn && pos.PieceAt(sq).Color() == c {
			shieldCount++
		}
	}
	score := int32(shieldCount-len(shieldSquares)) * 10
	score += pawnStorm(pos, c, kingSq)
	return score
}

func kingShieldSquares(kingSq position.Square, c position.Color) []position.Square {
	f, r := kingSq.File(), kingSq.Rank()
	dr := 1
	if c == position.Black {
		dr = -1
	}
	var squares []position.Square
	for df := -1; df <= 1; df++ {
		nf, nr := f+df, r+dr
		if nf < 0 || nf > 7 || nr < 0 || nr > 7 {
			squares = append(squares, position.NoSquare)
			continue
		}
		squares = append(squares, position.SquareFromFileRank(nf, nr))
	}
	return squares
}

// pawnStorm penalizes c by the advancement of each enemy pawn on or next
// to the file of c's king, as a rough proxy for a pawn storm against it.
func pawnStorm(pos *position.Position, c position.Color, kingSq position.Square) int32 {
	opp := c.Other()
	f := kingSq.File()
	var penalty int32
	opPawns := pos.PieceBB(opp, position.Pawn)
	for opPawns != 0 {
		var sq position.Square
		sq, opPawns = opPawns.PopLSB()
		if abs(sq.File()-f) > 1 {
			continue
		}
		advancement := sq.Rank()
		if opp == position.Black {
			advancement = 7 - advancement
		}
		penalty -= int32(advancement)
	}
	return penalty
}

// kingMobilityProxy approximates king danger by counting squares a queen
// placed on the king's square could reach, as a cheap stand-in for real
// king-zone attack counting.
func kingMobilityProxy(pos *position.Position, c position.Color) int32 {
	kbb := pos.PieceBB(c, position.King)
	if kbb == 0 {
		return 0
	}
	sq, _ := kbb.PopLSB()
	count := queenReachCount(pos, sq)
	return -int32(count)
}

func noPawnsLatePenalty(pos *position.Position, c position.Color) int32 {
	if pos.PieceBB(c, position.Pawn) == 0 {
		return -30
	}
	return 0
}

func pawnStructure(pos *position.Position, c position.Color) int32 {
	pawns := pos.PieceBB(c, position.Pawn)
	var score int32
	var fileCounts [8]int
	bb := pawns
	for bb != 0 {
		var sq position.Square
		sq, bb = bb.PopLSB()
		fileCounts[sq.File()]++
	}
	for _, n := range fileCounts {
		if n > 1 {
			score -= int32(n-1) * 15 // doubled pawns
		}
	}

	opPawns := pos.PieceBB(c.Other(), position.Pawn)
	bb = pawns
	for bb != 0 {
		var sq position.Square
		sq, bb = bb.PopLSB()
		if isPassedPawn(sq, c, opPawns) {
			rank := sq.Rank()
			if c == position.Black {
				rank = 7 - rank
			}
			score += int32(rank) * 10 // passed-pawn bonus scales with rank
		}
		if isDefendedPawn(pos, sq, c) {
			score += 5
		}
	}
	return score
}

func isPassedPawn(sq position.Square, c position.Color, oppPawns position.Bitboard) bool {
	f := sq.File()
	rank := sq.Rank()
	bb := oppPawns
	for bb != 0 {
		var osq position.Square
		osq, bb = bb.PopLSB()
		if abs(osq.File()-f) > 1 {
			continue
		}
		if c == position.White && osq.Rank() > rank {
			return false
		}
		if c == position.Black && osq.Rank() < rank {
			return false
		}
	}
	return true
}

func isDefendedPawn(pos *position.Position, sq position.Square, c position.Color) bool {
	f, r := sq.File(), sq.Rank()
	dr := -1
	if c == position.Black {
		dr = 1
	}
	for _, df := range [2]int{-1, 1} {
		nf, nr := f+df, r+dr
		if nf < 0 || nf > 7 || nr < 0 || nr > 7 {
			continue
		}
		other := pos.PieceAt(position.SquareFromFileRank(nf, nr))
		if other.Type() == position.Pawn && other.Color() == c {
			return true
		}
	}
	return false
}

func mobility(pos *position.Position, c position.Color) int32 {
	var count int32
	occ := pos.AllOccupied()
	own := pos.Occupancy(c)
	add := func(bb position.Bitboard, reach func(sq position.Square) int) {
		for bb != 0 {
			var sq position.Square
			sq, bb = bb.PopLSB()
			count += int32(reach(sq))
		}
	}
	add(pos.PieceBB(c, position.Bishop), func(sq position.Square) int { return bishopReachCount(pos, sq, occ, own) })
	add(pos.PieceBB(c, position.Rook), func(sq position.Square) int { return rookReachCount(pos, sq, occ, own) })
	add(pos.PieceBB(c, position.Queen), func(sq position.Square) int { return queenReachCountOcc(pos, sq, occ, own) })
	return count * 2
}

func endgameKingDistanceBonus(pos *position.Position, score int32) int32 {
	wk := pos.PieceBB(position.White, position.King)
	bk := pos.PieceBB(position.Black, position.King)
	if wk == 0 || bk == 0 {
		return 0
	}
	wsq, _ := wk.PopLSB()
	bsq, _ := bk.PopLSB()
	dist := chebyshevDistance(wsq, bsq)
	// The winning side wants the defending king driven to the edge and
	// squeezed close; a smaller distance scores a small bonus in the
	// winning direction.
	bonus := int32(14-dist) * 4
	if score < 0 {
		return -bonus
	}
	return bonus
}

func chebyshevDistance(a, b position.Square) int {
	df := abs(a.File() - b.File())
	dr := abs(a.Rank() - b.Rank())
	if df > dr {
		return df
	}
	return dr
}

func isInsufficientMaterial(pos *position.Position) bool {
	for c := position.White; c <= position.Black; c++ {
		if pos.PieceBB(c, position.Pawn) != 0 || pos.PieceBB(c, position.Rook) != 0 || pos.PieceBB(c, position.Queen) != 0 {
			return false
		}
		minors := pos.PieceBB(c, position.Knight).Count() + pos.PieceBB(c, position.Bishop).Count()
		if minors > 1 {
			return false
		}
	}
	return true
}

func materialSignNudge(pos *position.Position) int32 {
	m := materialSum(pos)
	if pos.SideToMove() == position.Black {
		m = -m
	}
	if m > 0 {
		return 1
	}
	if m < 0 {
		return -1
	}
	return 0
}

func queenReachCount(pos *position.Position, sq position.Square) int {
	return position.QueenAttacks(sq, pos.AllOccupied()).Count()
}

func bishopReachCount(pos *position.Position, sq position.Square, occ, own position.Bitboard) int {
	return (position.BishopAttacks(sq, occ) &^ own).Count()
}

func rookReachCount(pos *position.Position, sq position.Square, occ, own position.Bitboard) int {
	return (position.RookAttacks(sq, occ) &^ own).Count()
}

func queenReachCountOcc(pos *position.Position, sq position.Square, occ, own position.Bitboard) int {
	return (position.QueenAttacks(sq, occ) &^ own).Count()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
