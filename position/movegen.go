package position

// GenerateLegalMoves returns every legal move for the side to move. Pseudo
// legal moves are generated per piece type and then filtered using a
// check/pin computation done once per call (the checkers/check mask below
// and computePinLines), rather than
// generating a pseudo-legal move and testing it with a full make/undo —
// functionally equivalent (spec only requires that no returned move leaves
// the mover's own king in check) but avoids a make/undo cycle per
// candidate move.
func (pos *Position) GenerateLegalMoves() []Move {
	moves := make([]Move, 0, 48)
	us := pos.sideToMove
	them := us.Other()

	kingBB := pos.pieces[us][King]
	if kingBB == 0 {
		return moves
	}
	kingSq, _ := kingBB.PopLSB()

	checkers := pos.attackersTo(kingSq, them, pos.all)
	numCheckers := checkers.Count()

	var checkMask Bitboard
	switch numCheckers {
	case 0:
		checkMask = ^Bitboard(0)
	case 1:
		checkSq, _ := checkers.PopLSB()
		checkMask = squareMaskBetweenInclusive(kingSq, checkSq, pos)
	default:
		checkMask = 0
	}

	pinLine := pos.computePinLines(kingSq, us, them)

	pos.generateKingMoves(&moves, kingSq, us)
	if numCheckers >= 2 {
		return moves // double check: only king moves are legal
	}
	pos.generatePawnMoves(&moves, us, checkMask, pinLine, kingSq)
	pos.generateKnightMoves(&moves, us, checkMask, pinLine)
	pos.generateSliderMoves(&moves, us, Bishop, checkMask, pinLine)
	pos.generateSliderMoves(&moves, us, Rook, checkMask, pinLine)
	pos.generateSliderMoves(&moves, us, Queen, checkMask, pinLine)
	if numCheckers == 0 {
		pos.generateCastlingMoves(&moves, us)
	}
	return moves
}

// squareMaskBetweenInclusive returns the set of squares a non-king piece
// may move to in order to resolve a single check from checkSq: the
// checker's own square (capture it) plus, if the checker is a slider, the
// squares strictly between it and the king (block it).
func squareMaskBetweenInclusive(kingSq, checkSq Square, pos *Position) Bitboard {
	mask := Bitboard(0).Set(checkSq)
	checker := pos.mailbox[checkSq]
	pt := checker.Type()
	if pt != Bishop && pt != Rook && pt != Queen {
		return mask
	}
	df := sign(int(checkSq.File()) - int(kingSq.File()))
	dr := sign(int(checkSq.Rank()) - int(kingSq.Rank()))
	f, r := int(kingSq.File())+df, int(kingSq.Rank())+dr
	for f != int(checkSq.File()) || r != int(checkSq.Rank()) {
		mask = mask.Set(Square(r*8 + f))
		f += df
		r += dr
	}
	return mask
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

var allDirs = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// computePinLines walks all 8 directions from the king; a friendly piece
// that is the sole blocker before an enemy slider attacking along that
// direction is pinned, and may only move within the returned line
// (including the pinning piece's square).
func (pos *Position) computePinLines(kingSq Square, us, them Color) [64]Bitboard {
	var pinLine [64]Bitboard
	for i := range pinLine {
		pinLine[i] = ^Bitboard(0)
	}
	kf, kr := int(kingSq.File()), int(kingSq.Rank())
	for _, d := range allDirs {
		orthogonal := d[0] == 0 || d[1] == 0
		f, r := kf+d[0], kr+d[1]
		var line Bitboard
		var blocker Square = NoSquare
		for f >= 0 && f < 8 && r >= 0 && r < 8 {
			sq := Square(r*8 + f)
			line = line.Set(sq)
			p := pos.mailbox[sq]
			if p != NoPiece {
				if p.Color() == us {
					if blocker != NoSquare {
						break // two friendly blockers: no pin possible
					}
					blocker = sq
				} else {
					isSlider := p.Type() == Queen || (orthogonal && p.Type() == Rook) || (!orthogonal && p.Type() == Bishop)
					if blocker != NoSquare && isSlider {
						pinLine[blocker] = line
					}
					break
				}
			}
			f += d[0]
			r += d[1]
		}
	}
	return pinLine
}

func (pos *Position) generateKingMoves(moves *[]Move, kingSq Square, us Color) {
	occNoKing := pos.all.Clear(kingSq)
	targets := kingAttacks[kingSq] &^ pos.occ[us].All
	for targets != 0 {
		var to Square
		to, targets = targets.PopLSB()
		if pos.attackersTo(to, us.Other(), occNoKing) != 0 {
			continue
		}
		*moves = append(*moves, Move{From: kingSq, To: to, IsCapture: pos.mailbox[to] != NoPiece})
	}
}

func (pos *Position) generateKnightMoves(moves *[]Move, us Color, checkMask Bitboard, pinLine [64]Bitboard) {
	knights := pos.pieces[us][Knight]
	for knights != 0 {
		var from Square
		from, knights = knights.PopLSB()
		targets := knightAttacks[from] &^ pos.occ[us].All & checkMask & pinLine[from]
		for targets != 0 {
			var to Square
			to, targets = targets.PopLSB()
			*moves = append(*moves, Move{From: from, To: to, IsCapture: pos.mailbox[to] != NoPiece})
		}
	}
}

func (pos *Position) generateSliderMoves(moves *[]Move, us Color, pt PieceType, checkMask Bitboard, pinLine [64]Bitboard) {
	pieces := pos.pieces[us][pt]
	for pieces != 0 {
		var from Square
		from, pieces = pieces.PopLSB()
		var attacks Bitboard
		switch pt {
		case Bishop:
			attacks = bishopAttacksFrom(from, pos.all)
		case Rook:
			attacks = rookAttacksFrom(from, pos.all)
		case Queen:
			attacks = queenAttacksFrom(from, pos.all)
		}
		targets := attacks &^ pos.occ[us].All & checkMask & pinLine[from]
		for targets != 0 {
			var to Square
			to, targets = targets.PopLSB()
			*moves = append(*moves, Move{From: from, To: to, IsCapture: pos.mailbox[to] != NoPiece})
		}
	}
}

var promoPieces = [4]PieceType{Queen, Rook, Bishop, Knight}

func (pos *Position) generatePawnMoves(moves *[]Move, us Color, checkMask Bitboard, pinLine [64]Bitboard, kingSq Square) {
	pawns := pos.pieces[us][Pawn]
	forward, startRank, promoRank := 1, 1, 7
	if us == Black {
		forward, startRank, promoRank = -1, 6, 0
	}
	for pawns != 0 {
		var from Square
		from, pawns = pawns.PopLSB()
		f, r := from.File(), from.Rank()

		addPawnMove := func(to Square, capture bool) {
			if !checkMask.Has(to) || !pinLine[from].Has(to) {
				return
			}
			if to.Rank() == promoRank {
				for _, pt := range promoPieces {
					*moves = append(*moves, Move{From: from, To: to, Promotion: pt, IsCapture: capture})
				}
				return
			}
			*moves = append(*moves, Move{From: from, To: to, IsCapture: capture})
		}

		oneStep := Square(r*8 + f + forward*8)
		if !pos.all.Has(oneStep) {
			addPawnMove(oneStep, false)
			if r == startRank {
				twoStep := Square(r*8 + f + forward*16)
				if !pos.all.Has(twoStep) {
					addPawnMove(twoStep, false)
				}
			}
		}
		for _, df := range [2]int{1, -1} {
			nf := f + df
			if nf < 0 || nf > 7 {
				continue
			}
			to := Square((r+forward)*8 + nf)
			if pos.occ[us.Other()].All.Has(to) {
				addPawnMove(to, true)
			} else if pos.epSquare != NoSquare && to == pos.epSquare {
				capturedSq := Square(int(from.Rank())*8 + int(to.File()))
				if (checkMask.Has(capturedSq) || checkMask.Has(to)) && pinLine[from].Has(to) && pos.enPassantIsLegal(from, to, kingSq, us) {
					*moves = append(*moves, Move{From: from, To: to, IsCapture: true})
				}
			}
		}
	}
}

// enPassantIsLegal handles the rare case where capturing en passant would
// expose the king to a rank attack (both the moving pawn and the captured
// pawn leave the same rank simultaneously). Simulated directly on
// occupancy rather than via the pin tables, since it is a two-pawn
// exception to the normal single-piece pin rule.
func (pos *Position) enPassantIsLegal(from, to, kingSq Square, us Color) bool {
	capturedSq := Square(int(from.Rank())*8 + int(to.File()))
	occ := pos.all
	occ = occ.Clear(from).Clear(capturedSq).Set(to)
	return pos.attackersTo(kingSq, us.Other(), occ)&occ == 0
}

// castlingSpec derives the move squares/mask for one castling side under
// the reversed file mapping: king_from/king_to, rook_from/rook_to, and the
// set of squares that must be empty and the set of squares (including the
// king's start and destination) that must not be attacked.
type castlingSpec struct {
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	emptyMask        Bitboard
	kingPath         []Square
}

func castlingSpecFor(c Color, kingside bool) castlingSpec {
	if c == White {
		if kingside {
			return castlingSpec{SqE1, SqG1, SqH1, SqF1, Bitboard(0).Set(SqF1).Set(SqG1), []Square{SqE1, SqF1, SqG1}}
		}
		return castlingSpec{SqE1, SqC1, SqA1, SqD1, Bitboard(0).Set(SqD1).Set(SqC1).Set(SqB1), []Square{SqE1, SqD1, SqC1}}
	}
	if kingside {
		return castlingSpec{SqE8, SqG8, SqH8, SqF8, Bitboard(0).Set(SqF8).Set(SqG8), []Square{SqE8, SqF8, SqG8}}
	}
	return castlingSpec{SqE8, SqC8, SqA8, SqD8, Bitboard(0).Set(SqD8).Set(SqC8).Set(SqB8), []Square{SqE8, SqD8, SqC8}}
}

func (pos *Position) generateCastlingMoves(moves *[]Move, us Color) {
	them := us.Other()
	for _, kingside := range [2]bool{true, false} {
		if !pos.canCastle(us, kingside) {
			continue
		}
		spec := castlingSpecFor(us, kingside)
		if pos.all&spec.emptyMask != 0 {
			continue
		}
		attacked := false
		for _, sq := range spec.kingPath {
			if pos.IsSquareAttacked(sq, them) {
				attacked = true
				break
			}
		}
		if attacked {
			continue
		}
		*moves = append(*moves, Move{From: spec.kingFrom, To: spec.kingTo})
	}
}
