package position

// Undo captures everything MakeMove needs to reverse a move: the moved and
// captured piece identities, the captured square (which differs from the
// move's destination for en passant), and every scalar bit of state that
// make() touches. Spec §3 requires all of this to be explicit rather than
// re-derived from occupancy after the fact.
type Undo struct {
	move Move

	movedPiece     Piece
	capturedPiece  Piece
	capturedSquare Square
	isEnPassant    bool
	isCastle       bool
	rookFrom       Square
	rookTo         Square

	prevEPSquare      Square
	prevKingMoved     [2]bool
	prevRookAMoved    [2]bool
	prevRookHMoved    [2]bool
	prevHalfmoveClock int
	prevFullmoveNum   int
	prevHash          uint64
	prevRepIrrevIndex int
}

// MakeMove applies a move, returning false (and leaving the position
// unchanged) if the move turns out to be illegal — i.e. it leaves the
// mover's own king in check. isCapture on the input move is never read;
// the captured piece is derived from board state (step 1 below), which matters for
// moves supplied externally (an opening book entry, a UCI string).
func (pos *Position) MakeMove(m Move) (bool, Undo) {
	var u Undo
	u.move = m
	prevCastlingIdx := pos.castlingIndex()
	u.prevEPSquare = pos.epSquare
	u.prevKingMoved = pos.kingMoved
	u.prevRookAMoved = pos.rookAMoved
	u.prevRookHMoved = pos.rookHMoved
	u.prevHalfmoveClock = pos.halfmoveClock
	u.prevFullmoveNum = pos.fullmoveNumber
	u.prevHash = pos.hash
	u.prevRepIrrevIndex = pos.repIrrevIndex

	us := pos.sideToMove
	them := us.Other()

	movedPiece := pos.mailbox[m.From]
	u.movedPiece = movedPiece

	u.isEnPassant = movedPiece.Type() == Pawn && m.To == pos.epSquare && pos.mailbox[m.To] == NoPiece
	u.capturedSquare = m.To
	if u.isEnPassant {
		u.capturedSquare = Square(int(m.From.Rank())*8 + int(m.To.File()))
	}
	u.capturedPiece = pos.mailbox[u.capturedSquare]

	// 1. Remove any captured piece (including the en passant victim, which
	// sits on a different square than the destination).
	if u.capturedPiece != NoPiece {
		pos.removePiece(u.capturedSquare)
	}

	// 2. Move (and, if applicable, promote) the piece.
	pos.removePiece(m.From)
	placed := movedPiece
	if m.Promotion != NoPieceType {
		placed = PieceFromType(us, m.Promotion)
	}
	pos.addPiece(m.To, placed)

	// 3. Castling: shift the rook too.
	u.isCastle = movedPiece.Type() == King && abs8(int(m.To)-int(m.From)) == 2
	if u.isCastle {
		kingside := m.To == kingHomeSquare(us)-2 // king_to = king_from - 2 on kingside
		spec := castlingSpecFor(us, kingside)
		u.rookFrom, u.rookTo = spec.rookFrom, spec.rookTo
		pos.removePiece(spec.rookFrom)
		pos.addPiece(spec.rookTo, PieceFromType(us, Rook))
	}

	// 4. Castling-rights bookkeeping: moving the king forfeits both sides;
	// moving or losing (to capture) a rook on its home square forfeits
	// that side.
	if movedPiece.Type() == King {
		pos.kingMoved[us] = true
	}
	if m.From == rookHomeSquare(us, true) || u.capturedSquare == rookHomeSquare(us, true) {
		pos.rookHMoved[us] = true
	}
	if m.From == rookHomeSquare(us, false) || u.capturedSquare == rookHomeSquare(us, false) {
		pos.rookAMoved[us] = true
	}
	if u.capturedSquare == rookHomeSquare(them, true) {
		pos.rookHMoved[them] = true
	}
	if u.capturedSquare == rookHomeSquare(them, false) {
		pos.rookAMoved[them] = true
	}

	// 5. En passant target: set only on a double pawn push, valid for
	// exactly the next ply.
	pos.epSquare = NoSquare
	if movedPiece.Type() == Pawn && abs8(int(m.To)-int(m.From)) == 16 {
		pos.epSquare = Square((int(m.From) + int(m.To)) / 2)
	}

	// 6. Halfmove clock: reset on pawn move or capture, else increment.
	if movedPiece.Type() == Pawn || u.capturedPiece != NoPiece {
		pos.halfmoveClock = 0
	} else {
		pos.halfmoveClock++
	}
	irreversible := movedPiece.Type() == Pawn || u.capturedPiece != NoPiece || pos.castlingIndex() != prevCastlingIdx

	// 7. Fullmove number increments after Black moves.
	if us == Black {
		pos.fullmoveNumber++
	}

	// 8. Castling-rights Zobrist update and side toggle happen via the
	// incremental hash; recombine the castle index since rights may have
	// just changed.
	pos.hash ^= zobristCastle[prevCastlingIdx]
	pos.hash ^= zobristCastle[pos.castlingIndex()]
	if u.prevEPSquare != NoSquare {
		pos.hash ^= zobristEnPassant[u.prevEPSquare.File()]
	}
	if pos.epSquare != NoSquare {
		pos.hash ^= zobristEnPassant[pos.epSquare.File()]
	}
	pos.hash ^= zobristSide
	pos.sideToMove = them

	// 9. Legality check: reject if this leaves the mover's own king in
	// check (including, for castling, the king having castled through
	// check — already screened in generation, but externally-supplied
	// moves bypass generation entirely).
	if pos.InCheck(us) {
		pos.undoInternal(u)
		return false, u
	}

	// 10. Push the new hash onto the repetition stack, advancing the
	// irreversible-move boundary when this move cannot be reversed.
	pos.repStack = append(pos.repStack, pos.hash)
	if irreversible {
		pos.repIrrevIndex = len(pos.repStack) - 1
	}

	return true, u
}

// UnmakeMove reverses a move previously applied by MakeMove, restoring the
// position bit-for-bit (including the Zobrist hash, taken directly from
// the undo token rather than recomputed).
func (pos *Position) UnmakeMove(u Undo) {
	pos.repStack = pos.repStack[:len(pos.repStack)-1]
	pos.undoInternal(u)
}

// undoInternal reverses the board mutation only, without touching the
// repetition stack; used both by UnmakeMove and by MakeMove's own
// illegal-move rollback (which never pushed onto the stack).
func (pos *Position) undoInternal(u Undo) {
	m := u.move
	us := u.movedPiece.Color()

	pos.sideToMove = us

	if u.isCastle {
		pos.removePiece(u.rookTo)
		pos.addPiece(u.rookFrom, PieceFromType(us, Rook))
	}

	pos.removePiece(m.To)
	pos.addPiece(m.From, u.movedPiece)

	if u.capturedPiece != NoPiece {
		pos.addPiece(u.capturedSquare, u.capturedPiece)
	}

	pos.kingMoved = u.prevKingMoved
	pos.rookAMoved = u.prevRookAMoved
	pos.rookHMoved = u.prevRookHMoved
	pos.epSquare = u.prevEPSquare
	pos.halfmoveClock = u.prevHalfmoveClock
	pos.fullmoveNumber = u.prevFullmoveNum
	pos.repIrrevIndex = u.prevRepIrrevIndex
	pos.hash = u.prevHash
}

func abs8(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// NullUndo captures the state MakeNullMove needs to reverse, a much
// smaller set than a real move since no piece moves.
type NullUndo struct {
	prevEPSquare      Square
	prevHalfmoveClock int
	prevFullmoveNum   int
	prevHash          uint64
	prevRepIrrevIndex int
}

// MakeNullMove passes the turn without moving a piece, used by null-move
// pruning in search. En passant rights lapse, as they would after any
// real move by the side not capturing.
func (pos *Position) MakeNullMove() NullUndo {
	var u NullUndo
	u.prevEPSquare = pos.epSquare
	u.prevHalfmoveClock = pos.halfmoveClock
	u.prevFullmoveNum = pos.fullmoveNumber
	u.prevHash = pos.hash
	u.prevRepIrrevIndex = pos.repIrrevIndex

	if pos.epSquare != NoSquare {
		pos.hash ^= zobristEnPassant[pos.epSquare.File()]
	}
	pos.epSquare = NoSquare
	pos.halfmoveClock++
	if pos.sideToMove == Black {
		pos.fullmoveNumber++
	}
	pos.hash ^= zobristSide
	pos.sideToMove = pos.sideToMove.Other()

	pos.repStack = append(pos.repStack, pos.hash)
	pos.repIrrevIndex = len(pos.repStack) - 1 // a null move is never reversible via repetition
	return u
}

// UnmakeNullMove reverses MakeNullMove.
func (pos *Position) UnmakeNullMove(u NullUndo) {
	pos.repStack = pos.repStack[:len(pos.repStack)-1]
	pos.sideToMove = pos.sideToMove.Other()
	pos.epSquare = u.prevEPSquare
	pos.halfmoveClock = u.prevHalfmoveClock
	pos.fullmoveNumber = u.prevFullmoveNum
	pos.repIrrevIndex = u.prevRepIrrevIndex
	pos.hash = u.prevHash
}
