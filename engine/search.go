package engine

import (
	"chessengine/position"
)

const (
	maxScore  int32 = 32500
	checkmate int32 = 20000
	drawScore int32 = 0

	timeCheckMask uint64 = 2048 - 1 // power of two per spec §4.7: check every 2048 nodes
)

// Searcher owns everything a search needs beyond the position itself: the
// transposition table, ordering state, and time control, all of which
// persist across a game (cleared only by Engine.NewGame per spec §5/§6).
type Searcher struct {
	tt      *TranspositionTable
	order   *OrderingState
	timer   *TimeControl
	book    *OpeningBook

	nodes      uint64
	timedOut   bool
	rootBest   position.Move
	lastDepth  int
	lastScore  int32
}

// NewSearcher builds a Searcher with a fresh TT and ordering state.
func NewSearcher(ttSizeHint int) *Searcher {
	return &Searcher{
		tt:    NewTranspositionTable(ttSizeHint),
		order: NewOrderingState(),
		timer: NewTimeControl(),
	}
}

// NewGame clears the TT, killers, and history; the position itself is
// untouched, as spec §6 requires.
func (s *Searcher) NewGame() {
	s.tt.Clear()
	s.order.Clear()
}

// Search runs iterative deepening with aspiration windows until the time
// control signals a stop (or maxDepth is reached, if nonzero), and returns
// the best move found at the deepest completed iteration.
func (s *Searcher) Search(pos *position.Position, maxDepth int) position.Move {
	s.nodes = 0
	s.timedOut = false
	s.rootBest = position.NullMove

	if s.book != nil {
		if m, ok := s.book.Probe(pos.Hash()); ok {
			// Book entries carry no reliable IsCapture (spec §3/§4.4): fix it
			// up from board state before handing the move back to the caller.
			return position.ResolveCapture(pos, m)
		}
	}

	legal := pos.GenerateLegalMoves()
	if len(legal) == 0 {
		return position.NullMove
	}
	s.rootBest = legal[0]

	var score int32
	depth := 1
	for {
		if maxDepth > 0 && depth > maxDepth {
			break
		}
		if depth > 1 && s.timer.Expired() {
			break
		}

		window := int32(25)
		alpha, beta := score-window, score+window
		if depth == 1 {
			alpha, beta = -maxScore, maxScore
		}

		for {
			var pv []position.Move
			result := s.alphabeta(pos, alpha, beta, depth, 0, &pv)
			if s.timedOut {
				break
			}
			if result <= alpha {
				alpha -= window
				window *= 2
				continue
			}
			if result >= beta {
				beta += window
				window *= 2
				continue
			}
			score = result
			if len(pv) > 0 {
				s.rootBest = pv[0]
			}
			break
		}

		if s.timedOut {
			break
		}
		s.lastDepth = depth
		s.lastScore = score
		depth++
		if depth > maxPly {
			break
		}
	}
	return s.rootBest
}

// alphabeta is a negamax search with principal variation search, null-move
// pruning, check extension, late move reduction, and TT-backed move
// ordering, following spec §4.7.
func (s *Searcher) alphabeta(pos *position.Position, alpha, beta int32, depth, ply int, pv *[]position.Move) int32 {
	s.nodes++
	if s.nodes&timeCheckMask == 0 && s.timer.Expired() {
		s.timedOut = true
		return 0
	}
	if s.timedOut {
		return 0
	}

	if ply > 0 {
		if pos.IsThreefoldRepetition() || pos.IsFiftyMoveDraw() {
			return drawScore
		}
		// Mate-distance pruning: no line found deeper than the current ply
		// can beat being mated right here, or improve on mating right here.
		mateAlpha := -checkmate + int32(ply)
		mateBeta := checkmate - int32(ply)
		if mateAlpha >= beta {
			return mateAlpha
		}
		if mateBeta <= alpha {
			return mateBeta
		}
		if mateAlpha > alpha {
			alpha = mateAlpha
		}
		if mateBeta < beta {
			beta = mateBeta
		}
	}

	if depth <= 0 {
		return s.quiescence(pos, alpha, beta, ply)
	}

	key := pos.Hash()
	var ttMove position.Move
	if entry, ok := s.tt.Probe(key, ply); ok {
		ttMove = entry.Best
		if int(entry.Depth) >= depth {
			switch entry.Flag {
			case TTExact:
				return int32(entry.Score)
			case TTLowerBound:
				if int32(entry.Score) > alpha {
					alpha = int32(entry.Score)
				}
			case TTUpperBound:
				if int32(entry.Score) < beta {
					beta = int32(entry.Score)
				}
			}
			if alpha >= beta {
				return int32(entry.Score)
			}
		}
	}

	us := pos.SideToMove()
	inCheck := pos.InCheck(us)

	// Null-move pruning: skip our move entirely and see if the opponent,
	// given a free tempo, still can't beat beta. Gated on having enough
	// non-pawn material that zugzwang is unlikely, and never used in
	// check or at the root.
	if !inCheck && ply > 0 && depth >= 3 && hasSufficientNonPawnMaterial(pos, us) {
		r := 2 + depth/3
		u := pos.MakeNullMove()
		var childPV []position.Move
		score := -s.alphabeta(pos, -beta, -beta+1, depth-1-r, ply+1, &childPV)
		pos.UnmakeNullMove(u)
		if s.timedOut {
			return 0
		}
		if score >= beta {
			return beta
		}
	}

	moves := pos.GenerateLegalMoves()
	if len(moves) == 0 {
		if inCheck {
			return -checkmate + int32(ply)
		}
		return drawScore
	}

	s.order.OrderMoves(pos, moves, ttMove, ply, us)

	bestScore := -maxScore - 1
	var bestMove position.Move
	flag := TTUpperBound
	var triedQuiets []position.Move

	for i, m := range moves {
		u, ok := s.applyMove(pos, m)
		if !ok {
			continue
		}

		childDepth := depth - 1
		givesCheck := pos.InCheck(pos.SideToMove())
		if givesCheck {
			childDepth++ // check extension
		}

		reduction := 0
		if depth >= 3 && i >= 4 && !m.IsCapture && m.Promotion == position.NoPieceType && !inCheck && !givesCheck {
			reduction = lateMoveReduction(depth, i)
		}

		var childPV []position.Move
		var score int32
		if i == 0 {
			score = -s.alphabeta(pos, -beta, -alpha, childDepth, ply+1, &childPV)
		} else {
			searchDepth := childDepth - reduction
			if searchDepth < 0 {
				searchDepth = 0
			}
			score = -s.alphabeta(pos, -alpha-1, -alpha, searchDepth, ply+1, &childPV)
			if score > alpha && (reduction > 0 || score < beta) {
				score = -s.alphabeta(pos, -beta, -alpha, childDepth, ply+1, &childPV)
			}
		}

		pos.UnmakeMove(u)

		if s.timedOut {
			return 0
		}

		if !m.IsCapture {
			triedQuiets = append(triedQuiets, m)
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			*pv = append([]position.Move{m}, childPV...)
		}
		if score > alpha {
			alpha = score
			flag = TTExact
		}
		if alpha >= beta {
			if !m.IsCapture {
				s.order.RecordKiller(ply, m)
				s.order.UpdateHistory(us, depth, m, triedQuiets)
			}
			flag = TTLowerBound
			break
		}
	}

	s.tt.Store(key, bestMove, int32(bestScore), depth, flag, ply)
	return bestScore
}

// quiescence extends search through captures (and, while in check, every
// legal move) until the position is "quiet", per spec §4.8.
func (s *Searcher) quiescence(pos *position.Position, alpha, beta int32, ply int) int32 {
	s.nodes++
	if s.nodes&timeCheckMask == 0 && s.timer.Expired() {
		s.timedOut = true
		return 0
	}

	us := pos.SideToMove()
	inCheck := pos.InCheck(us)

	var standPat int32
	if !inCheck {
		standPat = Evaluate(pos)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	legal := pos.GenerateLegalMoves()
	if len(legal) == 0 {
		if inCheck {
			return -checkmate + int32(ply)
		}
		return drawScore
	}

	var moves []position.Move
	if inCheck {
		moves = legal
	} else {
		for _, m := range legal {
			if m.IsCapture || m.Promotion == position.Queen {
				moves = append(moves, m)
			}
		}
	}

	s.order.OrderMoves(pos, moves, position.NullMove, ply, us)

	best := standPat
	for _, m := range moves {
		if !inCheck && m.IsCapture {
			if staticExchangeEval(pos, m) < -50 {
				continue // clearly losing capture, spec §4.8's optional SEE prune
			}
		}
		u, ok := s.applyMove(pos, m)
		if !ok {
			continue
		}
		score := -s.quiescence(pos, -beta, -alpha, ply+1)
		pos.UnmakeMove(u)
		if s.timedOut {
			return 0
		}
		if score > best {
			best = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

func (s *Searcher) applyMove(pos *position.Position, m position.Move) (position.Undo, bool) {
	ok, u := pos.MakeMove(m)
	return u, ok
}

func hasSufficientNonPawnMaterial(pos *position.Position, c position.Color) bool {
	minors := pos.PieceBB(c, position.Knight).Count() + pos.PieceBB(c, position.Bishop).Count()
	majors := pos.PieceBB(c, position.Rook).Count() + pos.PieceBB(c, position.Queen).Count()
	return minors+majors*2 >= 2
}

// lmrTable holds precomputed reduction amounts, built once at init so
// lateMoveReduction stays a table lookup on the hot path.
var lmrTable [maxPly + 1][64]int

func init() {
	for d := 1; d <= maxPly; d++ {
		for m := 1; m < 64; m++ {
			r := 1 + d/8 + m/16
			if r > d-2 {
				r = d - 2
			}
			if r < 0 {
				r = 0
			}
			lmrTable[d][m] = r
		}
	}
}

func lateMoveReduction(depth, moveIndex int) int {
	if depth > maxPly {
		depth = maxPly
	}
	if moveIndex >= 64 {
		moveIndex = 63
	}
	return lmrTable[depth][moveIndex]
}

// LastDepth and LastScore expose the most recently completed iterative
// deepening iteration, for Engine's read-only accessors.
func (s *Searcher) LastDepth() int    { return s.lastDepth }
func (s *Searcher) LastScore() int32  { return s.lastScore }
func (s *Searcher) NodesSearched() uint64 { return s.nodes }
