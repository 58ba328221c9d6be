package position

import "fmt"

// Move holds a move as four fields: from square, to square, promotion
// piece type, and an isCapture flag. isCapture is set by the
// generator but is not authoritative on its own — make() derives the
// capture from board state instead of reading it (spec §3/§4.4), since
// a move handed in from outside (an opening book entry, a UCI string) may
// have it wrong or unset.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType
	IsCapture bool
}

// NullMove is the zero value, used as a sentinel ("no move") in places
// like killer-move slots and TT best-move fields.
var NullMove = Move{}

func (m Move) IsNull() bool { return m.From == 0 && m.To == 0 && m.Promotion == NoPieceType }

// String formats a move in the UCI-style coordinate form spec §6 requires:
// file letters derived from the reversed mapping (file = 'h' - (sq%8)),
// rank digits '1'+(sq/8), and a lowercase promotion-piece suffix. This
// exact formatting must match the canonical perft/divide tooling's
// expectations.
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	s := fmt.Sprintf("%c%c%c%c",
		fileIndexToChar(m.From.File()), byte('1'+m.From.Rank()),
		fileIndexToChar(m.To.File()), byte('1'+m.To.Rank()))
	switch m.Promotion {
	case Knight:
		s += "n"
	case Bishop:
		s += "b"
	case Rook:
		s += "r"
	case Queen:
		s += "q"
	}
	return s
}

// ParseMove parses a UCI-style coordinate move string against the current
// position (needed to resolve capture/en-passant status and validate file
// bounds using the reversed mapping).
func ParseMove(s string, pos *Position) (Move, error) {
	if s == "0000" {
		return NullMove, nil
	}
	if len(s) < 4 || len(s) > 5 {
		return Move{}, fmt.Errorf("position: invalid move string %q", s)
	}
	from, err := parseSquareStr(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := parseSquareStr(s[2:4])
	if err != nil {
		return Move{}, err
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			m.Promotion = Knight
		case 'b':
			m.Promotion = Bishop
		case 'r':
			m.Promotion = Rook
		case 'q':
			m.Promotion = Queen
		default:
			return Move{}, fmt.Errorf("position: invalid promotion char %q", s[4])
		}
	}
	if pos != nil {
		m.IsCapture = isCaptureMove(pos, m)
	}
	return m, nil
}

func parseSquareStr(s string) (Square, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("position: invalid square %q", s)
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, fmt.Errorf("position: invalid square %q", s)
	}
	file := fileCharToIndex(s[0])
	rank := int(s[1] - '1')
	return SquareFromFileRank(file, rank), nil
}

// ResolveCapture returns m with IsCapture corrected from board state,
// exactly as make() would derive it. Callers that hand a move to MakeMove
// without going through GenerateLegalMoves or ParseMove (an opening book
// entry, say) should run it through here before exposing it, since
// IsCapture on such a move may be unset or wrong.
func ResolveCapture(pos *Position, m Move) Move {
	m.IsCapture = isCaptureMove(pos, m)
	return m
}

// isCaptureMove derives capture status (including en passant) from board
// state by the same rule MakeMove applies inline, regardless of what a
// caller claims.
func isCaptureMove(pos *Position, m Move) bool {
	if pos.mailbox[m.To] != NoPiece {
		return true
	}
	if pos.epSquare == NoSquare || m.To != pos.epSquare {
		return false
	}
	moving := pos.mailbox[m.From]
	return moving.Type() == Pawn
}
