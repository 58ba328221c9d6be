package engine

import (
	"log"

	"chessengine/position"
)

// maxSearchDepth bounds iterative deepening when time alone would let it
// run past any sane horizon; it is not a spec-mandated figure, just a
// backstop against runaway depth on trivially quiet positions.
const maxSearchDepth = maxPly

// Engine is the public surface spec §6 names: new_game, set_time_limit,
// get_move, and read-only accessors for the last search's depth/nodes/eval.
// It owns the Searcher (TT, ordering state, time control) and an optional
// opening book; it does not own a Position; get_move takes one explicitly
// and callers retain whatever make/undo history they've accumulated.
type Engine struct {
	search    *Searcher
	timeLimit int
	book      *OpeningBook
}

// NewEngine builds an Engine with a fresh transposition table. ttSizeHint
// is the approximate number of TT entries to allocate (rounded up to a
// power of two).
func NewEngine(ttSizeHint int) *Engine {
	return &Engine{
		search:    NewSearcher(ttSizeHint),
		timeLimit: maxTimeLimitMs,
	}
}

// LoadBook attaches an opening book read from path. A missing file is
// logged and leaves an empty book; a malformed one is logged and keeps the
// entries read before the fault (spec §7); this is never an error the
// caller must handle.
func (e *Engine) LoadBook(path string) {
	e.book = LoadOpeningBook(path)
	e.search.book = e.book
}

// LoadTTSeed preloads the transposition table from a prior run's dump, so
// a long-running analysis session doesn't start cold. A missing file is
// logged and ignored, same tolerance policy as LoadBook.
func (e *Engine) LoadTTSeed(path string) error {
	return e.search.tt.loadSeed(path)
}

// NewGame clears TT, killers, and history; it does not touch any Position
// the caller is holding (spec §5/§6).
func (e *Engine) NewGame() {
	e.search.NewGame()
}

// SetTimeLimit sets the per-move wall-clock budget in milliseconds,
// clamped to [1, 20000] per spec §6.
func (e *Engine) SetTimeLimit(ms int) {
	e.timeLimit = ClampTimeLimit(ms)
}

// GetMove runs iterative deepening from pos under the current time limit
// and returns the best move found. It never returns an illegal move when
// at least one legal move exists; it returns position.NullMove only on a
// position with no legal moves (checkmate or stalemate).
func (e *Engine) GetMove(pos *position.Position) position.Move {
	e.search.timer.Start(e.timeLimit)
	defer e.search.timer.Stop()
	m := e.search.Search(pos, maxSearchDepth)
	if m.IsNull() {
		log.Printf("engine: no legal move from this position (checkmate or stalemate)")
	}
	return m
}

// LastDepth, NodesSearched, and LastScore are the read-only accessors
// spec §6 asks for, for logging and UI display.
func (e *Engine) LastDepth() int        { return e.search.LastDepth() }
func (e *Engine) NodesSearched() uint64 { return e.search.NodesSearched() }
func (e *Engine) LastScore() int32      { return e.search.LastScore() }
