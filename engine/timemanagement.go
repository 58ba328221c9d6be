package engine

import "time"

// TimeControl is a simple wall-clock deadline, polled from inside search on
// a node-counter mask (spec §4/§6). There is no clock-side UCI bookkeeping
// here: Engine.SetTimeLimit sets a flat per-move millisecond budget that
// GetMove arms on each call, rather than estimating it from remaining game
// time, since GetMove receives no clock or increment.
type TimeControl struct {
	deadline time.Time
	active   bool
}

// NewTimeControl returns a control with no deadline armed.
func NewTimeControl() *TimeControl {
	return &TimeControl{}
}

const (
	minTimeLimitMs = 1
	maxTimeLimitMs = 20000
)

// ClampTimeLimit enforces spec §6's set_time_limit bound of [1, 20000] ms.
func ClampTimeLimit(ms int) int {
	if ms < minTimeLimitMs {
		return minTimeLimitMs
	}
	if ms > maxTimeLimitMs {
		return maxTimeLimitMs
	}
	return ms
}

// Start arms the deadline moveTimeMs milliseconds from now.
func (t *TimeControl) Start(moveTimeMs int) {
	t.deadline = time.Now().Add(time.Duration(moveTimeMs) * time.Millisecond)
	t.active = true
}

// Stop disarms the deadline; Expired always reports false until Start is
// called again. Engine.GetMove calls it once its search returns.
func (t *TimeControl) Stop() {
	t.active = false
}

// Expired reports whether the deadline has passed. Cooperative: callers
// must poll it, nothing preempts the search.
func (t *TimeControl) Expired() bool {
	return t.active && time.Now().After(t.deadline)
}
