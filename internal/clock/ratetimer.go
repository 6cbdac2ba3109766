// Package clock provides the virtual clock that paces the viewer.
package clock

import "time"

// RateTimer accumulates wall-clock time scaled by a signed rate
// multiplier. A negative rate runs virtual time backward, which the
// viewer uses for reverse playback.
//
// RateTimer does no locking of its own; the owning structure's mutex
// guards all access.
type RateTimer struct {
	rate    float64
	running bool
	anchor  time.Time
	acc     float64
	now     func() time.Time
}

// New returns a stopped timer at rate 1.
func New() *RateTimer {
	return NewWithNow(time.Now)
}

// NewWithNow injects the wall-clock source, for deterministic tests.
func NewWithNow(now func() time.Time) *RateTimer {
	return &RateTimer{rate: 1, now: now}
}

// Start resumes accumulation from the current wall-clock instant.
// No-op while already running.
func (t *RateTimer) Start() {
	if t.running {
		return
	}
	t.anchor = t.now()
	t.running = true
}

// Stop freezes accumulation. No-op while already stopped.
func (t *RateTimer) Stop() {
	if !t.running {
		return
	}
	t.acc += t.now().Sub(t.anchor).Seconds() * t.rate
	t.running = false
}

// SetRate folds time accumulated under the old rate before switching,
// so already-elapsed virtual time is never rescaled.
func (t *RateTimer) SetRate(r float64) {
	if t.running {
		now := t.now()
		t.acc += now.Sub(t.anchor).Seconds() * t.rate
		t.anchor = now
	}
	t.rate = r
}

func (t *RateTimer) Rate() float64 {
	return t.rate
}

func (t *RateTimer) Running() bool {
	return t.running
}

// Reset zeroes accumulated virtual time. Running state and rate are
// preserved.
func (t *RateTimer) Reset() {
	t.acc = 0
	t.anchor = t.now()
}

// Elapsed returns accumulated virtual seconds, including the open
// interval since the last anchor while running.
func (t *RateTimer) Elapsed() float64 {
	if t.running {
		return t.acc + t.now().Sub(t.anchor).Seconds()*t.rate
	}
	return t.acc
}
