package selection

import (
	"sync"
	"time"
)

// LongPressState is the recognizer's position in its lifecycle:
// idle → armed(timer) → fired | cancelled.
type LongPressState int

const (
	StateIdle LongPressState = iota
	StateArmed
	StateFired
)

// LongPressRecognizer turns raw press events into long-press firings. A
// press arms a timer; releasing or leaving before the threshold cancels it
// so a stray toggle can never fire after the finger is gone.
type LongPressRecognizer struct {
	mu        sync.Mutex
	threshold time.Duration
	fire      func(target string)
	state     LongPressState
	target    string
	timer     *time.Timer
}

// NewLongPressRecognizer creates a recognizer that calls fire with the
// pressed item's id once a press has been held for threshold.
func NewLongPressRecognizer(threshold time.Duration, fire func(target string)) *LongPressRecognizer {
	return &LongPressRecognizer{threshold: threshold, fire: fire}
}

// Down arms the recognizer for target. A new press replaces any pending
// one.
func (r *LongPressRecognizer) Down(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopTimerLocked()
	r.state = StateArmed
	r.target = target
	r.timer = time.AfterFunc(r.threshold, func() { r.fired(target) })
}

func (r *LongPressRecognizer) fired(target string) {
	r.mu.Lock()
	if r.state != StateArmed || r.target != target {
		r.mu.Unlock()
		return
	}
	r.state = StateFired
	fire := r.fire
	r.mu.Unlock()

	if fire != nil {
		fire(target)
	}
}

// Up ends the press. It reports whether the release was a plain tap, i.e.
// the threshold had not elapsed; after a firing the release is absorbed.
func (r *LongPressRecognizer) Up() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	tap := r.state == StateArmed
	r.stopTimerLocked()
	r.state = StateIdle
	r.target = ""
	return tap
}

// Cancel aborts any pending press without producing a tap, e.g. when the
// pointer leaves the item.
func (r *LongPressRecognizer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopTimerLocked()
	r.state = StateIdle
	r.target = ""
}

// State returns the current recognizer state.
func (r *LongPressRecognizer) State() LongPressState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *LongPressRecognizer) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
