package game

import (
	"sync"
	"time"
)

// TurnScheduler owns the pending turn-cycle timers of one room.
// Every scheduled callback is tracked so teardown can cancel them
// all before the room is pruned; a stale callback must never
// mutate a torn-down room.
type TurnScheduler struct {
	mu     sync.Mutex
	timers map[uint64]*time.Timer
	nextID uint64
}

func NewTurnScheduler() *TurnScheduler {
	return &TurnScheduler{
		timers: make(map[uint64]*time.Timer, 2),
	}
}

// Schedule runs fn once after d. The timer deregisters itself
// before fn runs.
func (ts *TurnScheduler) Schedule(d time.Duration, fn func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	id := ts.nextID
	ts.nextID++

	ts.timers[id] = time.AfterFunc(d, func() {
		ts.mu.Lock()
		delete(ts.timers, id)
		ts.mu.Unlock()

		fn()
	})
}

// CancelAll stops every pending timer. A callback that already
// fired and is waiting on the room lock is not stopped here; the
// room guards against that with its turn-state check.
func (ts *TurnScheduler) CancelAll() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for id, t := range ts.timers {
		t.Stop()
		delete(ts.timers, id)
	}
}

// Pending reports the number of outstanding timers.
func (ts *TurnScheduler) Pending() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.timers)
}
