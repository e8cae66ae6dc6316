package game

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerFiresAndDeregisters(t *testing.T) {
	ts := NewTurnScheduler()

	done := make(chan struct{})
	ts.Schedule(time.Millisecond, func() { close(done) })
	assert.Equal(t, 1, ts.Pending())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled callback never fired")
	}

	// deregistration happens before the callback runs
	assert.Equal(t, 0, ts.Pending())
}

func TestSchedulerCancelAll(t *testing.T) {
	ts := NewTurnScheduler()

	var fired atomic.Int32
	for i := 0; i < 3; i++ {
		ts.Schedule(10*time.Millisecond, func() { fired.Add(1) })
	}
	assert.Equal(t, 3, ts.Pending())

	ts.CancelAll()
	assert.Equal(t, 0, ts.Pending())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestSchedulerIndependentTimers(t *testing.T) {
	ts := NewTurnScheduler()

	done := make(chan struct{})
	ts.Schedule(time.Millisecond, func() { close(done) })
	ts.Schedule(time.Hour, func() { t.Error("distant timer fired") })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("near timer never fired")
	}

	assert.Equal(t, 1, ts.Pending())
	ts.CancelAll()
}
