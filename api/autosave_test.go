package api_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skgov/fiscal-engine/api"
)

// countingSave records invocations per key.
type countingSave struct {
	mu    sync.Mutex
	calls map[string]int
}

func newCountingSave() *countingSave {
	return &countingSave{calls: make(map[string]int)}
}

func (c *countingSave) fn(key string) api.SaveFunc {
	return func(context.Context) (bool, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.calls[key]++
		return true, nil
	}
}

func (c *countingSave) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[key]
}

func TestAutosaver_DebouncesBurstsPerKey(t *testing.T) {
	// GIVEN: Five rapid edits to the same period
	// WHEN: The debounce window passes
	// THEN: Exactly one save runs

	saves := newCountingSave()
	a := api.NewAutosaver(20*time.Millisecond, nil)

	for i := 0; i < 5; i++ {
		a.Schedule("rcb:2024-Q1", saves.fn("rcb:2024-Q1"))
	}
	a.Flush()

	assert.Equal(t, 1, saves.count("rcb:2024-Q1"))
}

func TestAutosaver_FlushReturnsAfterRearm(t *testing.T) {
	// GIVEN: A pending save that is re-armed before it fires
	// WHEN: Flush is called
	// THEN: It returns; the canceled arming must not leave the flush
	// waiting on a save that will never run

	saves := newCountingSave()
	a := api.NewAutosaver(time.Hour, nil)

	a.Schedule("rcb:2024-Q1", saves.fn("rcb:2024-Q1"))
	a.Schedule("rcb:2024-Q1", saves.fn("rcb:2024-Q1"))

	done := make(chan struct{})
	go func() {
		a.Flush()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Flush did not return after re-arming a pending save")
	}
	assert.Equal(t, 1, saves.count("rcb:2024-Q1"))
}

func TestAutosaver_KeysAreIndependent(t *testing.T) {
	// Edits to different records debounce separately: switching records
	// must not cancel the previous record's pending save.

	saves := newCountingSave()
	a := api.NewAutosaver(20*time.Millisecond, nil)

	a.Schedule("rcb:2024-Q1", saves.fn("rcb:2024-Q1"))
	a.Schedule("budget:2024", saves.fn("budget:2024"))
	a.Flush()

	assert.Equal(t, 1, saves.count("rcb:2024-Q1"))
	assert.Equal(t, 1, saves.count("budget:2024"))
}

func TestAutosaver_StopCancelsPendingWork(t *testing.T) {
	saves := newCountingSave()
	a := api.NewAutosaver(time.Hour, nil)

	a.Schedule("rcb:2024-Q1", saves.fn("rcb:2024-Q1"))
	a.Stop()

	assert.Zero(t, saves.count("rcb:2024-Q1"))

	// Scheduling after Stop is a no-op.
	a.Schedule("rcb:2024-Q2", saves.fn("rcb:2024-Q2"))
	a.Flush()
	assert.Zero(t, saves.count("rcb:2024-Q2"))
}

func TestAutosaver_TimerKeepsItsOwnKey(t *testing.T) {
	// GIVEN: A pending save for Q1, then the user moves on to Q2
	// WHEN: Both timers fire
	// THEN: Each save ran for the key it was armed with

	saves := newCountingSave()
	a := api.NewAutosaver(10*time.Millisecond, nil)

	a.Schedule("rcb:2024-Q1", saves.fn("rcb:2024-Q1"))
	time.Sleep(2 * time.Millisecond)
	a.Schedule("rcb:2024-Q2", saves.fn("rcb:2024-Q2"))
	a.Flush()

	require.Equal(t, 1, saves.count("rcb:2024-Q1"))
	require.Equal(t, 1, saves.count("rcb:2024-Q2"))
}
