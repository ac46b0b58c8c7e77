/*
autosave.go - Debounced background persistence

PURPOSE:
  Every mutating handler schedules a save for the record it touched
  instead of persisting inline. The autosaver debounces per key: a
  burst of edits to the same period resets its timer and only the
  trailing edge writes to the store.

KEY CONCEPTS:
  - Debounce: each Schedule call for a key cancels the key's previous
    timer and arms a new one, so rapid edits collapse into one save.
  - Key capture: the save closure captures its own key, so a timer that
    fires after the user has navigated elsewhere still saves the record
    it was armed for.
  - Dirty skip: the SaveFunc reports whether anything was written.
    A record flushed by an explicit save in the meantime is a no-op here.

SEE ALSO:
  - handlers.go: Schedules saves after each mutation
  - rcb/book.go, budget/service.go: SaveIfDirty implementations
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// SaveFunc persists one record. It reports whether a write happened,
// so a clean or already-saving record can be skipped silently.
type SaveFunc func(ctx context.Context) (bool, error)

// Autosaver debounces saves per record key.
type Autosaver struct {
	mu      sync.Mutex
	delay   time.Duration
	timers  map[string]*time.Timer
	logger  *slog.Logger
	wg      sync.WaitGroup
	stopped bool
}

// NewAutosaver creates an autosaver with the given debounce delay.
func NewAutosaver(delay time.Duration, logger *slog.Logger) *Autosaver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Autosaver{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		logger: logger,
	}
}

// Schedule arms (or re-arms) the debounce timer for key. When the timer
// fires, save runs on a background context. Scheduling after Stop is a
// no-op.
func (a *Autosaver) Schedule(key string, save SaveFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if t, ok := a.timers[key]; ok {
		if t.Stop() {
			// The canceled timer never fires, so its Done never runs.
			a.wg.Done()
		}
	}
	a.wg.Add(1)
	a.timers[key] = time.AfterFunc(a.delay, func() {
		defer a.wg.Done()

		a.mu.Lock()
		delete(a.timers, key)
		a.mu.Unlock()

		saved, err := save(context.Background())
		if err != nil {
			a.logger.Error("autosave failed", "key", key, "error", err)
			return
		}
		if saved {
			a.logger.Debug("autosaved", "key", key)
		}
	})
}

// Flush fires every pending timer immediately and waits for the saves
// to finish.
func (a *Autosaver) Flush() {
	a.mu.Lock()
	for _, t := range a.timers {
		if t.Stop() {
			// Timer had not fired yet. Run its work now.
			t.Reset(0)
		}
	}
	a.mu.Unlock()
	a.wg.Wait()
}

// Stop cancels all pending timers without saving. Used on shutdown
// after an explicit flush has already run.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	for key, t := range a.timers {
		if t.Stop() {
			a.wg.Done()
		}
		delete(a.timers, key)
	}
}
