// Package memory provides in-memory store implementations (for testing/dev).
package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/skgov/fiscal-engine/budget"
	"github.com/skgov/fiscal-engine/fiscal"
	"github.com/skgov/fiscal-engine/rcb"
)

// =============================================================================
// MEMORY STORE - Implements rcb.Store, budget.Store, fiscal.Recorder
// =============================================================================

type Store struct {
	mu      sync.RWMutex
	periods map[string][]byte
	budgets map[string][]byte
	events  []fiscal.Event

	// FailSaves makes every write fail. Used by tests to verify that a
	// failed save preserves in-memory state and dirty flags.
	FailSaves bool
}

func New() *Store {
	return &Store{
		periods: make(map[string][]byte),
		budgets: make(map[string][]byte),
	}
}

// =============================================================================
// rcb.Store
// =============================================================================

func (s *Store) LoadPeriod(_ context.Context, key fiscal.PeriodKey) (rcb.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.periods[key.String()]
	if !ok {
		return rcb.Snapshot{}, fiscal.ErrRecordNotFound
	}
	var snapshot rcb.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return rcb.Snapshot{}, err
	}
	return snapshot, nil
}

func (s *Store) SavePeriod(_ context.Context, key fiscal.PeriodKey, snapshot rcb.Snapshot) error {
	if s.FailSaves {
		return errSaveFailed
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods[key.String()] = raw
	return nil
}

func (s *Store) ListPeriods(_ context.Context) ([]fiscal.PeriodKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]fiscal.PeriodKey, 0, len(s.periods))
	for k := range s.periods {
		key, err := fiscal.ParsePeriodKey(k)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys, nil
}

func (s *Store) DeletePeriod(_ context.Context, key fiscal.PeriodKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.periods, key.String())
	return nil
}

// =============================================================================
// budget.Store
// =============================================================================

func (s *Store) LoadRecord(_ context.Context, fiscalYear string) (budget.BudgetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.budgets[fiscalYear]
	if !ok {
		return budget.BudgetRecord{}, fiscal.ErrRecordNotFound
	}
	var record budget.BudgetRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return budget.BudgetRecord{}, err
	}
	return record, nil
}

func (s *Store) SaveRecord(_ context.Context, fiscalYear string, record budget.BudgetRecord) error {
	if s.FailSaves {
		return errSaveFailed
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[fiscalYear] = raw
	return nil
}

// =============================================================================
// fiscal.Recorder
// =============================================================================

func (s *Store) Record(_ context.Context, event fiscal.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of the recorded audit trail.
func (s *Store) Events() []fiscal.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]fiscal.Event(nil), s.events...)
}

// HasPeriod reports whether a snapshot is persisted for the key.
func (s *Store) HasPeriod(key fiscal.PeriodKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.periods[key.String()]
	return ok
}

type saveError string

func (e saveError) Error() string { return string(e) }

const errSaveFailed = saveError("memory store: save failed")
