/*
book.go - The register repository

PURPOSE:
  Book is the aggregate store for register periods: an in-memory cache of
  Period aggregates keyed by period key, backed by the snapshot Store, with
  explicit get-or-create, mutate, and persist operations. It owns:
  - Lazy materialization of default periods on first access (idempotent)
  - The carry-forward rule between adjacent quarters
  - Dirty tracking for the autosave layer
  - Audit emission (fire-and-forget)

CARRY-FORWARD:
  Whenever the ending balance of a period changes, or the caller activates
  a period, the ending balance is written into the NEXT quarter's
  balanceBroughtForward, creating that period with defaults if needed. The
  rule fires once per event; it never walks further down the chain. A user
  revisits downstream quarters to re-trigger propagation after editing an
  earlier one, mirroring paper-ledger practice. RecalculateForward is the
  explicit multi-quarter walk.

  The derived write does NOT mark the target period dirty: only explicit
  user edits schedule an autosave.

CONCURRENCY:
  The original design is a single-threaded UI event loop. Served over HTTP,
  Book serializes all aggregate access with one mutex; persistence remains
  last-write-wins with no version field.
*/
package rcb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/skgov/fiscal-engine/fiscal"
)

// =============================================================================
// BOOK
// =============================================================================

type Book struct {
	mu     sync.Mutex
	store  Store
	audit  fiscal.Recorder
	logger *slog.Logger

	periods map[string]*Period
	dirty   map[string]bool
	saving  map[string]bool
	seq     map[string]uint64 // bumped per mutation; lets Save clear dirty safely
}

type BookOption func(*Book)

func WithAudit(rec fiscal.Recorder) BookOption {
	return func(b *Book) { b.audit = rec }
}

func WithLogger(l *slog.Logger) BookOption {
	return func(b *Book) { b.logger = l }
}

func NewBook(store Store, opts ...BookOption) *Book {
	b := &Book{
		store:   store,
		audit:   fiscal.NopRecorder{},
		logger:  slog.Default(),
		periods: make(map[string]*Period),
		dirty:   make(map[string]bool),
		saving:  make(map[string]bool),
		seq:     make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// getOrCreateLocked loads the aggregate from cache, then from the store,
// then materializes the default. Idempotent: two calls for the same
// never-seen key observe the same defaults, and the materialized aggregate
// is what subsequent edits apply to.
func (b *Book) getOrCreateLocked(ctx context.Context, key fiscal.PeriodKey) (*Period, error) {
	if p, ok := b.periods[key.String()]; ok {
		return p, nil
	}
	snapshot, err := b.store.LoadPeriod(ctx, key)
	var p *Period
	switch {
	case err == nil:
		p = PeriodFromSnapshot(key, snapshot)
	case errors.Is(err, fiscal.ErrRecordNotFound):
		p = NewPeriod(key)
	default:
		return nil, fmt.Errorf("load period %s: %w", key, err)
	}
	b.periods[key.String()] = p
	return p, nil
}

func (b *Book) markDirtyLocked(key fiscal.PeriodKey) {
	b.dirty[key.String()] = true
	b.seq[key.String()]++
}

// carryForwardLocked writes the period's ending balance into the next
// quarter's brought-forward balance. Closed targets are left alone. The
// target is not marked dirty: this is a derived value, re-derived whenever
// the source period is visited again.
func (b *Book) carryForwardLocked(ctx context.Context, p *Period) error {
	next, err := b.getOrCreateLocked(ctx, p.Key.Next())
	if err != nil {
		return err
	}
	if next.EditingClosed {
		return nil
	}
	next.setBroughtForwardDerived(p.EndingBalance())
	return nil
}

func (b *Book) record(eventType fiscal.EventType, description, actor string, key fiscal.PeriodKey) {
	_ = b.audit.Record(context.Background(), fiscal.Event{
		Type:        eventType,
		Description: description,
		Actor:       actor,
		Details:     map[string]any{"period": key.String()},
	})
}

// =============================================================================
// READS
// =============================================================================

// Period returns an independent copy of the aggregate, materializing the
// default for never-seen keys.
func (b *Book) Period(ctx context.Context, key fiscal.PeriodKey) (*Period, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (b *Book) Totals(ctx context.Context, key fiscal.PeriodKey) (Totals, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err != nil {
		return Totals{}, err
	}
	return p.Totals(), nil
}

// IsClosed is the guard callers consult before offering mutations.
func (b *Book) IsClosed(ctx context.Context, key fiscal.PeriodKey) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err != nil {
		return false, err
	}
	return p.IsClosed(), nil
}

// Dirty reports whether the period has unsaved user changes.
func (b *Book) Dirty(key fiscal.PeriodKey) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty[key.String()]
}

// =============================================================================
// ACTIVATION / CARRY-FORWARD
// =============================================================================

// Activate marks the period as the one being worked on and triggers the
// carry-forward of its ending balance into the next quarter.
func (b *Book) Activate(ctx context.Context, key fiscal.PeriodKey) (*Period, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := b.carryForwardLocked(ctx, p); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// RecalculateForward walks the quarter chain from the given key, applying
// the carry-forward rule at each step. This is the explicit repair action
// for retroactive corrections; unlike the implicit one-shot rule it marks
// every updated target dirty so the repair persists.
func (b *Book) RecalculateForward(ctx context.Context, from fiscal.PeriodKey, quarters int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := from
	for i := 0; i < quarters; i++ {
		p, err := b.getOrCreateLocked(ctx, key)
		if err != nil {
			return err
		}
		next, err := b.getOrCreateLocked(ctx, key.Next())
		if err != nil {
			return err
		}
		// Every open target the walk visits is marked dirty, even when
		// the implicit carry already wrote the same value in memory.
		if !next.EditingClosed {
			next.setBroughtForwardDerived(p.EndingBalance())
			b.markDirtyLocked(next.Key)
		}
		key = key.Next()
	}
	return nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// AppendEntry validates and appends a draft, recomputes balances, and
// carries the new ending balance forward.
func (b *Book) AppendEntry(ctx context.Context, key fiscal.PeriodKey, draft EntryDraft, actor string) (LedgerEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err != nil {
		return LedgerEntry{}, err
	}
	entry, err := p.AppendEntry(draft)
	if err != nil {
		return LedgerEntry{}, err
	}
	b.markDirtyLocked(key)
	if err := b.carryForwardLocked(ctx, p); err != nil {
		return LedgerEntry{}, err
	}
	b.record(fiscal.EventEntryAdded, "register entry added: "+entry.Reference, actor, key)
	return entry.clone(), nil
}

func (b *Book) RemoveEntry(ctx context.Context, key fiscal.PeriodKey, index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err != nil {
		return err
	}
	if err := p.RemoveEntry(index); err != nil {
		return err
	}
	b.markDirtyLocked(key)
	return b.carryForwardLocked(ctx, p)
}

func (b *Book) SetMetadata(ctx context.Context, key fiscal.PeriodKey, fund, sheetNo string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err != nil {
		return err
	}
	if err := p.SetMetadata(fund, sheetNo); err != nil {
		return err
	}
	b.markDirtyLocked(key)
	return nil
}

// OverrideBroughtForward is the manual opening-balance override. Unlike
// the derived carry-forward write it marks the period dirty, and it
// re-propagates the changed ending balance.
func (b *Book) OverrideBroughtForward(ctx context.Context, key fiscal.PeriodKey, amount fiscal.Amount) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err != nil {
		return err
	}
	if err := p.SetBroughtForward(amount); err != nil {
		return err
	}
	b.markDirtyLocked(key)
	return b.carryForwardLocked(ctx, p)
}

func (b *Book) AddAccount(ctx context.Context, key fiscal.PeriodKey, kind AccountKind, name string) error {
	return b.mutateSchema(ctx, key, func(p *Period) error { return p.AddAccount(kind, name) })
}

func (b *Book) RemoveAccount(ctx context.Context, key fiscal.PeriodKey, kind AccountKind, index int) error {
	return b.mutateSchema(ctx, key, func(p *Period) error { return p.RemoveAccount(kind, index) })
}

func (b *Book) RenameAccount(ctx context.Context, key fiscal.PeriodKey, kind AccountKind, index int, newName string) error {
	return b.mutateSchema(ctx, key, func(p *Period) error { return p.RenameAccount(kind, index, newName) })
}

func (b *Book) mutateSchema(ctx context.Context, key fiscal.PeriodKey, fn func(*Period) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	b.markDirtyLocked(key)
	return nil
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Save persists the period snapshot now. While a save for the same key is
// in flight further explicit saves are refused. A failed save keeps the
// dirty flag so the change is not silently lost.
func (b *Book) Save(ctx context.Context, key fiscal.PeriodKey, actor string) error {
	b.mu.Lock()
	if b.saving[key.String()] {
		b.mu.Unlock()
		return fiscal.ErrSaveInFlight
	}
	p, err := b.getOrCreateLocked(ctx, key)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	snapshot := p.Snapshot()
	seqAtSnapshot := b.seq[key.String()]
	b.saving[key.String()] = true
	b.mu.Unlock()

	saveErr := b.store.SavePeriod(ctx, key, snapshot)

	b.mu.Lock()
	b.saving[key.String()] = false
	if saveErr == nil && b.seq[key.String()] == seqAtSnapshot {
		// No edits arrived while the write was in flight.
		b.dirty[key.String()] = false
	}
	b.mu.Unlock()

	if saveErr != nil {
		return fmt.Errorf("save period %s: %w", key, saveErr)
	}
	b.record(fiscal.EventSave, "register period saved", actor, key)
	return nil
}

// SaveIfDirty is the autosave entry point: it skips the write entirely
// when the period has no unsaved changes or an explicit save is running.
// Returns whether a write happened.
func (b *Book) SaveIfDirty(ctx context.Context, key fiscal.PeriodKey, actor string) (bool, error) {
	b.mu.Lock()
	if !b.dirty[key.String()] || b.saving[key.String()] {
		b.mu.Unlock()
		return false, nil
	}
	b.mu.Unlock()
	if err := b.Save(ctx, key, actor); err != nil {
		if errors.Is(err, fiscal.ErrSaveInFlight) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// =============================================================================
// CLOSE WORKFLOW
// =============================================================================

// CloseEditing freezes the period and persists immediately.
func (b *Book) CloseEditing(ctx context.Context, key fiscal.PeriodKey, actor string) error {
	b.mu.Lock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err == nil {
		err = p.CloseEditing()
		if err == nil {
			b.markDirtyLocked(key)
		}
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if err := b.Save(ctx, key, actor); err != nil {
		return err
	}
	b.record(fiscal.EventEditingClosed, "editing period closed", actor, key)
	return nil
}

// CancelClose reopens the period if no signed document is attached yet.
func (b *Book) CancelClose(ctx context.Context, key fiscal.PeriodKey, actor string) error {
	b.mu.Lock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err == nil {
		err = p.CancelClose()
		if err == nil {
			b.markDirtyLocked(key)
		}
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}
	return b.Save(ctx, key, actor)
}

// SubmitSignedDocument stores the uploaded document URL. The flag and URL
// land in the same snapshot write, so the persisted state is atomic.
func (b *Book) SubmitSignedDocument(ctx context.Context, key fiscal.PeriodKey, url, actor string) error {
	b.mu.Lock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err == nil {
		err = p.AttachSignedDocument(url)
		if err == nil {
			b.markDirtyLocked(key)
		}
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if err := b.Save(ctx, key, actor); err != nil {
		return err
	}
	b.record(fiscal.EventSignedDocSubmitted, "signed document submitted", actor, key)
	return nil
}

// =============================================================================
// RESET
// =============================================================================

// ResetPeriod replaces an open period with the materialized defaults and
// persists the empty snapshot.
func (b *Book) ResetPeriod(ctx context.Context, key fiscal.PeriodKey, actor string) error {
	b.mu.Lock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err == nil && p.IsClosed() {
		err = fiscal.ErrPeriodClosed
	}
	if err == nil {
		fresh := NewPeriod(key)
		b.periods[key.String()] = fresh
		b.markDirtyLocked(key)
		err = b.carryForwardLocked(ctx, fresh)
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}
	if err := b.Save(ctx, key, actor); err != nil {
		return err
	}
	b.record(fiscal.EventPeriodReset, "register period reset", actor, key)
	return nil
}

// ResetAll wipes every persisted and cached period, closed ones included.
// Destructive admin action; the audit event is the only trace left.
func (b *Book) ResetAll(ctx context.Context, actor string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys, err := b.store.ListPeriods(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := b.store.DeletePeriod(ctx, key); err != nil {
			return fmt.Errorf("delete period %s: %w", key, err)
		}
	}
	b.periods = make(map[string]*Period)
	b.dirty = make(map[string]bool)
	b.saving = make(map[string]bool)
	b.seq = make(map[string]uint64)

	_ = b.audit.Record(context.Background(), fiscal.Event{
		Type:        fiscal.EventResetAll,
		Description: "all register periods reset",
		Actor:       actor,
	})
	return nil
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportModel maps the period into the flat render field bag and records
// the export in the audit log.
func (b *Book) ExportModel(ctx context.Context, key fiscal.PeriodKey, actor string) (ExportModel, error) {
	b.mu.Lock()
	p, err := b.getOrCreateLocked(ctx, key)
	if err != nil {
		b.mu.Unlock()
		return ExportModel{}, err
	}
	view := p.Clone()
	b.mu.Unlock()

	b.record(fiscal.EventExport, "register period exported", actor, key)
	return MapToExportModel(view), nil
}
