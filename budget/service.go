/*
service.go - Budget repository and guarded operations

PURPOSE:
  Service is the aggregate store for budget records: one BudgetRecord per
  fiscal year, cached in memory, loaded from and flushed to the snapshot
  Store. Every user-facing edit passes the EnsureEditable guard; lifecycle
  transitions go through the state machine and persist immediately.

CONCURRENCY:
  Same model as rcb.Book: one mutex serializes aggregate access,
  persistence stays last-write-wins.
*/
package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/skgov/fiscal-engine/fiscal"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Store persists one record per fiscal year.
type Store interface {
	// LoadRecord returns the record for the year, or fiscal.ErrRecordNotFound.
	LoadRecord(ctx context.Context, fiscalYear string) (BudgetRecord, error)

	// SaveRecord writes the full record for the year.
	SaveRecord(ctx context.Context, fiscalYear string, record BudgetRecord) error
}

// ApprovalGuard is the external role-check collaborator consulted before
// an approval. The core exposes the guard point; identity enforcement
// lives outside.
type ApprovalGuard interface {
	CanApprove(ctx context.Context, actor string) (bool, error)
}

// AllowAll approves every actor. Default when no guard is wired.
type AllowAll struct{}

func (AllowAll) CanApprove(context.Context, string) (bool, error) { return true, nil }

// Allowlist approves only the named actors.
type Allowlist []string

func (a Allowlist) CanApprove(_ context.Context, actor string) (bool, error) {
	for _, name := range a {
		if name == actor {
			return true, nil
		}
	}
	return false, nil
}

// TemplateFunc materializes the default record for a fiscal year that has
// never been initiated.
type TemplateFunc func(fiscalYear string) *BudgetRecord

var (
	// ErrApprovalNotPermitted is returned when the guard refuses the actor.
	ErrApprovalNotPermitted = errors.New("actor not permitted to approve")

	// ErrIndexOutOfRange is returned for program/item/receipt indexes the
	// record does not have.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// =============================================================================
// SERVICE
// =============================================================================

type Service struct {
	mu       sync.Mutex
	store    Store
	guard    ApprovalGuard
	audit    fiscal.Recorder
	template TemplateFunc
	logger   *slog.Logger
	now      func() time.Time

	records map[string]*BudgetRecord
	dirty   map[string]bool
	saving  map[string]bool
	seq     map[string]uint64
}

type ServiceOption func(*Service)

func WithGuard(g ApprovalGuard) ServiceOption      { return func(s *Service) { s.guard = g } }
func WithAudit(rec fiscal.Recorder) ServiceOption  { return func(s *Service) { s.audit = rec } }
func WithTemplate(fn TemplateFunc) ServiceOption   { return func(s *Service) { s.template = fn } }
func WithLogger(l *slog.Logger) ServiceOption      { return func(s *Service) { s.logger = l } }
func WithClock(now func() time.Time) ServiceOption { return func(s *Service) { s.now = now } }

func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		guard:  AllowAll{},
		audit:  fiscal.NopRecorder{},
		logger: slog.Default(),
		now:    time.Now,
		template: func(fiscalYear string) *BudgetRecord {
			return &BudgetRecord{
				Identity:                 Identity{FiscalYear: fiscalYear},
				BarangayBudgetPercentage: DefaultBarangayBudgetPercentage(),
				Status:                   StatusNotInitiated,
			}
		},
		records: make(map[string]*BudgetRecord),
		dirty:   make(map[string]bool),
		saving:  make(map[string]bool),
		seq:     make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) getOrCreateLocked(ctx context.Context, fiscalYear string) (*BudgetRecord, error) {
	if r, ok := s.records[fiscalYear]; ok {
		return r, nil
	}
	rec, err := s.store.LoadRecord(ctx, fiscalYear)
	var r *BudgetRecord
	switch {
	case err == nil:
		r = rec.Clone()
	case errors.Is(err, fiscal.ErrRecordNotFound):
		r = s.template(fiscalYear)
		r.Status = StatusNotInitiated
	default:
		return nil, fmt.Errorf("load budget %s: %w", fiscalYear, err)
	}
	s.records[fiscalYear] = r
	return r, nil
}

func (s *Service) markDirtyLocked(fiscalYear string) {
	s.dirty[fiscalYear] = true
	s.seq[fiscalYear]++
}

func (s *Service) record(eventType fiscal.EventType, description, actor, fiscalYear string) {
	_ = s.audit.Record(context.Background(), fiscal.Event{
		Type:        eventType,
		Description: description,
		Actor:       actor,
		Details:     map[string]any{"fiscal_year": fiscalYear},
	})
}

// =============================================================================
// READS
// =============================================================================

func (s *Service) Record(ctx context.Context, fiscalYear string) (*BudgetRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.getOrCreateLocked(ctx, fiscalYear)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

// Balance returns receipts minus expenditures for display.
func (s *Service) Balance(ctx context.Context, fiscalYear string) (fiscal.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.getOrCreateLocked(ctx, fiscalYear)
	if err != nil {
		return fiscal.Amount{}, err
	}
	return ComputeBudgetBalance(r), nil
}

func (s *Service) Dirty(fiscalYear string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty[fiscalYear]
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Initiate opens the fiscal year for editing, materializing the default
// program/item template when the record did not exist before. Persists
// immediately.
func (s *Service) Initiate(ctx context.Context, fiscalYear, actor string) error {
	s.mu.Lock()
	r, err := s.getOrCreateLocked(ctx, fiscalYear)
	if err == nil {
		err = Initiate(r, actor, s.now())
		if err == nil {
			for i := range r.Programs {
				RecomputeProgramTotals(&r.Programs[i])
			}
			for i := range r.Receipts {
				RecomputeReceiptTotal(&r.Receipts[i])
			}
			s.markDirtyLocked(fiscalYear)
		}
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := s.Save(ctx, fiscalYear, actor); err != nil {
		return err
	}
	s.record(fiscal.EventBudgetInitiated, "budget initiated", actor, fiscalYear)
	return nil
}

func (s *Service) Submit(ctx context.Context, fiscalYear, actor string) error {
	return s.transition(ctx, fiscalYear, actor, fiscal.EventBudgetSubmitted, "budget submitted for approval",
		func(r *BudgetRecord) error { return Submit(r, actor, s.now()) })
}

// CloseEditingPeriod converges on the same pending state as Submit but
// stamps Closed.
func (s *Service) CloseEditingPeriod(ctx context.Context, fiscalYear, actor string) error {
	return s.transition(ctx, fiscalYear, actor, fiscal.EventBudgetSubmitted, "budget editing period closed",
		func(r *BudgetRecord) error { return CloseEditingPeriod(r, actor, s.now()) })
}

// Approve consults the external guard before running the transition.
func (s *Service) Approve(ctx context.Context, fiscalYear, actor string) error {
	ok, err := s.guard.CanApprove(ctx, actor)
	if err != nil {
		return fmt.Errorf("approval guard: %w", err)
	}
	if !ok {
		return ErrApprovalNotPermitted
	}
	return s.transition(ctx, fiscalYear, actor, fiscal.EventBudgetApproved, "budget approved",
		func(r *BudgetRecord) error { return Approve(r, actor, s.now()) })
}

func (s *Service) Reject(ctx context.Context, fiscalYear, actor string) error {
	return s.transition(ctx, fiscalYear, actor, fiscal.EventBudgetRejected, "budget rejected",
		func(r *BudgetRecord) error { return Reject(r, actor, s.now()) })
}

func (s *Service) transition(ctx context.Context, fiscalYear, actor string, event fiscal.EventType, description string, fn func(*BudgetRecord) error) error {
	s.mu.Lock()
	r, err := s.getOrCreateLocked(ctx, fiscalYear)
	if err == nil {
		err = fn(r)
		if err == nil {
			s.markDirtyLocked(fiscalYear)
		}
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if err := s.Save(ctx, fiscalYear, actor); err != nil {
		return err
	}
	s.record(event, description, actor, fiscalYear)
	return nil
}

// =============================================================================
// EDITS - all pass the EnsureEditable guard
// =============================================================================

func (s *Service) mutate(ctx context.Context, fiscalYear string, fn func(*BudgetRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.getOrCreateLocked(ctx, fiscalYear)
	if err != nil {
		return err
	}
	if err := EnsureEditable(r); err != nil {
		return err
	}
	if err := fn(r); err != nil {
		return err
	}
	s.markDirtyLocked(fiscalYear)
	return nil
}

// SetIdentity overwrites the externally-supplied identity block.
func (s *Service) SetIdentity(ctx context.Context, fiscalYear string, identity Identity) error {
	return s.mutate(ctx, fiscalYear, func(r *BudgetRecord) error {
		identity.FiscalYear = fiscalYear
		r.Identity = identity
		return nil
	})
}

func (s *Service) SetHeader(ctx context.Context, fiscalYear, resolutionNo, ordinanceNo string, totalBudget fiscal.Amount) error {
	return s.mutate(ctx, fiscalYear, func(r *BudgetRecord) error {
		r.ResolutionNo = resolutionNo
		r.OrdinanceNo = ordinanceNo
		r.TotalBudget = totalBudget.NonNegative()
		return nil
	})
}

func (s *Service) AddProgram(ctx context.Context, fiscalYear, name string, ptype ProgramType) error {
	return s.mutate(ctx, fiscalYear, func(r *BudgetRecord) error {
		r.Programs = append(r.Programs, Program{ProgramName: name, ProgramType: ptype})
		return nil
	})
}

// AddItem appends an item to a program and recomputes its totals.
func (s *Service) AddItem(ctx context.Context, fiscalYear string, programIndex int, item BudgetItem) error {
	return s.mutateProgram(ctx, fiscalYear, programIndex, func(p *Program) error {
		item.Amount = item.Amount.NonNegative()
		p.Items = append(p.Items, item)
		return nil
	})
}

// AppendItems is the bulk path used by the investment-plan import.
func (s *Service) AppendItems(ctx context.Context, fiscalYear string, programIndex int, items []BudgetItem) error {
	return s.mutateProgram(ctx, fiscalYear, programIndex, func(p *Program) error {
		for _, item := range items {
			item.Amount = item.Amount.NonNegative()
			p.Items = append(p.Items, item)
		}
		return nil
	})
}

func (s *Service) UpdateItem(ctx context.Context, fiscalYear string, programIndex, itemIndex int, item BudgetItem) error {
	return s.mutateProgram(ctx, fiscalYear, programIndex, func(p *Program) error {
		if itemIndex < 0 || itemIndex >= len(p.Items) {
			return ErrIndexOutOfRange
		}
		item.Amount = item.Amount.NonNegative()
		p.Items[itemIndex] = item
		return nil
	})
}

func (s *Service) RemoveItem(ctx context.Context, fiscalYear string, programIndex, itemIndex int) error {
	return s.mutateProgram(ctx, fiscalYear, programIndex, func(p *Program) error {
		if itemIndex < 0 || itemIndex >= len(p.Items) {
			return ErrIndexOutOfRange
		}
		p.Items = append(p.Items[:itemIndex], p.Items[itemIndex+1:]...)
		return nil
	})
}

func (s *Service) mutateProgram(ctx context.Context, fiscalYear string, programIndex int, fn func(*Program) error) error {
	return s.mutate(ctx, fiscalYear, func(r *BudgetRecord) error {
		if programIndex < 0 || programIndex >= len(r.Programs) {
			return ErrIndexOutOfRange
		}
		if err := fn(&r.Programs[programIndex]); err != nil {
			return err
		}
		RecomputeProgramTotals(&r.Programs[programIndex])
		return nil
	})
}

func (s *Service) AddReceipt(ctx context.Context, fiscalYear string, receipt Receipt) error {
	return s.mutate(ctx, fiscalYear, func(r *BudgetRecord) error {
		receipt.MOOEAmount = receipt.MOOEAmount.NonNegative()
		receipt.COAmount = receipt.COAmount.NonNegative()
		RecomputeReceiptTotal(&receipt)
		r.Receipts = append(r.Receipts, receipt)
		return nil
	})
}

func (s *Service) UpdateReceipt(ctx context.Context, fiscalYear string, index int, receipt Receipt) error {
	return s.mutate(ctx, fiscalYear, func(r *BudgetRecord) error {
		if index < 0 || index >= len(r.Receipts) {
			return ErrIndexOutOfRange
		}
		receipt.MOOEAmount = receipt.MOOEAmount.NonNegative()
		receipt.COAmount = receipt.COAmount.NonNegative()
		RecomputeReceiptTotal(&receipt)
		r.Receipts[index] = receipt
		return nil
	})
}

func (s *Service) RemoveReceipt(ctx context.Context, fiscalYear string, index int) error {
	return s.mutate(ctx, fiscalYear, func(r *BudgetRecord) error {
		if index < 0 || index >= len(r.Receipts) {
			return ErrIndexOutOfRange
		}
		r.Receipts = append(r.Receipts[:index], r.Receipts[index+1:]...)
		return nil
	})
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// Save persists the record now. Mirrors rcb.Book.Save: refuses overlapping
// explicit saves in flight, and a failed write keeps the dirty flag set.
func (s *Service) Save(ctx context.Context, fiscalYear, actor string) error {
	s.mu.Lock()
	if s.saving[fiscalYear] {
		s.mu.Unlock()
		return fiscal.ErrSaveInFlight
	}
	r, err := s.getOrCreateLocked(ctx, fiscalYear)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	snapshot := *r.Clone()
	seqAtSnapshot := s.seq[fiscalYear]
	s.saving[fiscalYear] = true
	s.mu.Unlock()

	saveErr := s.store.SaveRecord(ctx, fiscalYear, snapshot)

	s.mu.Lock()
	s.saving[fiscalYear] = false
	if saveErr == nil && s.seq[fiscalYear] == seqAtSnapshot {
		s.dirty[fiscalYear] = false
	}
	s.mu.Unlock()

	if saveErr != nil {
		return fmt.Errorf("save budget %s: %w", fiscalYear, saveErr)
	}
	s.record(fiscal.EventSave, "budget saved", actor, fiscalYear)
	return nil
}

// SaveIfDirty is the autosave entry point.
func (s *Service) SaveIfDirty(ctx context.Context, fiscalYear, actor string) (bool, error) {
	s.mu.Lock()
	if !s.dirty[fiscalYear] || s.saving[fiscalYear] {
		s.mu.Unlock()
		return false, nil
	}
	s.mu.Unlock()
	if err := s.Save(ctx, fiscalYear, actor); err != nil {
		if errors.Is(err, fiscal.ErrSaveInFlight) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportModel maps the record into the render field bag and records the
// export in the audit log.
func (s *Service) ExportModel(ctx context.Context, fiscalYear, actor string) (ExportModel, error) {
	s.mu.Lock()
	r, err := s.getOrCreateLocked(ctx, fiscalYear)
	if err != nil {
		s.mu.Unlock()
		return ExportModel{}, err
	}
	view := r.Clone()
	s.mu.Unlock()

	s.record(fiscal.EventExport, "budget exported", actor, fiscalYear)
	return MapToExportModel(view), nil
}
