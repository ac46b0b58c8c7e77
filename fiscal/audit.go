/*
audit.go - Fire-and-forget activity log

PURPOSE:
  Emits "who did what" events at the operations the register and budget
  services perform: entry added, period reset, reset-all, save, export,
  editing-period-closed, signed-document-submitted.

CONTRACT:
  Audit recording must never block or fail the primary operation. The async
  recorder swallows sink errors (logging them) and always returns nil to the
  caller. The ledger of record is the snapshot store, not the audit log.

SEE ALSO:
  - store/sqlite: persistent sink (append-only audit_log table)
  - rcb/book.go, budget/service.go: emission points
*/
package fiscal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// EVENT
// =============================================================================

type EventType string

const (
	EventEntryAdded        EventType = "entry_added"
	EventPeriodReset       EventType = "period_reset"
	EventResetAll          EventType = "reset_all"
	EventSave              EventType = "save"
	EventExport            EventType = "export"
	EventEditingClosed     EventType = "editing_period_closed"
	EventSignedDocSubmitted EventType = "signed_document_submitted"
	EventBudgetInitiated   EventType = "budget_initiated"
	EventBudgetSubmitted   EventType = "budget_submitted"
	EventBudgetApproved    EventType = "budget_approved"
	EventBudgetRejected    EventType = "budget_rejected"
)

// Event records a single audited action.
type Event struct {
	ID          string         `json:"id"`
	Type        EventType      `json:"type"`
	Description string         `json:"description"`
	Actor       string         `json:"actor"`
	Details     map[string]any `json:"details,omitempty"`
	At          time.Time      `json:"at"`
}

// Recorder is the audit sink. Implementations may persist, forward, or drop
// events; callers treat Record as fire-and-forget.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}

// =============================================================================
// NOP RECORDER
// =============================================================================

type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Event) error { return nil }

// =============================================================================
// ASYNC RECORDER - Never blocks, never fails the caller
// =============================================================================

// AsyncRecorder forwards events to a sink on a background goroutine. Sink
// failures are logged and dropped; Record always returns nil.
type AsyncRecorder struct {
	Sink   Recorder
	Logger *slog.Logger

	wg sync.WaitGroup
}

func NewAsyncRecorder(sink Recorder, logger *slog.Logger) *AsyncRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncRecorder{Sink: sink, Logger: logger}
}

func (r *AsyncRecorder) Record(_ context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		// Detached context: the audit write must outlive the request.
		if err := r.Sink.Record(context.Background(), event); err != nil {
			r.Logger.Error("audit record failed",
				"event_type", string(event.Type),
				"actor", event.Actor,
				"err", err,
			)
		}
	}()
	return nil
}

// Wait blocks until all in-flight events are flushed. Used at shutdown and
// in tests.
func (r *AsyncRecorder) Wait() {
	r.wg.Wait()
}
