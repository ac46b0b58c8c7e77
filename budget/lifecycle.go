/*
lifecycle.go - Budget approval state machine

PURPOSE:
  Governs the status of a BudgetRecord:

    not_initiated → open_for_editing → pending_approval → approved
                          ▲                   │
                          └───── reject ──────┘

  Approved is terminal; there is no designed transition back to editing.
  Rejection reopens editing and clears nothing else; programs, items, and
  receipts survive for continued editing.

GUARD POINT:
  The role check for approval belongs to an external collaborator. The core
  exposes the guard (Service.Approve consults its ApprovalGuard) but never
  enforces identity itself.

All functions here are pure mutations of the record; every refused
transition returns a TransitionError so the caller can explain why the
action is blocked. Nothing is silently ignored.
*/
package budget

import (
	"time"

	"github.com/skgov/fiscal-engine/fiscal"
)

// EnsureEditable is the guard for every user-facing field mutation: items,
// receipts, and metadata may only change while the record is open for
// editing. Lifecycle stamps and status itself remain settable through the
// transition functions regardless.
func EnsureEditable(r *BudgetRecord) error {
	if r.Status != StatusOpenForEditing {
		return fiscal.ErrNotEditable
	}
	return nil
}

// Initiate moves not_initiated → open_for_editing and stamps the actor.
// Template materialization for a brand-new fiscal year is the repository's
// job; this transition only governs status.
func Initiate(r *BudgetRecord, actor string, now time.Time) error {
	if r.Status != StatusNotInitiated {
		return &fiscal.TransitionError{From: string(r.Status), Action: "initiate"}
	}
	r.Status = StatusOpenForEditing
	r.Initiated = &Stamp{By: actor, At: now}
	return nil
}

// Submit moves open_for_editing → pending_approval and stamps Submitted.
func Submit(r *BudgetRecord, actor string, now time.Time) error {
	if r.Status != StatusOpenForEditing {
		return &fiscal.TransitionError{From: string(r.Status), Action: "submit"}
	}
	r.Status = StatusPendingApproval
	r.Submitted = &Stamp{By: actor, At: now}
	return nil
}

// CloseEditingPeriod is the close-editing variant of submission: it
// converges on the same pending_approval state but stamps Closed instead.
func CloseEditingPeriod(r *BudgetRecord, actor string, now time.Time) error {
	if r.Status != StatusOpenForEditing {
		return &fiscal.TransitionError{From: string(r.Status), Action: "close"}
	}
	r.Status = StatusPendingApproval
	r.Closed = &Stamp{By: actor, At: now}
	return nil
}

// Approve moves pending_approval → approved. Terminal.
func Approve(r *BudgetRecord, actor string, now time.Time) error {
	if r.Status != StatusPendingApproval {
		return &fiscal.TransitionError{From: string(r.Status), Action: "approve"}
	}
	r.Status = StatusApproved
	r.Approved = &Stamp{By: actor, At: now}
	return nil
}

// Reject moves pending_approval back to open_for_editing, stamping
// Rejected. Everything else on the record is retained.
func Reject(r *BudgetRecord, actor string, now time.Time) error {
	if r.Status != StatusPendingApproval {
		return &fiscal.TransitionError{From: string(r.Status), Action: "reject"}
	}
	r.Status = StatusOpenForEditing
	r.Rejected = &Stamp{By: actor, At: now}
	return nil
}
