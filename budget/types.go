/*
Package budget implements the annual SK budget: receipts, programs with
line items, derived totals, and the approval lifecycle.

PURPOSE:
  One BudgetRecord per fiscal year is the aggregate. The aggregation engine
  (engine.go) keeps program- and record-level totals derived from the item
  lists; the lifecycle state machine (lifecycle.go) governs status; the
  Service (service.go) is the keyed repository with status-guarded edits.

SEE ALSO:
  - engine.go: derived totals
  - lifecycle.go: status transitions
  - export.go: document field-bag mapping
*/
package budget

import (
	"time"

	"github.com/skgov/fiscal-engine/fiscal"
)

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusNotInitiated    Status = "not_initiated"
	StatusOpenForEditing  Status = "open_for_editing"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected" // transient: reject() lands back on open_for_editing
)

// =============================================================================
// EXPENDITURE CLASSES
// =============================================================================

type ExpenditureClass string

const (
	ClassMOOE ExpenditureClass = "MOOE"
	ClassCO   ExpenditureClass = "CO"
	ClassPS   ExpenditureClass = "PS"
)

func (c ExpenditureClass) Valid() bool {
	switch c {
	case ClassMOOE, ClassCO, ClassPS:
		return true
	}
	return false
}

// =============================================================================
// PROGRAM TYPES
// =============================================================================

type ProgramType string

const (
	ProgramGeneralAdministration ProgramType = "general_administration"
	ProgramYouthDevelopment      ProgramType = "youth_development"
	ProgramOther                 ProgramType = "other"
)

// =============================================================================
// RECORD SHAPE
// =============================================================================

// Identity is externally supplied and overwritten on every save; the core
// never derives it.
type Identity struct {
	FiscalYear string `json:"fiscal_year"`
	Barangay   string `json:"barangay"`
	City       string `json:"city"`
	Province   string `json:"province"`
}

// Stamp records who performed a lifecycle action and when.
type Stamp struct {
	By string    `json:"by"`
	At time.Time `json:"at"`
}

// Receipt is one income source. TotalAmount is derived: it is recomputed
// from the two addends on every edit.
type Receipt struct {
	SourceDescription string        `json:"source_description"`
	Duration          string        `json:"duration"`
	MOOEAmount        fiscal.Amount `json:"mooe_amount"`
	COAmount          fiscal.Amount `json:"co_amount"`
	TotalAmount       fiscal.Amount `json:"total_amount"`
}

// BudgetItem is one expenditure line inside a program.
type BudgetItem struct {
	ItemName         string           `json:"item_name"`
	ItemDescription  string           `json:"item_description"`
	ExpenditureClass ExpenditureClass `json:"expenditure_class"`
	Amount           fiscal.Amount    `json:"amount"`
	Duration         string           `json:"duration"`
}

// Program groups items and carries four derived totals, recomputed after
// every item mutation including bulk import.
type Program struct {
	ProgramName string      `json:"program_name"`
	ProgramType ProgramType `json:"program_type"`
	Items       []BudgetItem `json:"items"`

	MOOETotal   fiscal.Amount `json:"mooe_total"`
	COTotal     fiscal.Amount `json:"co_total"`
	PSTotal     fiscal.Amount `json:"ps_total"`
	TotalAmount fiscal.Amount `json:"total_amount"`
}

// BudgetRecord is the aggregate for one fiscal year.
type BudgetRecord struct {
	Identity Identity `json:"identity"`

	ResolutionNo string `json:"resolution_no"`
	OrdinanceNo  string `json:"ordinance_no"`

	TotalBudget              fiscal.Amount `json:"total_budget"`
	BarangayBudgetPercentage fiscal.Amount `json:"barangay_budget_percentage"`

	Status Status `json:"status"`

	Receipts []Receipt `json:"receipts"`
	Programs []Program `json:"programs"`

	Initiated *Stamp `json:"initiated,omitempty"`
	Submitted *Stamp `json:"submitted,omitempty"`
	Closed    *Stamp `json:"closed,omitempty"`
	Approved  *Stamp `json:"approved,omitempty"`
	Rejected  *Stamp `json:"rejected,omitempty"`
}

// DefaultBarangayBudgetPercentage is the statutory 10% share.
func DefaultBarangayBudgetPercentage() fiscal.Amount {
	return fiscal.NewAmount(10.00)
}

func (r *BudgetRecord) Clone() *BudgetRecord {
	c := *r
	c.Receipts = append([]Receipt(nil), r.Receipts...)
	c.Programs = make([]Program, len(r.Programs))
	for i, p := range r.Programs {
		cp := p
		cp.Items = append([]BudgetItem(nil), p.Items...)
		c.Programs[i] = cp
	}
	c.Initiated = cloneStamp(r.Initiated)
	c.Submitted = cloneStamp(r.Submitted)
	c.Closed = cloneStamp(r.Closed)
	c.Approved = cloneStamp(r.Approved)
	c.Rejected = cloneStamp(r.Rejected)
	return &c
}

func cloneStamp(s *Stamp) *Stamp {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
