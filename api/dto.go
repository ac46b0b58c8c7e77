/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. The domain types
  already carry the persisted JSON shape, so responses mostly embed them;
  request types exist to decouple form input from the aggregates.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in the domain (draft normalization, lifecycle
  guards), not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/skgov/fiscal-engine/budget"
	"github.com/skgov/fiscal-engine/rcb"
)

// =============================================================================
// REGISTER (RCB)
// =============================================================================

// PeriodDTO is the full register period view.
type PeriodDTO struct {
	Period            string            `json:"period"`
	Settings          rcb.AccountSchema `json:"settings"`
	Metadata          rcb.Metadata      `json:"metadata"`
	Entries           []rcb.LedgerEntry `json:"entries"`
	Totals            rcb.Totals        `json:"totals"`
	IsEditingClosed   bool              `json:"isEditingPeriodClosed"`
	SignedDocumentURL string            `json:"signedPdfUrl,omitempty"`
	Dirty             bool              `json:"dirty"`
}

// MetadataRequest updates the period header.
type MetadataRequest struct {
	Fund    string `json:"fund"`
	SheetNo string `json:"sheetNo"`
	// BalanceBroughtForward, when present, manually overrides the opening
	// balance that carry-forward would otherwise derive.
	BalanceBroughtForward *string `json:"balanceBroughtForward"`
}

// AccountRequest adds or renames a sub-account.
type AccountRequest struct {
	Name string `json:"name"`
}

// SignedDocumentRequest attaches an already-uploaded document by URL.
type SignedDocumentRequest struct {
	URL string `json:"url"`
}

// RecalculateRequest drives the explicit forward carry-forward walk.
type RecalculateRequest struct {
	Quarters int `json:"quarters"`
}

// =============================================================================
// BUDGET
// =============================================================================

// BudgetDTO is the full budget view plus the display-only balance.
type BudgetDTO struct {
	budget.BudgetRecord
	Balance string `json:"balance"`
	Dirty   bool   `json:"dirty"`
}

// HeaderRequest updates the budget header block.
type HeaderRequest struct {
	Identity     budget.Identity `json:"identity"`
	ResolutionNo string          `json:"resolution_no"`
	OrdinanceNo  string          `json:"ordinance_no"`
	TotalBudget  string          `json:"total_budget"`
}

// ItemRequest creates or replaces a budget item.
type ItemRequest struct {
	ItemName         string `json:"item_name"`
	ItemDescription  string `json:"item_description"`
	ExpenditureClass string `json:"expenditure_class"`
	Amount           string `json:"amount"`
	Duration         string `json:"duration"`
}

// ReceiptRequest creates or replaces a receipt.
type ReceiptRequest struct {
	SourceDescription string `json:"source_description"`
	Duration          string `json:"duration"`
	MOOEAmount        string `json:"mooe_amount"`
	COAmount          string `json:"co_amount"`
}

// ProgramRequest creates a program.
type ProgramRequest struct {
	ProgramName string `json:"program_name"`
	ProgramType string `json:"program_type"`
}

// ImportRequest pulls investment-plan projects into a program.
type ImportRequest struct {
	ProgramIndex int   `json:"program_index"`
	Projects     []int `json:"projects"`       // flattened indexes; null = all
	SplitByClass bool  `json:"split_by_class"` // one item per class instead of MOOE collapse
}

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
