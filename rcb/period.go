/*
period.go - The register period aggregate

PURPOSE:
  One Period owns the full state scoped to a (year, quarter): account
  schema, metadata, the entry list, and the editing-closed lifecycle flag.
  All mutations pass through here so the closed guard and the balance
  recomputation can never be skipped.

LIFECYCLE (ledger period):
  open → closed_for_editing. One-way; the only way back is cancelling the
  closing workflow before a signed document is attached. Once the flag is
  set and a document URL attached, the period is terminal.
*/
package rcb

import (
	"github.com/skgov/fiscal-engine/fiscal"
)

// Metadata is the per-period header block. BalanceBroughtForward is
// normally written by the carry-forward rule but may be manually overridden
// while the period is open.
type Metadata struct {
	Fund                  string        `json:"fund"`
	SheetNo               string        `json:"sheetNo"`
	BalanceBroughtForward fiscal.Amount `json:"balanceBroughtForward"`
}

const (
	DefaultFund    = "SK Fund"
	DefaultSheetNo = "1"
)

// =============================================================================
// PERIOD AGGREGATE
// =============================================================================

// Period is the aggregate for one register period. It is not safe for
// concurrent use; the Book serializes access.
type Period struct {
	Key      fiscal.PeriodKey
	Schema   AccountSchema
	Metadata Metadata
	Entries  []LedgerEntry

	EditingClosed     bool
	SignedDocumentURL string
}

// NewPeriod materializes the default aggregate for a never-seen key.
func NewPeriod(key fiscal.PeriodKey) *Period {
	return &Period{
		Key:    key,
		Schema: DefaultSchema(),
		Metadata: Metadata{
			Fund:    DefaultFund,
			SheetNo: DefaultSheetNo,
		},
	}
}

func (p *Period) recompute() {
	RecomputeBalances(p.Metadata.BalanceBroughtForward, p.Entries)
}

// EndingBalance is what carries into the next quarter.
func (p *Period) EndingBalance() fiscal.Amount {
	return EndingBalance(p.Metadata.BalanceBroughtForward, p.Entries)
}

// Totals computes the aggregate figures under the current schema.
func (p *Period) Totals() Totals {
	return ComputeTotals(p.Entries, p.Schema, p.Metadata.BalanceBroughtForward)
}

// IsClosed is the guard callers consult before offering any mutation.
func (p *Period) IsClosed() bool {
	return p.EditingClosed
}

func (p *Period) guardOpen() error {
	if p.EditingClosed {
		return fiscal.ErrPeriodClosed
	}
	return nil
}

// =============================================================================
// ENTRY MUTATIONS
// =============================================================================

// AppendEntry validates the draft against the current schema, appends the
// entry, and recomputes balances. Rejected without state change when the
// period is closed or required fields are missing.
func (p *Period) AppendEntry(draft EntryDraft) (LedgerEntry, error) {
	if err := p.guardOpen(); err != nil {
		return LedgerEntry{}, err
	}
	entry, err := draft.Normalize(p.Schema)
	if err != nil {
		return LedgerEntry{}, err
	}
	p.Entries = append(p.Entries, entry)
	p.recompute()
	return p.Entries[len(p.Entries)-1], nil
}

// RemoveEntry deletes by index and recomputes balances.
func (p *Period) RemoveEntry(index int) error {
	if err := p.guardOpen(); err != nil {
		return err
	}
	if index < 0 || index >= len(p.Entries) {
		return fiscal.ErrEntryIndexOutOfRange
	}
	p.Entries = append(p.Entries[:index], p.Entries[index+1:]...)
	p.recompute()
	return nil
}

// =============================================================================
// METADATA / SCHEMA MUTATIONS
// =============================================================================

func (p *Period) SetMetadata(fund, sheetNo string) error {
	if err := p.guardOpen(); err != nil {
		return err
	}
	p.Metadata.Fund = fund
	p.Metadata.SheetNo = sheetNo
	return nil
}

// SetBroughtForward overrides the opening balance and recomputes. Manual
// override path; the carry-forward rule uses setBroughtForwardDerived.
func (p *Period) SetBroughtForward(amount fiscal.Amount) error {
	if err := p.guardOpen(); err != nil {
		return err
	}
	p.setBroughtForwardDerived(amount)
	return nil
}

func (p *Period) setBroughtForwardDerived(amount fiscal.Amount) {
	p.Metadata.BalanceBroughtForward = amount
	p.recompute()
}

// AddAccount grows a sub-account list. Adding past the cap is a silent
// no-op by contract; only the closed guard errors.
func (p *Period) AddAccount(kind AccountKind, name string) error {
	if err := p.guardOpen(); err != nil {
		return err
	}
	p.Schema.Add(kind, name)
	return nil
}

func (p *Period) RemoveAccount(kind AccountKind, index int) error {
	if err := p.guardOpen(); err != nil {
		return err
	}
	p.Schema.Remove(kind, index)
	return nil
}

func (p *Period) RenameAccount(kind AccountKind, index int, newName string) error {
	if err := p.guardOpen(); err != nil {
		return err
	}
	p.Schema.Rename(kind, index, newName)
	return nil
}

// =============================================================================
// CLOSE WORKFLOW
// =============================================================================

// CloseEditing freezes the period. Entry, schema, and metadata mutations
// are refused from here on.
func (p *Period) CloseEditing() error {
	if p.EditingClosed {
		return &fiscal.TransitionError{From: "closed_for_editing", Action: "close"}
	}
	p.EditingClosed = true
	return nil
}

// CancelClose reopens the period. Only possible before a signed document
// has been attached; afterwards the period is terminal.
func (p *Period) CancelClose() error {
	if !p.EditingClosed {
		return &fiscal.TransitionError{From: "open", Action: "cancel close"}
	}
	if p.SignedDocumentURL != "" {
		return &fiscal.TransitionError{From: "closed_for_editing", Action: "cancel close"}
	}
	p.EditingClosed = false
	return nil
}

// AttachSignedDocument records the uploaded document URL. The upload itself
// is an external collaborator; the core only stores the resulting URL, set
// together with the closed flag so the persisted snapshot is atomic.
func (p *Period) AttachSignedDocument(url string) error {
	if !p.EditingClosed {
		return &fiscal.TransitionError{From: "open", Action: "attach signed document"}
	}
	p.SignedDocumentURL = url
	return nil
}

// =============================================================================
// SNAPSHOT CONVERSION
// =============================================================================

// Clone returns an independent copy for read-only callers.
func (p *Period) Clone() *Period {
	c := *p
	c.Schema = p.Schema.clone()
	c.Entries = make([]LedgerEntry, len(p.Entries))
	for i, e := range p.Entries {
		c.Entries[i] = e.clone()
	}
	return &c
}

// Snapshot produces the persisted document shape.
func (p *Period) Snapshot() Snapshot {
	c := p.Clone()
	s := Snapshot{
		Settings:              c.Schema,
		Metadata:              c.Metadata,
		Entries:               c.Entries,
		IsEditingPeriodClosed: c.EditingClosed,
	}
	if c.SignedDocumentURL != "" {
		url := c.SignedDocumentURL
		s.SignedPdfURL = &url
	}
	if s.Entries == nil {
		s.Entries = []LedgerEntry{}
	}
	return s
}

// PeriodFromSnapshot rebuilds the aggregate from a persisted document and
// recomputes balances, so a snapshot written by an older engine version
// can never surface stale balance columns.
func PeriodFromSnapshot(key fiscal.PeriodKey, s Snapshot) *Period {
	p := &Period{
		Key:           key,
		Schema:        s.Settings,
		Metadata:      s.Metadata,
		Entries:       s.Entries,
		EditingClosed: s.IsEditingPeriodClosed,
	}
	if s.SignedPdfURL != nil {
		p.SignedDocumentURL = *s.SignedPdfURL
	}
	p.recompute()
	return p
}
