/*
Package rcb implements the Register of Cash in Bank: the quarterly cash
ledger of the SK fiscal engine.

PURPOSE:
  Owns everything scoped to a register period (one year+quarter):
  - LedgerEntry: the transaction record and its validation rules
  - AccountSchema: the configurable MOOE/CO/withholding sub-accounts
  - The running-balance engine and period totals
  - The Period aggregate and the Book (keyed repository with carry-forward)

KEY CONCEPTS:
  Entries form an append-only list in insertion order with index-based
  delete. The balance column is always derived: it is recomputed from the
  period's brought-forward balance after every append or delete, never
  edited directly. The ledger is chronological-by-entry; no date sort is
  performed, callers enter rows in date order.

SEE ALSO:
  - engine.go: balance recomputation and totals
  - book.go: the period repository and carry-forward rule
*/
package rcb

import (
	"strings"

	"github.com/skgov/fiscal-engine/fiscal"
)

// =============================================================================
// LEDGER ENTRY - One row of the register
// =============================================================================

// LedgerEntry is a single register row. Balance is computed by the engine
// and is not user-editable; there is no in-place edit after creation other
// than delete-then-re-add as a new draft.
//
// The per-account maps key on sub-account names from the schema the entry
// was created under. Renaming or removing a sub-account later leaves those
// values keyed under the old name; the totals engine treats missing keys as
// zero rather than erroring.
type LedgerEntry struct {
	Date        string `json:"date"`
	Reference   string `json:"reference"`
	Payee       string `json:"payee"`
	Particulars string `json:"particulars"`

	Deposit    fiscal.Amount `json:"deposit"`
	Withdrawal fiscal.Amount `json:"withdrawal"`
	Balance    fiscal.Amount `json:"balance"`

	MOOE          map[string]fiscal.Amount `json:"mooe"`
	CapitalOutlay map[string]fiscal.Amount `json:"co"`
	Withholding   map[string]fiscal.Amount `json:"withholding"`

	AdvancesToOfficials fiscal.Amount `json:"advancesToOfficials"`
	AdvancesToTreasurer fiscal.Amount `json:"advancesToTreasurer"`
	Others              fiscal.Amount `json:"others"`
}

func (e LedgerEntry) clone() LedgerEntry {
	c := e
	c.MOOE = cloneAmountMap(e.MOOE)
	c.CapitalOutlay = cloneAmountMap(e.CapitalOutlay)
	c.Withholding = cloneAmountMap(e.Withholding)
	return c
}

func cloneAmountMap(m map[string]fiscal.Amount) map[string]fiscal.Amount {
	if m == nil {
		return nil
	}
	c := make(map[string]fiscal.Amount, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// =============================================================================
// ENTRY DRAFT - Raw input before validation/normalization
// =============================================================================

// EntryDraft carries raw form input. All numeric fields are free text;
// normalization parses them leniently (malformed input becomes zero) and
// clamps negatives, so a draft can never inject NaN or a negative amount
// into the running balance.
type EntryDraft struct {
	Date        string `json:"date"`
	Reference   string `json:"reference"`
	Payee       string `json:"payee"`
	Particulars string `json:"particulars"`

	Deposit    string `json:"deposit"`
	Withdrawal string `json:"withdrawal"`

	MOOE          map[string]string `json:"mooe"`
	CapitalOutlay map[string]string `json:"co"`
	Withholding   map[string]string `json:"withholding"`

	AdvancesToOfficials string `json:"advancesToOfficials"`
	AdvancesToTreasurer string `json:"advancesToTreasurer"`
	Others              string `json:"others"`
}

// Normalize validates the draft and produces a conforming LedgerEntry.
// Date, reference, and payee are required; a missing one is a blocking
// ValidationError and no entry is produced. The per-account maps are built
// from the CURRENT schema: names the schema no longer carries are dropped,
// names the draft does not supply default to zero.
func (d EntryDraft) Normalize(schema AccountSchema) (LedgerEntry, error) {
	var missing []string
	if strings.TrimSpace(d.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(d.Reference) == "" {
		missing = append(missing, "reference")
	}
	if strings.TrimSpace(d.Payee) == "" {
		missing = append(missing, "payee")
	}
	if len(missing) > 0 {
		return LedgerEntry{}, &fiscal.ValidationError{Missing: missing}
	}

	return LedgerEntry{
		Date:        strings.TrimSpace(d.Date),
		Reference:   strings.TrimSpace(d.Reference),
		Payee:       strings.TrimSpace(d.Payee),
		Particulars: strings.TrimSpace(d.Particulars),

		Deposit:    parseAmountField(d.Deposit),
		Withdrawal: parseAmountField(d.Withdrawal),

		MOOE:          conformMap(d.MOOE, schema.MOOEAccounts),
		CapitalOutlay: conformMap(d.CapitalOutlay, schema.COAccounts),
		Withholding:   conformMap(d.Withholding, schema.WithholdingTypes),

		AdvancesToOfficials: parseAmountField(d.AdvancesToOfficials),
		AdvancesToTreasurer: parseAmountField(d.AdvancesToTreasurer),
		Others:              parseAmountField(d.Others),
	}, nil
}

func parseAmountField(s string) fiscal.Amount {
	return fiscal.ParseAmount(s).NonNegative()
}

func conformMap(raw map[string]string, names []string) map[string]fiscal.Amount {
	out := make(map[string]fiscal.Amount, len(names))
	for _, name := range names {
		out[name] = parseAmountField(raw[name])
	}
	return out
}
