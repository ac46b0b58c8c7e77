/*
export.go - Register document mapping

PURPOSE:
  Pure mapping from a Period to the flat field bag consumed by the external
  template renderer. Every currency figure is pre-formatted (comma-grouped,
  2 decimals); sub-account columns follow the period's schema so the
  rendered document grows and shrinks with it. The core never touches file
  bytes; the collaborator contract is render(templateID, fieldBag).
*/
package rcb

import (
	"fmt"

	"github.com/skgov/fiscal-engine/fiscal"
)

// ExportModel is the flat field bag for the register document.
type ExportModel struct {
	Fields map[string]string   `json:"fields"`
	Rows   []map[string]string `json:"rows"`
}

// MapToExportModel flattens the period for rendering. It does not mutate
// the period and performs no IO.
func MapToExportModel(p *Period) ExportModel {
	totals := p.Totals()

	fields := map[string]string{
		"fund":                  p.Metadata.Fund,
		"sheetNo":               p.Metadata.SheetNo,
		"year":                  p.Key.Year,
		"quarter":               string(p.Key.Quarter),
		"period":                p.Key.String(),
		"balanceBroughtForward": p.Metadata.BalanceBroughtForward.Display(),
		"totalDeposit":          totals.Deposit.Display(),
		"totalWithdrawal":       totals.Withdrawal.Display(),
		"endingBalance":         totals.Balance.Display(),
		"advancesToOfficials":   totals.AdvancesToOfficials.Display(),
		"advancesToTreasurer":   totals.AdvancesToTreasurer.Display(),
		"others":                totals.Others.Display(),
	}

	// Column labels and per-column totals track the current schema. Unused
	// columns render as empty strings so the template's fixed layout holds.
	putColumns(fields, "mooe", p.Schema.MOOEAccounts, totals.MOOE)
	putColumns(fields, "co", p.Schema.COAccounts, totals.CapitalOutlay)
	putColumns(fields, "wht", p.Schema.WithholdingBuckets(), totals.Withholding)

	rows := make([]map[string]string, len(p.Entries))
	for i, e := range p.Entries {
		row := map[string]string{
			"date":        e.Date,
			"reference":   e.Reference,
			"payee":       e.Payee,
			"particulars": e.Particulars,
			"deposit":     blankIfZero(e.Deposit),
			"withdrawal":  blankIfZero(e.Withdrawal),
			"balance":     e.Balance.Display(),
			"advancesToOfficials": blankIfZero(e.AdvancesToOfficials),
			"advancesToTreasurer": blankIfZero(e.AdvancesToTreasurer),
			"others":              blankIfZero(e.Others),
		}
		putRowColumns(row, "mooe", p.Schema.MOOEAccounts, e.MOOE)
		putRowColumns(row, "co", p.Schema.COAccounts, e.CapitalOutlay)
		putRowColumns(row, "wht", p.Schema.WithholdingBuckets(), e.Withholding)
		rows[i] = row
	}

	return ExportModel{Fields: fields, Rows: rows}
}

func putColumns(fields map[string]string, prefix string, names []string, sums map[string]fiscal.Amount) {
	for i := 0; i < MaxAccountsPerKind; i++ {
		label, total := "", ""
		if i < len(names) {
			label = names[i]
			total = sums[names[i]].Display()
		}
		fields[fmt.Sprintf("%sLabel%d", prefix, i+1)] = label
		fields[fmt.Sprintf("%sTotal%d", prefix, i+1)] = total
	}
}

func putRowColumns(row map[string]string, prefix string, names []string, values map[string]fiscal.Amount) {
	for i := 0; i < MaxAccountsPerKind; i++ {
		v := ""
		if i < len(names) {
			v = blankIfZero(values[names[i]])
		}
		row[fmt.Sprintf("%s%d", prefix, i+1)] = v
	}
}

func blankIfZero(a fiscal.Amount) string {
	if a.IsZero() {
		return ""
	}
	return a.Display()
}
