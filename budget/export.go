/*
export.go - Budget document mapping

PURPOSE:
  Pure mapping from a BudgetRecord to the flat field bag consumed by the
  external template renderer. Every currency figure is pre-formatted
  (comma-grouped, 2 decimals), and item rows are split into separate arrays
  per expenditure class to match the target document's column layout.
*/
package budget

import "github.com/skgov/fiscal-engine/fiscal"

// ItemRow is one pre-formatted expenditure line.
type ItemRow struct {
	Program     string `json:"program"`
	ItemName    string `json:"item_name"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Duration    string `json:"duration"`
}

// ExportModel is the flat field bag plus per-class row arrays.
type ExportModel struct {
	Fields map[string]string `json:"fields"`

	MOOERows []ItemRow `json:"mooe_rows"`
	CORows   []ItemRow `json:"co_rows"`
	PSRows   []ItemRow `json:"ps_rows"`

	ReceiptRows []map[string]string `json:"receipt_rows"`
}

// MapToExportModel flattens the record for rendering. No IO, no mutation.
func MapToExportModel(r *BudgetRecord) ExportModel {
	m := ExportModel{
		Fields: map[string]string{
			"fiscalYear":    r.Identity.FiscalYear,
			"barangay":      r.Identity.Barangay,
			"city":          r.Identity.City,
			"province":      r.Identity.Province,
			"resolutionNo":  r.ResolutionNo,
			"ordinanceNo":   r.OrdinanceNo,
			"totalBudget":   r.TotalBudget.Display(),
			"budgetPercent": r.BarangayBudgetPercentage.String(),
			"status":        string(r.Status),

			"totalReceipts":     TotalReceipts(r).Display(),
			"totalExpenditures": TotalExpenditures(r).Display(),
			"budgetBalance":     ComputeBudgetBalance(r).Display(),
		},
		MOOERows:    []ItemRow{},
		CORows:      []ItemRow{},
		PSRows:      []ItemRow{},
		ReceiptRows: []map[string]string{},
	}

	for _, p := range r.Programs {
		for _, item := range p.Items {
			row := ItemRow{
				Program:     p.ProgramName,
				ItemName:    item.ItemName,
				Description: item.ItemDescription,
				Amount:      item.Amount.Display(),
				Duration:    item.Duration,
			}
			switch item.ExpenditureClass {
			case ClassCO:
				m.CORows = append(m.CORows, row)
			case ClassPS:
				m.PSRows = append(m.PSRows, row)
			default:
				m.MOOERows = append(m.MOOERows, row)
			}
		}
	}
	m.Fields["mooeTotal"] = classTotal(r, ClassMOOE).Display()
	m.Fields["coTotal"] = classTotal(r, ClassCO).Display()
	m.Fields["psTotal"] = classTotal(r, ClassPS).Display()

	for _, receipt := range r.Receipts {
		m.ReceiptRows = append(m.ReceiptRows, map[string]string{
			"source":     receipt.SourceDescription,
			"duration":   receipt.Duration,
			"mooeAmount": receipt.MOOEAmount.Display(),
			"coAmount":   receipt.COAmount.Display(),
			"total":      receipt.TotalAmount.Display(),
		})
	}

	if r.Approved != nil {
		m.Fields["approvedBy"] = r.Approved.By
		m.Fields["approvedAt"] = r.Approved.At.Format("2006-01-02")
	}
	return m
}

func classTotal(r *BudgetRecord, class ExpenditureClass) fiscal.Amount {
	total := fiscal.ZeroAmount()
	for _, p := range r.Programs {
		switch class {
		case ClassMOOE:
			total = total.Add(p.MOOETotal)
		case ClassCO:
			total = total.Add(p.COTotal)
		case ClassPS:
			total = total.Add(p.PSTotal)
		}
	}
	return total
}
