/*
engine.go - Budget aggregation engine

PURPOSE:
  Pure derived-total functions for the annual budget. Each is re-run after
  every mutation to its inputs; none keeps hidden state, so running one
  twice on the same input yields identical output.
*/
package budget

import "github.com/skgov/fiscal-engine/fiscal"

// RecomputeProgramTotals rewrites the program's four derived totals from
// its item list: one total per expenditure class plus the grand total.
func RecomputeProgramTotals(p *Program) {
	mooe, co, ps := fiscal.ZeroAmount(), fiscal.ZeroAmount(), fiscal.ZeroAmount()
	for _, item := range p.Items {
		switch item.ExpenditureClass {
		case ClassMOOE:
			mooe = mooe.Add(item.Amount)
		case ClassCO:
			co = co.Add(item.Amount)
		case ClassPS:
			ps = ps.Add(item.Amount)
		}
	}
	p.MOOETotal = mooe
	p.COTotal = co
	p.PSTotal = ps
	p.TotalAmount = mooe.Add(co).Add(ps)
}

// RecomputeReceiptTotal rewrites the receipt's derived total from its two
// addends.
func RecomputeReceiptTotal(r *Receipt) {
	r.TotalAmount = r.MOOEAmount.Add(r.COAmount)
}

// ComputeBudgetBalance returns receipts minus program expenditures. Display
// only; it is never persisted as a field.
func ComputeBudgetBalance(record *BudgetRecord) fiscal.Amount {
	balance := fiscal.ZeroAmount()
	for _, r := range record.Receipts {
		balance = balance.Add(r.TotalAmount)
	}
	for _, p := range record.Programs {
		balance = balance.Sub(p.TotalAmount)
	}
	return balance
}

// TotalReceipts sums all receipt totals.
func TotalReceipts(record *BudgetRecord) fiscal.Amount {
	total := fiscal.ZeroAmount()
	for _, r := range record.Receipts {
		total = total.Add(r.TotalAmount)
	}
	return total
}

// TotalExpenditures sums all program totals.
func TotalExpenditures(record *BudgetRecord) fiscal.Amount {
	total := fiscal.ZeroAmount()
	for _, p := range record.Programs {
		total = total.Add(p.TotalAmount)
	}
	return total
}
