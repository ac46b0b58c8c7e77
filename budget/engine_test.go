package budget_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skgov/fiscal-engine/budget"
	"github.com/skgov/fiscal-engine/fiscal"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func amt(s string) fiscal.Amount {
	return fiscal.ParseAmount(s)
}

func item(name string, class budget.ExpenditureClass, amount string) budget.BudgetItem {
	return budget.BudgetItem{
		ItemName:         name,
		ItemDescription:  name,
		ExpenditureClass: class,
		Amount:           amt(amount),
		Duration:         "Jan-Dec",
	}
}

// =============================================================================
// AGGREGATION TESTS
// =============================================================================

func TestRecomputeProgramTotals_PerClassAndGrand(t *testing.T) {
	p := &budget.Program{
		ProgramName: "General Administration Program",
		ProgramType: budget.ProgramGeneralAdministration,
		Items: []budget.BudgetItem{
			item("Office Supplies", budget.ClassMOOE, "1000"),
			item("Travelling Expenses", budget.ClassMOOE, "500"),
			item("Office Equipment", budget.ClassCO, "2000"),
			item("Honoraria", budget.ClassPS, "300"),
		},
	}

	budget.RecomputeProgramTotals(p)

	assert.Equal(t, "1500.00", p.MOOETotal.String())
	assert.Equal(t, "2000.00", p.COTotal.String())
	assert.Equal(t, "300.00", p.PSTotal.String())
	assert.Equal(t, "3800.00", p.TotalAmount.String())
}

func TestRecomputeProgramTotals_Idempotent(t *testing.T) {
	// Running the aggregation twice on the same input changes nothing.
	p := &budget.Program{
		Items: []budget.BudgetItem{
			item("Office Supplies", budget.ClassMOOE, "123.45"),
			item("Office Equipment", budget.ClassCO, "678.90"),
		},
	}

	budget.RecomputeProgramTotals(p)
	first := *p
	budget.RecomputeProgramTotals(p)

	assert.Equal(t, first.MOOETotal.String(), p.MOOETotal.String())
	assert.Equal(t, first.TotalAmount.String(), p.TotalAmount.String())
}

func TestRecomputeProgramTotals_EmptyProgramIsZero(t *testing.T) {
	p := &budget.Program{}
	budget.RecomputeProgramTotals(p)

	assert.True(t, p.MOOETotal.IsZero())
	assert.True(t, p.COTotal.IsZero())
	assert.True(t, p.PSTotal.IsZero())
	assert.True(t, p.TotalAmount.IsZero())
}

func TestRecomputeReceiptTotal(t *testing.T) {
	r := &budget.Receipt{MOOEAmount: amt("800"), COAmount: amt("200")}
	budget.RecomputeReceiptTotal(r)
	assert.Equal(t, "1000.00", r.TotalAmount.String())
}

func TestComputeBudgetBalance_ReceiptsMinusExpenditures(t *testing.T) {
	// GIVEN: 10,000 in receipts and 7,500 across two programs
	// WHEN: The balance is computed
	// THEN: It is 2,500 and may legitimately go negative when overspent

	record := &budget.BudgetRecord{
		Receipts: []budget.Receipt{
			{MOOEAmount: amt("8000"), COAmount: amt("2000"), TotalAmount: amt("10000")},
		},
		Programs: []budget.Program{
			{TotalAmount: amt("5000")},
			{TotalAmount: amt("2500")},
		},
	}

	assert.Equal(t, "2500.00", budget.ComputeBudgetBalance(record).String())

	record.Programs = append(record.Programs, budget.Program{TotalAmount: amt("4000")})
	assert.Equal(t, "-1500.00", budget.ComputeBudgetBalance(record).String())
}
