/*
Package factory provides JSON to Go budget-template conversion.

PURPOSE:
  Converts a JSON template definition into the default BudgetRecord a
  fiscal year is materialized with on initiation. This keeps the default
  program/item layout configurable without code changes: a council can
  maintain its own template JSON, and the factory builds the record.

JSON SCHEMA:
  {
    "receipts": [
      {"source_description": "10% Barangay Fund Share", "duration": "January - December"}
    ],
    "programs": [
      {
        "program_name": "General Administration Program",
        "program_type": "general_administration",
        "items": [
          {"item_name": "Office Supplies", "expenditure_class": "MOOE", "amount": "0"}
        ]
      }
    ]
  }

KEY FEATURES:
  - Validates program types and expenditure classes, defaulting
    unrecognized values rather than failing
  - Amounts accept the same lenient string forms as the rest of the engine
  - Derived totals are recomputed after construction

USAGE:
  tf := factory.NewTemplateFactory()
  record, err := tf.Parse(customJSON, "2024")

  // Or use the built-in default as the budget service template:
  svc := budget.NewService(store, budget.WithTemplate(factory.DefaultTemplate))

SEE ALSO:
  - budget/service.go: template hook consumed on initiation
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/skgov/fiscal-engine/budget"
	"github.com/skgov/fiscal-engine/fiscal"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type TemplateJSON struct {
	Receipts []ReceiptJSON `json:"receipts"`
	Programs []ProgramJSON `json:"programs"`
}

type ReceiptJSON struct {
	SourceDescription string `json:"source_description"`
	Duration          string `json:"duration"`
	MOOEAmount        string `json:"mooe_amount"`
	COAmount          string `json:"co_amount"`
}

type ProgramJSON struct {
	ProgramName string     `json:"program_name"`
	ProgramType string     `json:"program_type"`
	Items       []ItemJSON `json:"items"`
}

type ItemJSON struct {
	ItemName         string `json:"item_name"`
	ItemDescription  string `json:"item_description"`
	ExpenditureClass string `json:"expenditure_class"`
	Amount           string `json:"amount"`
	Duration         string `json:"duration"`
}

// =============================================================================
// TEMPLATE FACTORY
// =============================================================================

type TemplateFactory struct{}

func NewTemplateFactory() *TemplateFactory {
	return &TemplateFactory{}
}

// Parse builds the default record for a fiscal year from a JSON template.
func (f *TemplateFactory) Parse(templateJSON []byte, fiscalYear string) (*budget.BudgetRecord, error) {
	var t TemplateJSON
	if err := json.Unmarshal(templateJSON, &t); err != nil {
		return nil, fmt.Errorf("parse budget template: %w", err)
	}

	record := &budget.BudgetRecord{
		Identity:                 budget.Identity{FiscalYear: fiscalYear},
		BarangayBudgetPercentage: budget.DefaultBarangayBudgetPercentage(),
		Status:                   budget.StatusNotInitiated,
	}

	for _, rj := range t.Receipts {
		receipt := budget.Receipt{
			SourceDescription: rj.SourceDescription,
			Duration:          rj.Duration,
			MOOEAmount:        fiscal.ParseAmount(rj.MOOEAmount).NonNegative(),
			COAmount:          fiscal.ParseAmount(rj.COAmount).NonNegative(),
		}
		budget.RecomputeReceiptTotal(&receipt)
		record.Receipts = append(record.Receipts, receipt)
	}

	for _, pj := range t.Programs {
		program := budget.Program{
			ProgramName: pj.ProgramName,
			ProgramType: programType(pj.ProgramType),
		}
		for _, ij := range pj.Items {
			program.Items = append(program.Items, budget.BudgetItem{
				ItemName:         ij.ItemName,
				ItemDescription:  ij.ItemDescription,
				ExpenditureClass: expenditureClass(ij.ExpenditureClass),
				Amount:           fiscal.ParseAmount(ij.Amount).NonNegative(),
				Duration:         ij.Duration,
			})
		}
		budget.RecomputeProgramTotals(&program)
		record.Programs = append(record.Programs, program)
	}

	return record, nil
}

func programType(s string) budget.ProgramType {
	switch budget.ProgramType(s) {
	case budget.ProgramGeneralAdministration, budget.ProgramYouthDevelopment, budget.ProgramOther:
		return budget.ProgramType(s)
	}
	return budget.ProgramOther
}

func expenditureClass(s string) budget.ExpenditureClass {
	if c := budget.ExpenditureClass(s); c.Valid() {
		return c
	}
	return budget.ClassMOOE
}

// =============================================================================
// BUILT-IN DEFAULT
// =============================================================================

const defaultTemplateJSON = `{
  "receipts": [
    {"source_description": "10% Barangay Fund Share", "duration": "January - December"}
  ],
  "programs": [
    {
      "program_name": "General Administration Program",
      "program_type": "general_administration",
      "items": [
        {"item_name": "Office Supplies", "item_description": "Supplies and materials for SK operations", "expenditure_class": "MOOE", "duration": "January - December"},
        {"item_name": "Travelling Expenses", "item_description": "Transportation for official activities", "expenditure_class": "MOOE", "duration": "January - December"}
      ]
    },
    {
      "program_name": "Youth Development and Empowerment Program",
      "program_type": "youth_development",
      "items": []
    }
  ]
}`

// DefaultTemplate materializes the built-in template. It satisfies
// budget.TemplateFunc; the JSON is compiled in, so parsing cannot fail.
func DefaultTemplate(fiscalYear string) *budget.BudgetRecord {
	record, err := NewTemplateFactory().Parse([]byte(defaultTemplateJSON), fiscalYear)
	if err != nil {
		panic(fmt.Sprintf("built-in budget template invalid: %v", err))
	}
	return record
}
