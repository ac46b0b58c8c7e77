/*
Package abyip converts Annual Barangay Youth Investment Plan projects into
budget items.

PURPOSE:
  The investment-plan source is an external read-only document: a tree of
  centers, each holding project records whose budget figures appear under
  inconsistent field names (`budget.mooe` sub-fields in some records, flat
  `mooe_amount` style fields in others, strings with digit grouping in
  both). This package resolves each component through a fixed-priority
  fallback chain, defaulting anything unresolved to zero. Shape problems
  in the source never become errors.

IMPORT MODES:
  Collapse (default): the three class components are summed into a single
  item labeled MOOE, matching the historical behavior of the system this
  replaces. SplitByClass emits one item per non-zero class instead;
  whether collapse is actually intended is an open product question, so
  both behaviors are kept and the default stays faithful.

SEE ALSO:
  - budget/service.go: AppendItems, the bulk target of an import
*/
package abyip

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/skgov/fiscal-engine/budget"
	"github.com/skgov/fiscal-engine/fiscal"
)

// =============================================================================
// SOURCE SHAPES
// =============================================================================

// Project is one investment-plan project record, kept as raw keyed values
// so heterogeneous shapes survive decoding untouched.
type Project map[string]any

// Center groups projects under a program center.
type Center struct {
	Name     string    `json:"name"`
	Projects []Project `json:"projects"`
}

// Plan is the full investment-plan document for one fiscal year.
type Plan struct {
	FiscalYear string   `json:"fiscal_year"`
	Centers    []Center `json:"centers"`
}

// Projects flattens all centers' projects in document order.
func (p Plan) Projects() []Project {
	var out []Project
	for _, c := range p.Centers {
		out = append(out, c.Projects...)
	}
	return out
}

// Source is the external read operation. The core never writes back.
type Source interface {
	FetchPlan(ctx context.Context, fiscalYear string) (Plan, error)
}

// =============================================================================
// FIELD RESOLUTION
// =============================================================================

// Candidate paths per component, tried in priority order. A dot reaches
// into a nested object.
var (
	mooePaths        = []string{"budget.mooe", "budget.mooe_amount", "mooe_amount", "mooe"}
	coPaths          = []string{"budget.co", "budget.co_amount", "co_amount", "co"}
	psPaths          = []string{"budget.ps", "budget.ps_amount", "ps_amount", "ps"}
	descriptionPaths = []string{"description", "project_description", "title", "project_name", "name"}
	durationPaths    = []string{"period", "duration", "implementation_period"}
)

func (p Project) lookup(path string) (any, bool) {
	var cur any = map[string]any(p)
	for {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		head := path
		rest := ""
		if i := indexDot(path); i >= 0 {
			head, rest = path[:i], path[i+1:]
		}
		v, ok := m[head]
		if !ok {
			return nil, false
		}
		if rest == "" {
			return v, true
		}
		cur, path = v, rest
	}
}

func indexDot(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

// resolveAmount tries each path and leniently coerces the first hit.
// Unresolved or unparseable values are zero, never an error.
func (p Project) resolveAmount(paths []string) fiscal.Amount {
	for _, path := range paths {
		v, ok := p.lookup(path)
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return fiscal.ParseAmount(t).NonNegative()
		case float64:
			return fiscal.NewAmount(t).NonNegative()
		case json.Number:
			return fiscal.ParseAmount(t.String()).NonNegative()
		case int:
			return fiscal.AmountFromInt(int64(t)).NonNegative()
		}
	}
	return fiscal.ZeroAmount()
}

func (p Project) resolveString(paths []string) string {
	for _, path := range paths {
		if v, ok := p.lookup(path); ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// MOOE, CO, PS expose the resolved per-class components.
func (p Project) MOOE() fiscal.Amount { return p.resolveAmount(mooePaths) }
func (p Project) CO() fiscal.Amount   { return p.resolveAmount(coPaths) }
func (p Project) PS() fiscal.Amount   { return p.resolveAmount(psPaths) }

func (p Project) Description() string { return p.resolveString(descriptionPaths) }
func (p Project) Duration() string    { return p.resolveString(durationPaths) }

// =============================================================================
// IMPORTER
// =============================================================================

type Importer struct {
	Source Source

	// SplitByClass emits one budget item per non-zero class component
	// instead of collapsing everything into a MOOE-labeled line.
	SplitByClass bool
}

func NewImporter(source Source) *Importer {
	return &Importer{Source: source}
}

// BuildItems converts selected projects into budget items per the
// configured mode.
func (imp *Importer) BuildItems(projects []Project) []budget.BudgetItem {
	var items []budget.BudgetItem
	for _, project := range projects {
		name := project.Description()
		duration := project.Duration()
		mooe, co, ps := project.MOOE(), project.CO(), project.PS()

		if !imp.SplitByClass {
			items = append(items, budget.BudgetItem{
				ItemName:         name,
				ItemDescription:  name,
				ExpenditureClass: budget.ClassMOOE,
				Amount:           mooe.Add(co).Add(ps),
				Duration:         duration,
			})
			continue
		}

		for _, part := range []struct {
			class  budget.ExpenditureClass
			amount fiscal.Amount
		}{
			{budget.ClassMOOE, mooe},
			{budget.ClassCO, co},
			{budget.ClassPS, ps},
		} {
			if part.amount.IsZero() {
				continue
			}
			items = append(items, budget.BudgetItem{
				ItemName:         name,
				ItemDescription:  name,
				ExpenditureClass: part.class,
				Amount:           part.amount,
				Duration:         duration,
			})
		}
	}
	return items
}

// Import fetches the plan, selects projects by flattened index (nil means
// all), and appends the converted items to the target program. The budget
// service recomputes the program totals as part of the append.
func (imp *Importer) Import(ctx context.Context, svc *budget.Service, fiscalYear string, programIndex int, selected []int, actor string) (int, error) {
	plan, err := imp.Source.FetchPlan(ctx, fiscalYear)
	if err != nil {
		return 0, fmt.Errorf("fetch investment plan %s: %w", fiscalYear, err)
	}

	all := plan.Projects()
	projects := all
	if selected != nil {
		projects = projects[:0:0]
		for _, i := range selected {
			if i >= 0 && i < len(all) {
				projects = append(projects, all[i])
			}
		}
	}

	items := imp.BuildItems(projects)
	if len(items) == 0 {
		return 0, nil
	}
	if err := svc.AppendItems(ctx, fiscalYear, programIndex, items); err != nil {
		return 0, err
	}
	return len(items), nil
}
