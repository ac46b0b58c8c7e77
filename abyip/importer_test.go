package abyip_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skgov/fiscal-engine/abyip"
	"github.com/skgov/fiscal-engine/budget"
	"github.com/skgov/fiscal-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// stubSource serves a fixed plan without any transport.
type stubSource struct {
	plan Plan
	err  error
}

type Plan = abyip.Plan

func (s stubSource) FetchPlan(_ context.Context, _ string) (abyip.Plan, error) {
	return s.plan, s.err
}

func planWith(projects ...abyip.Project) abyip.Plan {
	return abyip.Plan{
		FiscalYear: "2024",
		Centers:    []abyip.Center{{Name: "Youth Center", Projects: projects}},
	}
}

func newTestTarget(t *testing.T) *budget.Service {
	t.Helper()
	svc := budget.NewService(memory.New())
	ctx := context.Background()
	require.NoError(t, svc.Initiate(ctx, "2024", "sk-chair"))
	require.NoError(t, svc.AddProgram(ctx, "2024", "Imported Projects", budget.ProgramOther))
	return svc
}

func lastProgram(t *testing.T, svc *budget.Service) budget.Program {
	t.Helper()
	r, err := svc.Record(context.Background(), "2024")
	require.NoError(t, err)
	require.NotEmpty(t, r.Programs)
	return r.Programs[len(r.Programs)-1]
}

func programIndex(t *testing.T, svc *budget.Service) int {
	t.Helper()
	r, err := svc.Record(context.Background(), "2024")
	require.NoError(t, err)
	return len(r.Programs) - 1
}

// =============================================================================
// FIELD RESOLUTION TESTS
// =============================================================================

func TestProject_ResolvesNestedAndFlatShapes(t *testing.T) {
	nested := abyip.Project{
		"description": "Leadership Training",
		"budget":      map[string]any{"mooe": "1,000", "co": "500"},
	}
	flat := abyip.Project{
		"title":       "Clean-up Drive",
		"mooe_amount": 750.5,
		"period":      "Q2",
	}

	assert.Equal(t, "1000.00", nested.MOOE().String())
	assert.Equal(t, "500.00", nested.CO().String())
	assert.Equal(t, "Leadership Training", nested.Description())

	assert.Equal(t, "750.50", flat.MOOE().String())
	assert.Equal(t, "Clean-up Drive", flat.Description())
	assert.Equal(t, "Q2", flat.Duration())
}

func TestProject_UnresolvableFieldsAreZero(t *testing.T) {
	// Shape problems in the source never become errors.
	p := abyip.Project{
		"budget": map[string]any{"mooe": map[string]any{"weird": true}},
		"co":     []any{"not", "a", "number"},
	}

	assert.True(t, p.MOOE().IsZero())
	assert.True(t, p.CO().IsZero())
	assert.True(t, p.PS().IsZero())
}

// =============================================================================
// IMPORT TESTS
// =============================================================================

func TestImport_CollapsesClassesIntoSingleMOOEItem(t *testing.T) {
	// GIVEN: A project with mooe "1,000" and co "500"
	// WHEN: It is imported in the default mode
	// THEN: One MOOE item of 1500 is appended and totals are recomputed

	ctx := context.Background()
	svc := newTestTarget(t)
	idx := programIndex(t, svc)

	importer := abyip.NewImporter(stubSource{plan: planWith(abyip.Project{
		"description": "Leadership Training",
		"budget":      map[string]any{"mooe": "1,000", "co": "500"},
	})})

	count, err := importer.Import(ctx, svc, "2024", idx, nil, "sk-treasurer")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	p := lastProgram(t, svc)
	require.Len(t, p.Items, 1)
	assert.Equal(t, budget.ClassMOOE, p.Items[0].ExpenditureClass)
	assert.Equal(t, "1500.00", p.Items[0].Amount.String())
	assert.Equal(t, "1500.00", p.MOOETotal.String())
	assert.True(t, p.COTotal.IsZero(), "collapsed import books everything as MOOE")
}

func TestImport_SplitByClassEmitsOneItemPerNonZeroClass(t *testing.T) {
	ctx := context.Background()
	svc := newTestTarget(t)
	idx := programIndex(t, svc)

	importer := abyip.NewImporter(stubSource{plan: planWith(abyip.Project{
		"description": "Multi-class Project",
		"budget":      map[string]any{"mooe": "1000", "co": "500", "ps": "0"},
	})})
	importer.SplitByClass = true

	count, err := importer.Import(ctx, svc, "2024", idx, nil, "sk-treasurer")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "zero PS component must not produce an item")

	p := lastProgram(t, svc)
	assert.Equal(t, "1000.00", p.MOOETotal.String())
	assert.Equal(t, "500.00", p.COTotal.String())
	assert.True(t, p.PSTotal.IsZero())
}

func TestImport_SelectionByFlattenedIndex(t *testing.T) {
	// GIVEN: Three projects across the plan
	// WHEN: Only indexes 0 and 2 are selected (plus an out-of-range 9)
	// THEN: Two items land; the bad index is ignored

	ctx := context.Background()
	svc := newTestTarget(t)
	idx := programIndex(t, svc)

	importer := abyip.NewImporter(stubSource{plan: planWith(
		abyip.Project{"title": "A", "mooe": "100"},
		abyip.Project{"title": "B", "mooe": "200"},
		abyip.Project{"title": "C", "mooe": "300"},
	)})

	count, err := importer.Import(ctx, svc, "2024", idx, []int{0, 2, 9}, "sk-treasurer")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	p := lastProgram(t, svc)
	require.Len(t, p.Items, 2)
	assert.Equal(t, "A", p.Items[0].ItemName)
	assert.Equal(t, "C", p.Items[1].ItemName)
	assert.Equal(t, "400.00", p.MOOETotal.String())
}

func TestImport_EmptySelectionIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc := newTestTarget(t)
	idx := programIndex(t, svc)

	importer := abyip.NewImporter(stubSource{plan: planWith(
		abyip.Project{"title": "A", "mooe": "100"},
	)})

	count, err := importer.Import(ctx, svc, "2024", idx, []int{}, "sk-treasurer")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, lastProgram(t, svc).Items)
}

func TestImport_SourceFailurePropagates(t *testing.T) {
	ctx := context.Background()
	svc := newTestTarget(t)

	importer := abyip.NewImporter(stubSource{err: errors.New("plan service down")})

	_, err := importer.Import(ctx, svc, "2024", 0, nil, "sk-treasurer")
	assert.ErrorContains(t, err, "plan service down")
}

func TestImport_RefusedWhenBudgetNotEditable(t *testing.T) {
	ctx := context.Background()
	svc := newTestTarget(t)
	idx := programIndex(t, svc)
	require.NoError(t, svc.Submit(ctx, "2024", "sk-treasurer"))

	importer := abyip.NewImporter(stubSource{plan: planWith(
		abyip.Project{"title": "A", "mooe": "100"},
	)})

	_, err := importer.Import(ctx, svc, "2024", idx, nil, "sk-treasurer")
	assert.Error(t, err)
}
