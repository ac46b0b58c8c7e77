package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skgov/fiscal-engine/budget"
	"github.com/skgov/fiscal-engine/fiscal"
	"github.com/skgov/fiscal-engine/rcb"
	"github.com/skgov/fiscal-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func q1() fiscal.PeriodKey {
	return fiscal.NewPeriodKey(2024, fiscal.Q1)
}

// =============================================================================
// REGISTER SNAPSHOT TESTS
// =============================================================================

func TestSQLite_PeriodRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	p := rcb.NewPeriod(q1())
	require.NoError(t, p.SetBroughtForward(fiscal.ParseAmount("1000")))
	_, err := p.AppendEntry(rcb.EntryDraft{
		Date: "2024-01-05", Reference: "OR-1", Payee: "Treasurer", Deposit: "500",
	})
	require.NoError(t, err)

	require.NoError(t, store.SavePeriod(ctx, q1(), p.Snapshot()))

	snapshot, err := store.LoadPeriod(ctx, q1())
	require.NoError(t, err)
	loaded := rcb.PeriodFromSnapshot(q1(), snapshot)

	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, "1500.00", loaded.Entries[0].Balance.String())
	assert.Equal(t, "1000.00", loaded.Metadata.BalanceBroughtForward.String())
	assert.Equal(t, p.Schema, loaded.Schema)
}

func TestSQLite_LoadMissingPeriodIsNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.LoadPeriod(context.Background(), q1())
	assert.ErrorIs(t, err, fiscal.ErrRecordNotFound)
}

func TestSQLite_SaveOverwritesExisting(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	p := rcb.NewPeriod(q1())
	require.NoError(t, store.SavePeriod(ctx, q1(), p.Snapshot()))

	require.NoError(t, p.SetMetadata("SK Fund", "7"))
	require.NoError(t, store.SavePeriod(ctx, q1(), p.Snapshot()))

	snapshot, err := store.LoadPeriod(ctx, q1())
	require.NoError(t, err)
	assert.Equal(t, "7", snapshot.Metadata.SheetNo)
}

func TestSQLite_ListAndDeletePeriods(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	keys := []fiscal.PeriodKey{
		fiscal.NewPeriodKey(2024, fiscal.Q2),
		fiscal.NewPeriodKey(2024, fiscal.Q1),
		fiscal.NewPeriodKey(2025, fiscal.Q1),
	}
	for _, key := range keys {
		require.NoError(t, store.SavePeriod(ctx, key, rcb.NewPeriod(key).Snapshot()))
	}

	listed, err := store.ListPeriods(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "2024-Q1", listed[0].String())

	require.NoError(t, store.DeletePeriod(ctx, fiscal.NewPeriodKey(2024, fiscal.Q1)))
	listed, err = store.ListPeriods(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

// =============================================================================
// BUDGET RECORD TESTS
// =============================================================================

func TestSQLite_BudgetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	record := budget.BudgetRecord{
		Identity:     budget.Identity{FiscalYear: "2024", Barangay: "San Isidro"},
		ResolutionNo: "RES-7",
		Status:       budget.StatusOpenForEditing,
		Receipts: []budget.Receipt{
			{SourceDescription: "10% Barangay Fund Share", TotalAmount: fiscal.ParseAmount("100000")},
		},
	}
	require.NoError(t, store.SaveRecord(ctx, "2024", record))

	loaded, err := store.LoadRecord(ctx, "2024")
	require.NoError(t, err)
	assert.Equal(t, "San Isidro", loaded.Identity.Barangay)
	assert.Equal(t, budget.StatusOpenForEditing, loaded.Status)
	require.Len(t, loaded.Receipts, 1)
	assert.Equal(t, "100000.00", loaded.Receipts[0].TotalAmount.String())

	_, err = store.LoadRecord(ctx, "1999")
	assert.ErrorIs(t, err, fiscal.ErrRecordNotFound)
}

// =============================================================================
// AUDIT LOG TESTS
// =============================================================================

func TestSQLite_AuditRecordAndQuery(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	events := []fiscal.Event{
		{ID: "ev-1", Type: fiscal.EventEntryAdded, Description: "entry added", Actor: "sk-treasurer",
			Details: map[string]any{"period": "2024-Q1"}},
		{ID: "ev-2", Type: fiscal.EventSave, Description: "period saved", Actor: "sk-treasurer"},
	}
	for _, ev := range events {
		require.NoError(t, store.Record(ctx, ev))
	}

	got, err := store.QueryEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := map[string]fiscal.Event{}
	for _, ev := range got {
		byID[ev.ID] = ev
	}
	assert.Equal(t, fiscal.EventEntryAdded, byID["ev-1"].Type)
	assert.Equal(t, "2024-Q1", byID["ev-1"].Details["period"])
	assert.Equal(t, "period saved", byID["ev-2"].Description)
}
