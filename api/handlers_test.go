package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skgov/fiscal-engine/abyip"
	"github.com/skgov/fiscal-engine/api"
	"github.com/skgov/fiscal-engine/budget"
	"github.com/skgov/fiscal-engine/factory"
	"github.com/skgov/fiscal-engine/rcb"
	"github.com/skgov/fiscal-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type stubPlanSource struct {
	plan abyip.Plan
}

func (s stubPlanSource) FetchPlan(context.Context, string) (abyip.Plan, error) {
	return s.plan, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	book := rcb.NewBook(store, rcb.WithAudit(store))
	svc := budget.NewService(store,
		budget.WithAudit(store),
		budget.WithTemplate(factory.DefaultTemplate),
		budget.WithGuard(budget.Allowlist{"sk-chair"}),
	)
	importer := abyip.NewImporter(stubPlanSource{plan: abyip.Plan{
		FiscalYear: "2024",
		Centers: []abyip.Center{{Name: "Youth Center", Projects: []abyip.Project{
			{"description": "Leadership Training", "budget": map[string]any{"mooe": "1,000", "co": "500"}},
		}}},
	}})

	handler := api.NewHandler(book, svc, importer, nil, nil)
	server := httptest.NewServer(api.NewRouter(handler, []string{"*"}, ""))
	t.Cleanup(server.Close)
	return server, store
}

func doJSON(t *testing.T, method, url string, body any, actor string) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set("X-Actor", actor)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

// doJSONList is doJSON for endpoints that respond with a JSON array.
func doJSONList(t *testing.T, method, url, actor string) (*http.Response, []any) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if actor != "" {
		req.Header.Set("X-Actor", actor)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded []any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

// =============================================================================
// REGISTER ENDPOINT TESTS
// =============================================================================

func TestAPI_GetPeriodMaterializesDefaults(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/rcb/2024-Q1/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "2024-Q1", body["period"])
	metadata := body["metadata"].(map[string]any)
	assert.Equal(t, rcb.DefaultFund, metadata["fund"])
}

func TestAPI_InvalidPeriodKeyIsBadRequest(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/rcb/fourth-quarter/", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_AppendEntryAndRunningBalance(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/rcb/2024-Q1/entries", rcb.EntryDraft{
		Date: "2024-01-05", Reference: "OR-1", Payee: "Treasurer", Deposit: "500",
	}, "sk-treasurer")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.EqualValues(t, 500, body["balance"])

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/rcb/2024-Q1/entries", rcb.EntryDraft{
		Particulars: "missing required fields",
	}, "sk-treasurer")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ClosedPeriodConflicts(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/rcb/2024-Q1/close", nil, "sk-treasurer")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/rcb/2024-Q1/entries", rcb.EntryDraft{
		Date: "2024-01-05", Reference: "OR-1", Payee: "Treasurer",
	}, "sk-treasurer")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_AccountSchemaEndpoints(t *testing.T) {
	server, _ := newTestServer(t)
	base := server.URL + "/api/rcb/2024-Q1/accounts/mooe"

	// Default schema carries two MOOE accounts. A third fits; a fourth
	// hits the cap, which is a silent no-op rather than an error.
	resp, body := doJSON(t, http.MethodPost, base, api.AccountRequest{Name: "Utilities"}, "sk-treasurer")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	settings := body["settings"].(map[string]any)
	assert.Len(t, settings["mooeAccounts"], 3)

	resp, body = doJSON(t, http.MethodPost, base, api.AccountRequest{Name: "Fourth"}, "sk-treasurer")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	settings = body["settings"].(map[string]any)
	assert.Len(t, settings["mooeAccounts"], 3, "cap holds at three")

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/rcb/2024-Q1/accounts/bogus", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, listBody := doJSONList(t, http.MethodGet, server.URL+"/api/rcb/2024-Q1/accounts/mooe", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, listBody, 3)
}

func TestAPI_ExportFieldBag(t *testing.T) {
	server, _ := newTestServer(t)

	_, _ = doJSON(t, http.MethodPost, server.URL+"/api/rcb/2024-Q1/entries", rcb.EntryDraft{
		Date: "2024-01-05", Reference: "OR-1", Payee: "Treasurer", Deposit: "12345.6",
	}, "sk-treasurer")

	resp, body := doJSON(t, http.MethodGet, server.URL+"/api/rcb/2024-Q1/export", nil, "sk-treasurer")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	fields := body["fields"].(map[string]any)
	assert.Equal(t, "12,345.60", fields["totalDeposit"])
	rows := body["rows"].([]any)
	require.Len(t, rows, 1)
}

// =============================================================================
// BUDGET ENDPOINT TESTS
// =============================================================================

func TestAPI_BudgetLifecycleAndGuard(t *testing.T) {
	server, _ := newTestServer(t)
	base := server.URL + "/api/budget/2024"

	resp, body := doJSON(t, http.MethodPost, base+"/initiate", nil, "sk-chair")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(budget.StatusOpenForEditing), body["status"])

	resp, _ = doJSON(t, http.MethodPost, base+"/submit", nil, "sk-treasurer")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Guard refuses actors outside the allowlist.
	resp, _ = doJSON(t, http.MethodPost, base+"/approve", nil, "sk-member")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, base+"/approve", nil, "sk-chair")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, string(budget.StatusApproved), body["status"])

	// Approved is terminal.
	resp, _ = doJSON(t, http.MethodPost, base+"/reject", nil, "sk-chair")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_BudgetEditRefusedBeforeInitiation(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/budget/2024/programs",
		api.ProgramRequest{ProgramName: "Sports"}, "sk-treasurer")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_ImportAppendsItems(t *testing.T) {
	server, _ := newTestServer(t)
	base := server.URL + "/api/budget/2024"

	_, _ = doJSON(t, http.MethodPost, base+"/initiate", nil, "sk-chair")

	resp, body := doJSON(t, http.MethodPost, base+"/import",
		api.ImportRequest{ProgramIndex: 0}, "sk-treasurer")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["imported"])

	resp, record := doJSON(t, http.MethodGet, base+"/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	programs := record["programs"].([]any)
	first := programs[0].(map[string]any)
	items := first["items"].([]any)
	last := items[len(items)-1].(map[string]any)
	assert.Equal(t, "Leadership Training", last["item_name"])
	assert.EqualValues(t, 1500, last["amount"])
}

func TestAPI_Healthz(t *testing.T) {
	server, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, server.URL+"/healthz", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}
