/*
handlers.go - HTTP handlers for the fiscal engine

PURPOSE:
  Translates HTTP requests into register and budget operations and maps
  domain errors onto status codes. Handlers never hold state beyond the
  collaborators wired in at startup.

ERROR MAPPING:
  - Validation and malformed input        -> 400
  - Unknown record                        -> 404
  - Lifecycle refusals and save conflicts -> 409
  - Approval guard refusal                -> 403
  - Everything else                       -> 500

ACTOR:
  The acting user is taken from the X-Actor header. An empty header is
  allowed; audit entries then carry an empty actor.

SEE ALSO:
  - server.go: Route table
  - dto.go: Request and response shapes
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/skgov/fiscal-engine/abyip"
	"github.com/skgov/fiscal-engine/budget"
	"github.com/skgov/fiscal-engine/fiscal"
	"github.com/skgov/fiscal-engine/rcb"
)

// maxUploadBytes bounds signed document uploads.
const maxUploadBytes = 10 << 20

// Uploader stores an uploaded file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, content []byte) (string, error)
}

// Handler owns the HTTP surface.
type Handler struct {
	Book     *rcb.Book
	Budget   *budget.Service
	Importer *abyip.Importer
	Uploader Uploader
	Autosave *Autosaver
	Logger   *slog.Logger
}

func NewHandler(book *rcb.Book, svc *budget.Service, importer *abyip.Importer, autosave *Autosaver, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Book:     book,
		Budget:   svc,
		Importer: importer,
		Autosave: autosave,
		Logger:   logger,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func actorFrom(r *http.Request) string {
	return r.Header.Get("X-Actor")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var verr *fiscal.ValidationError

	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.Is(err, fiscal.ErrInvalidPeriodKey),
		errors.Is(err, budget.ErrIndexOutOfRange),
		errors.Is(err, fiscal.ErrEntryIndexOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, budget.ErrApprovalNotPermitted):
		status = http.StatusForbidden
	case fiscal.IsNotFound(err):
		status = http.StatusNotFound
	case fiscal.IsLifecycleViolation(err), errors.Is(err, fiscal.ErrSaveInFlight):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		h.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &fiscal.ValidationError{Missing: []string{"valid JSON body"}}
	}
	return nil
}

func periodKey(r *http.Request) (fiscal.PeriodKey, error) {
	return fiscal.ParsePeriodKey(chi.URLParam(r, "period"))
}

func pathIndex(r *http.Request, name string) (int, error) {
	i, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, &fiscal.ValidationError{Missing: []string{name}}
	}
	return i, nil
}

// scheduleBookSave arms the debounced save for one register period.
func (h *Handler) scheduleBookSave(key fiscal.PeriodKey, actor string) {
	if h.Autosave == nil {
		return
	}
	h.Autosave.Schedule("rcb:"+key.String(), func(ctx context.Context) (bool, error) {
		saved, err := h.Book.SaveIfDirty(ctx, key, actor)
		recordSave("rcb", err)
		return saved, err
	})
}

// scheduleBudgetSave arms the debounced save for one budget year.
func (h *Handler) scheduleBudgetSave(fiscalYear, actor string) {
	if h.Autosave == nil {
		return
	}
	h.Autosave.Schedule("budget:"+fiscalYear, func(ctx context.Context) (bool, error) {
		saved, err := h.Budget.SaveIfDirty(ctx, fiscalYear, actor)
		recordSave("budget", err)
		return saved, err
	})
}

// =============================================================================
// REGISTER HANDLERS
// =============================================================================

func (h *Handler) periodDTO(p *rcb.Period, dirty bool) PeriodDTO {
	return PeriodDTO{
		Period:            p.Key.String(),
		Settings:          p.Schema,
		Metadata:          p.Metadata,
		Entries:           p.Entries,
		Totals:            p.Totals(),
		IsEditingClosed:   p.EditingClosed,
		SignedDocumentURL: p.SignedDocumentURL,
		Dirty:             dirty,
	}
}

// GetPeriod activates a period (materializing it with carried-forward
// opening balance when new) and returns the full view.
func (h *Handler) GetPeriod(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Book.Activate(r.Context(), key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.periodDTO(p, h.Book.Dirty(key)))
}

func (h *Handler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Book.Period(r.Context(), key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p.Metadata)
}

func (h *Handler) PutMetadata(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req MetadataRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Book.SetMetadata(r.Context(), key, req.Fund, req.SheetNo); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.BalanceBroughtForward != nil {
		amount := fiscal.ParseAmount(*req.BalanceBroughtForward)
		if err := h.Book.OverrideBroughtForward(r.Context(), key, amount); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	h.scheduleBookSave(key, actorFrom(r))
	h.respondPeriod(w, r, key)
}

func (h *Handler) respondPeriod(w http.ResponseWriter, r *http.Request, key fiscal.PeriodKey) {
	p, err := h.Book.Period(r.Context(), key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.periodDTO(p, h.Book.Dirty(key)))
}

func (h *Handler) PostEntry(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var draft rcb.EntryDraft
	if err := decodeBody(r, &draft); err != nil {
		h.writeError(w, r, err)
		return
	}
	entry, err := h.Book.AppendEntry(r.Context(), key, draft, actorFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBookSave(key, actorFrom(r))
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	index, err := pathIndex(r, "index")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Book.RemoveEntry(r.Context(), key, index); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBookSave(key, actorFrom(r))
	h.respondPeriod(w, r, key)
}

func accountKind(r *http.Request) (rcb.AccountKind, error) {
	kind := rcb.AccountKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		return "", &fiscal.ValidationError{Missing: []string{"account kind (mooe, co, withholding)"}}
	}
	return kind, nil
}

func (h *Handler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	kind, err := accountKind(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	p, err := h.Book.Period(r.Context(), key)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p.Schema.Accounts(kind))
}

func (h *Handler) PostAccount(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	kind, err := accountKind(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req AccountRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Name == "" {
		h.writeError(w, r, &fiscal.ValidationError{Missing: []string{"name"}})
		return
	}
	if err := h.Book.AddAccount(r.Context(), key, kind, req.Name); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBookSave(key, actorFrom(r))
	h.respondPeriod(w, r, key)
}

func (h *Handler) PutAccount(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	kind, err := accountKind(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	index, err := pathIndex(r, "index")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req AccountRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Book.RenameAccount(r.Context(), key, kind, index, req.Name); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBookSave(key, actorFrom(r))
	h.respondPeriod(w, r, key)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	kind, err := accountKind(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	index, err := pathIndex(r, "index")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Book.RemoveAccount(r.Context(), key, kind, index); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBookSave(key, actorFrom(r))
	h.respondPeriod(w, r, key)
}

// PostClose closes the editing period. The close is persisted inline so
// the closed state survives even if the process dies before a debounce
// timer would have fired.
func (h *Handler) PostClose(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Book.CloseEditing(r.Context(), key, actorFrom(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondPeriod(w, r, key)
}

func (h *Handler) PostCancelClose(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Book.CancelClose(r.Context(), key, actorFrom(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondPeriod(w, r, key)
}

// PostSignedDocument accepts either a multipart file upload (stored via
// the configured Uploader) or a JSON body carrying an already-hosted URL.
func (h *Handler) PostSignedDocument(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	url, err := h.signedDocumentURL(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Book.SubmitSignedDocument(r.Context(), key, url, actorFrom(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondPeriod(w, r, key)
}

func (h *Handler) signedDocumentURL(r *http.Request) (string, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/json" {
		var req SignedDocumentRequest
		if err := decodeBody(r, &req); err != nil {
			return "", err
		}
		if req.URL == "" {
			return "", &fiscal.ValidationError{Missing: []string{"url"}}
		}
		return req.URL, nil
	}

	if h.Uploader == nil {
		return "", &fiscal.ValidationError{Missing: []string{"url (file upload not configured)"}}
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", &fiscal.ValidationError{Missing: []string{"multipart file"}}
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", &fiscal.ValidationError{Missing: []string{"file"}}
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", err
	}
	return h.Uploader.Upload(r.Context(), header.Filename, content)
}

func (h *Handler) PostSave(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	err = h.Book.Save(r.Context(), key, actorFrom(r))
	recordSave("rcb", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondPeriod(w, r, key)
}

func (h *Handler) PostReset(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Book.ResetPeriod(r.Context(), key, actorFrom(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondPeriod(w, r, key)
}

func (h *Handler) PostResetAll(w http.ResponseWriter, r *http.Request) {
	if err := h.Book.ResetAll(r.Context(), actorFrom(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) PostRecalculate(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req RecalculateRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Quarters <= 0 {
		req.Quarters = 1
	}
	if err := h.Book.RecalculateForward(r.Context(), key, req.Quarters); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondPeriod(w, r, key)
}

func (h *Handler) GetPeriodExport(w http.ResponseWriter, r *http.Request) {
	key, err := periodKey(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	model, err := h.Book.ExportModel(r.Context(), key, actorFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

// =============================================================================
// BUDGET HANDLERS
// =============================================================================

func fiscalYear(r *http.Request) string {
	return chi.URLParam(r, "year")
}

func (h *Handler) respondBudget(w http.ResponseWriter, r *http.Request, year string) {
	rec, err := h.Budget.Record(r.Context(), year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	balance, err := h.Budget.Balance(r.Context(), year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BudgetDTO{
		BudgetRecord: *rec,
		Balance:      balance.Display(),
		Dirty:        h.Budget.Dirty(year),
	})
}

func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	h.respondBudget(w, r, fiscalYear(r))
}

func (h *Handler) budgetTransition(fn func(ctx context.Context, year, actor string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year := fiscalYear(r)
		if err := fn(r.Context(), year, actorFrom(r)); err != nil {
			h.writeError(w, r, err)
			return
		}
		h.respondBudget(w, r, year)
	}
}

func (h *Handler) PutHeader(w http.ResponseWriter, r *http.Request) {
	year := fiscalYear(r)
	var req HeaderRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Budget.SetIdentity(r.Context(), year, req.Identity); err != nil {
		h.writeError(w, r, err)
		return
	}
	total := fiscal.ParseAmount(req.TotalBudget)
	if err := h.Budget.SetHeader(r.Context(), year, req.ResolutionNo, req.OrdinanceNo, total); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBudgetSave(year, actorFrom(r))
	h.respondBudget(w, r, year)
}

func programType(raw string) budget.ProgramType {
	switch budget.ProgramType(raw) {
	case budget.ProgramGeneralAdministration, budget.ProgramYouthDevelopment:
		return budget.ProgramType(raw)
	default:
		return budget.ProgramOther
	}
}

func (h *Handler) PostProgram(w http.ResponseWriter, r *http.Request) {
	year := fiscalYear(r)
	var req ProgramRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.ProgramName == "" {
		h.writeError(w, r, &fiscal.ValidationError{Missing: []string{"program_name"}})
		return
	}
	if err := h.Budget.AddProgram(r.Context(), year, req.ProgramName, programType(req.ProgramType)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBudgetSave(year, actorFrom(r))
	h.respondBudget(w, r, year)
}

func itemFromRequest(req ItemRequest) budget.BudgetItem {
	class := budget.ExpenditureClass(req.ExpenditureClass)
	if !class.Valid() {
		class = budget.ClassMOOE
	}
	return budget.BudgetItem{
		ItemName:         req.ItemName,
		ItemDescription:  req.ItemDescription,
		ExpenditureClass: class,
		Amount:           fiscal.ParseAmount(req.Amount).NonNegative(),
		Duration:         req.Duration,
	}
}

func (h *Handler) PostItem(w http.ResponseWriter, r *http.Request) {
	year := fiscalYear(r)
	programIndex, err := pathIndex(r, "program")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req ItemRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Budget.AddItem(r.Context(), year, programIndex, itemFromRequest(req)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBudgetSave(year, actorFrom(r))
	h.respondBudget(w, r, year)
}

func (h *Handler) PutItem(w http.ResponseWriter, r *http.Request) {
	year := fiscalYear(r)
	programIndex, err := pathIndex(r, "program")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	itemIndex, err := pathIndex(r, "index")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req ItemRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Budget.UpdateItem(r.Context(), year, programIndex, itemIndex, itemFromRequest(req)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBudgetSave(year, actorFrom(r))
	h.respondBudget(w, r, year)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	year := fiscalYear(r)
	programIndex, err := pathIndex(r, "program")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	itemIndex, err := pathIndex(r, "index")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Budget.RemoveItem(r.Context(), year, programIndex, itemIndex); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBudgetSave(year, actorFrom(r))
	h.respondBudget(w, r, year)
}

func receiptFromRequest(req ReceiptRequest) budget.Receipt {
	return budget.Receipt{
		SourceDescription: req.SourceDescription,
		Duration:          req.Duration,
		MOOEAmount:        fiscal.ParseAmount(req.MOOEAmount).NonNegative(),
		COAmount:          fiscal.ParseAmount(req.COAmount).NonNegative(),
	}
}

func (h *Handler) PostReceipt(w http.ResponseWriter, r *http.Request) {
	year := fiscalYear(r)
	var req ReceiptRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Budget.AddReceipt(r.Context(), year, receiptFromRequest(req)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBudgetSave(year, actorFrom(r))
	h.respondBudget(w, r, year)
}

func (h *Handler) PutReceipt(w http.ResponseWriter, r *http.Request) {
	year := fiscalYear(r)
	index, err := pathIndex(r, "index")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req ReceiptRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Budget.UpdateReceipt(r.Context(), year, index, receiptFromRequest(req)); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBudgetSave(year, actorFrom(r))
	h.respondBudget(w, r, year)
}

func (h *Handler) DeleteReceipt(w http.ResponseWriter, r *http.Request) {
	year := fiscalYear(r)
	index, err := pathIndex(r, "index")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.Budget.RemoveReceipt(r.Context(), year, index); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.scheduleBudgetSave(year, actorFrom(r))
	h.respondBudget(w, r, year)
}

func (h *Handler) PostBudgetSave(w http.ResponseWriter, r *http.Request) {
	year := fiscalYear(r)
	err := h.Budget.Save(r.Context(), year, actorFrom(r))
	recordSave("budget", err)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.respondBudget(w, r, year)
}

func (h *Handler) GetBudgetExport(w http.ResponseWriter, r *http.Request) {
	model, err := h.Budget.ExportModel(r.Context(), fiscalYear(r), actorFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

// PostImport pulls investment plan projects into one program as budget
// items. With no importer configured the endpoint reports 404.
func (h *Handler) PostImport(w http.ResponseWriter, r *http.Request) {
	if h.Importer == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "investment plan import not configured"})
		return
	}
	year := fiscalYear(r)
	var req ImportRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	importer := *h.Importer
	importer.SplitByClass = req.SplitByClass

	count, err := importer.Import(r.Context(), h.Budget, year, req.ProgramIndex, req.Projects, actorFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	importedItemsTotal.Add(float64(count))
	h.scheduleBudgetSave(year, actorFrom(r))
	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}

// =============================================================================
// OPS HANDLERS
// =============================================================================

func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
