package billingops

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/plankit/plankit/pkg/billing"
	"github.com/plankit/plankit/pkg/plan"
	"github.com/plankit/plankit/pkg/reconcile"
)

// Engine is the subset of the reconciliation engine the module needs.
// Declared here so tests can substitute a fake.
type Engine interface {
	Reconcile(ctx context.Context, accountID string, mode reconcile.Mode) (*reconcile.Result, error)
	ForceSync(ctx context.Context, accountID string) (*reconcile.Result, error)
	ClearCooldown(ctx context.Context, accountID string)
	CleanupDuplicates(ctx context.Context, accountID string) (*reconcile.CleanupReport, error)
	HasAccess(ctx context.Context, accountID string, required plan.Tier) (*reconcile.Access, error)
	Sweep(ctx context.Context, opts reconcile.SweepOptions) (*reconcile.SweepSummary, error)
}

type handler struct {
	engine           Engine
	sweepConcurrency int
}

func newHandler(engine Engine, opts ...Option) *handler {
	if engine == nil {
		panic("billingops: engine is required")
	}
	h := &handler{engine: engine}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *handler) reconcile(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")

	mode := reconcile.ModeFix
	if isTruthy(r.URL.Query().Get("dry_run")) {
		mode = reconcile.ModeDryRun
	}

	res, err := h.engine.Reconcile(r.Context(), accountID, mode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) forceSync(w http.ResponseWriter, r *http.Request) {
	res, err := h.engine.ForceSync(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) clearCooldown(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearCooldown(r.Context(), chi.URLParam(r, "accountID"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) cleanup(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.CleanupDuplicates(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		// The report is still meaningful when some cancellations went
		// through; return it alongside the error status.
		if errors.Is(err, reconcile.ErrPartialCleanup) && report != nil {
			writeJSON(w, http.StatusBadGateway, report)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *handler) access(w http.ResponseWriter, r *http.Request) {
	required, err := plan.Parse(r.URL.Query().Get("tier"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	access, err := h.engine.HasAccess(r.Context(), chi.URLParam(r, "accountID"), required)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, access)
}

func (h *handler) sweep(w http.ResponseWriter, r *http.Request) {
	var opts reconcile.SweepOptions
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}
	if isTruthy(r.URL.Query().Get("dry_run")) {
		opts.DryRun = true
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = h.sweepConcurrency
	}

	summary, err := h.engine.Sweep(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes: unknown accounts
// are 404, provider outages 502, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, reconcile.ErrAccountNotFound):
		status = http.StatusNotFound
	case errors.Is(err, reconcile.ErrMissingAccountID):
		status = http.StatusBadRequest
	case billing.IsTransient(err):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func isTruthy(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}
