package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/datekey"
)

// Handler holds the HTTP handlers for the status API.
type Handler struct {
	svc *Service
}

// NewHandler creates a new API handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// parseDateParam accepts a date in either YYYYMMDD or YYYY-MM-DD form.
func parseDateParam(s string) (time.Time, bool) {
	if t, ok := datekey.Decode(s); ok {
		return t, true
	}
	return datekey.ParseDailyNoteName(s)
}

// ListImports handles GET /imports.
func (h *Handler) ListImports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid limit"))
			return
		}
		limit = n
	}

	records, err := h.svc.ListImports(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	if records == nil {
		records = []ImportRecord{}
	}
	writeJSON(w, http.StatusOK, ImportListResponse{Imports: records, Total: len(records)})
}

// GetImport handles GET /imports/{date}.
func (h *Handler) GetImport(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(chi.URLParam(r, "date"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid date"))
		return
	}

	rec, err := h.svc.GetImport(r.Context(), date)
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("no import recorded for date"))
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// TriggerImport handles POST /imports/{date}: the manual import flow.
func (h *Handler) TriggerImport(w http.ResponseWriter, r *http.Request) {
	date, ok := parseDateParam(chi.URLParam(r, "date"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid date"))
		return
	}

	outcome, err := h.svc.Trigger(r.Context(), date)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, TriggerResponse{Outcome: outcome})
}
