// Package handler exposes the required-days reference table over HTTP:
// the CRUD surface behind the routing planner's SLA lookups.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"doctrack/internal/platform/metrics"
	"doctrack/internal/platform/middleware"
	"doctrack/internal/refdata/models"
	"doctrack/internal/refdata/store/requireddays"
	id "doctrack/pkg/domain"
	dErrors "doctrack/pkg/domain-errors"
	"doctrack/pkg/platform/httputil"
	"doctrack/pkg/platform/sentinel"
)

// Handler serves the /refdata/required-days routes.
type Handler struct {
	store   requireddays.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates the refdata Handler.
func New(store requireddays.Store, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{store: store, logger: logger, metrics: metrics}
}

// Register mounts the refdata routes with their middleware chain.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(10 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	if h.metrics != nil {
		router.Use(middleware.Latency(h.metrics))
	}

	router.Get("/required-days", h.handleList)
	router.Post("/required-days", h.handleCreate)
	router.Delete("/required-days", h.handleBulkDelete)
	router.Put("/required-days/{id}", h.handleUpdate)
	router.Delete("/required-days/{id}", h.handleDelete)

	r.Mount("/refdata", router)
}

type entryRequest struct {
	DocumentType   string `json:"documentType"`
	ActionRequired string `json:"actionRequired"`
	RequiredDays   int    `json:"requiredDays"`
}

func (r entryRequest) Validate() error {
	entry := models.RequiredDaysEntry{
		DocumentType:   r.DocumentType,
		ActionRequired: r.ActionRequired,
		RequiredDays:   r.RequiredDays,
	}
	return entry.Validate()
}

type bulkDeleteRequest struct {
	IDs []id.RequiredDaysID `json:"ids"`
}

func (r bulkDeleteRequest) Validate() error {
	if len(r.IDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "ids list is required")
	}
	return nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list required-days entries failed", "error", err.Error())
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeStoreUnavailable, "list failed"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry := &models.RequiredDaysEntry{
		ID:             id.NewRequiredDaysID(),
		DocumentType:   req.DocumentType,
		ActionRequired: req.ActionRequired,
		RequiredDays:   req.RequiredDays,
	}
	if err := h.store.Insert(r.Context(), entry); err != nil {
		httputil.WriteError(w, h.translate(err, "a rule for this document type and action already exists"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	entryID, err := id.ParseRequiredDaysID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req entryRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry := &models.RequiredDaysEntry{
		ID:             entryID,
		DocumentType:   req.DocumentType,
		ActionRequired: req.ActionRequired,
		RequiredDays:   req.RequiredDays,
	}
	if err := h.store.Update(r.Context(), entry); err != nil {
		httputil.WriteError(w, h.translate(err, "a rule for this document type and action already exists"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	entryID, err := id.ParseRequiredDaysID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.store.Delete(r.Context(), entryID); err != nil {
		httputil.WriteError(w, h.translate(err, ""))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": entryID.String()})
}

func (h *Handler) handleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.store.BulkDelete(r.Context(), req.IDs); err != nil {
		httputil.WriteError(w, h.translate(err, ""))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"deleted": len(req.IDs)})
}

func (h *Handler) translate(err error, duplicateMsg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "required-days entry not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, duplicateMsg)
	default:
		return dErrors.Wrap(err, dErrors.CodeStoreUnavailable, "required-days store failed")
	}
}
