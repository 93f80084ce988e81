// Package handler exposes the outbox operations over HTTP. It owns the wire
// shape (camelCase fields, split date/time strings) and nothing else; all
// business rules live in the service and models.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"doctrack/internal/outbox/models"
	"doctrack/internal/outbox/routing"
	"doctrack/internal/outbox/service"
	"doctrack/internal/platform/metrics"
	"doctrack/internal/platform/middleware"
	id "doctrack/pkg/domain"
	"doctrack/pkg/platform/httputil"
	"doctrack/pkg/requestcontext"
)

// Service defines the outbox operations the handler depends on.
type Service interface {
	CreateDocument(ctx context.Context, doc *models.Document, requests []routing.Request, now time.Time) (*service.CreateResult, error)
	AddDestinations(ctx context.Context, docID id.DocumentID, requests []routing.Request, now time.Time) (*service.CreateResult, error)
	GetDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]*models.Document, error)
	ListDestinations(ctx context.Context, docID id.DocumentID) ([]*models.Destination, error)
	Release(ctx context.Context, destID id.DestinationID, at time.Time) (*models.Destination, error)
	Receive(ctx context.Context, destID id.DestinationID, at time.Time) (*models.Destination, error)
	Act(ctx context.Context, destID id.DestinationID, at time.Time, actionTaken, remarks string) (*models.Destination, error)
	CorrectActionRemarks(ctx context.Context, destID id.DestinationID, remarks string) (*models.Destination, error)
	Status(ctx context.Context, docID id.DocumentID, now time.Time) (*service.StatusResult, error)
	DeleteDocument(ctx context.Context, docID id.DocumentID) error
	BulkDeleteDocuments(ctx context.Context, ids []id.DocumentID) error
	DeleteDestination(ctx context.Context, destID id.DestinationID) error
	BulkDeleteDestinations(ctx context.Context, ids []id.DestinationID) error
}

// Handler serves the document and destination routes.
type Handler struct {
	svc     Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates the outbox Handler.
func New(svc Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{svc: svc, logger: logger, metrics: metrics}
}

// Register mounts the outbox routes with their middleware chain.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	if h.metrics != nil {
		router.Use(middleware.Latency(h.metrics))
	}

	router.Post("/documents", h.handleCreateDocument)
	router.Get("/documents", h.handleListDocuments)
	router.Delete("/documents", h.handleBulkDeleteDocuments)
	router.Get("/documents/{id}", h.handleGetDocument)
	router.Delete("/documents/{id}", h.handleDeleteDocument)
	router.Get("/documents/{id}/destinations", h.handleListDestinations)
	router.Post("/documents/{id}/destinations", h.handleAddDestinations)
	router.Get("/documents/{id}/status", h.handleStatus)

	router.Post("/destinations/{id}/release", h.handleRelease)
	router.Post("/destinations/{id}/receive", h.handleReceive)
	router.Post("/destinations/{id}/act", h.handleAct)
	router.Patch("/destinations/{id}/action-remarks", h.handleCorrectActionRemarks)
	router.Delete("/destinations/{id}", h.handleDeleteDestination)
	router.Delete("/destinations", h.handleBulkDeleteDestinations)

	r.Mount("/", router)
}

func (h *Handler) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createDocumentRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	plannerReqs, err := req.toPlannerRequests()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	now := requestcontext.Now(ctx)
	result, err := h.svc.CreateDocument(ctx, req.toModel(), plannerReqs, now)
	if err != nil {
		h.logError(ctx, "create document failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, createDocumentResponse{
		Document:     toDocumentResponse(result.Document),
		Destinations: toDestinationResponses(result.Destinations, now),
		SLAMisses:    result.SLAMisses,
	})
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		h.logError(r.Context(), "list documents failed", err)
		httputil.WriteError(w, err)
		return
	}
	out := make([]documentResponse, len(docs))
	for i, d := range docs {
		out[i] = toDocumentResponse(d)
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	doc, err := h.svc.GetDocument(r.Context(), docID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDocumentResponse(doc))
}

func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteDocument(r.Context(), docID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": docID.String()})
}

func (h *Handler) handleBulkDeleteDocuments(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteDocumentsRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.BulkDeleteDocuments(r.Context(), req.IDs); err != nil {
		h.logError(r.Context(), "bulk delete documents failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"deleted": len(req.IDs)})
}

func (h *Handler) handleListDestinations(w http.ResponseWriter, r *http.Request) {
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	dests, err := h.svc.ListDestinations(r.Context(), docID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK,
		toDestinationResponses(dests, requestcontext.Now(r.Context())))
}

func (h *Handler) handleAddDestinations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req addDestinationsRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	plannerReqs, err := req.toPlannerRequests()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	now := requestcontext.Now(ctx)
	result, err := h.svc.AddDestinations(ctx, docID, plannerReqs, now)
	if err != nil {
		h.logError(ctx, "add destinations failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, addDestinationsResponse{
		Destinations: toDestinationResponses(result.Destinations, now),
		SLAMisses:    result.SLAMisses,
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	now := requestcontext.Now(ctx)
	result, err := h.svc.Status(ctx, docID, now)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, statusResponse{
		DocumentID:   docID,
		Status:       string(result.Status),
		Destinations: toDestinationResponses(result.Destinations, now),
	})
}

// decodeOptional tolerates an absent body; release and receive default their
// timestamp to the request time when no body is sent.
func decodeOptional(r *http.Request, dst httputil.Validatable) error {
	if r.ContentLength == 0 {
		return dst.Validate()
	}
	return httputil.Decode(r, dst)
}

func (h *Handler) handleRelease(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, func(ctx context.Context, destID id.DestinationID, now time.Time) (*models.Destination, error) {
		var req releaseRequest
		if err := decodeOptional(r, &req); err != nil {
			return nil, err
		}
		at, err := transitionRequest{Date: req.DateReleased, Time: req.TimeReleased}.at("Released", now)
		if err != nil {
			return nil, err
		}
		return h.svc.Release(ctx, destID, at)
	})
}

func (h *Handler) handleReceive(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, func(ctx context.Context, destID id.DestinationID, now time.Time) (*models.Destination, error) {
		var req receiveRequest
		if err := decodeOptional(r, &req); err != nil {
			return nil, err
		}
		at, err := transitionRequest{Date: req.DateReceived, Time: req.TimeReceived}.at("Received", now)
		if err != nil {
			return nil, err
		}
		return h.svc.Receive(ctx, destID, at)
	})
}

func (h *Handler) handleAct(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, func(ctx context.Context, destID id.DestinationID, now time.Time) (*models.Destination, error) {
		var req actRequest
		if err := httputil.Decode(r, &req); err != nil {
			return nil, err
		}
		at, err := transitionRequest{Date: req.DateActedUpon, Time: req.TimeActedUpon}.at("ActedUpon", now)
		if err != nil {
			return nil, err
		}
		return h.svc.Act(ctx, destID, at, req.ActionTaken, req.RemarksOnActionTaken)
	})
}

func (h *Handler) handleCorrectActionRemarks(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, func(ctx context.Context, destID id.DestinationID, _ time.Time) (*models.Destination, error) {
		var req correctRemarksRequest
		if err := httputil.Decode(r, &req); err != nil {
			return nil, err
		}
		return h.svc.CorrectActionRemarks(ctx, destID, req.RemarksOnActionTaken)
	})
}

// handleTransition factors the shared shape of the destination mutation
// endpoints: parse the id, run the operation, render the updated record.
func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, destID id.DestinationID, now time.Time) (*models.Destination, error)) {

	ctx := r.Context()
	destID, err := id.ParseDestinationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	now := requestcontext.Now(ctx)
	updated, err := op(ctx, destID, now)
	if err != nil {
		h.logError(ctx, "destination transition failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toDestinationResponse(updated, now))
}

func (h *Handler) handleDeleteDestination(w http.ResponseWriter, r *http.Request) {
	destID, err := id.ParseDestinationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.DeleteDestination(r.Context(), destID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"deleted": destID.String()})
}

func (h *Handler) handleBulkDeleteDestinations(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteDestinationsRequest
	if err := httputil.Decode(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.svc.BulkDeleteDestinations(r.Context(), req.IDs); err != nil {
		h.logError(r.Context(), "bulk delete destinations failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"deleted": len(req.IDs)})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"error", err.Error(),
		"request_id", requestcontext.RequestID(ctx),
	)
}
