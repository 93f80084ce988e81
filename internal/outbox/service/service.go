// Package service orchestrates the routing planner and destination state
// machine against the record stores. Handlers stay thin; invariants live in
// models and routing; this layer owns store error translation and the
// duplicate-sequence retry.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	outboxmetrics "doctrack/internal/outbox/metrics"
	"doctrack/internal/outbox/models"
	"doctrack/internal/outbox/routing"
	"doctrack/internal/outbox/store"
	id "doctrack/pkg/domain"
	dErrors "doctrack/pkg/domain-errors"
	"doctrack/pkg/platform/sentinel"
)

// Service exposes the outbox operations to transport layers.
type Service struct {
	documents    store.DocumentStore
	destinations store.DestinationStore
	planner      *routing.Planner
	logger       *slog.Logger
	metrics      *outboxmetrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetrics attaches the outbox metrics.
func WithMetrics(m *outboxmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the outbox service.
func New(documents store.DocumentStore, destinations store.DestinationStore,
	planner *routing.Planner, logger *slog.Logger, opts ...Option) *Service {

	s := &Service{
		documents:    documents,
		destinations: destinations,
		planner:      planner,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateResult is the outcome of CreateDocument: the persisted document, its
// routing slip, and any SLA misses the planner reported.
type CreateResult struct {
	Document     *models.Document
	Destinations []*models.Destination
	SLAMisses    []routing.SLAMiss
}

// CreateDocument validates and persists a document with its initial routing
// slip. The destination list must be non-empty; a document enters the system
// already routed.
func (s *Service) CreateDocument(ctx context.Context, doc *models.Document,
	requests []routing.Request, now time.Time) (*CreateResult, error) {

	if doc.ID.IsNil() {
		doc.ID = id.NewDocumentID()
	}
	doc.CreatedAt = now
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	plan, err := s.planner.PlanDestinations(ctx, doc.ID, doc.DocumentType, requests, nil)
	if err != nil {
		return nil, err
	}
	for i := range plan.Drafts {
		plan.Drafts[i].CreatedAt = now
	}

	if err := s.documents.Insert(ctx, doc); err != nil {
		return nil, s.translateStoreErr(err, "failed to create document")
	}
	if err := s.destinations.InsertMany(ctx, plan.Drafts); err != nil {
		// Do not leave a document without its routing slip behind.
		if cleanupErr := s.documents.Delete(ctx, doc.ID); cleanupErr != nil {
			s.logger.ErrorContext(ctx, "orphaned document after failed destination insert",
				"document_id", doc.ID.String(), "error", cleanupErr)
		}
		return nil, s.translateStoreErr(err, "failed to create destinations")
	}

	if s.metrics != nil {
		s.metrics.DocumentsCreated.Inc()
		s.metrics.DestinationsPlanned.Add(float64(len(plan.Drafts)))
		s.metrics.SLAMisses.Add(float64(len(plan.Misses)))
	}
	return &CreateResult{
		Document:     doc,
		Destinations: plan.Drafts,
		SLAMisses:    plan.Misses,
	}, nil
}

// AddDestinations appends routing slip entries to an existing document.
// A sequence collision from a concurrent add triggers exactly one re-plan
// against the freshly listed destinations before the error surfaces.
func (s *Service) AddDestinations(ctx context.Context, docID id.DocumentID,
	requests []routing.Request, now time.Time) (*CreateResult, error) {

	doc, err := s.documents.FindByID(ctx, docID)
	if err != nil {
		return nil, s.translateStoreErr(err, "document "+docID.String())
	}

	const attempts = 2
	for attempt := 1; ; attempt++ {
		existing, err := s.destinations.ListByDocument(ctx, docID)
		if err != nil {
			return nil, s.translateStoreErr(err, "failed to list destinations")
		}

		plan, err := s.planner.PlanDestinations(ctx, docID, doc.DocumentType, requests, existing)
		if err != nil {
			return nil, err
		}
		for i := range plan.Drafts {
			plan.Drafts[i].CreatedAt = now
		}

		err = s.destinations.InsertMany(ctx, plan.Drafts)
		if err == nil {
			if s.metrics != nil {
				s.metrics.DestinationsPlanned.Add(float64(len(plan.Drafts)))
				s.metrics.SLAMisses.Add(float64(len(plan.Misses)))
			}
			return &CreateResult{
				Document:     doc,
				Destinations: plan.Drafts,
				SLAMisses:    plan.Misses,
			}, nil
		}
		if !errors.Is(err, sentinel.ErrDuplicateSequence) {
			return nil, s.translateStoreErr(err, "failed to add destinations")
		}
		if attempt == attempts {
			return nil, dErrors.Newf(dErrors.CodeDuplicateSequence,
				"sequence assignment collided twice for document %s", docID)
		}
		if s.metrics != nil {
			s.metrics.DuplicateSequenceRetries.Inc()
		}
		s.logger.InfoContext(ctx, "sequence collision, re-planning once",
			"document_id", docID.String())
	}
}

// GetDocument fetches one document.
func (s *Service) GetDocument(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	doc, err := s.documents.FindByID(ctx, docID)
	if err != nil {
		return nil, s.translateStoreErr(err, "document "+docID.String())
	}
	return doc, nil
}

// ListDocuments lists all documents, newest first.
func (s *Service) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	docs, err := s.documents.List(ctx)
	if err != nil {
		return nil, s.translateStoreErr(err, "failed to list documents")
	}
	return docs, nil
}

// ListDestinations lists a document's routing slip ordered by sequence.
func (s *Service) ListDestinations(ctx context.Context, docID id.DocumentID) ([]*models.Destination, error) {
	if _, err := s.documents.FindByID(ctx, docID); err != nil {
		return nil, s.translateStoreErr(err, "document "+docID.String())
	}
	dests, err := s.destinations.ListByDocument(ctx, docID)
	if err != nil {
		return nil, s.translateStoreErr(err, "failed to list destinations")
	}
	return dests, nil
}

// Release marks a destination dispatched and materializes its SLA deadline.
func (s *Service) Release(ctx context.Context, destID id.DestinationID, at time.Time) (*models.Destination, error) {
	updated, err := s.destinations.Execute(ctx, destID,
		func(d *models.Destination) error { return d.CanRelease(at) },
		func(d *models.Destination) { d.ApplyRelease(at) },
	)
	if err != nil {
		return nil, s.translateStoreErr(err, "destination "+destID.String())
	}
	s.countTransition("release")
	return updated, nil
}

// Receive records receipt by the destination office.
func (s *Service) Receive(ctx context.Context, destID id.DestinationID, at time.Time) (*models.Destination, error) {
	updated, err := s.destinations.Execute(ctx, destID,
		func(d *models.Destination) error { return d.CanReceive(at) },
		func(d *models.Destination) { d.ApplyReceive(at) },
	)
	if err != nil {
		return nil, s.translateStoreErr(err, "destination "+destID.String())
	}
	s.countTransition("receive")
	return updated, nil
}

// Act records the action taken and closes the destination.
func (s *Service) Act(ctx context.Context, destID id.DestinationID, at time.Time,
	actionTaken, remarks string) (*models.Destination, error) {

	if actionTaken == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "actionTaken is required")
	}
	updated, err := s.destinations.Execute(ctx, destID,
		func(d *models.Destination) error { return d.CanAct(at) },
		func(d *models.Destination) { d.ApplyAct(at, actionTaken, remarks) },
	)
	if err != nil {
		return nil, s.translateStoreErr(err, "destination "+destID.String())
	}
	s.countTransition("act")
	return updated, nil
}

// CorrectActionRemarks patches the corrective remarks of a terminal
// destination. This is the only mutation allowed after ActedUpon.
func (s *Service) CorrectActionRemarks(ctx context.Context, destID id.DestinationID, remarks string) (*models.Destination, error) {
	updated, err := s.destinations.Execute(ctx, destID,
		func(d *models.Destination) error { return d.CanCorrectActionRemarks() },
		func(d *models.Destination) { d.ApplyCorrectActionRemarks(remarks) },
	)
	if err != nil {
		return nil, s.translateStoreErr(err, "destination "+destID.String())
	}
	return updated, nil
}

// StatusResult carries the aggregate label plus the per-destination statuses
// it was derived from.
type StatusResult struct {
	Status       models.DocumentStatus
	Destinations []*models.Destination
	Statuses     []models.DestinationStatus
}

// Status computes the document's aggregate status at the given instant.
func (s *Service) Status(ctx context.Context, docID id.DocumentID, now time.Time) (*StatusResult, error) {
	dests, err := s.ListDestinations(ctx, docID)
	if err != nil {
		return nil, err
	}
	statuses := make([]models.DestinationStatus, len(dests))
	for i, d := range dests {
		statuses[i] = d.StatusAt(now)
	}
	return &StatusResult{
		Status:       models.AggregateStatus(dests, now),
		Destinations: dests,
		Statuses:     statuses,
	}, nil
}

// DeleteDocument removes a document and, via the store, its routing slip.
func (s *Service) DeleteDocument(ctx context.Context, docID id.DocumentID) error {
	if err := s.documents.Delete(ctx, docID); err != nil {
		return s.translateStoreErr(err, "document "+docID.String())
	}
	return nil
}

// BulkDeleteDocuments removes several documents; missing ids are skipped.
func (s *Service) BulkDeleteDocuments(ctx context.Context, ids []id.DocumentID) error {
	if len(ids) == 0 {
		return dErrors.New(dErrors.CodeValidation, "ids list is required")
	}
	if err := s.documents.BulkDelete(ctx, ids); err != nil {
		return s.translateStoreErr(err, "failed to bulk delete documents")
	}
	return nil
}

// DeleteDestination removes one routing slip entry.
func (s *Service) DeleteDestination(ctx context.Context, destID id.DestinationID) error {
	if err := s.destinations.Delete(ctx, destID); err != nil {
		return s.translateStoreErr(err, "destination "+destID.String())
	}
	return nil
}

// BulkDeleteDestinations removes several routing slip entries.
func (s *Service) BulkDeleteDestinations(ctx context.Context, ids []id.DestinationID) error {
	if len(ids) == 0 {
		return dErrors.New(dErrors.CodeValidation, "ids list is required")
	}
	if err := s.destinations.BulkDelete(ctx, ids); err != nil {
		return s.translateStoreErr(err, "failed to bulk delete destinations")
	}
	return nil
}

func (s *Service) countTransition(kind string) {
	if s.metrics != nil {
		s.metrics.Transitions.WithLabelValues(kind).Inc()
	}
}

// translateStoreErr maps sentinel store errors to coded domain errors and
// passes already-coded errors (state machine failures from Execute
// validators) through untouched.
func (s *Service) translateStoreErr(err error, context string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, context+" not found")
	case errors.Is(err, sentinel.ErrDuplicateSequence):
		return dErrors.Wrap(err, dErrors.CodeDuplicateSequence, context)
	default:
		return dErrors.Wrap(err, dErrors.CodeStoreUnavailable, context)
	}
}
