// Package store defines the record store contracts the outbox core consumes.
// Implementations live in the per-entity subpackages (memory and postgres).
package store

import (
	"context"

	"doctrack/internal/outbox/models"
	id "doctrack/pkg/domain"
)

// DocumentStore persists document source records.
type DocumentStore interface {
	Insert(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	List(ctx context.Context) ([]*models.Document, error)
	// Delete removes the document and cascades to its destinations
	// atomically. Missing documents return sentinel.ErrNotFound.
	Delete(ctx context.Context, docID id.DocumentID) error
	BulkDelete(ctx context.Context, ids []id.DocumentID) error
}

// DestinationStore persists routing slip entries.
type DestinationStore interface {
	// InsertMany inserts all drafts or none. A (document, sequenceNo)
	// uniqueness violation returns sentinel.ErrDuplicateSequence.
	InsertMany(ctx context.Context, destinations []*models.Destination) error
	ListByDocument(ctx context.Context, docID id.DocumentID) ([]*models.Destination, error)
	FindByID(ctx context.Context, destID id.DestinationID) (*models.Destination, error)
	// Execute runs validate then mutate on the current persisted record
	// while holding the store's lock (mutex or row lock), so the
	// precondition is re-checked immediately before commit. A validate
	// failure aborts without writing.
	Execute(ctx context.Context, destID id.DestinationID,
		validate func(*models.Destination) error,
		mutate func(*models.Destination)) (*models.Destination, error)
	Delete(ctx context.Context, destID id.DestinationID) error
	BulkDelete(ctx context.Context, ids []id.DestinationID) error
}
