// Package document persists document source records.
package document

import (
	"context"
	"errors"
	"sort"
	"sync"

	"doctrack/internal/outbox/models"
	id "doctrack/pkg/domain"
	"doctrack/pkg/platform/sentinel"
)

// destinationCascader lets the document store delegate the destination
// cascade on delete without importing the destination store package.
type destinationCascader interface {
	DeleteByDocument(ctx context.Context, docID id.DocumentID) error
}

// InMemory is a mutex-guarded map store for tests and local development.
type InMemory struct {
	mu        sync.RWMutex
	documents map[id.DocumentID]*models.Document
	cascade   destinationCascader
}

// NewInMemory constructs an empty in-memory document store. The cascader is
// optional; without it deletes remove only the document record.
func NewInMemory(cascade destinationCascader) *InMemory {
	return &InMemory{
		documents: make(map[id.DocumentID]*models.Document),
		cascade:   cascade,
	}
}

func (s *InMemory) Insert(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *doc
	s.documents[doc.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, docID id.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		cp := *doc
		out = append(out, &cp)
	}
	// Newest first, matching the original outbox listing.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) Delete(ctx context.Context, docID id.DocumentID) error {
	s.mu.Lock()
	if _, ok := s.documents[docID]; !ok {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	delete(s.documents, docID)
	s.mu.Unlock()

	if s.cascade != nil {
		return s.cascade.DeleteByDocument(ctx, docID)
	}
	return nil
}

func (s *InMemory) BulkDelete(ctx context.Context, ids []id.DocumentID) error {
	for _, docID := range ids {
		if err := s.Delete(ctx, docID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
	}
	return nil
}
