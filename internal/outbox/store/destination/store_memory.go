// Package destination persists routing slip entries. The store owns the two
// concurrency guarantees the core relies on: (document, sequenceNo)
// uniqueness on insert, and Execute's validate-then-mutate under lock for
// state transitions.
package destination

import (
	"context"
	"sort"
	"sync"

	"doctrack/internal/outbox/models"
	id "doctrack/pkg/domain"
	"doctrack/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and local development.
type InMemory struct {
	mu           sync.RWMutex
	destinations map[id.DestinationID]*models.Destination
}

// NewInMemory constructs an empty in-memory destination store.
func NewInMemory() *InMemory {
	return &InMemory{destinations: make(map[id.DestinationID]*models.Destination)}
}

// InsertMany inserts all drafts or none. The sequence uniqueness check and
// the inserts happen under one lock, which is the memory-store equivalent of
// the postgres unique constraint.
func (s *InMemory) InsertMany(_ context.Context, drafts []*models.Destination) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[id.DocumentID]map[int]bool)
	for _, d := range s.destinations {
		if taken[d.DocumentID] == nil {
			taken[d.DocumentID] = make(map[int]bool)
		}
		taken[d.DocumentID][d.SequenceNo] = true
	}
	for _, draft := range drafts {
		if taken[draft.DocumentID][draft.SequenceNo] {
			return sentinel.ErrDuplicateSequence
		}
		if taken[draft.DocumentID] == nil {
			taken[draft.DocumentID] = make(map[int]bool)
		}
		taken[draft.DocumentID][draft.SequenceNo] = true
	}

	for _, draft := range drafts {
		cp := *draft
		s.destinations[draft.ID] = &cp
	}
	return nil
}

func (s *InMemory) ListByDocument(_ context.Context, docID id.DocumentID) ([]*models.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Destination, 0)
	for _, d := range s.destinations {
		if d.DocumentID == docID {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceNo < out[j].SequenceNo })
	return out, nil
}

func (s *InMemory) FindByID(_ context.Context, destID id.DestinationID) (*models.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.destinations[destID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// Execute runs validate then mutate on the stored record while holding the
// store lock. A validate failure leaves the record untouched, so a
// transition raced past its precondition fails cleanly instead of silently
// overwriting.
func (s *InMemory) Execute(_ context.Context, destID id.DestinationID,
	validate func(*models.Destination) error,
	mutate func(*models.Destination)) (*models.Destination, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.destinations[destID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(d); err != nil {
		return nil, err
	}
	mutate(d)
	cp := *d
	return &cp, nil
}

func (s *InMemory) Delete(_ context.Context, destID id.DestinationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.destinations[destID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.destinations, destID)
	return nil
}

func (s *InMemory) BulkDelete(_ context.Context, ids []id.DestinationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, destID := range ids {
		delete(s.destinations, destID)
	}
	return nil
}

// DeleteByDocument removes every destination of a document. The document
// memory store calls this to emulate the postgres ON DELETE CASCADE.
func (s *InMemory) DeleteByDocument(_ context.Context, docID id.DocumentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for destID, d := range s.destinations {
		if d.DocumentID == docID {
			delete(s.destinations, destID)
		}
	}
	return nil
}
