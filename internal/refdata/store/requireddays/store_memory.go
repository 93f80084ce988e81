// Package requireddays persists the SLA reference table and serves the
// required-days lookup the routing planner depends on.
package requireddays

import (
	"context"
	"sort"
	"strings"
	"sync"

	"doctrack/internal/refdata/models"
	id "doctrack/pkg/domain"
	"doctrack/pkg/platform/sentinel"
)

// Store is the full contract: CRUD for the reference table plus the lookup
// the planner uses. Lookup misses return sentinel.ErrNotFound.
type Store interface {
	Insert(ctx context.Context, entry *models.RequiredDaysEntry) error
	List(ctx context.Context) ([]*models.RequiredDaysEntry, error)
	Update(ctx context.Context, entry *models.RequiredDaysEntry) error
	Delete(ctx context.Context, entryID id.RequiredDaysID) error
	BulkDelete(ctx context.Context, ids []id.RequiredDaysID) error
	RequiredDays(ctx context.Context, documentType, actionRequired string) (int, error)
}

type pairKey struct {
	documentType   string
	actionRequired string
}

func keyOf(documentType, actionRequired string) pairKey {
	return pairKey{
		documentType:   strings.ToLower(strings.TrimSpace(documentType)),
		actionRequired: strings.ToLower(strings.TrimSpace(actionRequired)),
	}
}

// InMemory is a mutex-guarded map store for tests and local development.
// Pair uniqueness is case-insensitive, matching the postgres unique index.
type InMemory struct {
	mu      sync.RWMutex
	entries map[id.RequiredDaysID]*models.RequiredDaysEntry
	byPair  map[pairKey]id.RequiredDaysID
}

// NewInMemory constructs an empty in-memory required-days store.
func NewInMemory() *InMemory {
	return &InMemory{
		entries: make(map[id.RequiredDaysID]*models.RequiredDaysEntry),
		byPair:  make(map[pairKey]id.RequiredDaysID),
	}
}

func (s *InMemory) Insert(_ context.Context, entry *models.RequiredDaysEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := keyOf(entry.DocumentType, entry.ActionRequired)
	if _, exists := s.byPair[key]; exists {
		return sentinel.ErrConflict
	}
	cp := *entry
	s.entries[entry.ID] = &cp
	s.byPair[key] = entry.ID
	return nil
}

func (s *InMemory) List(_ context.Context) ([]*models.RequiredDaysEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.RequiredDaysEntry, 0, len(s.entries))
	for _, e := range s.entries {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DocumentType != out[j].DocumentType {
			return out[i].DocumentType < out[j].DocumentType
		}
		return out[i].ActionRequired < out[j].ActionRequired
	})
	return out, nil
}

func (s *InMemory) Update(_ context.Context, entry *models.RequiredDaysEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[entry.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byPair, keyOf(existing.DocumentType, existing.ActionRequired))

	key := keyOf(entry.DocumentType, entry.ActionRequired)
	if other, exists := s.byPair[key]; exists && other != entry.ID {
		// Restore the old mapping before failing.
		s.byPair[keyOf(existing.DocumentType, existing.ActionRequired)] = entry.ID
		return sentinel.ErrConflict
	}
	cp := *entry
	s.entries[entry.ID] = &cp
	s.byPair[key] = entry.ID
	return nil
}

func (s *InMemory) Delete(_ context.Context, entryID id.RequiredDaysID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[entryID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byPair, keyOf(existing.DocumentType, existing.ActionRequired))
	delete(s.entries, entryID)
	return nil
}

func (s *InMemory) BulkDelete(_ context.Context, ids []id.RequiredDaysID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entryID := range ids {
		if existing, ok := s.entries[entryID]; ok {
			delete(s.byPair, keyOf(existing.DocumentType, existing.ActionRequired))
			delete(s.entries, entryID)
		}
	}
	return nil
}

func (s *InMemory) RequiredDays(_ context.Context, documentType, actionRequired string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entryID, ok := s.byPair[keyOf(documentType, actionRequired)]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	return s.entries[entryID].RequiredDays, nil
}
