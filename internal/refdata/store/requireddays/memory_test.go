package requireddays

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"doctrack/internal/refdata/models"
	id "doctrack/pkg/domain"
	"doctrack/pkg/platform/sentinel"
)

type RequiredDaysStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *RequiredDaysStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestRequiredDaysStoreSuite(t *testing.T) {
	suite.Run(t, new(RequiredDaysStoreSuite))
}

func (s *RequiredDaysStoreSuite) newEntry(documentType, actionRequired string, days int) *models.RequiredDaysEntry {
	return &models.RequiredDaysEntry{
		ID:             id.NewRequiredDaysID(),
		DocumentType:   documentType,
		ActionRequired: actionRequired,
		RequiredDays:   days,
	}
}

func (s *RequiredDaysStoreSuite) TestLookup() {
	s.Require().NoError(s.store.Insert(s.ctx, s.newEntry("Memo", "Reply", 5)))

	days, err := s.store.RequiredDays(s.ctx, "Memo", "Reply")
	s.Require().NoError(err)
	s.Equal(5, days)

	s.Run("case-insensitive", func() {
		days, err := s.store.RequiredDays(s.ctx, "memo", "REPLY")
		s.Require().NoError(err)
		s.Equal(5, days)
	})

	s.Run("miss returns ErrNotFound", func() {
		_, err := s.store.RequiredDays(s.ctx, "Memo", "Endorse")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *RequiredDaysStoreSuite) TestPairUniqueness() {
	s.Require().NoError(s.store.Insert(s.ctx, s.newEntry("Memo", "Reply", 5)))

	err := s.store.Insert(s.ctx, s.newEntry("memo", "reply", 7))
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	s.Run("update onto an existing pair", func() {
		other := s.newEntry("Memo", "Endorse", 3)
		s.Require().NoError(s.store.Insert(s.ctx, other))

		other.ActionRequired = "Reply"
		s.Require().ErrorIs(s.store.Update(s.ctx, other), sentinel.ErrConflict)
	})
}

func (s *RequiredDaysStoreSuite) TestUpdateMovesPair() {
	entry := s.newEntry("Memo", "Reply", 5)
	s.Require().NoError(s.store.Insert(s.ctx, entry))

	entry.ActionRequired = "Endorse"
	entry.RequiredDays = 3
	s.Require().NoError(s.store.Update(s.ctx, entry))

	_, err := s.store.RequiredDays(s.ctx, "Memo", "Reply")
	s.Require().ErrorIs(err, sentinel.ErrNotFound, "old pair must stop resolving")

	days, err := s.store.RequiredDays(s.ctx, "Memo", "Endorse")
	s.Require().NoError(err)
	s.Equal(3, days)
}

func (s *RequiredDaysStoreSuite) TestDelete() {
	entry := s.newEntry("Memo", "Reply", 5)
	s.Require().NoError(s.store.Insert(s.ctx, entry))
	s.Require().NoError(s.store.Delete(s.ctx, entry.ID))

	_, err := s.store.RequiredDays(s.ctx, "Memo", "Reply")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(s.ctx, entry.ID), sentinel.ErrNotFound)
}

func (s *RequiredDaysStoreSuite) TestBulkDelete() {
	a := s.newEntry("Memo", "Reply", 5)
	b := s.newEntry("Letter", "File", 10)
	s.Require().NoError(s.store.Insert(s.ctx, a))
	s.Require().NoError(s.store.Insert(s.ctx, b))

	s.Require().NoError(s.store.BulkDelete(s.ctx, []id.RequiredDaysID{a.ID, id.NewRequiredDaysID()}))

	entries, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(b.ID, entries[0].ID)
}
