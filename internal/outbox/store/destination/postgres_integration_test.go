//go:build integration

package destination_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"doctrack/internal/outbox/models"
	"doctrack/internal/outbox/store/destination"
	"doctrack/internal/outbox/store/document"
	id "doctrack/pkg/domain"
	"doctrack/pkg/platform/sentinel"
	"doctrack/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *destination.PostgresStore
	documents *document.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = destination.NewPostgres(s.postgres.DB)
	s.documents = document.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "document_destination", "document_source")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) insertDocument() id.DocumentID {
	doc := &models.Document{
		ID:                        id.NewDocumentID(),
		DocumentControlNo:         "DC-" + uuid.NewString()[:8],
		RouteNo:                   "R-1",
		DocumentType:              "Memo",
		SourceType:                models.SourceTypeInternal,
		InternalOriginatingOffice: "Records",
		Subject:                   "integration",
		Remarks:                   "integration",
		CreatedAt:                 time.Now().UTC(),
	}
	s.Require().NoError(s.documents.Insert(context.Background(), doc))
	return doc.ID
}

func newDest(docID id.DocumentID, seq int) *models.Destination {
	return &models.Destination{
		ID:                id.NewDestinationID(),
		DocumentID:        docID,
		SequenceNo:        seq,
		DestinationOffice: "Records Section",
		ActionRequired:    "Reply",
		CreatedAt:         time.Now().UTC(),
	}
}

// TestConcurrentDuplicateSequence verifies the unique index arbitrates
// concurrent inserts of the same (document, sequence) pair: exactly one wins.
func (s *PostgresStoreSuite) TestConcurrentDuplicateSequence() {
	ctx := context.Background()
	docID := s.insertDocument()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.InsertMany(ctx, []*models.Destination{newDest(docID, 1)})
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrDuplicateSequence) {
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one insert should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load())

	listed, err := s.store.ListByDocument(ctx, docID)
	s.Require().NoError(err)
	s.Len(listed, 1)
}

func (s *PostgresStoreSuite) TestInsertManyAtomicOnCollision() {
	ctx := context.Background()
	docID := s.insertDocument()
	s.Require().NoError(s.store.InsertMany(ctx, []*models.Destination{newDest(docID, 2)}))

	err := s.store.InsertMany(ctx, []*models.Destination{
		newDest(docID, 1),
		newDest(docID, 2),
	})
	s.Require().ErrorIs(err, sentinel.ErrDuplicateSequence)

	listed, err := s.store.ListByDocument(ctx, docID)
	s.Require().NoError(err)
	s.Len(listed, 1, "collided batch must roll back entirely")
}

func (s *PostgresStoreSuite) TestExecuteTransitionRoundTrip() {
	ctx := context.Background()
	docID := s.insertDocument()
	days := 5
	d := newDest(docID, 1)
	d.RequiredDays = &days
	s.Require().NoError(s.store.InsertMany(ctx, []*models.Destination{d}))

	at := time.Now().UTC().Truncate(time.Second)
	updated, err := s.store.Execute(ctx, d.ID,
		func(cur *models.Destination) error { return cur.CanRelease(at) },
		func(cur *models.Destination) { cur.ApplyRelease(at) },
	)
	s.Require().NoError(err)
	s.Require().NotNil(updated.RequiredAt)
	s.Equal(at.AddDate(0, 0, 5), updated.RequiredAt.UTC())

	// Precondition re-checked against the committed row.
	_, err = s.store.Execute(ctx, d.ID,
		func(cur *models.Destination) error { return cur.CanRelease(at) },
		func(cur *models.Destination) { cur.ApplyRelease(at) },
	)
	s.Require().Error(err)

	stored, err := s.store.FindByID(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(at.Unix(), stored.ReleasedAt.Unix())
}

func (s *PostgresStoreSuite) TestCascadeDeleteWithDocument() {
	ctx := context.Background()
	docID := s.insertDocument()
	s.Require().NoError(s.store.InsertMany(ctx, []*models.Destination{
		newDest(docID, 1), newDest(docID, 2),
	}))

	s.Require().NoError(s.documents.Delete(ctx, docID))

	listed, err := s.store.ListByDocument(ctx, docID)
	s.Require().NoError(err)
	s.Empty(listed, "ON DELETE CASCADE must remove the routing slip")
}

func (s *PostgresStoreSuite) TestFindByIDNotFound() {
	_, err := s.store.FindByID(context.Background(), id.NewDestinationID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
