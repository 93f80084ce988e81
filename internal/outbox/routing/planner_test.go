package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctrack/internal/outbox/models"
	id "doctrack/pkg/domain"
	dErrors "doctrack/pkg/domain-errors"
	"doctrack/pkg/platform/sentinel"
)

// fakeSLA maps "documentType/actionRequired" to days.
type fakeSLA struct {
	days map[string]int
	err  error
}

func (f *fakeSLA) RequiredDays(_ context.Context, documentType, actionRequired string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if d, ok := f.days[documentType+"/"+actionRequired]; ok {
		return d, nil
	}
	return 0, sentinel.ErrNotFound
}

func newPlanner(days map[string]int) *Planner {
	return NewPlanner(&fakeSLA{days: days})
}

func TestPlanAssignsContiguousSequences(t *testing.T) {
	p := newPlanner(nil)
	docID := id.NewDocumentID()

	plan, err := p.PlanDestinations(context.Background(), docID, "Memo", []Request{
		{DestinationOffice: "A", ActionRequired: "Reply"},
		{DestinationOffice: "B", ActionRequired: "File"},
		{DestinationOffice: "C", ActionRequired: "Comment"},
	}, nil)
	require.NoError(t, err)

	seqs := make([]int, 0, 3)
	for _, d := range plan.Drafts {
		seqs = append(seqs, d.SequenceNo)
		assert.Equal(t, docID, d.DocumentID)
		assert.False(t, d.ID.IsNil())
	}
	assert.Equal(t, []int{1, 2, 3}, seqs)
}

func TestPlanHonorsExplicitSequencesAndFillsGaps(t *testing.T) {
	p := newPlanner(nil)

	plan, err := p.PlanDestinations(context.Background(), id.NewDocumentID(), "Memo", []Request{
		{DestinationOffice: "A", ActionRequired: "Reply", SequenceNo: 5},
		{DestinationOffice: "B", ActionRequired: "File"},
		{DestinationOffice: "C", ActionRequired: "File"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, plan.Drafts[0].SequenceNo)
	assert.Equal(t, 1, plan.Drafts[1].SequenceNo)
	assert.Equal(t, 2, plan.Drafts[2].SequenceNo)
}

func TestPlanSkipsExistingSequences(t *testing.T) {
	p := newPlanner(nil)
	docID := id.NewDocumentID()
	existing := []*models.Destination{
		{ID: id.NewDestinationID(), DocumentID: docID, SequenceNo: 1},
		{ID: id.NewDestinationID(), DocumentID: docID, SequenceNo: 2},
	}

	plan, err := p.PlanDestinations(context.Background(), docID, "Memo", []Request{
		{DestinationOffice: "D", ActionRequired: "Reply"},
	}, existing)
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Drafts[0].SequenceNo)
}

func TestPlanRejectsCollisions(t *testing.T) {
	p := newPlanner(nil)
	docID := id.NewDocumentID()

	t.Run("explicit vs explicit", func(t *testing.T) {
		_, err := p.PlanDestinations(context.Background(), docID, "Memo", []Request{
			{DestinationOffice: "A", ActionRequired: "Reply", SequenceNo: 2},
			{DestinationOffice: "B", ActionRequired: "File", SequenceNo: 2},
		}, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDuplicateSequence))
	})

	t.Run("explicit vs existing", func(t *testing.T) {
		existing := []*models.Destination{{DocumentID: docID, SequenceNo: 4}}
		_, err := p.PlanDestinations(context.Background(), docID, "Memo", []Request{
			{DestinationOffice: "A", ActionRequired: "Reply", SequenceNo: 4},
		}, existing)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDuplicateSequence))
	})
}

func TestPlanDistinctSequencesProperty(t *testing.T) {
	// Mixed explicit and assigned numbers must always end up pairwise
	// distinct and strictly positive.
	p := newPlanner(nil)
	reqs := []Request{
		{DestinationOffice: "A", ActionRequired: "Reply", SequenceNo: 3},
		{DestinationOffice: "B", ActionRequired: "Reply"},
		{DestinationOffice: "C", ActionRequired: "Reply", SequenceNo: 7},
		{DestinationOffice: "D", ActionRequired: "Reply"},
		{DestinationOffice: "E", ActionRequired: "Reply"},
	}
	plan, err := p.PlanDestinations(context.Background(), id.NewDocumentID(), "Memo", reqs, nil)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, d := range plan.Drafts {
		assert.Greater(t, d.SequenceNo, 0)
		assert.False(t, seen[d.SequenceNo], "sequence %d assigned twice", d.SequenceNo)
		seen[d.SequenceNo] = true
	}
}

func TestPlanValidation(t *testing.T) {
	p := newPlanner(nil)
	docID := id.NewDocumentID()

	cases := []struct {
		name string
		reqs []Request
	}{
		{"empty request list", nil},
		{"missing office", []Request{{ActionRequired: "Reply"}}},
		{"missing action", []Request{{DestinationOffice: "A"}}},
		{"negative sequence", []Request{{DestinationOffice: "A", ActionRequired: "Reply", SequenceNo: -1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.PlanDestinations(context.Background(), docID, "Memo", tc.reqs, nil)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestPlanResolvesSLADeadlines(t *testing.T) {
	p := newPlanner(map[string]int{"Memo/Reply": 5})

	t.Run("hit stores the offset, not a date", func(t *testing.T) {
		plan, err := p.PlanDestinations(context.Background(), id.NewDocumentID(), "Memo", []Request{
			{DestinationOffice: "A", ActionRequired: "Reply"},
		}, nil)
		require.NoError(t, err)
		d := plan.Drafts[0]
		require.NotNil(t, d.RequiredDays)
		assert.Equal(t, 5, *d.RequiredDays)
		assert.Nil(t, d.RequiredAt, "deadline must stay unset until release")
		assert.Empty(t, plan.Misses)
	})

	t.Run("explicit deadline skips the lookup", func(t *testing.T) {
		explicit := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		plan, err := p.PlanDestinations(context.Background(), id.NewDocumentID(), "Memo", []Request{
			{DestinationOffice: "A", ActionRequired: "Reply", RequiredAt: &explicit},
		}, nil)
		require.NoError(t, err)
		assert.Nil(t, plan.Drafts[0].RequiredDays)
		assert.Equal(t, explicit, *plan.Drafts[0].RequiredAt)
	})

	t.Run("miss is reported once per pair, not an error", func(t *testing.T) {
		plan, err := p.PlanDestinations(context.Background(), id.NewDocumentID(), "Memo", []Request{
			{DestinationOffice: "A", ActionRequired: "Endorse"},
			{DestinationOffice: "B", ActionRequired: "Endorse"},
		}, nil)
		require.NoError(t, err)
		assert.Nil(t, plan.Drafts[0].RequiredDays)
		assert.Nil(t, plan.Drafts[1].RequiredDays)
		require.Len(t, plan.Misses, 1)
		assert.Equal(t, SLAMiss{DocumentType: "Memo", ActionRequired: "Endorse"}, plan.Misses[0])
	})

	t.Run("lookup failure surfaces as store_unavailable", func(t *testing.T) {
		broken := NewPlanner(&fakeSLA{err: errors.New("connection refused")})
		_, err := broken.PlanDestinations(context.Background(), id.NewDocumentID(), "Memo", []Request{
			{DestinationOffice: "A", ActionRequired: "Reply"},
		}, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeStoreUnavailable))
	})
}
