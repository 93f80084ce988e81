// Package routing turns destination requests into validated routing slip
// drafts: it assigns sequence numbers, resolves SLA deadlines, and enforces
// cross-destination invariants before anything touches the store.
package routing

import (
	"context"
	"errors"
	"strings"
	"time"

	"doctrack/internal/outbox/models"
	id "doctrack/pkg/domain"
	dErrors "doctrack/pkg/domain-errors"
	"doctrack/pkg/platform/sentinel"
)

// SLALookup resolves the allowed response days for a (documentType,
// actionRequired) pair. Implementations return sentinel.ErrNotFound when the
// pair has no SLA entry.
type SLALookup interface {
	RequiredDays(ctx context.Context, documentType, actionRequired string) (int, error)
}

// Request is one destination request as submitted by a caller. Zero
// SequenceNo asks the planner to assign one; nil RequiredAt defers the
// deadline to the SLA table.
type Request struct {
	DestinationOffice     string
	EmployeeActionOfficer string
	ActionRequired        string
	SequenceNo            int
	RequiredAt            *time.Time
	Remarks               string
}

// SLAMiss reports a (documentType, actionRequired) pair with no SLA entry.
// Such destinations simply have no automatic deadline; a miss is information
// for the caller, not an error.
type SLAMiss struct {
	DocumentType   string `json:"documentType"`
	ActionRequired string `json:"actionRequired"`
}

// Plan is the validated outcome of planning: drafts ready for insertion plus
// any SLA misses encountered.
type Plan struct {
	Drafts []*models.Destination
	Misses []SLAMiss
}

// Planner builds destination drafts for a document.
type Planner struct {
	sla SLALookup
}

// NewPlanner constructs a planner over the given SLA lookup.
func NewPlanner(sla SLALookup) *Planner {
	return &Planner{sla: sla}
}

// PlanDestinations validates requests and produces drafts for docID.
//
// Sequence assignment: an explicit SequenceNo is honored verbatim; omitted
// ones get the lowest unused positive integer in request order. Numbers held
// by existing destinations count as used, so the add-destination path cannot
// collide with what is already persisted. Any collision fails with a
// duplicate_sequence error.
//
// Deadline resolution: an explicit RequiredAt is honored. Otherwise the SLA
// table decides: a hit stores RequiredDays on the draft (the concrete date is
// materialized at release time), a miss leaves the destination without a
// deadline and is reported in Plan.Misses.
func (p *Planner) PlanDestinations(ctx context.Context, docID id.DocumentID, documentType string,
	requests []Request, existing []*models.Destination) (*Plan, error) {

	if len(requests) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "destinations must not be empty")
	}

	taken := make(map[int]bool, len(existing)+len(requests))
	for _, d := range existing {
		taken[d.SequenceNo] = true
	}

	plan := &Plan{Drafts: make([]*models.Destination, 0, len(requests))}
	missSeen := make(map[SLAMiss]bool)
	next := 1

	for i, req := range requests {
		if strings.TrimSpace(req.DestinationOffice) == "" {
			return nil, dErrors.Newf(dErrors.CodeValidation,
				"destinations[%d]: destinationOffice is required", i)
		}
		if strings.TrimSpace(req.ActionRequired) == "" {
			return nil, dErrors.Newf(dErrors.CodeValidation,
				"destinations[%d]: actionRequired is required", i)
		}
		if req.SequenceNo < 0 {
			return nil, dErrors.Newf(dErrors.CodeValidation,
				"destinations[%d]: sequenceNo must be positive", i)
		}

		seq := req.SequenceNo
		if seq == 0 {
			for taken[next] {
				next++
			}
			seq = next
		} else if taken[seq] {
			return nil, dErrors.Newf(dErrors.CodeDuplicateSequence,
				"sequence number %d is already assigned for document %s", seq, docID)
		}
		taken[seq] = true

		draft := &models.Destination{
			ID:                    id.NewDestinationID(),
			DocumentID:            docID,
			SequenceNo:            seq,
			DestinationOffice:     req.DestinationOffice,
			EmployeeActionOfficer: req.EmployeeActionOfficer,
			ActionRequired:        req.ActionRequired,
			RequiredAt:            req.RequiredAt,
			Remarks:               req.Remarks,
		}

		if req.RequiredAt == nil {
			days, err := p.sla.RequiredDays(ctx, documentType, req.ActionRequired)
			switch {
			case err == nil:
				draft.RequiredDays = &days
			case errors.Is(err, sentinel.ErrNotFound):
				miss := SLAMiss{DocumentType: documentType, ActionRequired: req.ActionRequired}
				if !missSeen[miss] {
					missSeen[miss] = true
					plan.Misses = append(plan.Misses, miss)
				}
			default:
				return nil, dErrors.Wrap(err, dErrors.CodeStoreUnavailable,
					"required-days lookup failed")
			}
		}

		plan.Drafts = append(plan.Drafts, draft)
	}

	return plan, nil
}
