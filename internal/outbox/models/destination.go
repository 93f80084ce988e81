package models

import (
	"time"

	id "doctrack/pkg/domain"
	dErrors "doctrack/pkg/domain-errors"
)

// Destination is one routing slip entry: a document dispatched to one office
// and action officer, with a required-response deadline and completion
// record.
//
// Invariants:
//   - SequenceNo is strictly positive and unique within a document (enforced
//     by the store's unique constraint; the planner pre-checks).
//   - RequiredAt >= ReleasedAt, ReceivedAt >= ReleasedAt, and
//     ActedUponAt >= ReceivedAt whenever both sides are set.
//   - No ReleasedAt means not yet dispatched regardless of other fields.
//   - Once ActedUponAt is set the destination is terminal; only
//     RemarksOnActionTaken may change afterwards (corrective remarks).
//
// The SLA deadline is materialized lazily: the planner records RequiredDays
// when no explicit deadline is given, and Release computes
// RequiredAt = releasedAt + RequiredDays calendar days. Until release, a
// destination with only RequiredDays has no concrete deadline.
type Destination struct {
	ID                    id.DestinationID
	DocumentID            id.DocumentID
	SequenceNo            int
	DestinationOffice     string
	EmployeeActionOfficer string
	ActionRequired        string
	RequiredDays          *int
	ReleasedAt            *time.Time
	RequiredAt            *time.Time
	ReceivedAt            *time.Time
	ActedUponAt           *time.Time
	Remarks               string
	ActionTaken           string
	RemarksOnActionTaken  string
	CreatedAt             time.Time
}

// CanRelease checks the release precondition: not yet released. Pair with
// ApplyRelease inside a store Execute callback so the check holds under the
// store's lock.
func (d *Destination) CanRelease(at time.Time) error {
	if d.ReleasedAt != nil {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"destination %s is already released", d.ID)
	}
	if d.RequiredAt != nil && at.After(*d.RequiredAt) {
		return dErrors.Newf(dErrors.CodeTemporalOrdering,
			"destination %s: release at %s is after the explicit deadline %s",
			d.ID, at.Format(time.RFC3339), d.RequiredAt.Format(time.RFC3339))
	}
	return nil
}

// ApplyRelease sets the release timestamp and materializes the deadline from
// the pending RequiredDays offset when no explicit deadline was given.
func (d *Destination) ApplyRelease(at time.Time) {
	released := at
	d.ReleasedAt = &released
	if d.RequiredAt == nil && d.RequiredDays != nil {
		required := at.AddDate(0, 0, *d.RequiredDays)
		d.RequiredAt = &required
	}
}

// CanReceive checks the receive precondition: released, not yet received,
// and not moving time backwards.
func (d *Destination) CanReceive(at time.Time) error {
	if d.ReleasedAt == nil {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"destination %s has not been released", d.ID)
	}
	if d.ReceivedAt != nil {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"destination %s is already received", d.ID)
	}
	if at.Before(*d.ReleasedAt) {
		return dErrors.Newf(dErrors.CodeTemporalOrdering,
			"destination %s: received at %s before released at %s",
			d.ID, at.Format(time.RFC3339), d.ReleasedAt.Format(time.RFC3339))
	}
	return nil
}

// ApplyReceive sets the receipt timestamp.
func (d *Destination) ApplyReceive(at time.Time) {
	received := at
	d.ReceivedAt = &received
}

// CanAct checks the act precondition: received, not yet terminal, and not
// moving time backwards.
func (d *Destination) CanAct(at time.Time) error {
	if d.ActedUponAt != nil {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"destination %s is already acted upon", d.ID)
	}
	if d.ReceivedAt == nil {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"destination %s has not been received", d.ID)
	}
	if at.Before(*d.ReceivedAt) {
		return dErrors.Newf(dErrors.CodeTemporalOrdering,
			"destination %s: acted at %s before received at %s",
			d.ID, at.Format(time.RFC3339), d.ReceivedAt.Format(time.RFC3339))
	}
	return nil
}

// ApplyAct records the action taken and marks the destination terminal.
func (d *Destination) ApplyAct(at time.Time, actionTaken, remarks string) {
	acted := at
	d.ActedUponAt = &acted
	d.ActionTaken = actionTaken
	d.RemarksOnActionTaken = remarks
}

// CanCorrectActionRemarks allows the post-terminal correction path and
// nothing else.
func (d *Destination) CanCorrectActionRemarks() error {
	if d.ActedUponAt == nil {
		return dErrors.Newf(dErrors.CodeInvalidTransition,
			"destination %s has no action taken to correct", d.ID)
	}
	return nil
}

// ApplyCorrectActionRemarks replaces the corrective remarks.
func (d *Destination) ApplyCorrectActionRemarks(remarks string) {
	d.RemarksOnActionTaken = remarks
}

// StatusAt derives the lifecycle status at the given instant. It is a pure
// function of the destination's fields and now; Overdue is never persisted.
// A destination with no deadline (no SLA entry, no explicit date) can never
// be Overdue.
//
// No ReleasedAt means Drafted regardless of any other field: the transitions
// cannot produce an unreleased row with a receipt, but imported rows can
// (every timestamp column is independently nullable), and such a row must
// not read as dispatched.
func (d *Destination) StatusAt(now time.Time) DestinationStatus {
	switch {
	case d.ReleasedAt == nil:
		return StatusDrafted
	case d.ActedUponAt != nil:
		return StatusActedUpon
	case d.ReceivedAt != nil:
		return StatusReceived
	case d.RequiredAt != nil && now.After(*d.RequiredAt):
		return StatusOverdue
	default:
		return StatusReleased
	}
}
