package models

import "time"

// DestinationStatus is the derived lifecycle label of one routing slip entry.
type DestinationStatus string

const (
	StatusDrafted   DestinationStatus = "Drafted"
	StatusReleased  DestinationStatus = "Released"
	StatusOverdue   DestinationStatus = "Overdue"
	StatusReceived  DestinationStatus = "Received"
	StatusActedUpon DestinationStatus = "ActedUpon"
)

// DocumentStatus is the rollup label over all destinations of one document.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "Pending"
	DocumentStatusInProgress DocumentStatus = "InProgress"
	DocumentStatusOverdue    DocumentStatus = "Overdue"
	DocumentStatusCompleted  DocumentStatus = "Completed"
)

// AggregateStatus rolls per-destination statuses into one document label.
// Priority: Overdue > InProgress > Completed. One late destination dominates
// even when every other destination is complete, because the document as a
// whole is not yet discharged.
//
// A document with no destinations, or none released, is Pending.
func AggregateStatus(destinations []*Destination, now time.Time) DocumentStatus {
	if len(destinations) == 0 {
		return DocumentStatusPending
	}

	anyStarted := false
	allActedUpon := true
	for _, d := range destinations {
		switch d.StatusAt(now) {
		case StatusOverdue:
			return DocumentStatusOverdue
		case StatusDrafted:
			allActedUpon = false
		case StatusReleased, StatusReceived:
			anyStarted = true
			allActedUpon = false
		case StatusActedUpon:
			anyStarted = true
		}
	}

	if allActedUpon {
		return DocumentStatusCompleted
	}
	if anyStarted {
		return DocumentStatusInProgress
	}
	return DocumentStatusPending
}
