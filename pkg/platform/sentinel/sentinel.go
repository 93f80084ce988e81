package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors with errors.Is,
// without caring which store implementation produced them.
//
// These represent factual states about stored records, not validation
// failures; for bad input use pkg/domain-errors directly.
var (
	// ErrNotFound: entity does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSequence: insert violated the (document, sequenceNo)
	// uniqueness constraint.
	ErrDuplicateSequence = errors.New("duplicate sequence number")
	// ErrConflict: write violated a uniqueness constraint other than the
	// sequence one, e.g. the (documentType, actionRequired) reference pair.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState: entity is in the wrong state for the requested
	// mutation; raised by Execute validators under the store lock.
	ErrInvalidState = errors.New("invalid state")
	// ErrUnavailable: backing store temporarily unreachable.
	ErrUnavailable = errors.New("unavailable")
)
