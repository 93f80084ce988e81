// Package domain defines typed identifiers shared across modules.
//
// Wrapping uuid.UUID in distinct named types keeps a DocumentID from being
// passed where a DestinationID is expected; the compiler enforces what a
// bare string or UUID could not.
package domain

import (
	"github.com/google/uuid"

	dErrors "doctrack/pkg/domain-errors"
)

// DocumentID identifies a document source (outbox) record.
type DocumentID uuid.UUID

// DestinationID identifies one routing slip entry.
type DestinationID uuid.UUID

// RequiredDaysID identifies a required-days (SLA) reference row.
type RequiredDaysID uuid.UUID

func (id DocumentID) String() string    { return uuid.UUID(id).String() }
func (id DestinationID) String() string { return uuid.UUID(id).String() }
func (id RequiredDaysID) String() string {
	return uuid.UUID(id).String()
}

func (id DocumentID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DestinationID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id RequiredDaysID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewDocumentID allocates a fresh document identifier.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// NewDestinationID allocates a fresh destination identifier.
func NewDestinationID() DestinationID { return DestinationID(uuid.New()) }

// NewRequiredDaysID allocates a fresh required-days identifier.
func NewRequiredDaysID() RequiredDaysID { return RequiredDaysID(uuid.New()) }

// ParseDocumentID parses a document id from its string form.
func ParseDocumentID(s string) (DocumentID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return DocumentID{}, dErrors.New(dErrors.CodeValidation, "invalid document id: "+s)
	}
	return DocumentID(u), nil
}

// ParseDestinationID parses a destination id from its string form.
func ParseDestinationID(s string) (DestinationID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return DestinationID{}, dErrors.New(dErrors.CodeValidation, "invalid destination id: "+s)
	}
	return DestinationID(u), nil
}

// ParseRequiredDaysID parses a required-days row id from its string form.
func ParseRequiredDaysID(s string) (RequiredDaysID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return RequiredDaysID{}, dErrors.New(dErrors.CodeValidation, "invalid required-days id: "+s)
	}
	return RequiredDaysID(u), nil
}

// MarshalText implements encoding.TextMarshaler so ids render as plain UUID
// strings in JSON payloads.
func (id DocumentID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id DestinationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id RequiredDaysID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *DocumentID) UnmarshalText(b []byte) error {
	parsed, err := ParseDocumentID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *DestinationID) UnmarshalText(b []byte) error {
	parsed, err := ParseDestinationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RequiredDaysID) UnmarshalText(b []byte) error {
	parsed, err := ParseRequiredDaysID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
