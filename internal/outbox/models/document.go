package models

import (
	"strings"
	"time"

	id "doctrack/pkg/domain"
	dErrors "doctrack/pkg/domain-errors"
)

// SourceType says whether a document originated inside or outside the agency.
type SourceType string

const (
	SourceTypeInternal SourceType = "internal"
	SourceTypeExternal SourceType = "external"
)

// Document is the aggregate root for one outgoing record. It owns zero or
// more Destinations (the routing slip).
//
// Invariants:
//   - DocumentControlNo, RouteNo, DocumentType, and SourceType are immutable
//     once created.
//   - Originating office/employee fields are mutually exclusive by
//     SourceType: an internal document carries only the internal pair, an
//     external one only the external pair.
//   - Deleting a document cascades to its destinations at the storage layer;
//     the core treats a document that disappears mid-computation as not
//     found, never as a crash.
type Document struct {
	ID                           id.DocumentID
	DocumentControlNo            string
	RouteNo                      string
	DocumentType                 string
	SourceType                   SourceType
	InternalOriginatingOffice    string
	InternalOriginatingEmployee  string
	ExternalOriginatingOffice    string
	ExternalOriginatingEmployee  string
	Subject                      string
	Remarks                      string
	NoOfPages                    int
	AttachedDocumentFilename     string
	AttachmentList               string
	ReferenceDocumentControlNos  [5]string
	CreatedAt                    time.Time
}

// Validate enforces the creation invariants. Field names in messages use the
// wire (camelCase) spelling so callers can surface them directly.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Subject) == "" {
		return dErrors.New(dErrors.CodeValidation, "subject is required")
	}
	if strings.TrimSpace(d.Remarks) == "" {
		return dErrors.New(dErrors.CodeValidation, "remarks is required")
	}
	if strings.TrimSpace(d.DocumentControlNo) == "" {
		return dErrors.New(dErrors.CodeValidation, "documentControlNo is required")
	}
	if strings.TrimSpace(d.RouteNo) == "" {
		return dErrors.New(dErrors.CodeValidation, "routeNo is required")
	}
	if strings.TrimSpace(d.DocumentType) == "" {
		return dErrors.New(dErrors.CodeValidation, "documentType is required")
	}

	switch d.SourceType {
	case SourceTypeInternal:
		if strings.TrimSpace(d.InternalOriginatingOffice) == "" {
			return dErrors.New(dErrors.CodeValidation, "internalOriginatingOffice is required for internal documents")
		}
		if d.ExternalOriginatingOffice != "" || d.ExternalOriginatingEmployee != "" {
			return dErrors.New(dErrors.CodeValidation, "external originating fields must be empty for internal documents")
		}
	case SourceTypeExternal:
		if strings.TrimSpace(d.ExternalOriginatingOffice) == "" {
			return dErrors.New(dErrors.CodeValidation, "externalOriginatingOffice is required for external documents")
		}
		if d.InternalOriginatingOffice != "" || d.InternalOriginatingEmployee != "" {
			return dErrors.New(dErrors.CodeValidation, "internal originating fields must be empty for external documents")
		}
	default:
		return dErrors.New(dErrors.CodeValidation, "sourceType must be internal or external")
	}

	if d.NoOfPages < 0 {
		return dErrors.New(dErrors.CodeValidation, "noOfPages must not be negative")
	}
	return nil
}
