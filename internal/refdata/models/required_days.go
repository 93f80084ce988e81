// Package models holds the reference-data records the routing core looks up.
package models

import (
	"strings"

	id "doctrack/pkg/domain"
	dErrors "doctrack/pkg/domain-errors"
)

// RequiredDaysEntry maps a (documentType, actionRequired) pair to the number
// of calendar days allowed to respond. One row per pair.
type RequiredDaysEntry struct {
	ID             id.RequiredDaysID `json:"id"`
	DocumentType   string            `json:"documentType"`
	ActionRequired string            `json:"actionRequired"`
	RequiredDays   int               `json:"requiredDays"`
}

// Validate enforces creation invariants, with messages matching the
// reference-table UI.
func (e *RequiredDaysEntry) Validate() error {
	if strings.TrimSpace(e.DocumentType) == "" {
		return dErrors.New(dErrors.CodeValidation, "Document Type is required")
	}
	if strings.TrimSpace(e.ActionRequired) == "" {
		return dErrors.New(dErrors.CodeValidation, "Action Required is required")
	}
	if e.RequiredDays <= 0 {
		return dErrors.New(dErrors.CodeValidation, "Required Days must be a valid number")
	}
	return nil
}
