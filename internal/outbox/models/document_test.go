package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "doctrack/pkg/domain"
	dErrors "doctrack/pkg/domain-errors"
)

func validDocument() *Document {
	return &Document{
		ID:                        id.NewDocumentID(),
		DocumentControlNo:         "DC-2025-0001",
		RouteNo:                   "R-0001",
		DocumentType:              "Memo",
		SourceType:                SourceTypeInternal,
		InternalOriginatingOffice: "Office of the Director",
		Subject:                   "Budget realignment",
		Remarks:                   "For immediate routing",
	}
}

func TestDocumentValidate(t *testing.T) {
	t.Run("accepts a valid internal document", func(t *testing.T) {
		require.NoError(t, validDocument().Validate())
	})

	t.Run("accepts a valid external document", func(t *testing.T) {
		d := validDocument()
		d.SourceType = SourceTypeExternal
		d.InternalOriginatingOffice = ""
		d.ExternalOriginatingOffice = "Provincial Office"
		require.NoError(t, d.Validate())
	})

	cases := []struct {
		name   string
		mutate func(*Document)
	}{
		{"missing subject", func(d *Document) { d.Subject = " " }},
		{"missing remarks", func(d *Document) { d.Remarks = "" }},
		{"missing control number", func(d *Document) { d.DocumentControlNo = "" }},
		{"missing route number", func(d *Document) { d.RouteNo = "" }},
		{"missing document type", func(d *Document) { d.DocumentType = "" }},
		{"unknown source type", func(d *Document) { d.SourceType = "courier" }},
		{"internal without originating office", func(d *Document) { d.InternalOriginatingOffice = "" }},
		{"internal with external originator", func(d *Document) { d.ExternalOriginatingOffice = "Elsewhere" }},
		{"negative page count", func(d *Document) { d.NoOfPages = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDocument()
			tc.mutate(d)
			err := d.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}
