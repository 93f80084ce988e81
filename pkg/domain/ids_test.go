package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "doctrack/pkg/domain-errors"
)

func TestParseDocumentID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseDocumentID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseDocumentID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		raw := uuid.New()
		id, err := ParseDocumentID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, DocumentID(raw), id)
	})
}

// TestParseID_HostileInput validates that parsing rejects attack-shaped input
// at the trust boundary.
func TestParseID_HostileInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE document_source;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDestinationID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestAllIDTypes_ConsistentBehavior ensures every id type parses identically;
// divergent validation between types would be a latent bug.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()

	t.Run("all accept valid UUID", func(t *testing.T) {
		_, errDoc := ParseDocumentID(validUUID)
		_, errDest := ParseDestinationID(validUUID)
		_, errDays := ParseRequiredDaysID(validUUID)

		require.NoError(t, errDoc)
		require.NoError(t, errDest)
		require.NoError(t, errDays)
	})

	for _, input := range []string{"", "invalid", "123"} {
		t.Run("all reject: "+input, func(t *testing.T) {
			_, errDoc := ParseDocumentID(input)
			_, errDest := ParseDestinationID(input)
			_, errDays := ParseRequiredDaysID(input)

			require.Error(t, errDoc)
			require.Error(t, errDest)
			require.Error(t, errDays)
		})
	}
}

func TestIDJSONRoundTrip(t *testing.T) {
	id := NewDestinationID()

	raw, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(raw))

	var back DestinationID
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, id, back)
}
