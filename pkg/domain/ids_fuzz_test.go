package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseDocumentID checks that parsing never panics on arbitrary input and
// that accepted values round-trip unchanged.
func FuzzParseDocumentID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE document_source;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("550e8400-e29b-41d4-a716-446655440000\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseDocumentID(input)
		if err == nil {
			roundTrip, err2 := ParseDocumentID(id.String())
			if err2 != nil {
				t.Errorf("accepted id failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed id value")
			}
		}

		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseAllIDs ensures the three id types accept and reject the same
// inputs.
func FuzzParseAllIDs(f *testing.F) {
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("")
	f.Add("invalid")

	f.Fuzz(func(t *testing.T, input string) {
		_, errDoc := ParseDocumentID(input)
		_, errDest := ParseDestinationID(input)
		_, errDays := ParseRequiredDaysID(input)

		if (errDoc == nil) != (errDest == nil) || (errDoc == nil) != (errDays == nil) {
			t.Error("inconsistent parsing across id types")
		}
	})
}
