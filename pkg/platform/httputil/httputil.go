// Package httputil centralizes JSON encoding and domain error translation for
// HTTP handlers, keeping the error envelope identical across modules.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "doctrack/pkg/domain-errors"
)

// maxBodyBytes caps request bodies; routing payloads are small.
const maxBodyBytes = 1 << 20

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders err as the standard envelope:
//
//	{"error": "<code>", "error_description": "<message>"}
//
// The description is omitted for internal and store errors so backend details
// never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal && code != dErrors.CodeStoreUnavailable {
		var de *dErrors.Error
		if errors.As(err, &de) {
			body["error_description"] = de.Message
		}
	}
	WriteJSON(w, status, body)
}

// Validatable is implemented by request structs that check their own fields.
type Validatable interface {
	Validate() error
}

// Decode reads a JSON request body into dst and runs its validation.
// Returns a coded error suitable for WriteError.
func Decode(r *http.Request, dst Validatable) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is not valid JSON")
	}
	return dst.Validate()
}
