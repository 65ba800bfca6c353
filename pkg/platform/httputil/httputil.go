// Package httputil holds the JSON response helpers shared by all handlers.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "kitchensink/pkg/domain-errors"
)

// maxBodyBytes caps request bodies; member payloads are a few hundred bytes.
const maxBodyBytes = 1 << 20

// ErrEmptyBody is returned by DecodeJSON when the body is empty or JSON null.
var ErrEmptyBody = errors.New("request body is empty")

// ErrTrailingData is returned by DecodeJSON when anything but whitespace
// follows the first JSON value.
var ErrTrailingData = errors.New("request body has data after the JSON value")

// ErrorResponse is the envelope for errors that are not tied to input fields.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a status and body. Domain errors carrying
// field messages are written as a flat {field: message} object; other domain
// errors use ErrorResponse. Anything else, and every server-side code, is
// reported as an opaque internal error so store details never leak.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok {
		writeInternal(w)
		return
	}
	status := StatusFor(de.Code)
	if status >= http.StatusInternalServerError {
		writeInternal(w)
		return
	}
	if len(de.Fields) > 0 {
		WriteJSON(w, status, de.Fields)
		return
	}
	WriteJSON(w, status, ErrorResponse{Error: string(de.Code), ErrorDescription: de.Message})
}

func writeInternal(w http.ResponseWriter) {
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:            string(dErrors.CodeInternal),
		ErrorDescription: "An unexpected error occurred",
	})
}

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes the request body into a freshly allocated T. It returns
// ErrEmptyBody for an empty body or a literal null so callers can tell an
// absent payload apart from a malformed one, and ErrTrailingData when more
// than one JSON value is sent.
func DecodeJSON[T any](r *http.Request) (*T, error) {
	var v *T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyBody
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	if v == nil {
		return nil, ErrEmptyBody
	}
	return v, nil
}
