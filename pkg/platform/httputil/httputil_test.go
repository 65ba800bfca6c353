package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kitchensink/pkg/domain-errors"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteErrorFieldMap(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.WithFields(dErrors.CodeConflict, "duplicate", map[string]string{"email": "Email already exists"}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, map[string]string{"email": "Email already exists"}, decodeBody(t, rec))
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, dErrors.New(dErrors.CodeNotFound, "member 7 does not exist"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, "member 7 does not exist", body["error_description"])
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	for _, err := range []error{
		errors.New("mongo: connection refused"),
		dErrors.Wrap(errors.New("mongo: connection refused"), dErrors.CodeInternal, "failed to insert member"),
	} {
		rec := httptest.NewRecorder()
		WriteError(rec, err)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "mongo")
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes object", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jane"}`))
		got, err := DecodeJSON[payload](req)
		require.NoError(t, err)
		assert.Equal(t, "Jane", got.Name)
	})

	t.Run("null and empty bodies are reported as empty", func(t *testing.T) {
		for _, body := range []string{"null", ""} {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			_, err := DecodeJSON[payload](req)
			assert.ErrorIs(t, err, ErrEmptyBody, "body %q", body)
		}
	})

	t.Run("trailing data after the value is rejected", func(t *testing.T) {
		for _, body := range []string{`{"name":"Jane"}garbage`, `{"name":"Jane"} {"name":"Bob"}`, `null x`} {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			_, err := DecodeJSON[payload](req)
			assert.ErrorIs(t, err, ErrTrailingData, "body %q", body)
		}
	})

	t.Run("trailing whitespace is accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{\"name\":\"Jane\"}\n\t "))
		got, err := DecodeJSON[payload](req)
		require.NoError(t, err)
		assert.Equal(t, "Jane", got.Name)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		_, err := DecodeJSON[payload](req)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmptyBody)
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeBadRequest:   http.StatusBadRequest,
		dErrors.CodeInvalidInput: http.StatusBadRequest,
		dErrors.CodeValidation:   http.StatusBadRequest,
		dErrors.CodeNotFound:     http.StatusNotFound,
		dErrors.CodeConflict:     http.StatusConflict,
		dErrors.CodeInternal:     http.StatusInternalServerError,
		dErrors.Code("unknown"):  http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusFor(code), "code %s", code)
	}
}
