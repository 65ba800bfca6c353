package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchensink/pkg/requestcontext"
)

func serve(t *testing.T, header string) (ctxID string, rec *httptest.ResponseRecorder) {
	t.Helper()
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = requestcontext.RequestID(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	if header != "" {
		req.Header.Set(Header, header)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return ctxID, rec
}

func TestReusesIncomingID(t *testing.T) {
	ctxID, rec := serve(t, "abc-123")

	assert.Equal(t, "abc-123", ctxID)
	assert.Equal(t, "abc-123", rec.Header().Get(Header))
}

func TestGeneratesIDWhenMissing(t *testing.T) {
	ctxID, rec := serve(t, "")

	_, err := uuid.Parse(ctxID)
	require.NoError(t, err)
	assert.Equal(t, ctxID, rec.Header().Get(Header))
}

func TestReplacesOversizedID(t *testing.T) {
	ctxID, _ := serve(t, strings.Repeat("x", maxLength+1))

	_, err := uuid.Parse(ctxID)
	assert.NoError(t, err)
}
