// Package requestid propagates a correlation id through each request.
//
// An incoming X-Request-ID header is reused when present; otherwise a random
// UUID is generated. The id is echoed on the response and stored in the
// context for logging.
package requestid

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"kitchensink/pkg/requestcontext"
)

// Header is the correlation header read from and written to every request.
const Header = "X-Request-ID"

// maxLength bounds caller-supplied ids so they cannot bloat log lines.
const maxLength = 128

// Middleware assigns the correlation id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(Header))
		if id == "" || len(id) > maxLength {
			id = uuid.NewString()
		}
		w.Header().Set(Header, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
