package httpserver

import (
	"net/http"
	"time"
)

// writeSlack is added to the request timeout so a handler that hits its
// deadline can still write the error response.
const writeSlack = 5 * time.Second

// New builds the HTTP server. The write timeout follows the per-request
// timeout applied by the router.
func New(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + writeSlack,
		IdleTimeout:       60 * time.Second,
	}
}
