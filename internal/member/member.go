// Package member wires the member registry: validation, id assignment,
// persistence, notification and the HTTP surface.
package member

import (
	"log/slog"

	"kitchensink/internal/member/handler"
	"kitchensink/internal/member/service"
)

// Service exposes member registration and lookup.
type Service = service.Service

// Handler wires HTTP endpoints to the member service.
type Handler = handler.Handler

// NewService constructs the member service with required dependencies.
func NewService(members service.MemberStore, sequence service.SequenceGenerator, opts ...service.Option) *Service {
	return service.New(members, sequence, opts...)
}

// NewHandler constructs an HTTP handler for the member routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
