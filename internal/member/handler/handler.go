package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kitchensink/internal/member/models"
	dErrors "kitchensink/pkg/domain-errors"
	"kitchensink/pkg/platform/httputil"
	"kitchensink/pkg/requestcontext"
)

// Prefixes lists the paths the member routes are mounted under.
var Prefixes = []string{"/members", "/rest/members", "/rest/app/api/members"}

const msgIDNotAllowed = "ID must not be set for new member registration. It will be auto-generated."

// Service defines the interface for member operations.
type Service interface {
	Register(ctx context.Context, candidate *models.Candidate) (*models.Member, error)
	Get(ctx context.Context, id int64) (*models.Member, error)
	List(ctx context.Context) ([]*models.Member, error)
}

// Handler handles member endpoints.
type Handler struct {
	logger  *slog.Logger
	members Service
}

// New creates a new member Handler.
func New(members Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:  logger,
		members: members,
	}
}

// Register registers the member routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	for _, prefix := range Prefixes {
		r.Route(prefix, func(r chi.Router) {
			r.Get("/", h.handleList)
			r.Post("/", h.handleCreate)
			r.Get("/{id}", h.handleGet)
		})
	}
}

// handleList returns every member ordered by name.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	members, err := h.members.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list members",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, members)
}

// handleGet returns one member by numeric id.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "member id must be an integer"))
		return
	}

	member, err := h.members.Get(ctx, id)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Member with id of "+strconv.FormatInt(id, 10)+" does not exist."))
			return
		}
		h.logger.ErrorContext(ctx, "failed to load member",
			"request_id", requestID,
			"member_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, member)
}

// handleCreate registers a new member.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, err := httputil.DecodeJSON[CreateMemberRequest](r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid create member request",
			"request_id", requestID,
			"error", err,
		)
		if errors.Is(err, httputil.ErrEmptyBody) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Member data is required."))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.ID != nil {
		h.logger.WarnContext(ctx, "create member payload carries an id",
			"request_id", requestID,
			"id", *req.ID,
		)
		httputil.WriteError(w, dErrors.WithFields(dErrors.CodeConflict, "id supplied on create", map[string]string{
			"id": msgIDNotAllowed,
		}))
		return
	}

	member, err := h.members.Register(ctx, req.Candidate())
	if err != nil {
		switch {
		case dErrors.HasCode(err, dErrors.CodeValidation), dErrors.HasCode(err, dErrors.CodeInvalidInput),
			dErrors.HasCode(err, dErrors.CodeConflict):
			h.logger.WarnContext(ctx, "member registration rejected",
				"request_id", requestID,
				"email", req.email(),
				"error", err,
			)
		default:
			h.logger.ErrorContext(ctx, "member registration failed",
				"request_id", requestID,
				"email", req.email(),
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "member created",
		"request_id", requestID,
		"member_id", member.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, member)
}
