package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"kitchensink/internal/member/metrics"
	"kitchensink/internal/member/models"
	dErrors "kitchensink/pkg/domain-errors"
	"kitchensink/pkg/platform/sentinel"
	"kitchensink/pkg/requestcontext"
)

// SequenceName is the counter that issues member ids.
const SequenceName = "memberId"

type MemberStore interface {
	Insert(ctx context.Context, member *models.Member) error
	FindByID(ctx context.Context, id int64) (*models.Member, error)
	FindByEmail(ctx context.Context, email string) (*models.Member, error)
	ListOrderedByName(ctx context.Context) ([]*models.Member, error)
}

type SequenceGenerator interface {
	Next(ctx context.Context, name string) (int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.RegisteredEvent) bool
}

// Service registers and reads members.
type Service struct {
	members   MemberStore
	sequence  SequenceGenerator
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service.
func New(members MemberStore, sequence SequenceGenerator, opts ...Option) *Service {
	s := &Service{
		members:  members,
		sequence: sequence,
		logger:   slog.Default(),
		tracer:   otel.Tracer("kitchensink/member"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates candidate, assigns the next member id and persists the
// member. Validation runs before the uniqueness check so an invalid payload
// never touches the store. A conflict detected by the pre-check or by the
// store's unique index yields the same error.
func (s *Service) Register(ctx context.Context, candidate *models.Candidate) (member *models.Member, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "member.Register")
	defer func() {
		outcome := outcomeFor(err)
		span.SetAttributes(attribute.String("registration.outcome", outcome))
		if err != nil {
			span.SetStatus(codes.Error, outcome)
		} else {
			span.SetAttributes(attribute.Int64("member.id", member.ID))
		}
		span.End()
		s.observe(outcome, start)
	}()

	if candidate == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "member data is required")
	}
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	m := candidate.ToMember(0)
	requestID := requestcontext.RequestID(ctx)

	_, err = s.members.FindByEmail(ctx, m.Email)
	switch {
	case err == nil:
		return nil, emailConflict()
	case !errors.Is(err, sentinel.ErrNotFound):
		s.logger.ErrorContext(ctx, "email lookup failed",
			"request_id", requestID,
			"operation", "register",
			"email", m.Email,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email uniqueness")
	}

	id, err := s.sequence.Next(ctx, SequenceName)
	if err != nil {
		s.logger.ErrorContext(ctx, "member id assignment failed",
			"request_id", requestID,
			"operation", "register",
			"email", m.Email,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign member id")
	}
	m.ID = id

	if err := s.members.Insert(ctx, m); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, emailConflict()
		}
		if errors.Is(err, sentinel.ErrKeyCollision) {
			// The counter is behind the stored ids; every later insert collides
			// until it is advanced.
			s.logger.ErrorContext(ctx, "member id already taken",
				"request_id", requestID,
				"operation", "register",
				"sequence", SequenceName,
				"member_id", id,
				"error", err,
			)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "assigned member id is already taken")
		}
		s.logger.ErrorContext(ctx, "member persistence failed",
			"request_id", requestID,
			"operation", "register",
			"email", m.Email,
			"member_id", id,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist member")
	}

	s.notify(ctx, m, requestID)
	return m, nil
}

// Get returns the member with id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Member, error) {
	m, err := s.members.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "member not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load member")
	}
	return m, nil
}

// List returns all members ordered by name.
func (s *Service) List(ctx context.Context) ([]*models.Member, error) {
	members, err := s.members.ListOrderedByName(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list members")
	}
	return members, nil
}

func (s *Service) notify(ctx context.Context, m *models.Member, requestID string) {
	if s.publisher == nil {
		return
	}
	queued := s.publisher.Publish(ctx, models.RegisteredEvent{
		Member:       *m,
		RegisteredAt: requestcontext.Now(ctx),
		RequestID:    requestID,
	})
	if !queued {
		s.logger.WarnContext(ctx, "registration event not delivered",
			"request_id", requestID,
			"member_id", m.ID,
		)
	}
}

func (s *Service) observe(outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveRegistration(outcome, start)
}

func emailConflict() error {
	return dErrors.WithFields(dErrors.CodeConflict, "email already registered", map[string]string{
		models.FieldEmail: models.MsgEmailConflict,
	})
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case dErrors.HasCode(err, dErrors.CodeValidation), dErrors.HasCode(err, dErrors.CodeInvalidInput):
		return metrics.OutcomeInvalid
	case dErrors.HasCode(err, dErrors.CodeConflict):
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
