package member

import (
	"context"
	"fmt"
	"log/slog"

	"kitchensink/internal/member/models"
	"kitchensink/internal/member/service"
	"kitchensink/internal/sequence"
)

// Default member registered into an empty store.
const (
	DefaultMemberName  = "John Smith"
	DefaultMemberEmail = "john.smith@mailinator.com"
	DefaultMemberPhone = "2125551212"
)

// SeedStore is the store surface needed at startup.
type SeedStore interface {
	EnsureIndexes(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// SeedSequence is the generator surface needed at startup.
type SeedSequence interface {
	Initialize(ctx context.Context, name string, initialValue int64) error
}

// Bootstrap prepares storage for registrations. A failure to create the
// email index is logged and tolerated. When seedDefault is set and the store
// is empty, the default member is registered through the regular id sequence.
func Bootstrap(ctx context.Context, store SeedStore, seq SeedSequence, svc *Service, seedDefault bool, logger *slog.Logger) error {
	if err := store.EnsureIndexes(ctx); err != nil {
		logger.WarnContext(ctx, "failed to ensure member indexes, continuing",
			"error", err,
		)
	}

	if err := seq.Initialize(ctx, service.SequenceName, sequence.MissingCounterValue); err != nil {
		return fmt.Errorf("initialize %s sequence: %w", service.SequenceName, err)
	}

	if !seedDefault {
		return nil
	}

	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if count > 0 {
		logger.InfoContext(ctx, "members present, skipping default member", "count", count)
		return nil
	}

	m, err := svc.Register(ctx, models.NewCandidate(DefaultMemberName, DefaultMemberEmail, DefaultMemberPhone))
	if err != nil {
		return fmt.Errorf("seed default member: %w", err)
	}
	logger.InfoContext(ctx, "seeded default member",
		"member_id", m.ID,
		"email", m.Email,
	)
	return nil
}
