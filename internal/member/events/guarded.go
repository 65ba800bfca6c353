package events

import (
	"context"
	"fmt"

	"kitchensink/internal/member/models"
	"kitchensink/pkg/platform/circuit"
)

// GuardedObserver stops calling an observer whose backend keeps failing and
// retries it after the breaker's cooldown.
type GuardedObserver struct {
	next    Observer
	breaker *circuit.Breaker
}

func NewGuardedObserver(next Observer, breaker *circuit.Breaker) *GuardedObserver {
	return &GuardedObserver{next: next, breaker: breaker}
}

func (g *GuardedObserver) Name() string { return g.next.Name() }

func (g *GuardedObserver) Notify(ctx context.Context, event models.RegisteredEvent) error {
	if !g.breaker.Allow() {
		return fmt.Errorf("%s: %w", g.next.Name(), circuit.ErrOpen)
	}
	if err := g.next.Notify(ctx, event); err != nil {
		g.breaker.RecordFailure()
		return err
	}
	g.breaker.RecordSuccess()
	return nil
}
