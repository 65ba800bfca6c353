package sequence

import (
	"context"
	"fmt"
	"sync"

	"kitchensink/pkg/platform/sentinel"
)

// InMemory is a process-local generator with the same floor and idempotency
// semantics as the Mongo generator.
type InMemory struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewInMemory() *InMemory {
	return &InMemory{counters: make(map[string]int64)}
}

// Next increments the named counter and returns the new value.
func (g *InMemory) Next(ctx context.Context, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("increment sequence %q: %w: %w", name, sentinel.ErrUnavailable, err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.counters[name]
	if !ok {
		v = MissingCounterValue
	}
	v++
	g.counters[name] = v
	return v, nil
}

// Initialize seeds the counter only if it does not exist yet.
func (g *InMemory) Initialize(ctx context.Context, name string, initialValue int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("initialize sequence %q: %w: %w", name, sentinel.ErrUnavailable, err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.counters[name]; !ok {
		g.counters[name] = initialValue
	}
	return nil
}

// Current returns the last issued (or seeded) value. ok is false when the
// counter does not exist.
func (g *InMemory) Current(_ context.Context, name string) (int64, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.counters[name]
	return v, ok, nil
}
