package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchensink/pkg/platform/circuit"
)

func TestGuardedObserverSkipsWhileOpen(t *testing.T) {
	backend := &recordingObserver{name: "redis", err: errors.New("connection refused")}
	g := NewGuardedObserver(backend, circuit.New("redis", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour)))
	ctx := context.Background()

	require.Error(t, g.Notify(ctx, event(1)))
	require.Error(t, g.Notify(ctx, event(2)))

	err := g.Notify(ctx, event(3))
	require.ErrorIs(t, err, circuit.ErrOpen)
	assert.Len(t, backend.received(), 2, "open circuit must not reach the backend")
	assert.Equal(t, "redis", g.Name())
}

func TestGuardedObserverPassesThroughWhenHealthy(t *testing.T) {
	backend := &recordingObserver{name: "kafka"}
	g := NewGuardedObserver(backend, circuit.New("kafka"))

	require.NoError(t, g.Notify(context.Background(), event(1)))
	assert.Len(t, backend.received(), 1)
}
