// Package events delivers registration notifications to observers off the
// request path. A single worker drains a bounded queue; Publish never blocks.
package events

import (
	"context"
	"log/slog"
	"time"

	"kitchensink/internal/member/metrics"
	"kitchensink/internal/member/models"
)

// DefaultBufferSize is used when a non-positive buffer size is requested.
const DefaultBufferSize = 256

// DefaultDrainTimeout bounds delivery of queued events after shutdown starts.
const DefaultDrainTimeout = 5 * time.Second

// Observer receives every registered member.
type Observer interface {
	Name() string
	Notify(ctx context.Context, event models.RegisteredEvent) error
}

// Dispatcher fans events out to observers from one background goroutine.
type Dispatcher struct {
	queue        chan models.RegisteredEvent
	observers    []Observer
	logger       *slog.Logger
	metrics      *metrics.Metrics
	drainTimeout time.Duration
}

type Option func(d *Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithDrainTimeout sets how long Run keeps delivering queued events after its
// context is cancelled. Non-positive values keep the default.
func WithDrainTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.drainTimeout = timeout
		}
	}
}

// NewDispatcher creates a dispatcher with a queue of bufferSize events.
func NewDispatcher(bufferSize int, observers []Observer, opts ...Option) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	d := &Dispatcher{
		queue:        make(chan models.RegisteredEvent, bufferSize),
		observers:    observers,
		logger:       slog.Default(),
		drainTimeout: DefaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Publish enqueues event. It reports false and drops the event when the
// queue is full.
func (d *Dispatcher) Publish(ctx context.Context, event models.RegisteredEvent) bool {
	select {
	case d.queue <- event:
		return true
	default:
		d.logger.WarnContext(ctx, "registration event dropped, queue full",
			"request_id", event.RequestID,
			"member_id", event.Member.ID,
		)
		if d.metrics != nil {
			d.metrics.IncrementNotificationDropped()
		}
		return false
	}
}

// Run delivers queued events until ctx is cancelled, then drains what is
// already queued for at most the drain timeout and returns nil. Events still
// queued when the timeout expires are dropped.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		// Cancellation wins over a non-empty queue.
		if ctx.Err() != nil {
			return d.shutdown(ctx)
		}
		select {
		case event := <-d.queue:
			d.deliver(ctx, event)
		case <-ctx.Done():
			return d.shutdown(ctx)
		}
	}
}

func (d *Dispatcher) shutdown(ctx context.Context) error {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.drainTimeout)
	defer cancel()
	d.drain(drainCtx)
	return nil
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			d.dropQueued(ctx)
			return
		}
		select {
		case event := <-d.queue:
			d.deliver(ctx, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) dropQueued(ctx context.Context) {
	dropped := 0
	for {
		select {
		case <-d.queue:
			dropped++
			if d.metrics != nil {
				d.metrics.IncrementNotificationDropped()
			}
		default:
			if dropped > 0 {
				d.logger.WarnContext(ctx, "registration events dropped, drain timed out",
					"dropped", dropped,
				)
			}
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event models.RegisteredEvent) {
	for _, o := range d.observers {
		if err := o.Notify(ctx, event); err != nil {
			d.logger.ErrorContext(ctx, "registration observer failed",
				"request_id", event.RequestID,
				"observer", o.Name(),
				"member_id", event.Member.ID,
				"error", err,
			)
			if d.metrics != nil {
				d.metrics.IncrementNotificationFailed(o.Name())
			}
		}
	}
}
