package activity

import (
	"context"
	"time"

	"github.com/example/instrument-shop/internal/domain/cart"
	"github.com/example/instrument-shop/internal/metrics"
	"go.uber.org/zap"
)

const (
	DefaultQueueSize = 1024
	drainTimeout     = 5 * time.Second
)

// Recorder turns cart changes into activity events and publishes them off
// the request path. Record never blocks: when the queue is full the event
// is dropped and counted.
type Recorder struct {
	publisher Publisher
	queue     chan Event
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewRecorder(publisher Publisher, queueSize int, m *metrics.Metrics, logger *zap.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Recorder{
		publisher: publisher,
		queue:     make(chan Event, queueSize),
		metrics:   m,
		logger:    logger.Named("activity"),
	}
}

// Listener returns the cart listener for one session.
func (r *Recorder) Listener(sessionID string) cart.Listener {
	return func(c cart.Change) {
		r.Record(sessionID, c.Type, c)
	}
}

// Record enqueues an event for publishing.
func (r *Recorder) Record(sessionID, eventType string, data any) {
	event, err := NewEvent(sessionID, eventType, data)
	if err != nil {
		r.logger.Error("failed to encode activity event", zap.String("type", eventType), zap.Error(err))
		r.metrics.ActivityFailures.WithLabelValues(eventType).Inc()
		return
	}

	select {
	case r.queue <- event:
	default:
		r.metrics.ActivityDropped.Inc()
		r.logger.Warn("activity queue full, event dropped",
			zap.String("type", eventType),
			zap.String("session_id", sessionID))
	}
}

// Run publishes queued events until ctx is done, then drains what is
// left with a short deadline.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.drain()
			return nil
		case event := <-r.queue:
			r.publish(ctx, event)
		}
	}
}

func (r *Recorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case event := <-r.queue:
			r.publish(ctx, event)
		default:
			return
		}
	}
}

func (r *Recorder) publish(ctx context.Context, event Event) {
	if err := r.publisher.Publish(ctx, event.SessionID, event); err != nil {
		r.metrics.ActivityFailures.WithLabelValues(event.Type).Inc()
		r.logger.Error("failed to publish activity event",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type),
			zap.Error(err))
	}
}
