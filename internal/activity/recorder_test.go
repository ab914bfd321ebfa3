package activity

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/instrument-shop/internal/domain/cart"
	"github.com/example/instrument-shop/internal/domain/product"
	"github.com/example/instrument-shop/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturePublisher struct {
	mu     sync.Mutex
	keys   []string
	events []Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.events = append(p.events, event.(Event))
	return nil
}

func (p *capturePublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

func newTestRecorder(pub Publisher, queueSize int) (*Recorder, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	return NewRecorder(pub, queueSize, m, zap.NewNop()), m
}

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("session-1", cart.EventItemAdded, cart.Change{Type: cart.EventItemAdded, ProductID: "1"})

	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "session-1", event.SessionID)
	assert.Equal(t, cart.EventItemAdded, event.Type)
	assert.False(t, event.Timestamp.IsZero())

	var change cart.Change
	require.NoError(t, json.Unmarshal(event.Data, &change))
	assert.Equal(t, "1", change.ProductID)
}

func TestNewEvent_Unencodable(t *testing.T) {
	_, err := NewEvent("session-1", "Bad", make(chan int))

	assert.Error(t, err)
}

func TestRecorder_PublishesCartChanges(t *testing.T) {
	pub := &capturePublisher{}
	r, _ := newTestRecorder(pub, 16)

	store := cart.NewStore()
	store.OnChange(r.Listener("session-1"))
	store.AddItem(product.Product{ID: "1", Price: 16499})
	store.UpdateQuantity("1", 2)
	store.RemoveItem("1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))

	events := pub.Events()
	require.Len(t, events, 3)
	assert.Equal(t, cart.EventItemAdded, events[0].Type)
	assert.Equal(t, cart.EventQuantityChanged, events[1].Type)
	assert.Equal(t, cart.EventItemRemoved, events[2].Type)
	assert.Equal(t, []string{"session-1", "session-1", "session-1"}, pub.keys)
}

func TestRecorder_Run_PublishesWhileRunning(t *testing.T) {
	pub := &capturePublisher{}
	r, _ := newTestRecorder(pub, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = r.Run(ctx)
		close(done)
	}()

	r.Record("session-1", EventCheckoutRequested, CheckoutRequested{Total: 100, ItemCount: 1})

	assert.Eventually(t, func() bool { return len(pub.Events()) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestRecorder_DropsWhenQueueFull(t *testing.T) {
	pub := &capturePublisher{}
	r, m := newTestRecorder(pub, 1)

	r.Record("session-1", cart.EventItemAdded, cart.Change{})
	r.Record("session-1", cart.EventItemAdded, cart.Change{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActivityDropped))
}

func TestRecorder_CountsPublishFailures(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	r, m := newTestRecorder(pub, 4)

	r.Record("session-1", cart.EventItemAdded, cart.Change{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, r.Run(ctx))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActivityFailures.WithLabelValues(cart.EventItemAdded)))
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard.Publish(context.Background(), "k", Event{}))
}
