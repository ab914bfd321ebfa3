package projection

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/example/instrument-shop/internal/activity"
	"github.com/example/instrument-shop/internal/domain/cart"
	"github.com/example/instrument-shop/internal/infrastructure/store/mocks"
	"github.com/example/instrument-shop/internal/metrics"
	"github.com/example/instrument-shop/internal/readmodel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProjector() (*Projector, *mocks.MockReadStore, *metrics.Metrics) {
	readStore := mocks.NewMockReadStore()
	m := metrics.New(prometheus.NewRegistry())
	return NewProjector(readStore, m, zap.NewNop()), readStore, m
}

func makeEvent(t *testing.T, eventType string, data any) []byte {
	t.Helper()
	event, err := activity.NewEvent("session-1", eventType, data)
	require.NoError(t, err)
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return value
}

func popularity(t *testing.T, rs *mocks.MockReadStore, productID string) *readmodel.ProductPopularity {
	t.Helper()
	v, ok := rs.GetData(readmodel.CollectionPopularity, productID)
	require.True(t, ok, "no popularity for %s", productID)
	return v.(*readmodel.ProductPopularity)
}

// ============================================
// Cart Event Tests
// ============================================

func TestProjector_HandleItemAdded(t *testing.T) {
	projector, readStore, m := newTestProjector()
	ctx := context.Background()

	value := makeEvent(t, cart.EventItemAdded, cart.Change{Type: cart.EventItemAdded, ProductID: "1", Quantity: 1})
	require.NoError(t, projector.HandleEvent(ctx, []byte("session-1"), value))
	require.NoError(t, projector.HandleEvent(ctx, []byte("session-1"), value))

	pop := popularity(t, readStore, "1")
	assert.Equal(t, 2, pop.AddedCount)
	assert.Equal(t, 0, pop.CheckoutCount)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProjectedEvents.WithLabelValues(cart.EventItemAdded)))
}

func TestProjector_HandleItemRemoved(t *testing.T) {
	projector, readStore, _ := newTestProjector()
	ctx := context.Background()

	value := makeEvent(t, cart.EventItemRemoved, cart.Change{Type: cart.EventItemRemoved, ProductID: "2"})
	require.NoError(t, projector.HandleEvent(ctx, nil, value))

	assert.Equal(t, 1, popularity(t, readStore, "2").RemovedCount)
}

func TestProjector_IgnoresQuantityChanges(t *testing.T) {
	projector, readStore, _ := newTestProjector()

	value := makeEvent(t, cart.EventQuantityChanged, cart.Change{Type: cart.EventQuantityChanged, ProductID: "1", Delta: 3})
	require.NoError(t, projector.HandleEvent(context.Background(), nil, value))

	assert.Empty(t, readStore.UpsertCalls)
}

func TestProjector_IgnoresClearedCart(t *testing.T) {
	projector, readStore, _ := newTestProjector()

	value := makeEvent(t, cart.EventCartCleared, cart.Change{Type: cart.EventCartCleared})
	require.NoError(t, projector.HandleEvent(context.Background(), nil, value))

	assert.Empty(t, readStore.UpsertCalls)
}

// ============================================
// Checkout Event Tests
// ============================================

func TestProjector_HandleCheckout(t *testing.T) {
	projector, readStore, _ := newTestProjector()
	readStore.SetData(readmodel.CollectionPopularity, "1", &readmodel.ProductPopularity{ProductID: "1", AddedCount: 4})

	value := makeEvent(t, activity.EventCheckoutRequested, activity.CheckoutRequested{
		Lines: []activity.CheckoutLine{
			{ProductID: "1", Quantity: 2, Price: 16499},
			{ProductID: "2", Quantity: 1, Price: 9499},
		},
		Total:     42497,
		ItemCount: 3,
	})
	require.NoError(t, projector.HandleEvent(context.Background(), nil, value))

	first := popularity(t, readStore, "1")
	assert.Equal(t, 4, first.AddedCount)
	assert.Equal(t, 1, first.CheckoutCount)
	assert.Equal(t, 1, popularity(t, readStore, "2").CheckoutCount)
}

// ============================================
// Error Tests
// ============================================

func TestProjector_InvalidEnvelope(t *testing.T) {
	projector, _, _ := newTestProjector()

	err := projector.HandleEvent(context.Background(), nil, []byte("not json"))

	assert.Error(t, err)
}

func TestProjector_InvalidPayload(t *testing.T) {
	projector, readStore, _ := newTestProjector()
	value, err := json.Marshal(activity.Event{ID: "e1", Type: cart.EventItemAdded, Data: json.RawMessage(`"oops"`)})
	require.NoError(t, err)

	err = projector.HandleEvent(context.Background(), nil, value)

	assert.Error(t, err)
	assert.Empty(t, readStore.UpsertCalls)
}

func TestProjector_UnknownEventType(t *testing.T) {
	projector, readStore, _ := newTestProjector()

	value := makeEvent(t, "SomethingElse", map[string]string{"x": "y"})
	require.NoError(t, projector.HandleEvent(context.Background(), nil, value))

	assert.Empty(t, readStore.UpsertCalls)
}

// ============================================
// In-Process Publisher Tests
// ============================================

func TestProjector_Publisher(t *testing.T) {
	projector, readStore, _ := newTestProjector()

	event, err := activity.NewEvent("session-1", cart.EventItemAdded, cart.Change{Type: cart.EventItemAdded, ProductID: "4", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, projector.Publisher().Publish(context.Background(), "session-1", event))

	assert.Equal(t, 1, popularity(t, readStore, "4").AddedCount)
}
