package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/instrument-shop/internal/activity"
	"github.com/example/instrument-shop/internal/domain/cart"
	"github.com/example/instrument-shop/internal/infrastructure/store"
	"github.com/example/instrument-shop/internal/metrics"
	"github.com/example/instrument-shop/internal/readmodel"
	"go.uber.org/zap"
)

// Projector folds the activity stream into the popularity read model.
type Projector struct {
	readStore store.ReadStoreInterface
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewProjector(readStore store.ReadStoreInterface, m *metrics.Metrics, logger *zap.Logger) *Projector {
	return &Projector{
		readStore: readStore,
		metrics:   m,
		logger:    logger.Named("projector"),
	}
}

// HandleEvent has the kafka.MessageHandler signature.
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event activity.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to decode activity event: %w", err)
	}

	p.logger.Debug("received event", zap.String("type", event.Type), zap.String("event_id", event.ID))

	var err error
	switch event.Type {
	case cart.EventItemAdded, cart.EventItemRemoved:
		err = p.handleCartChange(event)
	case activity.EventCheckoutRequested:
		err = p.handleCheckout(event)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	p.metrics.ProjectedEvents.WithLabelValues(event.Type).Inc()
	return nil
}

func (p *Projector) handleCartChange(event activity.Event) error {
	var c cart.Change
	if err := json.Unmarshal(event.Data, &c); err != nil {
		return fmt.Errorf("failed to decode %s: %w", event.Type, err)
	}
	if c.ProductID == "" {
		return nil
	}

	p.bump(c.ProductID, func(pop *readmodel.ProductPopularity) {
		if event.Type == cart.EventItemAdded {
			pop.AddedCount++
		} else {
			pop.RemovedCount++
		}
	})
	return nil
}

func (p *Projector) handleCheckout(event activity.Event) error {
	var e activity.CheckoutRequested
	if err := json.Unmarshal(event.Data, &e); err != nil {
		return fmt.Errorf("failed to decode %s: %w", event.Type, err)
	}

	for _, line := range e.Lines {
		p.bump(line.ProductID, func(pop *readmodel.ProductPopularity) {
			pop.CheckoutCount++
		})
	}
	return nil
}

func (p *Projector) bump(productID string, fn func(*readmodel.ProductPopularity)) {
	p.readStore.Upsert(readmodel.CollectionPopularity, productID, func(current any, exists bool) any {
		pop := &readmodel.ProductPopularity{ProductID: productID}
		if exists {
			copied := *current.(*readmodel.ProductPopularity)
			pop = &copied
		}
		fn(pop)
		return pop
	})
}

// Publisher feeds events straight into the projector, for deployments
// without a Kafka topic between the API and the projection.
func (p *Projector) Publisher() activity.Publisher {
	return activity.PublisherFunc(func(ctx context.Context, key string, event any) error {
		value, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to encode activity event: %w", err)
		}
		return p.HandleEvent(ctx, []byte(key), value)
	})
}
