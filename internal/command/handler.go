package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/instrument-shop/internal/activity"
	"github.com/example/instrument-shop/internal/catalog"
	"github.com/example/instrument-shop/internal/domain/cart"
	"github.com/example/instrument-shop/internal/metrics"
	"github.com/example/instrument-shop/internal/readmodel"
	"github.com/example/instrument-shop/internal/session"
	"go.uber.org/zap"
)

const checkoutMessage = "Proceeding to checkout..."

var (
	ErrInvalidProduct  = errors.New("product_id is required")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidQuantity = fmt.Errorf("delta must be between %d and %d", -cart.MaxQuantity, cart.MaxQuantity)
)

type Handler struct {
	catalog  catalog.Provider
	sessions *session.Registry
	recorder *activity.Recorder
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewHandler(
	catalog catalog.Provider,
	sessions *session.Registry,
	recorder *activity.Recorder,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		catalog:  catalog,
		sessions: sessions,
		recorder: recorder,
		metrics:  m,
		logger:   logger.Named("cart"),
	}
}

// AddToCart looks the product up in the catalog and adds one unit.
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) (readmodel.CartReadModel, error) {
	if cmd.ProductID == "" {
		return readmodel.CartReadModel{}, ErrInvalidProduct
	}

	p, err := h.catalog.Get(ctx, cmd.ProductID)
	if err != nil {
		return readmodel.CartReadModel{}, err
	}

	return h.mutate(ctx, cmd.SessionID, "add", func(c *cart.Store) {
		c.AddItem(p)
	})
}

// RemoveFromCart deletes a line; unknown products are ignored.
func (h *Handler) RemoveFromCart(ctx context.Context, cmd RemoveFromCart) (readmodel.CartReadModel, error) {
	if cmd.ProductID == "" {
		return readmodel.CartReadModel{}, ErrInvalidProduct
	}

	return h.mutate(ctx, cmd.SessionID, "remove", func(c *cart.Store) {
		c.RemoveItem(cmd.ProductID)
	})
}

// UpdateQuantity moves a line's quantity by Delta, floored at 1.
func (h *Handler) UpdateQuantity(ctx context.Context, cmd UpdateQuantity) (readmodel.CartReadModel, error) {
	if cmd.ProductID == "" {
		return readmodel.CartReadModel{}, ErrInvalidProduct
	}
	if cmd.Delta < -cart.MaxQuantity || cmd.Delta > cart.MaxQuantity {
		return readmodel.CartReadModel{}, ErrInvalidQuantity
	}

	return h.mutate(ctx, cmd.SessionID, "update_quantity", func(c *cart.Store) {
		c.UpdateQuantity(cmd.ProductID, cmd.Delta)
	})
}

// Checkout is a stub: it records the request and acknowledges it. The
// cart is left as it is.
func (h *Handler) Checkout(ctx context.Context, cmd Checkout) (CheckoutResult, error) {
	var result CheckoutResult
	err := h.sessions.Do(ctx, cmd.SessionID, func(c *cart.Store) error {
		if c.Len() == 0 {
			return ErrEmptyCart
		}

		lines := make([]activity.CheckoutLine, 0, c.Len())
		for _, item := range c.Items() {
			lines = append(lines, activity.CheckoutLine{
				ProductID: item.Product.ID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
			})
		}

		result = CheckoutResult{
			Message:   checkoutMessage,
			Total:     c.Total(),
			ItemCount: c.ItemCount(),
		}
		h.recorder.Record(cmd.SessionID, activity.EventCheckoutRequested, activity.CheckoutRequested{
			Lines:     lines,
			Total:     result.Total,
			ItemCount: result.ItemCount,
		})
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	h.metrics.CartOperations.WithLabelValues("checkout").Inc()
	h.logger.Info("checkout requested",
		zap.String("session_id", cmd.SessionID),
		zap.Int("total", result.Total),
		zap.Int("item_count", result.ItemCount))
	return result, nil
}

func (h *Handler) mutate(ctx context.Context, sessionID, operation string, fn func(*cart.Store)) (readmodel.CartReadModel, error) {
	var view readmodel.CartReadModel
	err := h.sessions.Do(ctx, sessionID, func(c *cart.Store) error {
		fn(c)
		view = readmodel.NewCartReadModel(c)
		return nil
	})
	if err != nil {
		return readmodel.CartReadModel{}, err
	}

	h.metrics.CartOperations.WithLabelValues(operation).Inc()
	h.logger.Debug("cart updated",
		zap.String("session_id", sessionID),
		zap.String("operation", operation),
		zap.Int("total", view.Total))
	return view, nil
}
