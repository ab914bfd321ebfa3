package query

import (
	"context"
	"slices"

	"github.com/example/instrument-shop/internal/catalog"
	"github.com/example/instrument-shop/internal/domain/cart"
	"github.com/example/instrument-shop/internal/infrastructure/store"
	"github.com/example/instrument-shop/internal/readmodel"
	"github.com/example/instrument-shop/internal/session"
)

const DefaultPopularLimit = 10

type Handler struct {
	catalog   catalog.Provider
	sessions  *session.Registry
	readStore store.ReadStoreInterface
}

func NewHandler(catalog catalog.Provider, sessions *session.Registry, readStore store.ReadStoreInterface) *Handler {
	return &Handler{
		catalog:   catalog,
		sessions:  sessions,
		readStore: readStore,
	}
}

// Products
func (h *Handler) ListProducts(ctx context.Context, filter catalog.Filter) ([]ProductReadModel, error) {
	products, err := h.catalog.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]ProductReadModel, 0, len(products))
	for _, p := range products {
		out = append(out, readmodel.NewProductReadModel(p))
	}
	return out, nil
}

func (h *Handler) GetProduct(ctx context.Context, id string) (ProductReadModel, error) {
	p, err := h.catalog.Get(ctx, id)
	if err != nil {
		return ProductReadModel{}, err
	}
	return readmodel.NewProductReadModel(p), nil
}

func (h *Handler) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return h.catalog.Categories(ctx)
}

// Cart
func (h *Handler) GetCart(ctx context.Context, sessionID string) (CartReadModel, error) {
	var view CartReadModel
	err := h.sessions.Do(ctx, sessionID, func(c *cart.Store) error {
		view = readmodel.NewCartReadModel(c)
		return nil
	})
	return view, err
}

// Popularity

// PopularProducts returns up to limit products ordered by how often they
// were added to a cart, then by checkouts, then by id.
func (h *Handler) PopularProducts(limit int) []ProductPopularity {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}

	items := h.readStore.GetAll(readmodel.CollectionPopularity)
	out := make([]ProductPopularity, 0, len(items))
	for _, item := range items {
		out = append(out, *item.(*ProductPopularity))
	}

	slices.SortStableFunc(out, func(a, b ProductPopularity) int {
		if a.AddedCount != b.AddedCount {
			return b.AddedCount - a.AddedCount
		}
		if a.CheckoutCount != b.CheckoutCount {
			return b.CheckoutCount - a.CheckoutCount
		}
		switch {
		case a.ProductID < b.ProductID:
			return -1
		case a.ProductID > b.ProductID:
			return 1
		}
		return 0
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
