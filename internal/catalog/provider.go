package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/example/instrument-shop/internal/domain/product"
)

var ErrInvalidFilter = errors.New("invalid filter")

// Provider is a read-only source of products.
type Provider interface {
	Get(ctx context.Context, id string) (product.Product, error)
	List(ctx context.Context, filter Filter) ([]product.Product, error)
	Categories(ctx context.Context) ([]Category, error)
}

// Category is a storefront department shown on the home view.
type Category struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type SortOrder string

const (
	SortFeatured  SortOrder = "featured"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortRating    SortOrder = "rating"
	SortNewest    SortOrder = "newest"
)

// ParseSort maps a query value to a SortOrder. The empty string is
// SortFeatured.
func ParseSort(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case "":
		return SortFeatured, nil
	case SortFeatured, SortPriceAsc, SortPriceDesc, SortRating, SortNewest:
		return order, nil
	default:
		return "", fmt.Errorf("%w: unknown sort %q", ErrInvalidFilter, s)
	}
}

// Filter narrows a product listing. Zero values match everything.
type Filter struct {
	Category      string
	Brands        []string
	MinPrice      int
	MaxPrice      int
	OnSale        bool
	TopSellerOnly bool
	Sort          SortOrder
}

// Validate rejects filters that can never match.
func (f Filter) Validate() error {
	if f.MinPrice < 0 || f.MaxPrice < 0 {
		return fmt.Errorf("%w: negative price bound", ErrInvalidFilter)
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return fmt.Errorf("%w: min_price %d above max_price %d", ErrInvalidFilter, f.MinPrice, f.MaxPrice)
	}
	if _, err := ParseSort(string(f.Sort)); err != nil {
		return err
	}
	return nil
}

// Matches reports whether p passes every criterion of the filter.
func (f Filter) Matches(p product.Product) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, p.Category) {
		return false
	}
	if len(f.Brands) > 0 && !slices.ContainsFunc(f.Brands, func(b string) bool {
		return strings.EqualFold(b, p.Brand)
	}) {
		return false
	}
	if p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	if f.OnSale && !p.IsSale {
		return false
	}
	if f.TopSellerOnly && !p.IsTopSeller {
		return false
	}
	return true
}

// Apply filters and sorts products without modifying the input slice.
// Featured order is the catalog order; other orders are stable.
func Apply(products []product.Product, f Filter) []product.Product {
	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}

	switch f.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b product.Product) int { return a.Price - b.Price })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b product.Product) int { return b.Price - a.Price })
	case SortRating:
		slices.SortStableFunc(out, func(a, b product.Product) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			}
			return b.Reviews - a.Reviews
		})
	case SortNewest:
		slices.SortStableFunc(out, func(a, b product.Product) int {
			switch {
			case a.IsNew && !b.IsNew:
				return -1
			case !a.IsNew && b.IsNew:
				return 1
			}
			return 0
		})
	}
	return out
}
