package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/instrument-shop/internal/domain/product"
)

// Static serves a fixed in-memory catalog. It is immutable after
// construction and safe for concurrent use.
type Static struct {
	products   []product.Product
	byID       map[string]int
	categories []Category
}

// NewStatic validates the products and rejects duplicate ids.
func NewStatic(products []product.Product, categories []Category) (*Static, error) {
	s := &Static{
		products:   make([]product.Product, 0, len(products)),
		byID:       make(map[string]int, len(products)),
		categories: append([]Category(nil), categories...),
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("product %q: %w", p.ID, err)
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}
	return s, nil
}

// Default returns the built-in storefront catalog.
func Default() *Static {
	s, err := NewStatic(DefaultProducts(), DefaultCategories())
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid built-in seed: %v", err))
	}
	return s
}

type seedFile struct {
	Products   []product.Product `json:"products"`
	Categories []Category        `json:"categories"`
}

// LoadFile builds a Static catalog from a JSON seed file.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return NewStatic(seed.Products, seed.Categories)
}

func (s *Static) Get(_ context.Context, id string) (product.Product, error) {
	i, ok := s.byID[id]
	if !ok {
		return product.Product{}, product.ErrProductNotFound
	}
	return s.products[i], nil
}

func (s *Static) List(_ context.Context, filter Filter) ([]product.Product, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return Apply(s.products, filter), nil
}

func (s *Static) Categories(_ context.Context) ([]Category, error) {
	return append([]Category(nil), s.categories...), nil
}
