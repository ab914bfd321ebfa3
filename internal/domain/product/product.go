package product

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidID       = errors.New("product id is required")
)

// Spec is a single named specification row shown on the detail view.
type Spec struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product is a catalog record. Prices are whole currency units.
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Price         int     `json:"price"`
	OriginalPrice int     `json:"original_price,omitempty"`
	Rating        float64 `json:"rating"`
	Reviews       int     `json:"reviews"`
	Image         string  `json:"image"`
	Category      string  `json:"category"`
	IsNew         bool    `json:"is_new,omitempty"`
	IsSale        bool    `json:"is_sale,omitempty"`
	IsTopSeller   bool    `json:"is_top_seller,omitempty"`
	Description   string  `json:"description,omitempty"`
	Specs         []Spec  `json:"specs,omitempty"`
}

// Validate checks the fields the cart relies on.
func (p Product) Validate() error {
	if p.ID == "" {
		return ErrInvalidID
	}
	if p.Price < 0 || p.OriginalPrice < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// DiscountPercent returns the saving against OriginalPrice rounded to the
// nearest whole percent, or 0 when the product is not discounted.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice <= 0 || p.OriginalPrice <= p.Price {
		return 0
	}
	original := decimal.NewFromInt(int64(p.OriginalPrice))
	saving := original.Sub(decimal.NewFromInt(int64(p.Price)))
	return int(saving.Div(original).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// Saving returns OriginalPrice - Price, floored at zero.
func (p Product) Saving() int {
	if p.OriginalPrice <= p.Price {
		return 0
	}
	return p.OriginalPrice - p.Price
}
