package readmodel

import (
	"github.com/example/instrument-shop/internal/domain/cart"
	"github.com/example/instrument-shop/internal/domain/product"
)

const CollectionPopularity = "popularity"

// ProductReadModel is a catalog product with its derived price badges
type ProductReadModel struct {
	product.Product
	DiscountPercent int `json:"discount_percent"`
	Saving          int `json:"saving"`
}

func NewProductReadModel(p product.Product) ProductReadModel {
	return ProductReadModel{
		Product:         p,
		DiscountPercent: p.DiscountPercent(),
		Saving:          p.Saving(),
	}
}

// CartItemReadModel is one line of the cart view
type CartItemReadModel struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Image     string `json:"image"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int    `json:"line_total"`
}

// CartReadModel is what the cart view renders
type CartReadModel struct {
	Items     []CartItemReadModel `json:"items"`
	Total     int                 `json:"total"`
	ItemCount int                 `json:"item_count"`
}

// NewCartReadModel snapshots a cart. The caller must hold the session.
func NewCartReadModel(c *cart.Store) CartReadModel {
	lines := c.Items()
	items := make([]CartItemReadModel, 0, len(lines))
	for _, line := range lines {
		items = append(items, CartItemReadModel{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Brand:     line.Product.Brand,
			Image:     line.Product.Image,
			Price:     line.Product.Price,
			Quantity:  line.Quantity,
			LineTotal: line.Subtotal(),
		})
	}
	return CartReadModel{
		Items:     items,
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
	}
}

// ProductPopularity counts how often a product was put in a cart and
// taken to checkout across all sessions
type ProductPopularity struct {
	ProductID     string `json:"product_id"`
	AddedCount    int    `json:"added_count"`
	RemovedCount  int    `json:"removed_count"`
	CheckoutCount int    `json:"checkout_count"`
}
