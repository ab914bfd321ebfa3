package readmodel

import (
	"testing"

	"github.com/example/instrument-shop/internal/domain/cart"
	"github.com/example/instrument-shop/internal/domain/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartReadModel(t *testing.T) {
	c := cart.NewStore()
	c.AddItem(product.Product{ID: "1", Name: "CD-60S", Brand: "Fender", Image: "img-1", Price: 16499})
	c.AddItem(product.Product{ID: "2", Name: "V50NJP-BK", Brand: "Ibanez", Price: 9499})
	c.UpdateQuantity("2", 2)

	view := NewCartReadModel(c)

	require.Len(t, view.Items, 2)
	assert.Equal(t, CartItemReadModel{
		ProductID: "1", Name: "CD-60S", Brand: "Fender", Image: "img-1",
		Price: 16499, Quantity: 1, LineTotal: 16499,
	}, view.Items[0])
	assert.Equal(t, 3, view.Items[1].Quantity)
	assert.Equal(t, 28497, view.Items[1].LineTotal)
	assert.Equal(t, 44996, view.Total)
	assert.Equal(t, 4, view.ItemCount)
}

func TestNewCartReadModel_Empty(t *testing.T) {
	view := NewCartReadModel(cart.NewStore())

	assert.NotNil(t, view.Items)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, view.Total)
}
