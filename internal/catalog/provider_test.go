package catalog

import (
	"testing"

	"github.com/example/instrument-shop/internal/domain/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(products []product.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		input    string
		expected SortOrder
		wantErr  bool
	}{
		{"", SortFeatured, false},
		{"featured", SortFeatured, false},
		{"PRICE_ASC", SortPriceAsc, false},
		{" price_desc ", SortPriceDesc, false},
		{"rating", SortRating, false},
		{"newest", SortNewest, false},
		{"cheapest", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			order, err := ParseSort(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, order)
		})
	}
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, Filter{}.Validate())
	assert.NoError(t, Filter{MinPrice: 100, MaxPrice: 100}.Validate())
	assert.ErrorIs(t, Filter{MinPrice: -1}.Validate(), ErrInvalidFilter)
	assert.ErrorIs(t, Filter{MinPrice: 200, MaxPrice: 100}.Validate(), ErrInvalidFilter)
	assert.ErrorIs(t, Filter{Sort: "random"}.Validate(), ErrInvalidFilter)
}

func TestApply_NoFilterKeepsCatalogOrder(t *testing.T) {
	result := Apply(DefaultProducts(), Filter{})

	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(result))
}

func TestApply_Brands(t *testing.T) {
	result := Apply(DefaultProducts(), Filter{Brands: []string{"fender", "Cort"}})

	assert.Equal(t, []string{"1", "5", "6"}, ids(result))
}

func TestApply_PriceRange(t *testing.T) {
	result := Apply(DefaultProducts(), Filter{MinPrice: 9000, MaxPrice: 13000})

	assert.Equal(t, []string{"2", "3", "6"}, ids(result))
}

func TestApply_Category(t *testing.T) {
	assert.Len(t, Apply(DefaultProducts(), Filter{Category: "acoustic guitars"}), 6)
	assert.Empty(t, Apply(DefaultProducts(), Filter{Category: "Keyboards"}))
}

func TestApply_Flags(t *testing.T) {
	assert.Equal(t, []string{"3"}, ids(Apply(DefaultProducts(), Filter{OnSale: true})))
	assert.Equal(t, []string{"1"}, ids(Apply(DefaultProducts(), Filter{TopSellerOnly: true})))
}

func TestApply_Sorts(t *testing.T) {
	tests := []struct {
		name     string
		sort     SortOrder
		expected []string
	}{
		{"price ascending", SortPriceAsc, []string{"5", "2", "3", "6", "1", "4"}},
		{"price descending", SortPriceDesc, []string{"4", "1", "6", "3", "2", "5"}},
		{"rating then reviews", SortRating, []string{"3", "1", "6", "5", "4", "2"}},
		{"newest keeps order without new items", SortNewest, []string{"1", "2", "3", "4", "5", "6"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Apply(DefaultProducts(), Filter{Sort: tt.sort})
			assert.Equal(t, tt.expected, ids(result))
		})
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	products := DefaultProducts()

	Apply(products, Filter{Sort: SortPriceAsc})

	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(products))
}

func TestBuildListQuery(t *testing.T) {
	query, args := buildListQuery(Filter{
		Category: "Acoustic Guitars",
		Brands:   []string{"Fender"},
		MinPrice: 100,
		MaxPrice: 20000,
		OnSale:   true,
	})

	assert.Contains(t, query, "lower(category) = lower($1)")
	assert.Contains(t, query, "lower(brand) = ANY($2)")
	assert.Contains(t, query, "price >= $3")
	assert.Contains(t, query, "price <= $4")
	assert.Contains(t, query, "AND is_sale ORDER BY")
	assert.NotContains(t, query, "AND is_top_seller")
	assert.Len(t, args, 4)
	assert.Equal(t, "Acoustic Guitars", args[0])
}

func TestBuildListQuery_NoFilter(t *testing.T) {
	query, args := buildListQuery(Filter{})

	assert.NotContains(t, query, "WHERE")
	// nullable display columns must scan into plain Go values
	assert.Contains(t, query, "COALESCE(original_price, 0)")
	assert.Contains(t, query, "COALESCE(description, '')")
	assert.Empty(t, args)
}
