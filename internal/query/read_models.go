package query

import "github.com/example/instrument-shop/internal/readmodel"

type ProductReadModel = readmodel.ProductReadModel
type CartItemReadModel = readmodel.CartItemReadModel
type CartReadModel = readmodel.CartReadModel
type ProductPopularity = readmodel.ProductPopularity
