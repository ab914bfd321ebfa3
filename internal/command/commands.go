package command

// Cart Commands
type AddToCart struct {
	SessionID string `json:"-"`
	ProductID string `json:"product_id"`
}

type RemoveFromCart struct {
	SessionID string `json:"-"`
	ProductID string `json:"product_id"`
}

type UpdateQuantity struct {
	SessionID string `json:"-"`
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

// Checkout Commands
type Checkout struct {
	SessionID string `json:"-"`
}

// CheckoutResult is the stub response shown to the visitor.
type CheckoutResult struct {
	Message   string `json:"message"`
	Total     int    `json:"total"`
	ItemCount int    `json:"item_count"`
}
