package cart

const (
	EventItemAdded       = "ItemAddedToCart"
	EventItemRemoved     = "ItemRemovedFromCart"
	EventQuantityChanged = "ItemQuantityChanged"
	EventCartCleared     = "CartCleared"
)

// Change describes one effective mutation of a cart. Quantity is the
// line's quantity after the mutation (0 once removed) and Delta is the
// amount it actually moved by.
type Change struct {
	Type      string `json:"type"`
	ProductID string `json:"product_id,omitempty"`
	Price     int    `json:"price,omitempty"`
	Quantity  int    `json:"quantity"`
	Delta     int    `json:"delta"`
	Total     int    `json:"total"`
	ItemCount int    `json:"item_count"`
}

// Listener is notified after every mutation that changed the cart.
type Listener func(Change)
