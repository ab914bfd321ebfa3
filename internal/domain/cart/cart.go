package cart

import (
	"github.com/example/instrument-shop/internal/domain/product"
)

// MaxQuantity caps a single line so price * quantity stays far from
// overflow for any catalog price.
const MaxQuantity = 9999

// LineItem pairs a product with the quantity held in the cart.
type LineItem struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price * quantity for the line.
func (li LineItem) Subtotal() int {
	return li.Product.Price * li.Quantity
}

// Store owns the line items of a single cart.
//
// Items are unique by product id, every quantity is between 1 and
// MaxQuantity and the
// order in which products were first added is kept. Store is not safe for
// concurrent use; callers serialize access (see session.Registry).
type Store struct {
	items    []LineItem
	listener Listener
}

func NewStore() *Store {
	return &Store{items: make([]LineItem, 0)}
}

// OnChange registers the listener that observes mutations. A nil listener
// disables notifications.
func (s *Store) OnChange(l Listener) {
	s.listener = l
}

// AddItem increments the quantity of an existing line in place or appends
// a new line with quantity 1. A line already at MaxQuantity is left as is.
func (s *Store) AddItem(p product.Product) {
	if i := s.indexOf(p.ID); i >= 0 {
		if s.items[i].Quantity >= MaxQuantity {
			return
		}
		s.items[i].Quantity++
		s.notify(EventItemAdded, s.items[i], 1)
		return
	}

	s.items = append(s.items, LineItem{Product: p, Quantity: 1})
	s.notify(EventItemAdded, s.items[len(s.items)-1], 1)
}

// RemoveItem deletes the line for productID. Unknown ids are ignored.
func (s *Store) RemoveItem(productID string) {
	i := s.indexOf(productID)
	if i < 0 {
		return
	}

	removed := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)

	gone := removed
	gone.Quantity = 0
	s.notify(EventItemRemoved, gone, -removed.Quantity)
}

// UpdateQuantity moves the quantity of a line by delta, never below 1 and
// never above MaxQuantity. Reaching zero does not remove the line;
// RemoveItem does that. Unknown ids are ignored.
func (s *Store) UpdateQuantity(productID string, delta int) {
	i := s.indexOf(productID)
	if i < 0 {
		return
	}

	current := s.items[i].Quantity
	next := clampQuantity(current, delta)
	if next == current {
		return
	}

	s.items[i].Quantity = next
	s.notify(EventQuantityChanged, s.items[i], next-current)
}

// Clear drops every line.
func (s *Store) Clear() {
	if len(s.items) == 0 {
		return
	}
	s.items = make([]LineItem, 0)
	s.notify(EventCartCleared, LineItem{}, 0)
}

// Total is the sum of price * quantity over all lines.
func (s *Store) Total() int {
	total := 0
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities, used for the cart badge.
func (s *Store) ItemCount() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the lines in display order.
func (s *Store) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	return len(s.items)
}

// Get returns the line for productID.
func (s *Store) Get(productID string) (LineItem, bool) {
	if i := s.indexOf(productID); i >= 0 {
		return s.items[i], true
	}
	return LineItem{}, false
}

// clampQuantity returns current+delta bounded to [1, MaxQuantity] without
// overflowing for any delta. current is already within bounds.
func clampQuantity(current, delta int) int {
	if delta >= MaxQuantity-current {
		return MaxQuantity
	}
	if delta <= 1-current {
		return 1
	}
	return current + delta
}

// carts hold a handful of lines; a scan is enough
func (s *Store) indexOf(productID string) int {
	for i, item := range s.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) notify(eventType string, item LineItem, delta int) {
	if s.listener == nil {
		return
	}
	s.listener(Change{
		Type:      eventType,
		ProductID: item.Product.ID,
		Price:     item.Product.Price,
		Quantity:  item.Quantity,
		Delta:     delta,
		Total:     s.Total(),
		ItemCount: s.ItemCount(),
	})
}
