package store

// ReadStoreInterface defines the interface for read model storage
type ReadStoreInterface interface {
	// Get retrieves a read model by id
	Get(collection, id string) (any, bool)

	// GetAll retrieves all items in a collection ordered by id
	GetAll(collection string) []any

	// Upsert replaces a read model with the result of fn. exists is false
	// and current nil when the id is new.
	Upsert(collection, id string, fn func(current any, exists bool) any)
}
