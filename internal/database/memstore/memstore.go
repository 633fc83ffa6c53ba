// Package memstore keeps content in process memory. It backs the "memory"
// database driver and the service tests.
package memstore

// Store groups the in-memory stores.
type Store struct {
	Categories *CategoryStore
	Posts      *PostStore
}

func New() *Store {
	return &Store{
		Categories: NewCategoryStore(),
		Posts:      NewPostStore(),
	}
}
