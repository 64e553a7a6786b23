package catalog

import "context"

// Store is the storage contract implemented by every catalog backend.
//
// Implementations hold the whole collection in a single document and
// replace it atomically on every mutation. Mutating calls on one Store
// instance are serialized by the implementation; List and Get may run
// concurrently with each other and always observe a complete document,
// never one mid-write.
//
// Errors are reported via the package sentinel errors wrapped with
// call context, so callers match with errors.Is:
//
//	_, err := store.Get(ctx, "Object Storage")
//	if errors.Is(err, catalog.ErrNotFound) { ... }
type Store interface {
	// List returns records matching filter in insertion order.
	// A zero Filter returns the whole collection.
	List(ctx context.Context, filter Filter) ([]Record, error)

	// Get returns the record with the given name.
	// Returns ErrNotFound if no such record exists.
	Get(ctx context.Context, name string) (Record, error)

	// Create validates rec, appends it and persists the document.
	// Returns ErrInvalidRecord on an empty field, ErrDuplicateName if
	// the name is already taken.
	Create(ctx context.Context, rec Record) (Record, error)

	// Update merges the supplied fields into the named record and
	// persists the document. The name itself is never changed.
	// Returns ErrNotFound if no such record exists.
	Update(ctx context.Context, name string, upd Update) (Record, error)

	// Delete removes the named record and persists the document.
	// Returns ErrNotFound if no such record exists.
	Delete(ctx context.Context, name string) error
}
