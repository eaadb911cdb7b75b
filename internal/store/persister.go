package store

// LoadResult is what a Persister read back. Warnings describe records that
// were skipped; they never abort a load.
type LoadResult[T any] struct {
	Entities []T
	Warnings []error
}

// Persister moves a store's contents to and from durable storage.
// Load on a target that does not exist yet returns an empty result, not an error.
type Persister[T any] interface {
	Save(entities []T) error
	Load() (LoadResult[T], error)
}

// Checker is implemented by persisters that cannot write every value an
// entity may hold. Check reports such a value before it enters the store.
type Checker[T any] interface {
	Check(T) error
}
