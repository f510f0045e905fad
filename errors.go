package metagraph

import "errors"

var (
	// ErrStoreUnavailable is returned when the backing store file is
	// missing and no schema template was supplied during bootstrap.
	ErrStoreUnavailable = errors.New("metagraph: store unavailable")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("metagraph: invalid configuration")
)

// Missing vertices, arcs and slice roots surface as store.ErrNotFound;
// duplicate vertex names as store.ErrDuplicateName. An intentional early
// exit from a traversal is a graph.Stop outcome, not an error.
