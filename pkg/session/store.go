package session

import "context"

// Store maps session identities to their state for the lifetime of the
// process. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the state for id, creating an empty one on first access.
	// Concurrent calls for the same id return the same *State.
	Get(ctx context.Context, id string) (*State, error)

	// Put replaces the contents of the stored state for id with next,
	// keeping the stored *State identity. next's ID is forced to id.
	Put(ctx context.Context, id string, next *State) error

	// Len returns the number of stored identities.
	Len() int

	// Close releases the store; later calls fail with ErrStoreClosed.
	Close() error
}
