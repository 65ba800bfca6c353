package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the sequence generator
// return these (usually wrapped) so services can translate them into domain
// errors without knowing which backend produced them.
//
//   - ErrNotFound: no document matches the lookup
//   - ErrAlreadyUsed: a unique constraint rejected the write (duplicate key)
//   - ErrKeyCollision: the primary key of a new document is already taken
//   - ErrUnavailable: the backing store could not complete the operation
//
// For validation failures use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrKeyCollision = errors.New("primary key already used")
	ErrUnavailable  = errors.New("unavailable")
)
