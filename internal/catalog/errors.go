package catalog

import "errors"

var (
	// ErrStale indicates a compare-and-set update lost a concurrent write.
	ErrStale = errors.New("stale row: concurrent update")
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("row not found")
)
