package blocktree

import "errors"

// Error kinds returned by tree operations. Callers match them with errors.Is;
// the returned errors wrap one of these with the offending identifier.
var (
	// ErrNotFound is returned when a referenced block id is absent from the tree
	ErrNotFound = errors.New("block not found")

	// ErrInvalidParent is returned when a structural operation targets a block
	// that cannot hold children, or a column that does not exist
	ErrInvalidParent = errors.New("invalid parent block")

	// ErrInvalidBlock is returned when the supplied block cannot be placed or
	// updated as requested (nil data, variant change, second layout, root removal)
	ErrInvalidBlock = errors.New("invalid block")

	// ErrCorrupt is returned when a document violates the tree invariants
	ErrCorrupt = errors.New("corrupt document")

	// ErrUnavailable is returned by collaborators (render, persistence) that failed
	// to produce a result. The core never retries.
	ErrUnavailable = errors.New("collaborator unavailable")
)
