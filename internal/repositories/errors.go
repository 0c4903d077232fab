package repositories

import "errors"

// Sentinel errors shared by all repository implementations so services can
// branch with errors.Is regardless of the backing store.
var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned by DecrementStock when the product's
	// current stock is lower than the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicate is returned when a uniqueness constraint would be violated.
	ErrDuplicate = errors.New("record already exists")
)
