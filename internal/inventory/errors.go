package inventory

import "errors"

var (
	// ErrUnknownIngredient is returned when an ingredient has no entry in the price table.
	ErrUnknownIngredient = errors.New("ingredient has no price entry")
	// ErrNonIncreasingHour is returned when a ledger is asked to re-process an hour.
	ErrNonIncreasingHour = errors.New("hour must be greater than the last processed hour")
	// ErrChunkNotFound is returned when a chunk id is not held by the ledger.
	ErrChunkNotFound = errors.New("chunk not found in ledger")
)
