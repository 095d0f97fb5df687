package domain

import "errors"

// Error kinds shared across the service. Callers classify failures with
// errors.Is, never by matching message text.
var (
	// ErrValidation marks user-correctable input problems.
	ErrValidation = errors.New("order: invalid input")

	// ErrOrderNotFound is returned by order lookups for absent keys.
	ErrOrderNotFound = errors.New("order: not found")

	// ErrProductNotFound is returned when a product key does not exist.
	ErrProductNotFound = errors.New("product: not found")

	// ErrOutOfStock rejects a reservation whose quantity exceeds the
	// current inventory count.
	ErrOutOfStock = errors.New("inventory: not enough stock available")

	// ErrConcurrentUpdate surfaces a lost-update race: the conditional
	// decrement's precondition failed on every attempt. Retryable.
	ErrConcurrentUpdate = errors.New("inventory: concurrent update")

	// ErrTableNotReady means the backing table is not in an immediately
	// usable state.
	ErrTableNotReady = errors.New("store: table not ready")

	// ErrWriteFailed means the store reported a non-success status for a
	// write. Not automatically retried.
	ErrWriteFailed = errors.New("store: write failed")

	// ErrTransport covers unreachable stores and request timeouts.
	// Retryable, and never conflated with business failures.
	ErrTransport = errors.New("store: transport failure")
)
