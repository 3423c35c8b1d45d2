package reconcile

import "errors"

var (
	// ErrAccountNotFound is terminal for the call; nothing is mutated.
	ErrAccountNotFound = errors.New("account billing record not found")

	// ErrPartialCleanup reports that one or more duplicate
	// cancellations failed. The canonical-tier fix already applied is
	// never rolled back because of it.
	ErrPartialCleanup = errors.New("some duplicate subscriptions could not be canceled")

	ErrMissingAccountID = errors.New("account ID is required")
)
