package backend

import "errors"

var (
	// ErrTransient is the injected simulated network failure. Callers may
	// retry the whole operation; no partial state change accompanies it.
	ErrTransient = errors.New("simulated backend failure, try again")

	ErrInvalidRequest      = errors.New("card number and a positive point amount are required")
	ErrInsufficientBalance = errors.New("insufficient balance for this operation")
)
