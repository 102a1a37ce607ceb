package apperr

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInsufficientStock signals an issue larger than the material's stock on hand.
	// The issue is rejected whole; there are no partial issues.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrMandatoryUnavailable signals a profile's mandatory ingredient missing from
	// the eligible candidate set. The caller must restock or fix the profile.
	ErrMandatoryUnavailable = errors.New("mandatory ingredient unavailable")
)
