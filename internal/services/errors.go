package services

import "errors"

var (
	// ErrValidation covers precondition failures surfaced before any external
	// call: empty cart, non-positive unit price.
	ErrValidation = errors.New("validation failed")

	// ErrPaymentProvider wraps a failed session creation. The provider's
	// message is preserved, not swallowed.
	ErrPaymentProvider = errors.New("payment provider error")

	// ErrBadSignature is the one webhook error that maps to a rejection
	// response; everything else is acknowledged.
	ErrBadSignature = errors.New("invalid event signature")

	// ErrSuperseded marks a load whose result was discarded because a newer
	// load for the same view started after it.
	ErrSuperseded = errors.New("load superseded by a newer one")
)
