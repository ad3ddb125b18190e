package repository

import "errors"

var (
	// ErrDuplicateSession means an order already exists for the external
	// checkout session id. Raised by the unique constraint, so it also covers
	// two webhook deliveries racing across instances.
	ErrDuplicateSession = errors.New("order already exists for session")

	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
)
