package entity

import "errors"

// Failure kinds shared across repository, service and api layers. Services wrap
// these with %w plus a message naming the offending entity; the api layer maps
// them to HTTP status codes in one place.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrEmptyCart         = errors.New("cart is empty")
)
