package service

import "errors"

// Booking failures fall into exactly three client-visible kinds. The API
// layer maps them to 400/403/404; anything else is a server error.
var (
	// ErrBadRequest means malformed input, detected before any store access.
	ErrBadRequest = errors.New("bad request")

	// ErrCannotBook means the request is well-formed but business rules
	// forbid it: missing enrollment or ticket, unpaid ticket, ticket without
	// hotel access, full room, or an ownership mismatch.
	ErrCannotBook = errors.New("cannot book")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)
