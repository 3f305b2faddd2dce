package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// record does not exist in the data store.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing activity name, more than two slots per day).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
