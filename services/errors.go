package services

import "errors"

// Error kinds surfaced by the review services. Controllers map these to
// HTTP status codes (400/403/404); anything else becomes a 500.
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
)
