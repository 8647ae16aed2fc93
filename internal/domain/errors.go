package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidKind     = errors.New("invalid kind: must be alert or recovery")
	ErrInvalidSeverity = errors.New("invalid severity: must be warning or critical")
	ErrLimitTooLarge   = errors.New("limit exceeds maximum of 500")
)
