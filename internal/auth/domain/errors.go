package domain

import (
	"github.com/allisson/codepool/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrInvalidAPIKey indicates a missing or unknown API key.
	ErrInvalidAPIKey = errors.Wrap(errors.ErrUnauthorized, "invalid api key")

	// ErrInsufficientRole indicates the key is valid but lacks the required role.
	ErrInsufficientRole = errors.Wrap(errors.ErrForbidden, "insufficient role")
)
