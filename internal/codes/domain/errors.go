// Package domain defines core domain models and errors for the code pool.
package domain

import (
	"github.com/allisson/codepool/internal/errors"
)

// Code pool error definitions.
var (
	// ErrPoolExhausted indicates the plan has no unclaimed codes left.
	ErrPoolExhausted = errors.Wrap(errors.ErrNotFound, "pool exhausted")

	// ErrPlanNotFound indicates the plan does not exist.
	ErrPlanNotFound = errors.Wrap(errors.ErrNotFound, "plan not found")

	// ErrCodeNotFound indicates the code record does not exist.
	ErrCodeNotFound = errors.Wrap(errors.ErrNotFound, "code not found")

	// ErrDuplicateSecret indicates the same normalized code already exists in the plan.
	ErrDuplicateSecret = errors.Wrap(errors.ErrConflict, "duplicate secret")

	// ErrPlanAlreadyExists indicates another plan with identical attributes already exists.
	ErrPlanAlreadyExists = errors.Wrap(errors.ErrConflict, "plan already exists")

	// ErrCodeAlreadyClaimed indicates a compare-and-delete found no row to remove.
	ErrCodeAlreadyClaimed = errors.Wrap(errors.ErrConflict, "code already claimed")

	// ErrClaimConflict indicates every claim attempt lost its race. Nothing was mutated.
	ErrClaimConflict = errors.Wrap(errors.ErrUnavailable, "claim conflict")

	// ErrCorruptSecret indicates a stored code failed to decrypt. The record is kept for
	// operator inspection.
	ErrCorruptSecret = errors.Wrap(errors.ErrIntegrity, "corrupt secret")

	// ErrInvalidRecord indicates a stored row does not conform to the record schema.
	ErrInvalidRecord = errors.Wrap(errors.ErrIntegrity, "invalid record")

	// ErrInvalidPlanKind indicates an unknown plan kind.
	ErrInvalidPlanKind = errors.Wrap(errors.ErrInvalidInput, "invalid plan kind")
)
