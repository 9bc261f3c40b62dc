package domain

import "errors"

// Error taxonomy shared by all services. Repositories translate driver
// errors into these sentinels so callers can branch with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrConflict          = errors.New("conflict")
	ErrDependencyFailure = errors.New("dependency failure")
)
