package model

import "errors"

// Sentinel error kinds shared by services and repositories. The HTTP layer
// maps these to status codes with errors.Is; repositories translate driver
// errors (pgx.ErrNoRows and friends) into them so callers never see driver
// types.
var (
	// ErrNotFound reports that an entity does not exist within the caller's
	// organization scope.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput reports a malformed request value: unknown status,
	// missing required field, bad quantity.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict reports an assignment conflict, e.g. binding a task to a
	// printer that already holds a different one.
	ErrConflict = errors.New("conflicting assignment")
)
