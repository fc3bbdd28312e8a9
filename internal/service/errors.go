package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. The HTTP layer maps each
// to a status code with errors.Is, so services stay transport-agnostic.
var (
	// ErrInvalid marks a request the caller can fix: missing fields, bad
	// enum values, malformed amounts.
	ErrInvalid = errors.New("invalid request")
	// ErrNotFound marks a record that does not exist or is not visible to
	// the caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a request that collides with current state, such
	// as joining a group while already in one.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized marks a request with missing or bad credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks an authenticated caller acting outside their
	// role, such as a member renaming a group only the owner may rename.
	ErrForbidden = errors.New("forbidden")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
