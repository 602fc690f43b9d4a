package authz

import "errors"

var (
	// ErrNotFound means the resource, or one of its required ancestors,
	// does not exist.
	ErrNotFound = errors.New("authz: resource not found")
	// ErrUnauthorized means the caller is anonymous and the resource is
	// not publicly readable.
	ErrUnauthorized = errors.New("authz: unauthorized")
	// ErrForbidden means the caller is authenticated but its role is
	// insufficient, or the requested write is blocked by a deactivated
	// organization.
	ErrForbidden = errors.New("authz: forbidden")
	// ErrInvalidInput means the caller supplied a malformed argument.
	ErrInvalidInput = errors.New("authz: invalid input")
)
