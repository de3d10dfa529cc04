// Package errors defines the error taxonomy shared by the service,
// guard, and handler layers. Handlers map these sentinels to HTTP
// status codes; everything else wraps them with %w.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers a bad username/password pair without
	// revealing which half was wrong.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrExpiredCredential means the token's expiry has passed.
	ErrExpiredCredential = errors.New("token expired")

	// ErrMalformedCredential means the token is tampered, structurally
	// broken, or missing required claims.
	ErrMalformedCredential = errors.New("invalid credentials")

	// ErrUnauthenticated means a token was required and none was usable.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNotAuthorized means the caller is authenticated but lacks the
	// role for the operation.
	ErrNotAuthorized = errors.New("not authorized to perform this operation")

	// ErrNotFound means the target record does not exist.
	ErrNotFound = errors.New("no record found")

	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("user already existing")

	// ErrPrincipalNotFound means the token decoded fine but its user id
	// no longer resolves to a live record.
	ErrPrincipalNotFound = errors.New("this user does not exist")

	// ErrDuplicateEmail and ErrDuplicateUsername pinpoint which unique
	// constraint fired. Both satisfy errors.Is(err, ErrConflict); the
	// username variant is what the registration retry loop watches for.
	ErrDuplicateEmail    = fmt.Errorf("%w: duplicate email", ErrConflict)
	ErrDuplicateUsername = fmt.Errorf("%w: duplicate username", ErrConflict)

	// ErrUsernameExhausted means username generation hit its attempt
	// bound without finding a free value.
	ErrUsernameExhausted = errors.New("could not generate a unique username")
)
