package user

import (
	"context"
)

// Service is the directory: who is a known user, and how handles resolve to
// stable identities.
type Service interface {
	// EnsureUser records a user on first contact (insert-if-absent).
	EnsureUser(ctx context.Context, req RegisterContactRequest) (*RegisterContactResponse, error)

	// Get returns a known user by id. ErrUserNotFound when missing.
	Get(ctx context.Context, id int64) (*User, error)

	// ResolveHandle maps a public handle to an internal identity. A leading
	// "@" is stripped before lookup. ErrUserNotFound on directory miss.
	ResolveHandle(ctx context.Context, handle string) (*User, error)
}
