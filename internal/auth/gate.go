package auth

import "context"

// Gate decides whether a submitted access code unlocks scanning.
// This abstraction allows swapping the shared static code for another
// scheme without changing the service layer code.
type Gate interface {
	// Verify returns nil when the code grants access, ErrInvalidAccessCode
	// when it does not, and ErrAccessNotConfigured when no code is set up.
	Verify(ctx context.Context, code string) error

	// Configured reports whether the gate can grant access at all.
	Configured() bool
}
