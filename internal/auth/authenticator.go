package auth

import "context"

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// OIDC, etc.) without changing the service layer code.
type Authenticator interface {
	// Authenticate verifies the operator's credentials. Returns
	// ErrInvalidCredentials if they do not match.
	Authenticate(ctx context.Context, name, credential string) error
}
