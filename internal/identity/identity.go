// Package identity defines the identity provider boundary: credentials in,
// authenticated user plus token out. The session store depends only on the
// Provider interface, so a real auth backend can replace the stand-in.
package identity

import (
	"context"

	"resona/internal/model"
)

// Provider accepts credentials and returns an authenticated user with a
// token, or a failure the caller is expected to surface.
type Provider interface {
	// Login authenticates an existing account.
	// Returns model.ErrInvalidCredentials when email or password is wrong.
	Login(ctx context.Context, email, password string) (*model.AuthUser, error)

	// Signup allocates a fresh account with zeroed social counters.
	// Returns model.ErrUsernameExists when the username is taken.
	Signup(ctx context.Context, req model.SignupRequest) (*model.AuthUser, error)
}
