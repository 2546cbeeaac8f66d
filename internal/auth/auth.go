// Package auth provides account registration, password verification, and
// stateless JWT session tokens for the tabscan API.
package auth

import (
	"context"
	"errors"

	"github.com/tabscan/tabscan/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMissingToken       = errors.New("authorization token required")
)

// UserStorage is the slice of the store the authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticator abstracts the credential scheme so the service layer does not
// care whether accounts use passwords, passkeys, or OAuth.
type Authenticator interface {
	// Register creates a new account. The credential format depends on the
	// implementation (a password, for PasswordAuthenticator).
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the account if valid.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}
