package ports

import (
	"context"

	"github.com/accountd/user-directory/internal/core/domain"
)

// RegisterInput carries everything needed to create an account. Role is not
// part of the input: new accounts always start as regular active users.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Age       *int
}

// AuthService implements registration, login, and credential resolution.
type AuthService interface {
	// Register creates an account and returns a signed token plus the user.
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	// Login verifies email+password and returns a signed token plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Identify resolves a bearer token to its subject user. Any failure
	// (bad signature, expiry, dangling subject) yields an error the caller
	// is expected to treat as "anonymous", not to surface.
	Identify(ctx context.Context, token string) (*domain.User, error)
}
