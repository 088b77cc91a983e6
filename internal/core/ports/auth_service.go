package ports

import (
	"context"

	"github.com/notekeeper/notes-api/internal/core/domain"
)

type AuthService interface {
	// Register creates a new account and returns a freshly issued session token.
	Register(ctx context.Context, email, password string) (string, *domain.User, error)
	// Login verifies credentials and returns a session token. Unknown email and
	// wrong password both fail with domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
