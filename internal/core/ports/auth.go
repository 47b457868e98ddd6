package ports

import (
	"context"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

// AuthRepository defines persistence for user accounts.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, username, password, email, authority string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
