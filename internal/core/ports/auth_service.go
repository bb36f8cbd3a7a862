package ports

import (
	"context"
	"time"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// RegisterInput carries self-service registration data.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
