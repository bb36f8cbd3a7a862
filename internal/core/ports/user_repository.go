package ports

import (
	"context"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// ListUsersFilter carries the query parameters for listing users.
type ListUsersFilter struct {
	Role   domain.Role // optional
	Search string      // optional: partial match on name or email
	Page   int         // 1-based
	Limit  int
}

// UserRepository is the credential store. Email uniqueness is enforced by the
// store; a duplicate surfaces as domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}
