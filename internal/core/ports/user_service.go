package ports

import (
	"context"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// CreateUserInput is used by administrators to create accounts with any role.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput holds optional changes; nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
}

// ListUsersInput carries the list endpoint parameters.
type ListUsersInput struct {
	Role   string
	Search string
	Page   int
	Limit  int
}

// ListUsersResult is one page of users.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService is ADMIN user management. Every method authorizes the principal first.
type UserService interface {
	List(ctx context.Context, p domain.Principal, in ListUsersInput) (*ListUsersResult, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error)
	Create(ctx context.Context, p domain.Principal, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, p domain.Principal, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
}
