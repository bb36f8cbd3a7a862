package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/skymanifest/passenger-admin/internal/core/authz"
	"github.com/skymanifest/passenger-admin/internal/core/domain"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
)

// UserService implements ADMIN user management.
type UserService struct {
	users      ports.UserRepository
	passengers ports.PassengerRepository
	hasher     ports.PasswordHasher
	guard      *authz.Guard
	audit      ports.AuditLog
	logger     zerolog.Logger
	now        Clock
}

func NewUserService(users ports.UserRepository, passengers ports.PassengerRepository, hasher ports.PasswordHasher, guard *authz.Guard, audit ports.AuditLog, logger zerolog.Logger) *UserService {
	return &UserService{
		users:      users,
		passengers: passengers,
		hasher:     hasher,
		guard:      guard,
		audit:      audit,
		logger:     logger,
		now:        systemClock,
	}
}

func (s *UserService) List(ctx context.Context, p domain.Principal, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	// A collection has no single owner; only roles allowed to read any user pass.
	if err := s.guard.Authorize(p, domain.ResourceUser, "", domain.ActionRead); err != nil {
		return nil, err
	}

	filter := ports.ListUsersFilter{Search: in.Search}
	if in.Role != "" {
		role, err := domain.ParseRole(in.Role)
		if err != nil {
			return nil, err
		}
		filter.Role = role
	}
	filter.Page, filter.Limit = normalizePage(in.Page, in.Limit)

	items, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

func (s *UserService) Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	if err := s.guard.Authorize(p, domain.ResourceUser, id, domain.ActionRead); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Create(ctx context.Context, p domain.Principal, in ports.CreateUserInput) (*domain.User, error) {
	if err := s.guard.Authorize(p, domain.ResourceUser, "", domain.ActionCreate); err != nil {
		return nil, err
	}

	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	email, err := validateEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, domain.Invalid("unknown role %q", in.Role)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user, err := s.users.Create(ctx, &domain.User{
		ID:           newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.NewAuditEvent(p, domain.ActionCreate, domain.ResourceUser, user.ID, now))
	s.logger.Info().Str("actor_id", p.ID).Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return user, nil
}

// Update applies the non-nil fields of in. Changing a role requires the
// change_role action in addition to update.
func (s *UserService) Update(ctx context.Context, p domain.Principal, id string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(p, domain.ResourceUser, user.ID, domain.ActionUpdate); err != nil {
		return nil, err
	}

	if in.Name != nil {
		if user.Name, err = validateName(*in.Name); err != nil {
			return nil, err
		}
	}
	if in.Email != nil {
		if user.Email, err = validateEmail(*in.Email); err != nil {
			return nil, err
		}
	}
	if in.Password != nil {
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
		if user.PasswordHash, err = s.hasher.Hash(*in.Password); err != nil {
			return nil, err
		}
	}
	roleChanged := false
	if in.Role != nil && *in.Role != user.Role {
		if !in.Role.Valid() {
			return nil, domain.Invalid("unknown role %q", *in.Role)
		}
		if err := s.guard.Authorize(p, domain.ResourceUser, user.ID, domain.ActionChangeRole); err != nil {
			return nil, err
		}
		// Demoting yourself would lock the last admin out of user management.
		if user.ID == p.ID {
			return nil, domain.ErrForbidden
		}
		user.Role = *in.Role
		roleChanged = true
	}

	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if roleChanged {
		s.audit.Record(domain.NewAuditEvent(p, domain.ActionChangeRole, domain.ResourceUser, user.ID, user.UpdatedAt))
	}
	s.audit.Record(domain.NewAuditEvent(p, domain.ActionUpdate, domain.ResourceUser, user.ID, user.UpdatedAt))
	return user, nil
}

// Delete removes a user. Their passengers are reassigned to the acting
// principal so that every manifest entry keeps exactly one owner.
func (s *UserService) Delete(ctx context.Context, p domain.Principal, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(p, domain.ResourceUser, user.ID, domain.ActionDelete); err != nil {
		return err
	}

	// Reassign before deleting: a failed delete leaves the user with no
	// passengers, which is recoverable; the reverse order could leave
	// passengers owned by a user that no longer exists.
	moved, err := s.passengers.ReassignOwner(ctx, user.ID, p.ID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.audit.Record(domain.NewAuditEvent(p, domain.ActionDelete, domain.ResourceUser, user.ID, s.now()))
	s.logger.Info().
		Str("actor_id", p.ID).
		Str("user_id", user.ID).
		Int64("passengers_reassigned", moved).
		Msg("user deleted")
	return nil
}

// EnsureAdmin creates the bootstrap administrator when no account with email
// exists. An existing account is left untouched. It returns true when a user
// was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}

	if name, err = validateName(name); err != nil {
		return false, err
	}
	if email, err = validateEmail(email); err != nil {
		return false, err
	}
	if err := validatePassword(password); err != nil {
		return false, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	now := s.now()
	user, err := s.users.Create(ctx, &domain.User{
		ID:           newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrUserExists) {
		// Another instance won the race.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("bootstrap admin created")
	return true, nil
}
