package service

import (
	"context"

	"github.com/skymanifest/passenger-admin/internal/core/authz"
	"github.com/skymanifest/passenger-admin/internal/core/domain"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
)

// DashboardService aggregates counts for the dashboard page.
type DashboardService struct {
	passengers ports.PassengerRepository
	users      ports.UserRepository
	guard      *authz.Guard
}

func NewDashboardService(passengers ports.PassengerRepository, users ports.UserRepository, guard *authz.Guard) *DashboardService {
	return &DashboardService{passengers: passengers, users: users, guard: guard}
}

// Summary counts passengers by status within p's scope. User counts are only
// included when p may read the user collection.
func (s *DashboardService) Summary(ctx context.Context, p domain.Principal) (*ports.DashboardSummary, error) {
	scope := s.guard.ListScope(p)
	owner := scope
	if owner == "" {
		owner = p.ID
	}
	if err := s.guard.Authorize(p, domain.ResourcePassenger, owner, domain.ActionRead); err != nil {
		return nil, err
	}

	byStatus, err := s.passengers.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}

	summary := &ports.DashboardSummary{ByStatus: make(map[domain.PassengerStatus]int64, len(domain.PassengerStatuses))}
	for _, st := range domain.PassengerStatuses {
		summary.ByStatus[st] = byStatus[st]
		summary.TotalPassengers += byStatus[st]
	}

	if s.guard.CanAccess(p, domain.ResourceUser, "", domain.ActionRead) {
		if summary.UsersByRole, err = s.users.CountByRole(ctx); err != nil {
			return nil, err
		}
	}
	return summary, nil
}
