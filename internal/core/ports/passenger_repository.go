package ports

import (
	"context"
	"time"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// ListPassengersFilter carries all query parameters for listing passengers.
// OwnerUserID is always set by the service layer from the authorization scope.
type ListPassengersFilter struct {
	OwnerUserID  string    // empty = every owner (admin, manager)
	Status       string    // optional
	FlightNumber string    // optional: exact match
	Search       string    // optional: partial match on full_name or document_number
	DateFrom     time.Time // optional: departure_date >= DateFrom
	DateTo       time.Time // optional: departure_date <= DateTo
	Page         int       // 1-based
	Limit        int
}

// PassengerRepository defines persistence operations for manifest entries.
type PassengerRepository interface {
	Create(ctx context.Context, p *domain.Passenger) error
	FindByID(ctx context.Context, id string) (*domain.Passenger, error)
	List(ctx context.Context, filter ListPassengersFilter) ([]*domain.Passenger, int64, error)
	Update(ctx context.Context, p *domain.Passenger) error
	Delete(ctx context.Context, id string) error
	// ReassignOwner moves every passenger owned by from to to and returns how many moved.
	ReassignOwner(ctx context.Context, from, to string) (int64, error)
	// CountByStatus counts passengers per status. An empty ownerID counts all owners.
	CountByStatus(ctx context.Context, ownerID string) (map[domain.PassengerStatus]int64, error)
}
