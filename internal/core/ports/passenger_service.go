package ports

import (
	"context"
	"time"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

// PassengerInput carries the editable fields of a manifest entry.
type PassengerInput struct {
	OwnerUserID    string // honoured only for ADMIN and MANAGER
	FullName       string
	DocumentNumber string
	Nationality    string
	DateOfBirth    time.Time
	FlightNumber   string
	DepartureDate  time.Time
	Origin         string
	Destination    string
	SeatNumber     string
	Status         string // defaults to booked on create
}

// ListPassengersInput carries all parameters for the list and export endpoints.
type ListPassengersInput struct {
	Status       string
	FlightNumber string
	Search       string
	DateFrom     time.Time
	DateTo       time.Time
	Page         int
	Limit        int
}

// ListPassengersResult is one page of passengers.
type ListPassengersResult struct {
	Items      []*domain.Passenger
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PassengerService defines use-case operations for the manifest.
type PassengerService interface {
	Create(ctx context.Context, p domain.Principal, in PassengerInput) (*domain.Passenger, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.Passenger, error)
	Update(ctx context.Context, p domain.Principal, id string, in PassengerInput) (*domain.Passenger, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
	List(ctx context.Context, p domain.Principal, in ListPassengersInput) (*ListPassengersResult, error)
	Export(ctx context.Context, p domain.Principal, in ListPassengersInput) ([]*domain.Passenger, error)
}

// DashboardSummary is the dashboard view for a principal.
type DashboardSummary struct {
	TotalPassengers int64
	ByStatus        map[domain.PassengerStatus]int64
	// UsersByRole is populated for ADMIN only.
	UsersByRole map[domain.Role]int64
}

type DashboardService interface {
	Summary(ctx context.Context, p domain.Principal) (*DashboardSummary, error)
}
