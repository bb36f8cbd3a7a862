package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
)

// PassengerRepository is a map-backed manifest. It enforces the
// (flight, departure date, document) uniqueness the Mongo index enforces.
type PassengerRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Passenger
}

func NewPassengerRepository() *PassengerRepository {
	return &PassengerRepository{byID: make(map[string]*domain.Passenger)}
}

func sameBooking(a, b *domain.Passenger) bool {
	return a.FlightNumber == b.FlightNumber &&
		a.DepartureDate.Equal(b.DepartureDate) &&
		a.DocumentNumber == b.DocumentNumber
}

func (r *PassengerRepository) conflicts(p *domain.Passenger) bool {
	for id, existing := range r.byID {
		if id != p.ID && sameBooking(existing, p) {
			return true
		}
	}
	return false
}

func (r *PassengerRepository) Create(_ context.Context, p *domain.Passenger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists || r.conflicts(p) {
		return domain.ErrPassengerExists
	}
	r.byID[p.ID] = clonePassenger(p)
	return nil
}

func (r *PassengerRepository) FindByID(_ context.Context, id string) (*domain.Passenger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPassengerNotFound
	}
	return clonePassenger(p), nil
}

func (r *PassengerRepository) List(_ context.Context, f ports.ListPassengersFilter) ([]*domain.Passenger, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.Passenger, 0, len(r.byID))
	for _, p := range r.byID {
		if f.OwnerUserID != "" && p.OwnerUserID != f.OwnerUserID {
			continue
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		if f.FlightNumber != "" && p.FlightNumber != f.FlightNumber {
			continue
		}
		if !f.DateFrom.IsZero() && p.DepartureDate.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && p.DepartureDate.After(f.DateTo) {
			continue
		}
		if f.Search != "" && !containsFold(p.FullName, f.Search) && !containsFold(p.DocumentNumber, f.Search) {
			continue
		}
		matched = append(matched, clonePassenger(p))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].DepartureDate.Equal(matched[j].DepartureDate) {
			return matched[i].FullName < matched[j].FullName
		}
		return matched[i].DepartureDate.Before(matched[j].DepartureDate)
	})

	skip, end := paginate(len(matched), f.Page, f.Limit)
	return matched[skip:end], int64(len(matched)), nil
}

func (r *PassengerRepository) Update(_ context.Context, p *domain.Passenger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrPassengerNotFound
	}
	if r.conflicts(p) {
		return domain.ErrPassengerExists
	}
	r.byID[p.ID] = clonePassenger(p)
	return nil
}

func (r *PassengerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.ErrPassengerNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *PassengerRepository) ReassignOwner(_ context.Context, from, to string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, p := range r.byID {
		if p.OwnerUserID == from {
			p.OwnerUserID = to
			n++
		}
	}
	return n, nil
}

func (r *PassengerRepository) CountByStatus(_ context.Context, ownerID string) (map[domain.PassengerStatus]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.PassengerStatus]int64, len(domain.PassengerStatuses))
	for _, p := range r.byID {
		if ownerID != "" && p.OwnerUserID != ownerID {
			continue
		}
		counts[p.Status]++
	}
	return counts, nil
}
