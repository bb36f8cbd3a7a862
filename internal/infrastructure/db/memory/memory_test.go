package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
)

func TestUserRepository_UniqueEmailIsCaseInsensitive(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	if _, err := r.Create(ctx, &domain.User{ID: "1", Email: "A@x.com", Role: domain.RoleUser}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := r.Create(ctx, &domain.User{ID: "2", Email: "a@X.com", Role: domain.RoleUser}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	u, err := r.FindByEmail(ctx, "A@X.COM")
	if err != nil || u.ID != "1" {
		t.Fatalf("find by email: %+v %v", u, err)
	}
}

func TestUserRepository_UpdateEmailConflict(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	_, _ = r.Create(ctx, &domain.User{ID: "1", Email: "a@x.com"})
	_, _ = r.Create(ctx, &domain.User{ID: "2", Email: "b@x.com"})

	if err := r.Update(ctx, &domain.User{ID: "2", Email: "a@x.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if err := r.Update(ctx, &domain.User{ID: "2", Email: "c@x.com"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := r.FindByEmail(ctx, "b@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("old email should be released, got %v", err)
	}
}

func TestUserRepository_DeleteAndCount(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	_, _ = r.Create(ctx, &domain.User{ID: "1", Email: "a@x.com", Role: domain.RoleAdmin})
	_, _ = r.Create(ctx, &domain.User{ID: "2", Email: "b@x.com", Role: domain.RoleUser})
	_, _ = r.Create(ctx, &domain.User{ID: "3", Email: "c@x.com", Role: domain.RoleUser})

	if err := r.Delete(ctx, "3"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.Delete(ctx, "3"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	counts, _ := r.CountByRole(ctx)
	if counts[domain.RoleAdmin] != 1 || counts[domain.RoleUser] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestPassengerRepository_ListFiltersAndPaginates(t *testing.T) {
	r := NewPassengerRepository()
	ctx := context.Background()
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	seed := []*domain.Passenger{
		{ID: "p1", OwnerUserID: "u1", FullName: "Ana Perez", DocumentNumber: "X1", FlightNumber: "AM100", DepartureDate: day, Status: domain.StatusBooked},
		{ID: "p2", OwnerUserID: "u1", FullName: "Bruno Diaz", DocumentNumber: "X2", FlightNumber: "AM100", DepartureDate: day, Status: domain.StatusBoarded},
		{ID: "p3", OwnerUserID: "u2", FullName: "Carla Ruiz", DocumentNumber: "X3", FlightNumber: "AM200", DepartureDate: day.AddDate(0, 0, 2), Status: domain.StatusBooked},
	}
	for _, p := range seed {
		if err := r.Create(ctx, p); err != nil {
			t.Fatalf("create %s: %v", p.ID, err)
		}
	}

	items, total, _ := r.List(ctx, ports.ListPassengersFilter{OwnerUserID: "u1"})
	if total != 2 || len(items) != 2 {
		t.Fatalf("owner filter: total=%d len=%d", total, len(items))
	}

	items, total, _ = r.List(ctx, ports.ListPassengersFilter{Search: "carla"})
	if total != 1 || items[0].ID != "p3" {
		t.Fatalf("search: %+v", items)
	}

	items, total, _ = r.List(ctx, ports.ListPassengersFilter{DateFrom: day.AddDate(0, 0, 1)})
	if total != 1 || items[0].ID != "p3" {
		t.Fatalf("date filter: %+v", items)
	}

	items, total, _ = r.List(ctx, ports.ListPassengersFilter{Page: 2, Limit: 2})
	if total != 3 || len(items) != 1 {
		t.Fatalf("pagination: total=%d len=%d", total, len(items))
	}
}

func TestPassengerRepository_UniqueBooking(t *testing.T) {
	r := NewPassengerRepository()
	ctx := context.Background()
	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	_ = r.Create(ctx, &domain.Passenger{ID: "p1", DocumentNumber: "X1", FlightNumber: "AM100", DepartureDate: day})
	err := r.Create(ctx, &domain.Passenger{ID: "p2", DocumentNumber: "X1", FlightNumber: "AM100", DepartureDate: day})
	if !errors.Is(err, domain.ErrPassengerExists) {
		t.Fatalf("expected ErrPassengerExists, got %v", err)
	}
}

func TestPassengerRepository_ReassignAndCount(t *testing.T) {
	r := NewPassengerRepository()
	ctx := context.Background()
	_ = r.Create(ctx, &domain.Passenger{ID: "p1", OwnerUserID: "u1", DocumentNumber: "1", Status: domain.StatusBooked})
	_ = r.Create(ctx, &domain.Passenger{ID: "p2", OwnerUserID: "u1", DocumentNumber: "2", Status: domain.StatusBoarded})
	_ = r.Create(ctx, &domain.Passenger{ID: "p3", OwnerUserID: "u2", DocumentNumber: "3", Status: domain.StatusBooked})

	n, _ := r.ReassignOwner(ctx, "u1", "admin")
	if n != 2 {
		t.Fatalf("expected 2 reassigned, got %d", n)
	}

	counts, _ := r.CountByStatus(ctx, "admin")
	if counts[domain.StatusBooked] != 1 || counts[domain.StatusBoarded] != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	all, _ := r.CountByStatus(ctx, "")
	if all[domain.StatusBooked] != 2 {
		t.Fatalf("unexpected totals: %+v", all)
	}
}
