package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/skymanifest/passenger-admin/internal/core/authz"
	"github.com/skymanifest/passenger-admin/internal/core/domain"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
	"github.com/skymanifest/passenger-admin/internal/infrastructure/db/memory"
)

type passengerFixture struct {
	svc        *PassengerService
	passengers *memory.PassengerRepository
	audit      *stubAudit
}

func newPassengerFixture(t *testing.T) *passengerFixture {
	t.Helper()
	users := memory.NewUserRepository()
	for _, p := range []domain.Principal{adminP, managerP, aliceP, bobP} {
		u := &domain.User{ID: p.ID, Name: p.ID, Email: p.ID + "@x.com", Role: p.Role}
		if _, err := users.Create(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	f := &passengerFixture{passengers: memory.NewPassengerRepository(), audit: &stubAudit{}}
	f.svc = NewPassengerService(f.passengers, users, authz.NewGuard(), f.audit, zerolog.Nop())
	f.svc.now = fixedClock
	return f
}

func validInput(doc string) ports.PassengerInput {
	return ports.PassengerInput{
		FullName:       "Ana Pérez",
		DocumentNumber: doc,
		Nationality:    "mx",
		DateOfBirth:    time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		FlightNumber:   "am401",
		DepartureDate:  time.Date(2026, 11, 2, 15, 30, 0, 0, time.UTC),
		Origin:         "mex",
		Destination:    "mad",
		SeatNumber:     "12a",
	}
}

func (f *passengerFixture) create(t *testing.T, p domain.Principal, doc string) *domain.Passenger {
	t.Helper()
	created, err := f.svc.Create(context.Background(), p, validInput(doc))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return created
}

func TestPassengerService_Create_Normalizes(t *testing.T) {
	f := newPassengerFixture(t)
	p := f.create(t, aliceP, "x1234567")

	if p.OwnerUserID != aliceP.ID {
		t.Fatalf("expected owner alice, got %s", p.OwnerUserID)
	}
	if p.Status != domain.StatusBooked {
		t.Fatalf("expected default status booked, got %s", p.Status)
	}
	if p.FlightNumber != "AM401" || p.Origin != "MEX" || p.SeatNumber != "12A" || p.DocumentNumber != "X1234567" {
		t.Fatalf("fields not normalized: %+v", p)
	}
	if !p.DepartureDate.Equal(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("departure not truncated to day: %v", p.DepartureDate)
	}
	if len(f.audit.events) != 1 || f.audit.events[0].ResourceID != p.ID {
		t.Fatalf("expected create audit event, got %+v", f.audit.events)
	}
}

func TestPassengerService_Create_ExplicitOwner(t *testing.T) {
	f := newPassengerFixture(t)
	ctx := context.Background()

	in := validInput("X1234567")
	in.OwnerUserID = aliceP.ID
	p, err := f.svc.Create(ctx, managerP, in)
	if err != nil || p.OwnerUserID != aliceP.ID {
		t.Fatalf("manager should create for alice, got %v %v", p, err)
	}

	in = validInput("Y1234567")
	in.OwnerUserID = aliceP.ID
	_, err = f.svc.Create(ctx, bobP, in)
	mustErrIs(t, err, domain.ErrForbidden)

	in.OwnerUserID = "ghost"
	_, err = f.svc.Create(ctx, adminP, in)
	mustErrIs(t, err, domain.ErrValidation)
}

func TestPassengerService_Create_Duplicate(t *testing.T) {
	f := newPassengerFixture(t)
	f.create(t, aliceP, "X1234567")

	_, err := f.svc.Create(context.Background(), bobP, validInput("x1234567"))
	mustErrIs(t, err, domain.ErrPassengerExists)
}

func TestPassengerService_Create_Validation(t *testing.T) {
	f := newPassengerFixture(t)

	cases := map[string]func(*ports.PassengerInput){
		"missing name":    func(in *ports.PassengerInput) { in.FullName = "" },
		"bad document":    func(in *ports.PassengerInput) { in.DocumentNumber = "12" },
		"bad nationality": func(in *ports.PassengerInput) { in.Nationality = "Mexico" },
		"bad flight":      func(in *ports.PassengerInput) { in.FlightNumber = "flight 1" },
		"bad airport":     func(in *ports.PassengerInput) { in.Origin = "MEXX" },
		"same airports":   func(in *ports.PassengerInput) { in.Destination = "MEX" },
		"bad seat":        func(in *ports.PassengerInput) { in.SeatNumber = "Z99" },
		"bad status":      func(in *ports.PassengerInput) { in.Status = "lost" },
		"no departure":    func(in *ports.PassengerInput) { in.DepartureDate = time.Time{} },
		"future birth":    func(in *ports.PassengerInput) { in.DateOfBirth = fixedNow.AddDate(1, 0, 0) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput("X1234567")
			mutate(&in)
			_, err := f.svc.Create(context.Background(), aliceP, in)
			mustErrIs(t, err, domain.ErrValidation)
		})
	}
}

func TestPassengerService_UserCannotTouchOthersRecords(t *testing.T) {
	f := newPassengerFixture(t)
	ctx := context.Background()
	p := f.create(t, aliceP, "X1234567")

	_, err := f.svc.Get(ctx, bobP, p.ID)
	mustErrIs(t, err, domain.ErrForbidden)

	in := validInput("X1234567")
	in.FullName = "Hijacked"
	_, err = f.svc.Update(ctx, bobP, p.ID, in)
	mustErrIs(t, err, domain.ErrForbidden)

	err = f.svc.Delete(ctx, bobP, p.ID)
	mustErrIs(t, err, domain.ErrForbidden)

	stored, err := f.passengers.FindByID(ctx, p.ID)
	if err != nil || stored.FullName != "Ana Pérez" {
		t.Fatalf("record must be untouched, got %+v %v", stored, err)
	}
}

func TestPassengerService_ManagerAndAdminAccessAll(t *testing.T) {
	f := newPassengerFixture(t)
	ctx := context.Background()
	p := f.create(t, aliceP, "X1234567")

	in := validInput("X1234567")
	in.Status = string(domain.StatusCheckedIn)
	updated, err := f.svc.Update(ctx, managerP, p.ID, in)
	if err != nil || updated.Status != domain.StatusCheckedIn {
		t.Fatalf("manager update failed: %v %v", updated, err)
	}
	if updated.OwnerUserID != aliceP.ID {
		t.Fatalf("update must keep owner, got %s", updated.OwnerUserID)
	}

	if err := f.svc.Delete(ctx, adminP, p.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	_, err = f.svc.Get(ctx, adminP, p.ID)
	mustErrIs(t, err, domain.ErrPassengerNotFound)
}

func TestPassengerService_UpdateTransferOwnership(t *testing.T) {
	f := newPassengerFixture(t)
	ctx := context.Background()
	p := f.create(t, aliceP, "X1234567")

	in := validInput("X1234567")
	in.OwnerUserID = bobP.ID
	_, err := f.svc.Update(ctx, aliceP, p.ID, in)
	mustErrIs(t, err, domain.ErrForbidden)

	updated, err := f.svc.Update(ctx, adminP, p.ID, in)
	if err != nil || updated.OwnerUserID != bobP.ID {
		t.Fatalf("admin transfer failed: %v %v", updated, err)
	}
}

func TestPassengerService_ListScope(t *testing.T) {
	f := newPassengerFixture(t)
	ctx := context.Background()
	f.create(t, aliceP, "A0000001")
	f.create(t, aliceP, "A0000002")
	f.create(t, bobP, "B0000001")

	mine, err := f.svc.List(ctx, aliceP, ports.ListPassengersInput{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if mine.Total != 2 {
		t.Fatalf("alice should see 2, got %d", mine.Total)
	}
	for _, p := range mine.Items {
		if p.OwnerUserID != aliceP.ID {
			t.Fatalf("alice saw a foreign record: %+v", p)
		}
	}

	all, err := f.svc.List(ctx, managerP, ports.ListPassengersInput{Limit: 500})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if all.Total != 3 || all.Limit != maxPageLimit {
		t.Fatalf("manager should see 3 with capped limit, got total=%d limit=%d", all.Total, all.Limit)
	}

	_, err = f.svc.List(ctx, managerP, ports.ListPassengersInput{Status: "lost"})
	mustErrIs(t, err, domain.ErrValidation)
}

func TestPassengerService_Export(t *testing.T) {
	f := newPassengerFixture(t)
	ctx := context.Background()
	f.create(t, aliceP, "A0000001")
	f.create(t, bobP, "B0000001")

	rows, err := f.svc.Export(ctx, bobP, ports.ListPassengersInput{FlightNumber: "am401"})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(rows) != 1 || rows[0].OwnerUserID != bobP.ID {
		t.Fatalf("export must be scoped to bob, got %+v", rows)
	}
	last := f.audit.events[len(f.audit.events)-1]
	if last.Action != domain.ActionExport || last.ActorID != bobP.ID {
		t.Fatalf("expected export audit event, got %+v", last)
	}
}
