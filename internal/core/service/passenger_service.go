package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skymanifest/passenger-admin/internal/core/authz"
	"github.com/skymanifest/passenger-admin/internal/core/domain"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
)

// MaxExportRows caps a single manifest export.
const MaxExportRows = 10000

var (
	flightNumberRe = regexp.MustCompile(`^[A-Z0-9]{2}[0-9]{1,4}[A-Z]?$`)
	airportRe      = regexp.MustCompile(`^[A-Z]{3}$`)
	nationalityRe  = regexp.MustCompile(`^[A-Z]{2,3}$`)
	documentRe     = regexp.MustCompile(`^[A-Z0-9]{5,20}$`)
	seatRe         = regexp.MustCompile(`^[0-9]{1,3}[A-K]$`)
)

type PassengerService struct {
	passengers ports.PassengerRepository
	users      ports.UserRepository
	guard      *authz.Guard
	audit      ports.AuditLog
	logger     zerolog.Logger
	now        Clock
}

func NewPassengerService(passengers ports.PassengerRepository, users ports.UserRepository, guard *authz.Guard, audit ports.AuditLog, logger zerolog.Logger) *PassengerService {
	return &PassengerService{
		passengers: passengers,
		users:      users,
		guard:      guard,
		audit:      audit,
		logger:     logger,
		now:        systemClock,
	}
}

// Create adds a manifest entry owned by the principal, or by in.OwnerUserID
// when the principal may act on other users' records.
func (s *PassengerService) Create(ctx context.Context, p domain.Principal, in ports.PassengerInput) (*domain.Passenger, error) {
	owner := p.ID
	if in.OwnerUserID != "" {
		owner = in.OwnerUserID
	}
	if err := s.guard.Authorize(p, domain.ResourcePassenger, owner, domain.ActionCreate); err != nil {
		return nil, err
	}
	if owner != p.ID {
		if _, err := s.users.FindByID(ctx, owner); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.Invalid("owner %q does not exist", owner)
			}
			return nil, err
		}
	}

	if in.Status == "" {
		in.Status = string(domain.StatusBooked)
	}
	now := s.now()
	passenger := &domain.Passenger{
		ID:          newID(),
		OwnerUserID: owner,
		CreatedAt:   now,
	}
	if err := applyPassengerInput(passenger, in, now); err != nil {
		return nil, err
	}

	if err := s.passengers.Create(ctx, passenger); err != nil {
		return nil, err
	}

	s.audit.Record(domain.NewAuditEvent(p, domain.ActionCreate, domain.ResourcePassenger, passenger.ID, now))
	s.logger.Info().
		Str("passenger_id", passenger.ID).
		Str("owner_user_id", owner).
		Str("flight_number", passenger.FlightNumber).
		Msg("passenger created")
	return passenger, nil
}

func (s *PassengerService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Passenger, error) {
	passenger, err := s.passengers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(p, domain.ResourcePassenger, passenger.OwnerUserID, domain.ActionRead); err != nil {
		return nil, err
	}
	return passenger, nil
}

// Update replaces the editable fields of a passenger. Ownership can only be
// transferred by principals allowed to act on the new owner's records.
func (s *PassengerService) Update(ctx context.Context, p domain.Principal, id string, in ports.PassengerInput) (*domain.Passenger, error) {
	passenger, err := s.passengers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(p, domain.ResourcePassenger, passenger.OwnerUserID, domain.ActionUpdate); err != nil {
		return nil, err
	}

	if in.OwnerUserID != "" && in.OwnerUserID != passenger.OwnerUserID {
		if err := s.guard.Authorize(p, domain.ResourcePassenger, in.OwnerUserID, domain.ActionUpdate); err != nil {
			return nil, err
		}
		if _, err := s.users.FindByID(ctx, in.OwnerUserID); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.Invalid("owner %q does not exist", in.OwnerUserID)
			}
			return nil, err
		}
		passenger.OwnerUserID = in.OwnerUserID
	}
	if in.Status == "" {
		in.Status = string(passenger.Status)
	}

	now := s.now()
	if err := applyPassengerInput(passenger, in, now); err != nil {
		return nil, err
	}
	if err := s.passengers.Update(ctx, passenger); err != nil {
		return nil, err
	}

	s.audit.Record(domain.NewAuditEvent(p, domain.ActionUpdate, domain.ResourcePassenger, passenger.ID, now))
	return passenger, nil
}

func (s *PassengerService) Delete(ctx context.Context, p domain.Principal, id string) error {
	passenger, err := s.passengers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(p, domain.ResourcePassenger, passenger.OwnerUserID, domain.ActionDelete); err != nil {
		return err
	}
	if err := s.passengers.Delete(ctx, passenger.ID); err != nil {
		return err
	}

	s.audit.Record(domain.NewAuditEvent(p, domain.ActionDelete, domain.ResourcePassenger, passenger.ID, s.now()))
	s.logger.Info().Str("actor_id", p.ID).Str("passenger_id", passenger.ID).Msg("passenger deleted")
	return nil
}

// List returns one page of the passengers visible to p.
func (s *PassengerService) List(ctx context.Context, p domain.Principal, in ports.ListPassengersInput) (*ports.ListPassengersResult, error) {
	filter, err := s.scopedFilter(p, in, domain.ActionRead)
	if err != nil {
		return nil, err
	}
	filter.Page, filter.Limit = normalizePage(in.Page, in.Limit)

	items, total, err := s.passengers.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ListPassengersResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Export returns every passenger visible to p that matches in, up to MaxExportRows.
func (s *PassengerService) Export(ctx context.Context, p domain.Principal, in ports.ListPassengersInput) ([]*domain.Passenger, error) {
	filter, err := s.scopedFilter(p, in, domain.ActionExport)
	if err != nil {
		return nil, err
	}
	filter.Page, filter.Limit = 1, MaxExportRows

	items, total, err := s.passengers.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if total > MaxExportRows {
		s.logger.Warn().Int64("total", total).Int("exported", len(items)).Msg("export truncated")
	}

	s.audit.Record(domain.NewAuditEvent(p, domain.ActionExport, domain.ResourcePassenger, "", s.now()))
	return items, nil
}

// scopedFilter authorizes a collection action and pins the owner filter to
// the principal's list scope.
func (s *PassengerService) scopedFilter(p domain.Principal, in ports.ListPassengersInput, action domain.Action) (ports.ListPassengersFilter, error) {
	scope := s.guard.ListScope(p)
	owner := scope
	if owner == "" {
		owner = p.ID
	}
	if err := s.guard.Authorize(p, domain.ResourcePassenger, owner, action); err != nil {
		return ports.ListPassengersFilter{}, err
	}

	if in.Status != "" && !domain.PassengerStatus(in.Status).Valid() {
		return ports.ListPassengersFilter{}, domain.Invalid("unknown status %q", in.Status)
	}
	if !in.DateFrom.IsZero() && !in.DateTo.IsZero() && in.DateTo.Before(in.DateFrom) {
		return ports.ListPassengersFilter{}, domain.Invalid("date_to must not be before date_from")
	}

	return ports.ListPassengersFilter{
		OwnerUserID:  scope,
		Status:       in.Status,
		FlightNumber: strings.ToUpper(strings.TrimSpace(in.FlightNumber)),
		Search:       strings.TrimSpace(in.Search),
		DateFrom:     in.DateFrom,
		DateTo:       in.DateTo,
	}, nil
}

// applyPassengerInput validates and normalizes in onto dst.
func applyPassengerInput(dst *domain.Passenger, in ports.PassengerInput, now time.Time) error {
	name, err := validateName(in.FullName)
	if err != nil {
		return domain.Invalid("full_name is required")
	}

	doc := strings.ToUpper(strings.TrimSpace(in.DocumentNumber))
	if !documentRe.MatchString(doc) {
		return domain.Invalid("document_number must be 5 to 20 letters or digits")
	}
	nationality := strings.ToUpper(strings.TrimSpace(in.Nationality))
	if !nationalityRe.MatchString(nationality) {
		return domain.Invalid("nationality must be an ISO country code")
	}
	flight := strings.ToUpper(strings.TrimSpace(in.FlightNumber))
	if !flightNumberRe.MatchString(flight) {
		return domain.Invalid("flight_number %q is not valid", in.FlightNumber)
	}
	origin := strings.ToUpper(strings.TrimSpace(in.Origin))
	destination := strings.ToUpper(strings.TrimSpace(in.Destination))
	if !airportRe.MatchString(origin) || !airportRe.MatchString(destination) {
		return domain.Invalid("origin and destination must be IATA airport codes")
	}
	if origin == destination {
		return domain.Invalid("origin and destination must differ")
	}
	seat := strings.ToUpper(strings.TrimSpace(in.SeatNumber))
	if seat != "" && !seatRe.MatchString(seat) {
		return domain.Invalid("seat_number %q is not valid", in.SeatNumber)
	}
	status := domain.PassengerStatus(in.Status)
	if !status.Valid() {
		return domain.Invalid("unknown status %q", in.Status)
	}

	if in.DepartureDate.IsZero() {
		return domain.Invalid("departure_date is required")
	}
	if in.DateOfBirth.IsZero() {
		return domain.Invalid("date_of_birth is required")
	}
	dob := truncateDay(in.DateOfBirth)
	departure := truncateDay(in.DepartureDate)
	if dob.After(now) || dob.After(departure) {
		return domain.Invalid("date_of_birth must be in the past")
	}

	dst.FullName = name
	dst.DocumentNumber = doc
	dst.Nationality = nationality
	dst.DateOfBirth = dob
	dst.FlightNumber = flight
	dst.DepartureDate = departure
	dst.Origin = origin
	dst.Destination = destination
	dst.SeatNumber = seat
	dst.Status = status
	dst.UpdatedAt = now
	return nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
