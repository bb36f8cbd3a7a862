package handler

import (
	"time"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
	"github.com/skymanifest/passenger-admin/internal/core/ports"
)

// --- Request → Service input ---

// toPassengerInput converts a validated request. Dates were checked by the
// validator, so parse errors cannot occur here.
func toPassengerInput(req passengerRequest) ports.PassengerInput {
	return ports.PassengerInput{
		OwnerUserID:    req.OwnerUserID,
		FullName:       req.FullName,
		DocumentNumber: req.DocumentNumber,
		Nationality:    req.Nationality,
		DateOfBirth:    parseDate(req.DateOfBirth),
		FlightNumber:   req.FlightNumber,
		DepartureDate:  parseDate(req.DepartureDate),
		Origin:         req.Origin,
		Destination:    req.Destination,
		SeatNumber:     req.SeatNumber,
		Status:         req.Status,
	}
}

func toListPassengersInput(q listPassengersQuery) ports.ListPassengersInput {
	in := ports.ListPassengersInput{
		Status:       q.Status,
		FlightNumber: q.FlightNumber,
		Search:       q.Search,
		DateFrom:     parseDate(q.DateFrom),
		DateTo:       parseDate(q.DateTo),
		Page:         q.Page,
		Limit:        q.Limit,
	}
	if !in.DateTo.IsZero() {
		// Inclusive upper bound.
		in.DateTo = in.DateTo.Add(24*time.Hour - time.Nanosecond)
	}
	return in
}

func toUpdateUserInput(req updateUserRequest) ports.UpdateUserInput {
	in := ports.UpdateUserInput{Name: req.Name, Email: req.Email, Password: req.Password}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}
	return in
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC(),
		UpdatedAt: u.UpdatedAt.UTC(),
	}
}

func toListUsersResponse(r *ports.ListUsersResult) listUsersResponse {
	items := make([]userResponse, len(r.Items))
	for i, u := range r.Items {
		items[i] = toUserResponse(u)
	}
	return listUsersResponse{Items: items, Total: r.Total, Page: r.Page, Limit: r.Limit, TotalPages: r.TotalPages}
}

func toPassengerResponse(p *domain.Passenger) passengerResponse {
	return passengerResponse{
		ID:             p.ID,
		OwnerUserID:    p.OwnerUserID,
		FullName:       p.FullName,
		DocumentNumber: p.DocumentNumber,
		Nationality:    p.Nationality,
		DateOfBirth:    formatDate(p.DateOfBirth),
		FlightNumber:   p.FlightNumber,
		DepartureDate:  formatDate(p.DepartureDate),
		Origin:         p.Origin,
		Destination:    p.Destination,
		SeatNumber:     p.SeatNumber,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt.UTC(),
		UpdatedAt:      p.UpdatedAt.UTC(),
	}
}

func toListPassengersResponse(r *ports.ListPassengersResult) listPassengersResponse {
	items := make([]passengerResponse, len(r.Items))
	for i, p := range r.Items {
		items[i] = toPassengerResponse(p)
	}
	return listPassengersResponse{Items: items, Total: r.Total, Page: r.Page, Limit: r.Limit, TotalPages: r.TotalPages}
}

func toDashboardResponse(s *ports.DashboardSummary) dashboardResponse {
	resp := dashboardResponse{
		TotalPassengers: s.TotalPassengers,
		ByStatus:        make(map[string]int64, len(s.ByStatus)),
	}
	for st, n := range s.ByStatus {
		resp.ByStatus[string(st)] = n
	}
	if s.UsersByRole != nil {
		resp.UsersByRole = make(map[string]int64, len(s.UsersByRole))
		for role, n := range s.UsersByRole {
			resp.UsersByRole[string(role)] = n
		}
	}
	return resp
}
