package handler

import "time"

const dateLayout = "2006-01-02"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User      userResponse `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type sessionResponse struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Users ---

// Response-only types owned by the transport layer, so the JSON contract is
// not coupled to domain changes and password hashes can never leak.

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"required,oneof=ADMIN MANAGER USER"`
}

type updateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=120"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *string `json:"role"     validate:"omitempty,oneof=ADMIN MANAGER USER"`
}

type listUsersQuery struct {
	Role   string `query:"role"   validate:"omitempty,oneof=ADMIN MANAGER USER"`
	Search string `query:"search" validate:"omitempty,max=100"`
	Page   int    `query:"page"   validate:"gte=0"`
	Limit  int    `query:"limit"  validate:"gte=0,lte=100"`
}

type listUsersResponse struct {
	Items      []userResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// --- Passengers ---

type passengerRequest struct {
	OwnerUserID    string `json:"owner_user_id"`
	FullName       string `json:"full_name"       validate:"required,max=120"`
	DocumentNumber string `json:"document_number" validate:"required,min=5,max=20"`
	Nationality    string `json:"nationality"     validate:"required,min=2,max=3"`
	DateOfBirth    string `json:"date_of_birth"   validate:"required,datetime=2006-01-02"`
	FlightNumber   string `json:"flight_number"   validate:"required,max=8"`
	DepartureDate  string `json:"departure_date"  validate:"required,datetime=2006-01-02"`
	Origin         string `json:"origin"          validate:"required,len=3"`
	Destination    string `json:"destination"     validate:"required,len=3"`
	SeatNumber     string `json:"seat_number"     validate:"omitempty,max=4"`
	Status         string `json:"status"          validate:"omitempty,oneof=booked checked_in boarded cancelled"`
}

type listPassengersQuery struct {
	Status       string `query:"status"        validate:"omitempty,oneof=booked checked_in boarded cancelled"`
	FlightNumber string `query:"flight_number" validate:"omitempty,max=8"`
	Search       string `query:"search"        validate:"omitempty,max=100"`
	DateFrom     string `query:"date_from"     validate:"omitempty,datetime=2006-01-02"`
	DateTo       string `query:"date_to"       validate:"omitempty,datetime=2006-01-02"`
	Page         int    `query:"page"          validate:"gte=0"`
	Limit        int    `query:"limit"         validate:"gte=0,lte=100"`
}

type passengerResponse struct {
	ID             string    `json:"id"`
	OwnerUserID    string    `json:"owner_user_id"`
	FullName       string    `json:"full_name"`
	DocumentNumber string    `json:"document_number"`
	Nationality    string    `json:"nationality"`
	DateOfBirth    string    `json:"date_of_birth"`
	FlightNumber   string    `json:"flight_number"`
	DepartureDate  string    `json:"departure_date"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	SeatNumber     string    `json:"seat_number,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type listPassengersResponse struct {
	Items      []passengerResponse `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

// --- Dashboard ---

type dashboardResponse struct {
	TotalPassengers int64            `json:"total_passengers"`
	ByStatus        map[string]int64 `json:"by_status"`
	UsersByRole     map[string]int64 `json:"users_by_role,omitempty"`
}
