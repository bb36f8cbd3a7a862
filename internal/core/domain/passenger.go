package domain

import "time"

// PassengerStatus is the boarding state of a manifest entry.
type PassengerStatus string

const (
	StatusBooked    PassengerStatus = "booked"
	StatusCheckedIn PassengerStatus = "checked_in"
	StatusBoarded   PassengerStatus = "boarded"
	StatusCancelled PassengerStatus = "cancelled"
)

// PassengerStatuses lists every status in display order.
var PassengerStatuses = []PassengerStatus{StatusBooked, StatusCheckedIn, StatusBoarded, StatusCancelled}

func (s PassengerStatus) Valid() bool {
	for _, known := range PassengerStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Passenger is a single manifest entry. Every passenger has exactly one owner.
type Passenger struct {
	ID             string          `json:"id" bson:"_id"`
	OwnerUserID    string          `json:"owner_user_id" bson:"owner_user_id"`
	FullName       string          `json:"full_name" bson:"full_name"`
	DocumentNumber string          `json:"document_number" bson:"document_number"`
	Nationality    string          `json:"nationality" bson:"nationality"`
	DateOfBirth    time.Time       `json:"date_of_birth" bson:"date_of_birth"`
	FlightNumber   string          `json:"flight_number" bson:"flight_number"`
	DepartureDate  time.Time       `json:"departure_date" bson:"departure_date"`
	Origin         string          `json:"origin" bson:"origin"`
	Destination    string          `json:"destination" bson:"destination"`
	SeatNumber     string          `json:"seat_number,omitempty" bson:"seat_number,omitempty"`
	Status         PassengerStatus `json:"status" bson:"status"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" bson:"updated_at"`
}
