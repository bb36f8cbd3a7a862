// Package export renders passenger manifests as downloadable documents.
package export

import (
	"time"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

const dateLayout = "2006-01-02"

// Columns is the manifest column order shared by every format.
var Columns = []string{
	"Full name", "Document", "Nationality", "Date of birth", "Flight",
	"Departure", "Origin", "Destination", "Seat", "Status",
}

func row(p *domain.Passenger) []string {
	return []string{
		p.FullName,
		p.DocumentNumber,
		p.Nationality,
		formatDate(p.DateOfBirth),
		p.FlightNumber,
		formatDate(p.DepartureDate),
		p.Origin,
		p.Destination,
		p.SeatNumber,
		string(p.Status),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}
