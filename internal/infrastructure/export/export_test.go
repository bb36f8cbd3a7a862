package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/skymanifest/passenger-admin/internal/core/domain"
)

func samplePassengers() []*domain.Passenger {
	dep := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	return []*domain.Passenger{
		{
			ID: "p-1", FullName: "Ana Pérez", DocumentNumber: "X123", Nationality: "MX",
			DateOfBirth: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), FlightNumber: "AM401",
			DepartureDate: dep, Origin: "MEX", Destination: "MAD", SeatNumber: "12A",
			Status: domain.StatusBooked,
		},
		{
			ID: "p-2", FullName: "Doe, John", DocumentNumber: "Y987", Nationality: "US",
			FlightNumber: "AM401", DepartureDate: dep, Origin: "MEX", Destination: "MAD",
			Status: domain.StatusCheckedIn,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, samplePassengers()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "Full name" || len(records[0]) != len(Columns) {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][3] != "1990-05-17" || records[1][5] != "2026-11-02" {
		t.Errorf("unexpected dates: %v", records[1])
	}
	if records[2][0] != "Doe, John" || records[2][3] != "" {
		t.Errorf("quoted name or empty birth date mishandled: %v", records[2])
	}
}

func TestWriteCSV_EscapesFormulas(t *testing.T) {
	passengers := samplePassengers()
	passengers[0].FullName = "=HYPERLINK(\"http://evil\")"
	passengers[1].FullName = "@SUM(A1)"

	var buf bytes.Buffer
	if err := WriteCSV(&buf, passengers); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if got := records[1][0]; got != "'=HYPERLINK(\"http://evil\")" {
		t.Fatalf("formula not escaped: %q", got)
	}
	if got := records[2][0]; got != "'@SUM(A1)" {
		t.Fatalf("formula not escaped: %q", got)
	}
	if got := records[1][4]; got != "AM401" {
		t.Fatalf("plain cells must be untouched, got %q", got)
	}
}

func TestWriteCSV_EmptyManifest(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("expected header only, got %d lines", got)
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(&buf, "Manifest AM401", samplePassengers(), time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF document")
	}
}

func TestPDFWidthsMatchColumns(t *testing.T) {
	if len(pdfWidths) != len(Columns) {
		t.Fatalf("expected %d widths, got %d", len(Columns), len(pdfWidths))
	}
}
