package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/skymanifest/passenger-admin/internal/core/ports"
)

func TestPassengerFilter_Empty(t *testing.T) {
	assert.Empty(t, passengerFilter(ports.ListPassengersFilter{}))
}

func TestPassengerFilter_AllFields(t *testing.T) {
	from := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 11, 30, 23, 59, 59, 0, time.UTC)

	f := passengerFilter(ports.ListPassengersFilter{
		OwnerUserID:  "u1",
		Status:       "booked",
		FlightNumber: "AM401",
		Search:       "a.b",
		DateFrom:     from,
		DateTo:       to,
	})

	assert.Equal(t, "u1", f["owner_user_id"])
	assert.Equal(t, "booked", f["status"])
	assert.Equal(t, "AM401", f["flight_number"])
	assert.Equal(t, bson.M{"$gte": from, "$lte": to}, f["departure_date"])

	or, ok := f["$or"].(bson.A)
	if assert.True(t, ok) && assert.Len(t, or, 2) {
		assert.Equal(t, bson.M{"full_name": bson.M{"$regex": `a\.b`, "$options": "i"}}, or[0])
	}
}

func TestPageOptions(t *testing.T) {
	opts := pageOptions(3, 20)
	assert.Equal(t, int64(40), *opts.Skip)
	assert.Equal(t, int64(20), *opts.Limit)

	opts = pageOptions(0, 10)
	assert.Equal(t, int64(0), *opts.Skip)

	opts = pageOptions(2, 0)
	assert.Nil(t, opts.Limit)
}
