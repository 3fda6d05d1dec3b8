package models

import (
	"math"
	"time"
)

// TaxiTrip is one yellow-cab trip record.
type TaxiTrip struct {
	ID              int64     `json:"id" db:"id"`
	VendorID        *int      `json:"vendor_id,omitempty" db:"vendor_id"`
	PickupAt        time.Time `json:"pickup_at" db:"pickup_at"`
	DropoffAt       time.Time `json:"dropoff_at" db:"dropoff_at"`
	Hour            int       `json:"hour" db:"hour"`                         // pickup hour
	DurationMinutes float64   `json:"duration_minutes" db:"duration_minutes"` // dropoff - pickup
	PassengerCount  int       `json:"passenger_count" db:"passenger_count"`
	TripDistance    float64   `json:"trip_distance" db:"trip_distance"` // miles
	PickupLat       *float64  `json:"pickup_lat,omitempty" db:"pickup_lat"`
	PickupLng       *float64  `json:"pickup_lng,omitempty" db:"pickup_lng"`
	DropoffLat      *float64  `json:"dropoff_lat,omitempty" db:"dropoff_lat"`
	DropoffLng      *float64  `json:"dropoff_lng,omitempty" db:"dropoff_lng"`
	PaymentType     *int      `json:"payment_type,omitempty" db:"payment_type"`
	FareAmount      float64   `json:"fare_amount" db:"fare_amount"`
	TipAmount       float64   `json:"tip_amount" db:"tip_amount"`
	TotalAmount     float64   `json:"total_amount" db:"total_amount"`
}

// Trip cleaning bounds.
const (
	MinTripMinutes       = 1.0
	MaxTripMinutes       = 244.0
	ShortTripMinutes     = 13.0
	ShortTripMaxTotal    = 90.0
	SentinelTripDistance = 99.9
)

// Derive fills Hour and DurationMinutes from the timestamps.
func (t *TaxiTrip) Derive() {
	t.Hour = t.PickupAt.Hour()
	t.DurationMinutes = t.DropoffAt.Sub(t.PickupAt).Minutes()
}

// Clean reports whether the trip survives the data-quality filters: a plausible
// duration, at least one passenger, a positive fare and distance, no sentinel
// distance, and no short trip with an outsized bill.
func (t *TaxiTrip) Clean() bool {
	switch {
	case t.DurationMinutes < MinTripMinutes || t.DurationMinutes > MaxTripMinutes:
		return false
	case t.PassengerCount <= 0:
		return false
	case t.FareAmount <= 0:
		return false
	case t.TripDistance <= 0:
		return false
	case math.Abs(t.TripDistance-SentinelTripDistance) < 1e-9:
		return false
	case t.DurationMinutes < ShortTripMinutes && t.TotalAmount > ShortTripMaxTotal:
		return false
	}
	return true
}
