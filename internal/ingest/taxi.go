package ingest

import (
	"fmt"
	"time"

	"github.com/pzaman/portfolio-backend-go/internal/models"
)

var taxiColumns = columns{
	"vendor_id":         {"vendorid", "vendor_id"},
	"pickup_at":         {"tpep_pickup_datetime", "pickup_datetime", "pickup_at"},
	"dropoff_at":        {"tpep_dropoff_datetime", "dropoff_datetime", "dropoff_at"},
	"passenger_count":   {"passenger_count"},
	"trip_distance":     {"trip_distance"},
	"pickup_latitude":   {"pickup_latitude", "pickup_lat"},
	"pickup_longitude":  {"pickup_longitude", "pickup_lng"},
	"dropoff_latitude":  {"dropoff_latitude", "dropoff_lat"},
	"dropoff_longitude": {"dropoff_longitude", "dropoff_lng"},
	"payment_type":      {"payment_type"},
	"fare_amount":       {"fare_amount"},
	"tip_amount":        {"tip_amount"},
	"total_amount":      {"total_amount"},
}

var taxiRequired = []string{"pickup_at", "dropoff_at", "passenger_count", "trip_distance", "fare_amount", "total_amount"}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 15:04",
}

func parseTimestamp(v string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", v)
}

func parseTaxiTrip(r record) (models.TaxiTrip, error) {
	var t models.TaxiTrip
	var err error

	if t.PickupAt, err = parseTimestamp(r.get("pickup_at")); err != nil {
		return t, err
	}
	if t.DropoffAt, err = parseTimestamp(r.get("dropoff_at")); err != nil {
		return t, err
	}

	passengers, err := r.intPtr("passenger_count")
	if err != nil {
		return t, err
	}
	if passengers != nil {
		t.PassengerCount = *passengers
	}

	if t.TripDistance, err = r.float("trip_distance"); err != nil {
		return t, err
	}
	if t.FareAmount, err = r.float("fare_amount"); err != nil {
		return t, err
	}
	if t.TotalAmount, err = r.float("total_amount"); err != nil {
		return t, err
	}
	if tip, err := r.floatPtr("tip_amount"); err != nil {
		return t, err
	} else if tip != nil {
		t.TipAmount = *tip
	}

	if t.VendorID, err = r.intPtr("vendor_id"); err != nil {
		return t, err
	}
	if t.PaymentType, err = r.intPtr("payment_type"); err != nil {
		return t, err
	}
	coords := []struct {
		field string
		dst   **float64
	}{
		{"pickup_latitude", &t.PickupLat},
		{"pickup_longitude", &t.PickupLng},
		{"dropoff_latitude", &t.DropoffLat},
		{"dropoff_longitude", &t.DropoffLng},
	}
	for _, c := range coords {
		if *c.dst, err = r.floatPtr(c.field); err != nil {
			return t, err
		}
	}

	t.Derive()
	return t, nil
}
