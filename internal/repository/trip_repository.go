package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pzaman/portfolio-backend-go/internal/models"
)

// ErrUnknownColumn is returned for a numeric column outside TripColumns.
var ErrUnknownColumn = errors.New("unknown trip column")

// TripColumns lists the numeric taxi-trip columns by API name.
var TripColumns = []string{"total_amount", "trip_distance", "duration", "passenger_count", "fare_amount", "tip_amount"}

var tripColumnSQL = map[string]string{
	"total_amount":    "total_amount",
	"trip_distance":   "trip_distance",
	"duration":        "duration_minutes",
	"passenger_count": "passenger_count",
	"fare_amount":     "fare_amount",
	"tip_amount":      "tip_amount",
}

func tripColumn(name string) (string, error) {
	col, ok := tripColumnSQL[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return col, nil
}

// TripRepository reads the cleaned taxi trips.
type TripRepository struct {
	db *sql.DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{db: db}
}

// TripTotals holds the scalar aggregates of GetTotals.
type TripTotals struct {
	Trips       int64
	Tipped      int64
	FirstPickup string
	LastPickup  string
}

// GetTotals counts trips and tipped trips and finds the pickup time span.
func (r *TripRepository) GetTotals(ctx context.Context) (*TripTotals, error) {
	t := &TripTotals{}
	var first, last sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN tip_amount > 0 THEN 1 ELSE 0 END), 0),
			MIN(pickup_at), MAX(pickup_at)
		FROM taxi_trips`).Scan(&t.Trips, &t.Tipped, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to count trips: %w", err)
	}
	t.FirstPickup = first.String
	t.LastPickup = last.String
	return t, nil
}

// Values returns every value of a numeric column.
func (r *TripRepository) Values(ctx context.Context, column string) ([]float64, error) {
	cols, err := r.Columns(ctx, []string{column})
	if err != nil {
		return nil, err
	}
	return cols[column], nil
}

// Columns returns aligned values of several numeric columns, one slice per name.
func (r *TripRepository) Columns(ctx context.Context, names []string) (map[string][]float64, error) {
	if len(names) == 0 {
		return map[string][]float64{}, nil
	}
	exprs := make([]string, len(names))
	for i, name := range names {
		col, err := tripColumn(name)
		if err != nil {
			return nil, err
		}
		exprs[i] = col
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+strings.Join(exprs, ", ")+` FROM taxi_trips ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trip columns: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]float64, len(names))
	values := make([]float64, len(names))
	dest := make([]interface{}, len(names))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan trip columns: %w", err)
		}
		for i, name := range names {
			out[name] = append(out[name], values[i])
		}
	}
	return out, rows.Err()
}

// GetHourlyAverages averages duration, distance and total per pickup hour.
func (r *TripRepository) GetHourlyAverages(ctx context.Context) ([]models.HourlyAverage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT hour, COUNT(*),
			AVG(duration_minutes), AVG(trip_distance), AVG(total_amount)
		FROM taxi_trips
		GROUP BY hour
		ORDER BY hour`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hourly averages: %w", err)
	}
	defer rows.Close()

	var hours []models.HourlyAverage
	for rows.Next() {
		var h models.HourlyAverage
		if err := rows.Scan(&h.Hour, &h.Trips, &h.Duration, &h.Distance, &h.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan hourly average: %w", err)
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

// GetPassengerBreakdown aggregates tipping and totals per passenger count.
func (r *TripRepository) GetPassengerBreakdown(ctx context.Context) ([]models.PassengerBreakdown, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT passenger_count, COUNT(*),
			100.0 * AVG(CASE WHEN tip_amount > 0 THEN 1.0 ELSE 0.0 END),
			AVG(tip_amount), AVG(total_amount)
		FROM taxi_trips
		GROUP BY passenger_count
		ORDER BY passenger_count`)
	if err != nil {
		return nil, fmt.Errorf("failed to query passenger breakdown: %w", err)
	}
	defer rows.Close()

	var out []models.PassengerBreakdown
	for rows.Next() {
		var p models.PassengerBreakdown
		if err := rows.Scan(&p.PassengerCount, &p.Trips, &p.TipRate, &p.AvgTip, &p.AvgTotal); err != nil {
			return nil, fmt.Errorf("failed to scan passenger breakdown: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Sample returns up to limit random (x, y) pairs.
func (r *TripRepository) Sample(ctx context.Context, x, y string, limit int) ([]models.ScatterPoint, error) {
	xc, err := tripColumn(x)
	if err != nil {
		return nil, err
	}
	yc, err := tripColumn(y)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+xc+`, `+yc+` FROM taxi_trips ORDER BY RANDOM() LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample trips: %w", err)
	}
	defer rows.Close()

	points := make([]models.ScatterPoint, 0, limit)
	for rows.Next() {
		var p models.ScatterPoint
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// EachPickup calls fn with the pickup position and total of every trip that has
// one. fn must not query the database.
func (r *TripRepository) EachPickup(ctx context.Context, fn func(lat, lng, total float64)) error {
	rows, err := r.db.QueryContext(ctx, `SELECT pickup_lat, pickup_lng, total_amount FROM taxi_trips
		WHERE pickup_lat IS NOT NULL AND pickup_lng IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("failed to query pickups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lat, lng, total float64
		if err := rows.Scan(&lat, &lng, &total); err != nil {
			return fmt.Errorf("failed to scan pickup: %w", err)
		}
		fn(lat, lng, total)
	}
	return rows.Err()
}
