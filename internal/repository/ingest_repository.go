package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pzaman/portfolio-backend-go/internal/database"
	"github.com/pzaman/portfolio-backend-go/internal/models"
)

// TimestampLayout is how trip timestamps are stored.
const TimestampLayout = "2006-01-02 15:04:05"

// IngestRepository writes imported rows and batch records.
type IngestRepository struct {
	db *sql.DB
}

// NewIngestRepository creates a new ingest repository
func NewIngestRepository(db *sql.DB) *IngestRepository {
	return &IngestRepository{db: db}
}

// CreateBatch records the start of an import.
func (r *IngestRepository) CreateBatch(ctx context.Context, b *models.IngestBatch) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO ingest_batches (id, dataset, source) VALUES (?, ?, ?)`,
		b.ID, b.Dataset, b.Source)
	if err != nil {
		return fmt.Errorf("failed to insert batch: %w", err)
	}
	return nil
}

// FinishBatch stores the final row counts of an import.
func (r *IngestRepository) FinishBatch(ctx context.Context, b *models.IngestBatch) error {
	_, err := r.db.ExecContext(ctx, `UPDATE ingest_batches
		SET rows_read = ?, rows_inserted = ?, rows_skipped = ?
		WHERE id = ?`, b.RowsRead, b.RowsInserted, b.RowsSkipped, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}
	return nil
}

// ListBatches returns the most recent imports first.
func (r *IngestRepository) ListBatches(ctx context.Context, limit int) ([]models.IngestBatch, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, dataset, source, rows_read, rows_inserted, rows_skipped, created_at
		FROM ingest_batches
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	var batches []models.IngestBatch
	for rows.Next() {
		var b models.IngestBatch
		if err := rows.Scan(&b.ID, &b.Dataset, &b.Source, &b.RowsRead, &b.RowsInserted, &b.RowsSkipped, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

// InsertCharacteristics writes accidents in one transaction. Accidents already
// stored under the same num_acc are left untouched and not counted.
func (r *IngestRepository) InsertCharacteristics(ctx context.Context, batchID string, rows []models.AccidentCharacteristic) (int, error) {
	return insertAll(ctx, r.db, `INSERT OR IGNORE INTO accident_characteristics
		(num_acc, year, month, day, time_hhmm, hour, lighting, area_type, intersection,
		 weather, collision, department, latitude, longitude, batch_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, rows,
		func(c models.AccidentCharacteristic) []interface{} {
			return []interface{}{
				c.NumAcc, nullInt(c.Year), nullInt(c.Month), nullInt(c.Day), c.TimeHHMM, nullInt(c.Hour),
				nullInt(c.Lighting), nullInt(c.AreaType), nullInt(c.Intersection), nullInt(c.Weather),
				nullInt(c.Collision), c.Department, nullFloat(c.Latitude), nullFloat(c.Longitude), batchID,
			}
		})
}

// InsertUsers writes accident users in one transaction.
func (r *IngestRepository) InsertUsers(ctx context.Context, batchID string, rows []models.AccidentUser) (int, error) {
	return insertAll(ctx, r.db, `INSERT INTO accident_users
		(num_acc, seat, category, severity, gender, trip_purpose, birth_year, year, batch_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, rows,
		func(u models.AccidentUser) []interface{} {
			return []interface{}{
				u.NumAcc, nullInt(u.Seat), nullInt(u.Category), nullInt(u.Severity), nullInt(u.Gender),
				nullInt(u.TripPurpose), nullInt(u.BirthYear), nullInt(u.Year), batchID,
			}
		})
}

// InsertTaxiTrips writes cleaned trips in one transaction.
func (r *IngestRepository) InsertTaxiTrips(ctx context.Context, batchID string, rows []models.TaxiTrip) (int, error) {
	return insertAll(ctx, r.db, `INSERT INTO taxi_trips
		(vendor_id, pickup_at, dropoff_at, hour, duration_minutes, passenger_count, trip_distance,
		 pickup_lat, pickup_lng, dropoff_lat, dropoff_lng, payment_type,
		 fare_amount, tip_amount, total_amount, batch_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, rows,
		func(t models.TaxiTrip) []interface{} {
			return []interface{}{
				nullInt(t.VendorID), t.PickupAt.UTC().Format(TimestampLayout), t.DropoffAt.UTC().Format(TimestampLayout),
				t.Hour, t.DurationMinutes, t.PassengerCount, t.TripDistance,
				nullFloat(t.PickupLat), nullFloat(t.PickupLng), nullFloat(t.DropoffLat), nullFloat(t.DropoffLng),
				nullInt(t.PaymentType),
				t.FareAmount, t.TipAmount, t.TotalAmount, batchID,
			}
		})
}

func insertAll[T any](ctx context.Context, db *sql.DB, query string, rows []T, args func(T) []interface{}) (int, error) {
	inserted := 0
	err := database.WithTx(db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, row := range rows {
			res, err := stmt.ExecContext(ctx, args(row)...)
			if err != nil {
				return fmt.Errorf("failed to insert row: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
