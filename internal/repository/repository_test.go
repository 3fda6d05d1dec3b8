package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzaman/portfolio-backend-go/internal/database"
	"github.com/pzaman/portfolio-backend-go/internal/models"
	"github.com/pzaman/portfolio-backend-go/internal/risk"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func seedAccidents(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	ingest := NewIngestRepository(db)
	batch := &models.IngestBatch{ID: "batch-1", Dataset: models.DatasetAccidentCharacteristics, Source: "test"}
	require.NoError(t, ingest.CreateBatch(ctx, batch))

	chars := []models.AccidentCharacteristic{
		{NumAcc: "A1", Year: intp(2022), Month: intp(1), Day: intp(3), TimeHHMM: "17:05", Hour: intp(17),
			AreaType: intp(2), Weather: intp(1), Lighting: intp(1), Collision: intp(3), Department: "75",
			Latitude: floatp(48.85), Longitude: floatp(2.35)},
		{NumAcc: "A2", Year: intp(2022), Month: intp(1), Day: intp(4), TimeHHMM: "17:40", Hour: intp(17),
			AreaType: intp(2), Weather: intp(2), Lighting: intp(5), Department: "75",
			Latitude: floatp(48.86), Longitude: floatp(2.34)},
		{NumAcc: "A3", Year: intp(2021), Month: intp(6), Day: intp(5), TimeHHMM: "08:10", Hour: intp(8),
			AreaType: intp(1), Weather: intp(-1), Department: "13"},
		{NumAcc: "A4", Year: intp(2021), Month: intp(6), Day: intp(6), TimeHHMM: "25:00",
			AreaType: intp(1), Weather: intp(1), Department: "13"},
	}
	n, err := ingest.InsertCharacteristics(ctx, batch.ID, chars)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	// duplicates are ignored
	n, err = ingest.InsertCharacteristics(ctx, batch.ID, chars[:1])
	require.NoError(t, err)
	require.Equal(t, 0, n)

	users := []models.AccidentUser{
		{NumAcc: "A1", Gender: intp(1), BirthYear: intp(1990), TripPurpose: intp(5), Severity: intp(2), Seat: intp(1)},
		{NumAcc: "A1", Gender: intp(2), BirthYear: intp(2015), TripPurpose: intp(5), Severity: intp(1), Seat: intp(2)},
		{NumAcc: "A2", Gender: intp(1), BirthYear: intp(1950), TripPurpose: intp(1), Severity: intp(3), Seat: intp(1)},
		{NumAcc: "A3", Gender: intp(-1), TripPurpose: intp(0), Severity: intp(4), Seat: intp(1)},
	}
	n, err = ingest.InsertUsers(ctx, batch.ID, users)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestFrequencyTables(t *testing.T) {
	db := newTestDB(t)
	seedAccidents(t, db)
	repo := NewAccidentRepository(db, 2022)
	ctx := context.Background()

	expected := map[risk.Attribute]risk.FrequencyTable{
		risk.AttrHour:        {"17": 2, "8": 1},
		risk.AttrGender:      {"1": 2, "2": 1, "-1": 1},
		risk.AttrDepartment:  {"75": 2, "13": 2},
		risk.AttrUrbanRural:  {"2": 2, "1": 2},
		risk.AttrWeather:     {"Normal": 2, "Light Rain": 1},
		risk.AttrTripPurpose: {"Leisure": 2, "Home to work": 1},
	}
	for attr, want := range expected {
		got, err := repo.FrequencyTable(ctx, attr)
		require.NoError(t, err, attr)
		assert.Equal(t, want, got, attr)
	}

	ages, err := repo.FrequencyTable(ctx, risk.AttrAgeGroup)
	require.NoError(t, err)
	assert.Len(t, ages, 9)
	assert.Equal(t, int64(1), ages["25-34"])
	assert.Equal(t, int64(1), ages["0-14"])
	assert.Equal(t, int64(1), ages["65-74"])
	assert.Equal(t, int64(0), ages["18-24"])
	assert.Equal(t, int64(3), ages.Total())
}

func TestRepositoryFeedsScorer(t *testing.T) {
	db := newTestDB(t)
	seedAccidents(t, db)
	scorer, err := risk.NewScorer(risk.DefaultWeights())
	require.NoError(t, err)

	q := risk.AnyQuery().With(risk.AttrHour, risk.Specific("17:00")).With(risk.AttrWeather, risk.Specific("Normal"))
	result, err := scorer.Score(context.Background(), q, NewAccidentRepository(db, 2022))
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Score(risk.AttrHour))
	assert.Equal(t, 1.0, result.Score(risk.AttrWeather))
	assert.Equal(t, risk.BasisAny, result.Factors[2].Basis)
}

func TestEmptyDatabaseHasInsufficientData(t *testing.T) {
	db := newTestDB(t)
	scorer, err := risk.NewScorer(risk.DefaultWeights())
	require.NoError(t, err)

	_, err = scorer.Score(context.Background(), risk.AnyQuery(), NewAccidentRepository(db, 2022))
	assert.ErrorIs(t, err, risk.ErrInsufficientData)
}

func TestAccidentExploration(t *testing.T) {
	db := newTestDB(t)
	seedAccidents(t, db)
	repo := NewAccidentRepository(db, 2022)
	ctx := context.Background()

	overview, err := repo.GetOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), overview.Accidents)
	assert.Equal(t, int64(4), overview.Users)
	assert.Equal(t, 2021, overview.FirstYear)
	assert.Equal(t, 2022, overview.LastYear)
	assert.Equal(t, int64(2), overview.Departments)
	assert.Equal(t, int64(1), overview.Killed)

	weekdays, err := repo.CountByTime(ctx, "weekday", 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []KeyCount{{"0", 1}, {"1", 1}, {"5", 1}, {"6", 1}}, weekdays)

	months, err := repo.CountByTime(ctx, "month_year", 2022)
	require.NoError(t, err)
	assert.Equal(t, []KeyCount{{"2022-01", 2}}, months)

	_, err = repo.CountByTime(ctx, "century", 0)
	assert.ErrorIs(t, err, ErrUnknownDimension)

	deps, err := repo.CountByLocation(ctx, "department", 0, 1)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "13", deps[0].Key)

	pairs, err := repo.CountPairs(ctx, "weather", "severity", 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []PairCount{{1, 2, 1}, {1, 1, 1}, {2, 3, 1}, {-1, 4, 1}}, pairs)

	var located int
	require.NoError(t, repo.EachLocation(ctx, 0, func(lat, lng float64) { located++ }))
	assert.Equal(t, 2, located)
}

func seedTrips(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	ingest := NewIngestRepository(db)
	batch := &models.IngestBatch{ID: "trips-1", Dataset: models.DatasetTaxiTrips, Source: "test"}
	require.NoError(t, ingest.CreateBatch(ctx, batch))

	start := time.Date(2015, 1, 15, 8, 0, 0, 0, time.UTC)
	trips := []models.TaxiTrip{
		{PickupAt: start, DropoffAt: start.Add(10 * time.Minute), PassengerCount: 1, TripDistance: 1,
			FareAmount: 8, TipAmount: 2, TotalAmount: 10, PickupLat: floatp(40.75), PickupLng: floatp(-73.99)},
		{PickupAt: start, DropoffAt: start.Add(20 * time.Minute), PassengerCount: 1, TripDistance: 2,
			FareAmount: 16, TipAmount: 0, TotalAmount: 20},
		{PickupAt: start.Add(9 * time.Hour), DropoffAt: start.Add(9*time.Hour + 30*time.Minute), PassengerCount: 2,
			TripDistance: 3, FareAmount: 24, TipAmount: 6, TotalAmount: 30, PickupLat: floatp(40.76), PickupLng: floatp(-73.98)},
	}
	for i := range trips {
		trips[i].Derive()
	}
	n, err := ingest.InsertTaxiTrips(ctx, batch.ID, trips)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	batch.RowsRead, batch.RowsInserted = 3, 3
	require.NoError(t, ingest.FinishBatch(ctx, batch))
}

func TestTripQueries(t *testing.T) {
	db := newTestDB(t)
	seedTrips(t, db)
	repo := NewTripRepository(db)
	ctx := context.Background()

	totals, err := repo.GetTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), totals.Trips)
	assert.Equal(t, int64(2), totals.Tipped)
	assert.Equal(t, "2015-01-15 08:00:00", totals.FirstPickup)

	durations, err := repo.Values(ctx, "duration")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, durations)

	cols, err := repo.Columns(ctx, []string{"trip_distance", "total_amount"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, cols["trip_distance"])
	assert.Equal(t, []float64{10, 20, 30}, cols["total_amount"])

	_, err = repo.Values(ctx, "vendor; DROP TABLE taxi_trips")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	hourly, err := repo.GetHourlyAverages(ctx)
	require.NoError(t, err)
	require.Len(t, hourly, 2)
	assert.Equal(t, 8, hourly[0].Hour)
	assert.Equal(t, int64(2), hourly[0].Trips)
	assert.InDelta(t, 15.0, hourly[0].Duration, 1e-9)

	passengers, err := repo.GetPassengerBreakdown(ctx)
	require.NoError(t, err)
	require.Len(t, passengers, 2)
	assert.InDelta(t, 50.0, passengers[0].TipRate, 1e-9)
	assert.InDelta(t, 15.0, passengers[0].AvgTotal, 1e-9)

	points, err := repo.Sample(ctx, "trip_distance", "total_amount", 2)
	require.NoError(t, err)
	assert.Len(t, points, 2)

	var pickups int
	require.NoError(t, repo.EachPickup(ctx, func(lat, lng, total float64) { pickups++ }))
	assert.Equal(t, 2, pickups)
}

func TestListBatches(t *testing.T) {
	db := newTestDB(t)
	seedTrips(t, db)

	batches, err := NewIngestRepository(db).ListBatches(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "trips-1", batches[0].ID)
	assert.Equal(t, 3, batches[0].RowsInserted)
	assert.NotEmpty(t, batches[0].CreatedAt)
}
