package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzaman/portfolio-backend-go/internal/models"
)

type memoryStore struct {
	batches         map[string]*models.IngestBatch
	finished        int
	characteristics []models.AccidentCharacteristic
	users           []models.AccidentUser
	trips           []models.TaxiTrip
	inserts         int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{batches: make(map[string]*models.IngestBatch)}
}

func (m *memoryStore) CreateBatch(_ context.Context, b *models.IngestBatch) error {
	m.batches[b.ID] = b
	return nil
}

func (m *memoryStore) FinishBatch(_ context.Context, _ *models.IngestBatch) error {
	m.finished++
	return nil
}

func (m *memoryStore) InsertCharacteristics(_ context.Context, _ string, rows []models.AccidentCharacteristic) (int, error) {
	m.inserts++
	m.characteristics = append(m.characteristics, rows...)
	return len(rows), nil
}

func (m *memoryStore) InsertUsers(_ context.Context, _ string, rows []models.AccidentUser) (int, error) {
	m.inserts++
	m.users = append(m.users, rows...)
	return len(rows), nil
}

func (m *memoryStore) InsertTaxiTrips(_ context.Context, _ string, rows []models.TaxiTrip) (int, error) {
	m.inserts++
	m.trips = append(m.trips, rows...)
	return len(rows), nil
}

func TestParseHour(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"17:30", 17, true},
		{"07:05", 7, true},
		{"0:15", 0, true},
		{"1730", 17, true},
		{"930", 9, true},
		{"5", 5, true},
		{"24:00", 0, false},
		{"99:99", 0, false},
		{"", 0, false},
		{"noon", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseHour(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', detectDelimiter("Num_Acc;jour;mois\n1;2;3"))
	assert.Equal(t, ',', detectDelimiter("a,b,c\n1;2,3"))
}

func TestLoadCharacteristicsFrenchHeader(t *testing.T) {
	input := "\ufeff\"Num_Acc\";\"jour\";\"mois\";\"an\";\"hrmn\";\"lum\";\"dep\";\"agg\";\"int\";\"atm\";\"col\";\"lat\";\"long\"\n" +
		"\"202200000001\";\"19\";\"10\";\"2022\";\"16:15\";\"1\";\"26\";\"1\";\"3\";\"1\";\"3\";\"44,5594\";\"4,7257\"\n" +
		"\"202200000002\";\"20\";\"10\";\"2022\";\"08:34\";\"1\";\"2a\";\"2\";\"6\";\"2\";\"6\";\"41,9270\";\"8,7359\"\n" +
		"\"\";\"20\";\"10\";\"2022\";\"08:34\";\"1\";\"75\";\"2\";\"6\";\"2\";\"6\";\"\";\"\"\n" +
		"\"202200000003\";\"x\";\"10\";\"2022\";\"08:34\";\"1\";\"75\";\"2\";\"6\";\"2\";\"6\";\"\";\"\"\n"

	store := newMemoryStore()
	batch, err := NewLoader(store, nil).Load(context.Background(), models.DatasetAccidentCharacteristics, "caract-2022.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 4, batch.RowsRead)
	assert.Equal(t, 2, batch.RowsInserted)
	assert.Equal(t, 2, batch.RowsSkipped)
	assert.Equal(t, 1, store.finished)
	assert.Contains(t, store.batches, batch.ID)

	require.Len(t, store.characteristics, 2)
	c := store.characteristics[0]
	assert.Equal(t, "202200000001", c.NumAcc)
	require.NotNil(t, c.Hour)
	assert.Equal(t, 16, *c.Hour)
	assert.Equal(t, 2022, *c.Year)
	assert.Equal(t, "26", c.Department)
	require.NotNil(t, c.Latitude)
	assert.InDelta(t, 44.5594, *c.Latitude, 1e-9)
	assert.Equal(t, "2A", store.characteristics[1].Department)
}

func TestLoadUsersEnglishHeaderAndBatching(t *testing.T) {
	var b strings.Builder
	b.WriteString("accident_id,seat,category,severity,gender,trip_purpose,birth_year,year\n")
	for i := 0; i < 5; i++ {
		b.WriteString("2022001,1,1,3,2,5,1990.0,2022\n")
	}

	store := newMemoryStore()
	batch, err := NewLoader(store, nil).WithBatchSize(2).Load(context.Background(), models.DatasetAccidentUsers, "users.csv", strings.NewReader(b.String()))
	require.NoError(t, err)

	assert.Equal(t, 5, batch.RowsInserted)
	assert.Equal(t, 3, store.inserts)
	require.NotNil(t, store.users[0].BirthYear)
	assert.Equal(t, 1990, *store.users[0].BirthYear)
	assert.Equal(t, 2, *store.users[0].Gender)
}

func TestLoadTaxiTripsCleans(t *testing.T) {
	input := `VendorID,tpep_pickup_datetime,tpep_dropoff_datetime,passenger_count,trip_distance,pickup_longitude,pickup_latitude,payment_type,fare_amount,tip_amount,total_amount
2,2015-01-15 19:05:39,2015-01-15 19:23:42,1,1.59,-73.993896,40.750111,1,12,3.25,17.05
1,2015-01-10 20:33:38,2015-01-10 20:53:28,0,3.30,-74.001648,40.724243,1,14.5,2,17.8
1,2015-01-10 20:33:38,2015-01-10 20:33:50,1,0.1,-74.001648,40.724243,2,2.5,0,3.3
1,2015-01-10 20:33:38,2015-01-10 20:43:38,1,2,-74.001648,40.724243,1,10,0,120
2,not-a-date,2015-01-15 19:23:42,1,1.59,,,1,12,3.25,17.05
`
	store := newMemoryStore()
	batch, err := NewLoader(store, nil).Load(context.Background(), models.DatasetTaxiTrips, "yellow.csv", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 5, batch.RowsRead)
	assert.Equal(t, 1, batch.RowsInserted)
	assert.Equal(t, 4, batch.RowsSkipped)

	trip := store.trips[0]
	assert.Equal(t, 19, trip.Hour)
	assert.InDelta(t, 18.05, trip.DurationMinutes, 1e-9)
	assert.Equal(t, 3.25, trip.TipAmount)
	require.NotNil(t, trip.PickupLat)
	assert.InDelta(t, 40.750111, *trip.PickupLat, 1e-9)
}

func TestLoadRejectsMissingColumnsAndUnknownDataset(t *testing.T) {
	store := newMemoryStore()
	_, err := NewLoader(store, nil).Load(context.Background(), models.DatasetTaxiTrips, "bad.csv", strings.NewReader("a,b\n1,2\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = NewLoader(store, nil).Load(context.Background(), "weather", "x.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnknownDataset)
}
