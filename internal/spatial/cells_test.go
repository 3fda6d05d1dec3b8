package spatial

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidLatLng(t *testing.T) {
	assert.True(t, ValidLatLng(48.8566, 2.3522))
	assert.False(t, ValidLatLng(0, 0))
	assert.False(t, ValidLatLng(91, 2))
	assert.False(t, ValidLatLng(45, -181))
	assert.False(t, ValidLatLng(math.NaN(), 2))
}

func TestNewCellAggregatorRejectsLevel(t *testing.T) {
	_, err := NewCellAggregator(0)
	assert.ErrorIs(t, err, ErrInvalidLevel)
	_, err = NewCellAggregator(MaxLevel + 1)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestCellAggregatorGroupsNearbyPoints(t *testing.T) {
	agg, err := NewCellAggregator(6)
	require.NoError(t, err)

	// three points around central Paris, one in Marseille
	assert.True(t, agg.Add(48.8566, 2.3522, 10))
	assert.True(t, agg.Add(48.8570, 2.3530, 20))
	assert.True(t, agg.Add(48.8560, 2.3515, 30))
	assert.True(t, agg.Add(43.2965, 5.3698, 7))
	assert.False(t, agg.Add(0, 0, 100))

	cells := agg.Cells(0)
	require.Len(t, cells, 2)
	assert.Equal(t, int64(3), cells[0].Count)
	assert.InDelta(t, 20.0, cells[0].Value, 1e-9)
	assert.InDelta(t, 48.85, cells[0].Latitude, 1.5)
	assert.InDelta(t, 2.35, cells[0].Longitude, 1.5)
	assert.Equal(t, 6, cells[0].Level)
	assert.NotEmpty(t, cells[0].CellID)
	assert.Equal(t, int64(1), cells[1].Count)

	assert.Len(t, agg.Cells(1), 1)
}

func TestCellIDLevel(t *testing.T) {
	id := CellID(40.7580, -73.9855, 13)
	assert.Equal(t, 13, id.Level())
	assert.True(t, id.IsValid())
}
