// Package spatial buckets coordinates into s2 cells for location heat maps.
package spatial

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/s2"

	"github.com/pzaman/portfolio-backend-go/internal/models"
)

// Supported cell levels. Level 10 cells are roughly 10 km across, level 13 about 1 km.
const (
	MinLevel     = 1
	MaxLevel     = 20
	DefaultLevel = 10
)

// ErrInvalidLevel is returned for a level outside [MinLevel, MaxLevel].
var ErrInvalidLevel = errors.New("invalid s2 cell level")

// ValidLatLng reports whether the coordinate is usable. (0, 0) is treated as a
// missing position.
func ValidLatLng(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	if lat == 0 && lng == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// CellID returns the cell containing the coordinate at level.
func CellID(lat, lng float64, level int) s2.CellID {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng)).Parent(level)
}

// CellAggregator counts points, and optionally sums a value, per cell.
type CellAggregator struct {
	level  int
	counts map[s2.CellID]int64
	sums   map[s2.CellID]float64
}

// NewCellAggregator creates an aggregator at level.
func NewCellAggregator(level int) (*CellAggregator, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidLevel, level, MinLevel, MaxLevel)
	}
	return &CellAggregator{
		level:  level,
		counts: make(map[s2.CellID]int64),
		sums:   make(map[s2.CellID]float64),
	}, nil
}

// Add records a point carrying value. Invalid coordinates are ignored.
func (a *CellAggregator) Add(lat, lng, value float64) bool {
	if !ValidLatLng(lat, lng) {
		return false
	}
	id := CellID(lat, lng, a.level)
	a.counts[id]++
	a.sums[id] += value
	return true
}

// Len returns the number of non-empty cells.
func (a *CellAggregator) Len() int { return len(a.counts) }

// Cells returns the non-empty cells, busiest first. Value holds the mean of the
// added values. limit <= 0 returns every cell.
func (a *CellAggregator) Cells(limit int) []models.CellCount {
	cells := make([]models.CellCount, 0, len(a.counts))
	for id, n := range a.counts {
		center := id.LatLng()
		cells = append(cells, models.CellCount{
			CellID:    id.ToToken(),
			Level:     a.level,
			Latitude:  center.Lat.Degrees(),
			Longitude: center.Lng.Degrees(),
			Count:     n,
			Value:     a.sums[id] / float64(n),
		})
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Count != cells[j].Count {
			return cells[i].Count > cells[j].Count
		}
		return cells[i].CellID < cells[j].CellID
	})
	if limit > 0 && len(cells) > limit {
		cells = cells[:limit]
	}
	return cells
}
