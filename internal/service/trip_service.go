package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pzaman/portfolio-backend-go/internal/models"
	"github.com/pzaman/portfolio-backend-go/internal/repository"
	"github.com/pzaman/portfolio-backend-go/internal/stats"
)

const (
	defaultHistogramBins = 50
	maxHistogramBins     = 500
	defaultScatterLimit  = 1000
	maxScatterLimit      = 10000
)

// TripService handles the taxi-trip exploration endpoints
type TripService struct {
	repo *repository.TripRepository
}

// NewTripService creates a new trip service
func NewTripService(repo *repository.TripRepository) *TripService {
	return &TripService{repo: repo}
}

// GetOverview summarises duration, distance and total amount.
func (s *TripService) GetOverview(ctx context.Context) (*models.TripOverview, error) {
	totals, err := s.repo.GetTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip overview: %w", err)
	}
	cols, err := s.repo.Columns(ctx, []string{"duration", "trip_distance", "total_amount"})
	if err != nil {
		return nil, fmt.Errorf("failed to get trip overview: %w", err)
	}

	o := &models.TripOverview{
		Trips:       totals.Trips,
		Duration:    stats.Describe(cols["duration"]),
		Distance:    stats.Describe(cols["trip_distance"]),
		TotalAmount: stats.Describe(cols["total_amount"]),
		FirstPickup: totals.FirstPickup,
		LastPickup:  totals.LastPickup,
	}
	if totals.Trips > 0 {
		o.TipRate = 100 * float64(totals.Tipped) / float64(totals.Trips)
	}
	return o, nil
}

// GetHistogram bins a numeric column and marks its quartiles and mean.
func (s *TripService) GetHistogram(ctx context.Context, filter models.HistogramFilter) (*stats.Histogram, error) {
	if filter.Column == "" {
		filter.Column = "total_amount"
	}
	if filter.Bins == 0 {
		filter.Bins = defaultHistogramBins
	}
	if filter.Bins < 0 || filter.Bins > maxHistogramBins {
		return nil, fmt.Errorf("%w: bins must be between 1 and %d", ErrInvalidParameter, maxHistogramBins)
	}

	values, err := s.repo.Values(ctx, filter.Column)
	if err != nil {
		return nil, columnError(err)
	}
	h := stats.NewHistogram(values, filter.Bins)
	return &h, nil
}

// GetHourlyAverages returns per-hour averages.
func (s *TripService) GetHourlyAverages(ctx context.Context) ([]models.HourlyAverage, error) {
	hours, err := s.repo.GetHourlyAverages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get hourly averages: %w", err)
	}
	return hours, nil
}

// GetPassengerBreakdown returns tipping behaviour per passenger count.
func (s *TripService) GetPassengerBreakdown(ctx context.Context) ([]models.PassengerBreakdown, error) {
	out, err := s.repo.GetPassengerBreakdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get passenger breakdown: %w", err)
	}
	return out, nil
}

// GetCorrelation returns the Pearson matrix of the numeric columns.
func (s *TripService) GetCorrelation(ctx context.Context) (*stats.CorrelationMatrix, error) {
	cols, err := s.repo.Columns(ctx, repository.TripColumns)
	if err != nil {
		return nil, fmt.Errorf("failed to get correlation: %w", err)
	}
	series := make([][]float64, len(repository.TripColumns))
	for i, name := range repository.TripColumns {
		series[i] = cols[name]
	}
	m := stats.Correlate(repository.TripColumns, series)
	return &m, nil
}

// GetScatter samples (x, y) pairs of two numeric columns.
func (s *TripService) GetScatter(ctx context.Context, filter models.ScatterFilter) ([]models.ScatterPoint, error) {
	if filter.X == "" {
		filter.X = "trip_distance"
	}
	if filter.Y == "" {
		filter.Y = "total_amount"
	}
	if filter.Limit == 0 {
		filter.Limit = defaultScatterLimit
	}
	if filter.Limit < 0 || filter.Limit > maxScatterLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidParameter, maxScatterLimit)
	}

	points, err := s.repo.Sample(ctx, filter.X, filter.Y, filter.Limit)
	if err != nil {
		return nil, columnError(err)
	}
	return points, nil
}

// GetPickupCells averages the total amount per pickup s2 cell.
func (s *TripService) GetPickupCells(ctx context.Context, filter models.CellFilter) ([]models.CellCount, error) {
	agg, limit, err := newAggregator(filter)
	if err != nil {
		return nil, err
	}
	if err := s.repo.EachPickup(ctx, func(lat, lng, total float64) { agg.Add(lat, lng, total) }); err != nil {
		return nil, fmt.Errorf("failed to get pickup cells: %w", err)
	}
	return agg.Cells(limit), nil
}

func columnError(err error) error {
	if errors.Is(err, repository.ErrUnknownColumn) {
		return fmt.Errorf("%w: %v", ErrInvalidDimension, err)
	}
	return err
}
