package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/pzaman/portfolio-backend-go/internal/models"
	"github.com/pzaman/portfolio-backend-go/internal/repository"
	"github.com/pzaman/portfolio-backend-go/internal/spatial"
	"github.com/pzaman/portfolio-backend-go/internal/stats"
)

const (
	defaultDepartmentLimit = 10
	maxDepartmentLimit     = 200
	defaultCellLimit       = 500
)

var locationLabels = map[string]map[int]string{
	"area":         models.AreaLabels,
	"lighting":     models.LightingLabels,
	"intersection": models.IntersectionLabels,
}

// crosstabLabels maps a crosstab dimension to its code labels. Year has none and
// is shown as the number.
var crosstabLabels = map[string]map[int]string{
	"weather":      models.WeatherLabels,
	"severity":     models.SeverityLabels,
	"collision":    models.CollisionLabels,
	"gender":       models.GenderLabels,
	"trip_purpose": models.TripPurposeLabels,
	"position":     models.SeatLabels,
	"year":         nil,
}

// AccidentService handles the road-accident exploration endpoints
type AccidentService struct {
	repo *repository.AccidentRepository
}

// NewAccidentService creates a new accident service
func NewAccidentService(repo *repository.AccidentRepository) *AccidentService {
	return &AccidentService{repo: repo}
}

// GetOverview returns headline totals.
func (s *AccidentService) GetOverview(ctx context.Context) (*models.AccidentOverview, error) {
	o, err := s.repo.GetOverview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get accident overview: %w", err)
	}
	return o, nil
}

// GetTimeDistribution counts accidents per month, weekday, hour or month of year.
func (s *AccidentService) GetTimeDistribution(ctx context.Context, filter models.TimeFilter) ([]models.CategoryCount, error) {
	if filter.Dimension == "" {
		filter.Dimension = "month"
	}

	var label func(key string) string
	numeric := true
	switch filter.Dimension {
	case "month":
		label = func(k string) string {
			if m, err := strconv.Atoi(k); err == nil && m >= 1 && m <= 12 {
				return time.Month(m).String()
			}
			return k
		}
	case "weekday":
		label = func(k string) string {
			if d, err := strconv.Atoi(k); err == nil && d >= 0 && d < len(models.Weekdays) {
				return models.Weekdays[d]
			}
			return k
		}
	case "hour":
		label = func(k string) string { return k + ":00" }
	case "month_year":
		numeric = false
		label = func(k string) string { return k }
	default:
		return nil, fmt.Errorf("%w: time dimension %q", ErrInvalidDimension, filter.Dimension)
	}

	counts, err := s.repo.CountByTime(ctx, filter.Dimension, filter.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to get time distribution: %w", err)
	}
	sortKeyCounts(counts, numeric)
	return categoryCounts(counts, label), nil
}

// GetLocationDistribution counts accidents per department (top N), area type,
// lighting or intersection type.
func (s *AccidentService) GetLocationDistribution(ctx context.Context, filter models.LocationFilter) ([]models.CategoryCount, error) {
	if filter.Dimension == "" {
		filter.Dimension = "department"
	}

	limit := 0
	label := func(k string) string { return k }
	if filter.Dimension == "department" {
		limit = filter.Limit
		if limit == 0 {
			limit = defaultDepartmentLimit
		}
		if limit < 0 || limit > maxDepartmentLimit {
			return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidParameter, maxDepartmentLimit)
		}
	} else {
		labels, ok := locationLabels[filter.Dimension]
		if !ok {
			return nil, fmt.Errorf("%w: location dimension %q", ErrInvalidDimension, filter.Dimension)
		}
		label = codeLabel(labels)
	}

	counts, err := s.repo.CountByLocation(ctx, filter.Dimension, filter.Year, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get location distribution: %w", err)
	}
	return categoryCounts(counts, label), nil
}

// GetCrosstab builds a two-way table of accident users. Codes without a label
// are left out.
func (s *AccidentService) GetCrosstab(ctx context.Context, filter models.CrosstabFilter) (*stats.Crosstab, error) {
	rowLabels, ok := crosstabLabels[filter.Row]
	if !ok {
		return nil, fmt.Errorf("%w: crosstab row %q", ErrInvalidDimension, filter.Row)
	}
	colLabels, ok := crosstabLabels[filter.Col]
	if !ok {
		return nil, fmt.Errorf("%w: crosstab column %q", ErrInvalidDimension, filter.Col)
	}
	if filter.Row == filter.Col {
		return nil, fmt.Errorf("%w: row and column must differ", ErrInvalidDimension)
	}
	norm, err := parseNormalization(filter.Normalize)
	if err != nil {
		return nil, err
	}

	pairs, err := s.repo.CountPairs(ctx, filter.Row, filter.Col, filter.Year)
	if err != nil {
		return nil, fmt.Errorf("failed to get crosstab: %w", err)
	}

	b := stats.NewCrosstabBuilder()
	for _, p := range pairs {
		r, ok := crosstabLabel(rowLabels, p.Row)
		if !ok {
			continue
		}
		c, ok := crosstabLabel(colLabels, p.Col)
		if !ok {
			continue
		}
		b.Add(r, c, float64(p.Count))
	}
	ct := b.Build(models.OrderedLabels(rowLabels), models.OrderedLabels(colLabels), norm)
	return &ct, nil
}

// GetHotspots counts accidents per s2 cell.
func (s *AccidentService) GetHotspots(ctx context.Context, filter models.CellFilter) ([]models.CellCount, error) {
	agg, limit, err := newAggregator(filter)
	if err != nil {
		return nil, err
	}
	if err := s.repo.EachLocation(ctx, 0, func(lat, lng float64) { agg.Add(lat, lng, 0) }); err != nil {
		return nil, fmt.Errorf("failed to get hotspots: %w", err)
	}
	return agg.Cells(limit), nil
}

func newAggregator(filter models.CellFilter) (*spatial.CellAggregator, int, error) {
	level := filter.Level
	if level == 0 {
		level = spatial.DefaultLevel
	}
	agg, err := spatial.NewCellAggregator(level)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultCellLimit
	}
	return agg, limit, nil
}

func parseNormalization(v string) (stats.Normalization, error) {
	switch stats.Normalization(v) {
	case "", stats.NormalizeNone:
		return stats.NormalizeNone, nil
	case stats.NormalizeIndex, stats.NormalizeColumns, stats.NormalizeAll:
		return stats.Normalization(v), nil
	}
	return "", fmt.Errorf("%w: normalize %q", ErrInvalidParameter, v)
}

func crosstabLabel(labels map[int]string, code int) (string, bool) {
	if labels == nil {
		return strconv.Itoa(code), true
	}
	l, ok := labels[code]
	return l, ok
}

func codeLabel(labels map[int]string) func(string) string {
	return func(k string) string {
		if code, err := strconv.Atoi(k); err == nil {
			if l, ok := labels[code]; ok {
				return l
			}
		}
		return k
	}
}

func sortKeyCounts(counts []repository.KeyCount, numeric bool) {
	sort.SliceStable(counts, func(i, j int) bool {
		if numeric {
			x, errX := strconv.Atoi(counts[i].Key)
			y, errY := strconv.Atoi(counts[j].Key)
			if errX == nil && errY == nil {
				return x < y
			}
		}
		return counts[i].Key < counts[j].Key
	})
}

// categoryCounts labels counts and computes each share of the listed total.
func categoryCounts(counts []repository.KeyCount, label func(string) string) []models.CategoryCount {
	var total int64
	for _, c := range counts {
		total += c.Count
	}
	out := make([]models.CategoryCount, len(counts))
	for i, c := range counts {
		out[i] = models.CategoryCount{Key: c.Key, Label: label(c.Key), Count: c.Count}
		if total > 0 {
			out[i].Share = 100 * float64(c.Count) / float64(total)
		}
	}
	return out
}
