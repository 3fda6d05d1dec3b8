package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pzaman/portfolio-backend-go/internal/config"
	"github.com/pzaman/portfolio-backend-go/internal/models"
	"github.com/pzaman/portfolio-backend-go/internal/observability"
	"github.com/pzaman/portfolio-backend-go/internal/risk"
)

// RiskService answers the risk calculator. With caching enabled the seven
// frequency tables are loaded once and swapped atomically on Refresh; without it
// every request rebuilds them from the database.
type RiskService struct {
	data       risk.HistoricalData
	scorer     *risk.Scorer
	thresholds risk.Thresholds
	cache      bool
	metrics    *observability.Metrics

	mu       sync.RWMutex
	tables   risk.Tables
	loadedAt time.Time

	// loadMu serializes the first load so concurrent cold requests share it.
	loadMu sync.Mutex
}

// NewRiskService creates a risk service. metrics may be nil.
func NewRiskService(data risk.HistoricalData, cfg config.Scoring, metrics *observability.Metrics) (*RiskService, error) {
	scorer, err := risk.NewScorer(cfg.Weights, risk.WithNeutralScore(cfg.NeutralScore))
	if err != nil {
		return nil, err
	}
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, err
	}
	return &RiskService{
		data:       data,
		scorer:     scorer,
		thresholds: cfg.Thresholds,
		cache:      cfg.Cache,
		metrics:    metrics,
	}, nil
}

// Refresh reloads every frequency table. The previous tables stay in use until
// the new set is complete.
func (s *RiskService) Refresh(ctx context.Context) error {
	tables, err := s.load(ctx)
	if err != nil {
		s.countRefresh("failure")
		return err
	}

	s.mu.Lock()
	s.tables = tables
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.countRefresh("success")
	slog.Info("risk frequency tables refreshed", "attributes", len(tables))
	return nil
}

func (s *RiskService) countRefresh(result string) {
	if s.metrics != nil {
		s.metrics.CacheRefreshes.WithLabelValues(result).Inc()
	}
}

// LoadedAt returns when the cache was last filled; zero when it never was.
func (s *RiskService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *RiskService) load(ctx context.Context) (risk.Tables, error) {
	tables := make(risk.Tables, len(risk.Attributes))
	for _, a := range risk.Attributes {
		t, err := s.data.FrequencyTable(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("load %s frequencies: %w", a, err)
		}
		tables[a] = t
	}
	return tables, nil
}

// source returns the data to score from and whether it came from the cache.
func (s *RiskService) source(ctx context.Context) (risk.HistoricalData, bool, error) {
	if !s.cache {
		return s.data, false, nil
	}

	s.mu.RLock()
	tables := s.tables
	s.mu.RUnlock()
	if tables != nil {
		return tables, true, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	s.mu.RLock()
	tables = s.tables
	s.mu.RUnlock()
	if tables != nil {
		return tables, true, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tables, false, nil
}

func (s *RiskService) table(ctx context.Context, a risk.Attribute) (risk.FrequencyTable, error) {
	src, _, err := s.source(ctx)
	if err != nil {
		return nil, err
	}
	return src.FrequencyTable(ctx, a)
}

// Score computes the risk of q with display values.
func (s *RiskService) Score(ctx context.Context, q risk.Query) (*models.RiskAssessment, error) {
	src, cached, err := s.source(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.scorer.Score(ctx, q, src)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RiskScores.Observe(result.Total)
	}

	assessment := &models.RiskAssessment{
		Factors:      make([]models.RiskFactorView, len(result.Factors)),
		Total:        result.Total,
		TotalDisplay: s.thresholds.Present(result.Total),
		Cached:       cached,
	}
	for i, f := range result.Factors {
		assessment.Factors[i] = models.RiskFactorView{
			Factor:  f,
			Label:   f.Attribute.Label(),
			Display: s.thresholds.Present(f.Score),
		}
	}
	return assessment, nil
}

// Options lists the selectable values of every attribute, Any first.
func (s *RiskService) Options(ctx context.Context) (models.RiskOptions, error) {
	opts := make(models.RiskOptions, len(risk.Attributes))
	for _, a := range risk.Attributes {
		t, err := s.table(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("load %s frequencies: %w", a, err)
		}
		values := []models.RiskOption{{Value: risk.Any().String(), Label: risk.Any().String()}}
		for _, key := range orderedBuckets(a, t) {
			label := risk.BucketLabel(a, key)
			if (a == risk.AttrGender || a == risk.AttrUrbanRural) && label == key {
				continue // unlabelled survey code such as -1
			}
			values = append(values, models.RiskOption{Value: label, Label: label})
		}
		opts[a] = values
	}
	return opts, nil
}

// Distribution describes the historical distribution behind one attribute.
func (s *RiskService) Distribution(ctx context.Context, a risk.Attribute) (*models.RiskDistribution, error) {
	t, err := s.table(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("load %s frequencies: %w", a, err)
	}
	nf, err := risk.Normalize(t)
	if err != nil {
		return nil, fmt.Errorf("normalize %s frequencies: %w", a, err)
	}

	d := &models.RiskDistribution{
		Attribute: a,
		Total:     t.Total(),
		Mean:      nf.Mean(),
	}
	for _, key := range orderedBuckets(a, t) {
		label := risk.BucketLabel(a, key)
		f := s.scorer.ScoreFactor(a, risk.Specific(label), nf)
		d.Buckets = append(d.Buckets, models.BucketScore{
			Bucket: key,
			Label:  label,
			Count:  t[key],
			Share:  nf[key],
			Score:  f.Score,
		})
	}
	return d, nil
}

// orderedBuckets returns table keys in their natural display order.
func orderedBuckets(a risk.Attribute, t risk.FrequencyTable) []string {
	var order []string
	switch a {
	case risk.AttrAgeGroup:
		order = models.AgeGroupLabels()
	case risk.AttrWeather:
		order = models.OrderedLabels(models.WeatherLabels)
	case risk.AttrTripPurpose:
		order = models.OrderedLabels(models.TripPurposeLabels)
	}
	if order != nil {
		keys := make([]string, 0, len(t))
		for _, k := range order {
			if _, ok := t[k]; ok {
				keys = append(keys, k)
			}
		}
		return keys
	}

	keys := t.Buckets()
	if a == risk.AttrHour || a == risk.AttrGender || a == risk.AttrUrbanRural {
		sort.SliceStable(keys, func(i, j int) bool {
			x, errX := strconv.Atoi(keys[i])
			y, errY := strconv.Atoi(keys[j])
			if errX != nil || errY != nil {
				return keys[i] < keys[j]
			}
			return x < y
		})
	}
	return keys
}
