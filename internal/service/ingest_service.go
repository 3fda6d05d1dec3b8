package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/pzaman/portfolio-backend-go/internal/ingest"
	"github.com/pzaman/portfolio-backend-go/internal/models"
	"github.com/pzaman/portfolio-backend-go/internal/observability"
	"github.com/pzaman/portfolio-backend-go/internal/repository"
)

// IngestService imports CSV uploads and keeps the risk cache in step with the
// accident tables.
type IngestService struct {
	loader  *ingest.Loader
	batches *repository.IngestRepository
	risk    *RiskService
	metrics *observability.Metrics
}

// NewIngestService creates an ingest service. risk and metrics may be nil.
func NewIngestService(repo *repository.IngestRepository, risk *RiskService, metrics *observability.Metrics) *IngestService {
	return &IngestService{
		loader:  ingest.NewLoader(repo, slog.Default()),
		batches: repo,
		risk:    risk,
		metrics: metrics,
	}
}

// Import loads one CSV file. After an accident import the risk cache is rebuilt.
func (s *IngestService) Import(ctx context.Context, dataset, source string, r io.Reader) (*models.IngestBatch, error) {
	batch, err := s.loader.Load(ctx, dataset, source, r)
	if batch != nil && s.metrics != nil {
		s.metrics.IngestedRows.WithLabelValues(dataset, "inserted").Add(float64(batch.RowsInserted))
		s.metrics.IngestedRows.WithLabelValues(dataset, "skipped").Add(float64(batch.RowsSkipped))
	}
	if err != nil {
		return batch, err
	}

	if s.risk != nil && dataset != models.DatasetTaxiTrips && batch.RowsInserted > 0 {
		if err := s.risk.Refresh(ctx); err != nil {
			slog.Warn("risk cache refresh after ingest failed", "error", err)
		}
	}
	return batch, nil
}

// ListBatches returns recent imports, newest first.
func (s *IngestService) ListBatches(ctx context.Context, limit int) ([]models.IngestBatch, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.batches.ListBatches(ctx, limit)
}
