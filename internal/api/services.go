package api

import (
	"database/sql"
	"fmt"

	"github.com/pzaman/portfolio-backend-go/internal/config"
	"github.com/pzaman/portfolio-backend-go/internal/observability"
	"github.com/pzaman/portfolio-backend-go/internal/repository"
	"github.com/pzaman/portfolio-backend-go/internal/service"
)

// NewServices builds the repositories and services over db. metrics may be nil.
func NewServices(cfg *config.Config, db *sql.DB, metrics *observability.Metrics) (Services, error) {
	accidents := repository.NewAccidentRepository(db, cfg.Scoring.ReferenceYear())

	riskSvc, err := service.NewRiskService(accidents, cfg.Scoring, metrics)
	if err != nil {
		return Services{}, fmt.Errorf("risk service: %w", err)
	}
	profileSvc, err := service.NewProfileService(cfg.ProfilePath)
	if err != nil {
		return Services{}, fmt.Errorf("profile service: %w", err)
	}

	return Services{
		Risk:      riskSvc,
		Accidents: service.NewAccidentService(accidents),
		Trips:     service.NewTripService(repository.NewTripRepository(db)),
		Profile:   profileSvc,
		Ingest:    service.NewIngestService(repository.NewIngestRepository(db), riskSvc, metrics),
	}, nil
}
