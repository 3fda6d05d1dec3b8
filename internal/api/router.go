package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pzaman/portfolio-backend-go/internal/config"
	"github.com/pzaman/portfolio-backend-go/internal/handler"
	"github.com/pzaman/portfolio-backend-go/internal/middleware"
	"github.com/pzaman/portfolio-backend-go/internal/observability"
	"github.com/pzaman/portfolio-backend-go/internal/service"
)

// Services bundles everything the router serves.
type Services struct {
	Risk      *service.RiskService
	Accidents *service.AccidentService
	Trips     *service.TripService
	Profile   *service.ProfileService
	Ingest    *service.IngestService
}

// SetupRouter wires middleware and routes. limiter may be nil to disable rate
// limiting.
func SetupRouter(cfg *config.Config, svc Services, metrics *observability.Metrics, limiter *middleware.RateLimiter, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		body := gin.H{
			"status":  "ok",
			"message": "Portfolio Backend API is running",
		}
		if loaded := svc.Risk.LoadedAt(); !loaded.IsZero() {
			body["risk_tables_loaded_at"] = loaded.Format(time.RFC3339)
		}
		c.JSON(http.StatusOK, body)
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	riskHandler := handler.NewRiskHandler(svc.Risk)
	accidentHandler := handler.NewAccidentHandler(svc.Accidents)
	tripHandler := handler.NewTripHandler(svc.Trips)
	profileHandler := handler.NewProfileHandler(svc.Profile)
	adminHandler := handler.NewAdminHandler(svc.Risk, svc.Ingest, cfg.MaxUploadBytes)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(limiter))
	{
		profile := api.Group("/profile")
		{
			profile.GET("", profileHandler.GetProfile)
			profile.GET("/timeline", profileHandler.GetTimeline)
		}

		risk := api.Group("/risk")
		{
			risk.GET("/options", riskHandler.GetOptions)
			risk.GET("/score", riskHandler.GetScore)
			risk.POST("/score", riskHandler.PostScore)
			risk.GET("/distribution/:attribute", riskHandler.GetDistribution)
		}

		accidents := api.Group("/accidents")
		{
			accidents.GET("/overview", accidentHandler.GetOverview)
			accidents.GET("/time", accidentHandler.GetTimeDistribution)
			accidents.GET("/location", accidentHandler.GetLocationDistribution)
			accidents.GET("/crosstab", accidentHandler.GetCrosstab)
			accidents.GET("/hotspots", accidentHandler.GetHotspots)
		}

		trips := api.Group("/trips")
		{
			trips.GET("/overview", tripHandler.GetOverview)
			trips.GET("/histogram", tripHandler.GetHistogram)
			trips.GET("/hourly", tripHandler.GetHourlyAverages)
			trips.GET("/passengers", tripHandler.GetPassengerBreakdown)
			trips.GET("/correlation", tripHandler.GetCorrelation)
			trips.GET("/scatter", tripHandler.GetScatter)
			trips.GET("/pickup-cells", tripHandler.GetPickupCells)
		}

		admin := api.Group("/admin", middleware.RequireAdmin(cfg.JWTSecret))
		{
			admin.POST("/risk/refresh", adminHandler.RefreshRisk)
			admin.POST("/ingest/:dataset", adminHandler.Ingest)
			admin.GET("/ingest/batches", adminHandler.ListBatches)
		}
	}

	return r
}
