package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/propsight/propsight/internal/analytics"
	"github.com/propsight/propsight/internal/api/handlers"
	"github.com/propsight/propsight/internal/api/middleware"
	"github.com/propsight/propsight/internal/ingest"
	"github.com/propsight/propsight/internal/services"
	"github.com/propsight/propsight/internal/store"
	"github.com/propsight/propsight/pkg/config"
	"github.com/propsight/propsight/pkg/database"
)

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(cfg *config.Config, db *database.DB, st *store.Store, pipeline *ingest.Pipeline, engine *analytics.Engine, cache *services.CacheService, logger *logrus.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/health", healthHandler.GetHealth)
	r.GET("/ready", healthHandler.GetReady)

	ingestHandler := handlers.NewIngestHandler(pipeline, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(engine, st, cache, logger)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/ingest", ingestHandler.TriggerIngestion)
		v1.GET("/ingest", ingestHandler.Status)
		v1.POST("/ingest/performance", ingestHandler.TriggerPerformanceIngestion)
		v1.GET("/ingest/runs", analyticsHandler.GetIngestionRuns)

		v1.POST("/analytics/precompute", analyticsHandler.Precompute)
		v1.GET("/analytics/players/:playerId", analyticsHandler.GetPlayerAnalytics)
		v1.GET("/analytics/top", analyticsHandler.GetTopPerformers)
		v1.GET("/props/players/:playerId", analyticsHandler.GetProps)
	}

	return r
}
