package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/propsight/propsight/internal/analytics"
	"github.com/propsight/propsight/internal/models"
	"github.com/propsight/propsight/internal/services"
	"github.com/propsight/propsight/internal/store"
	"github.com/propsight/propsight/pkg/utils"
)

type AnalyticsHandler struct {
	engine *analytics.Engine
	store  *store.Store
	cache  *services.CacheService
	logger *logrus.Logger
}

func NewAnalyticsHandler(engine *analytics.Engine, st *store.Store, cache *services.CacheService, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{engine: engine, store: st, cache: cache, logger: logger}
}

// Precompute rebuilds every analytics record from current game logs and prop
// lines. Synchronous; the nightly scheduler calls the same code path.
func (h *AnalyticsHandler) Precompute(c *gin.Context) {
	result, err := h.engine.Precompute(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Precompute failed")
		utils.SendError(c, http.StatusInternalServerError,
			utils.NewAppError(utils.ErrCodePrecompute, "Precompute failed", err.Error()))
		return
	}
	utils.SendSuccess(c, result)
}

// GetPlayerAnalytics returns precomputed records for one player and prop
// type, served from cache when warm.
func (h *AnalyticsHandler) GetPlayerAnalytics(c *gin.Context) {
	playerID := c.Param("playerId")
	propType := c.Query("prop_type")
	if propType == "" {
		utils.SendValidationError(c, "prop_type query parameter is required", "")
		return
	}

	ctx := c.Request.Context()
	cacheKey := services.AnalyticsCacheKey(playerID, propType)
	var cached []models.AnalyticsRecord
	if h.cache.Get(ctx, cacheKey, &cached) {
		utils.SendSuccess(c, cached)
		return
	}

	recs, err := h.store.GetPlayerAnalytics(ctx, playerID, propType)
	if err != nil {
		utils.SendInternalError(c, "Failed to load analytics")
		return
	}
	if len(recs) == 0 {
		utils.SendNotFound(c, "No analytics for player and prop type")
		return
	}
	if err := h.cache.Set(ctx, cacheKey, recs, 0); err != nil {
		h.logger.WithError(err).Debug("Failed to cache analytics")
	}
	utils.SendSuccess(c, recs)
}

// GetTopPerformers ranks players by recent hit rate for a prop type and
// direction.
func (h *AnalyticsHandler) GetTopPerformers(c *gin.Context) {
	propType := c.Query("prop_type")
	if propType == "" {
		utils.SendValidationError(c, "prop_type query parameter is required", "")
		return
	}
	direction := c.DefaultQuery("direction", models.DirectionOver)
	if direction != models.DirectionOver && direction != models.DirectionUnder {
		utils.SendValidationError(c, "direction must be over or under", "")
		return
	}
	league := c.Query("league")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	recs, err := h.store.TopPerformers(c.Request.Context(), league, propType, direction, limit)
	if err != nil {
		utils.SendInternalError(c, "Failed to load top performers")
		return
	}
	utils.SendSuccess(c, recs)
}

// GetProps returns the active lines for one player and prop type.
func (h *AnalyticsHandler) GetProps(c *gin.Context) {
	playerID := c.Param("playerId")
	propType := c.Query("prop_type")
	if propType == "" {
		utils.SendValidationError(c, "prop_type query parameter is required", "")
		return
	}

	props, err := h.store.GetActiveProps(c.Request.Context(), playerID, propType)
	if err != nil {
		utils.SendInternalError(c, "Failed to load props")
		return
	}
	utils.SendSuccess(c, props)
}

// GetIngestionRuns exposes the ingestion audit trail.
func (h *AnalyticsHandler) GetIngestionRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.store.RecentIngestionRuns(c.Request.Context(), limit)
	if err != nil {
		utils.SendInternalError(c, "Failed to load ingestion runs")
		return
	}
	utils.SendSuccess(c, runs)
}
