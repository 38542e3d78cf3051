package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/propsight/propsight/internal/ingest"
	"github.com/propsight/propsight/pkg/utils"
)

type IngestHandler struct {
	pipeline *ingest.Pipeline
	logger   *logrus.Logger
}

func NewIngestHandler(pipeline *ingest.Pipeline, logger *logrus.Logger) *IngestHandler {
	return &IngestHandler{pipeline: pipeline, logger: logger}
}

type ingestRequest struct {
	League string `json:"league"`
	Season string `json:"season"`
	Week   string `json:"week"`
}

// TriggerIngestion runs a full prop line ingestion pass synchronously and
// returns the per-league counts. An empty body ingests every configured
// league with the feed's current season.
func (h *IngestHandler) TriggerIngestion(c *gin.Context) {
	var req ingestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, "Invalid request body", err.Error())
			return
		}
	}

	opts := ingest.Options{
		Season:      strings.TrimSpace(req.Season),
		Week:        strings.TrimSpace(req.Week),
		TriggeredBy: "http",
	}
	if lg := strings.TrimSpace(req.League); lg != "" {
		opts.Leagues = []string{lg}
	}

	summary, err := h.pipeline.Run(c.Request.Context(), opts)
	if err != nil {
		h.logger.WithError(err).Error("Ingestion run failed")
		utils.SendError(c, http.StatusInternalServerError,
			utils.NewAppError(utils.ErrCodeIngestion, "Ingestion failed", err.Error()))
		return
	}
	utils.SendSuccess(c, summary)
}

// TriggerPerformanceIngestion pulls box score results from completed events
// into game logs.
func (h *IngestHandler) TriggerPerformanceIngestion(c *gin.Context) {
	var req ingestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, "Invalid request body", err.Error())
			return
		}
	}

	opts := ingest.Options{
		Season:      strings.TrimSpace(req.Season),
		Week:        strings.TrimSpace(req.Week),
		TriggeredBy: "http",
	}
	if lg := strings.TrimSpace(req.League); lg != "" {
		opts.Leagues = []string{lg}
	}

	count, err := h.pipeline.RunPerformance(c.Request.Context(), opts)
	if err != nil {
		h.logger.WithError(err).Error("Performance ingestion failed")
		utils.SendError(c, http.StatusInternalServerError,
			utils.NewAppError(utils.ErrCodeIngestion, "Performance ingestion failed", err.Error()))
		return
	}
	utils.SendSuccess(c, gin.H{"game_logs": count})
}

// Status is the liveness probe for the ingestion surface.
func (h *IngestHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
