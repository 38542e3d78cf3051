package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/propsight/propsight/internal/analytics"
	"github.com/propsight/propsight/internal/ingest"
	"github.com/propsight/propsight/internal/providers"
	"github.com/propsight/propsight/internal/services"
	"github.com/propsight/propsight/internal/store"
	"github.com/propsight/propsight/pkg/config"
	"github.com/propsight/propsight/pkg/database"
)

type staticSource struct {
	events []providers.RawEvent
}

func (s *staticSource) FetchEvents(ctx context.Context, league, season, week string) ([]providers.RawEvent, error) {
	return s.events, nil
}

func (s *staticSource) FetchEventResults(ctx context.Context, league, season, week string) ([]providers.RawEvent, error) {
	return s.events, nil
}

func testRouter(t *testing.T, source ingest.EventSource) *gin.Engine {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	logger := logrus.New()
	db := &database.DB{DB: gdb}
	st := store.New(db, logger)
	require.NoError(t, st.AutoMigrate())

	cfg := &config.Config{
		Env:             "development",
		ActiveLeagues:   []string{"NFL"},
		UpsertBatchSize: 500,
	}
	cache := services.NewCacheService(nil, logger)
	engine := ingest.NewUpsertEngine(st, logger, cfg.UpsertBatchSize)
	pipeline := ingest.NewPipeline(source, engine, st, cfg, logger)
	analyticsEngine := analytics.NewEngine(st, logger)

	return NewRouter(cfg, db, st, pipeline, analyticsEngine, cache, logger)
}

func sampleEvent() providers.RawEvent {
	ev := providers.RawEvent{EventID: "evt-1", LeagueID: "NFL"}
	ev.Status.StartsAt = "2025-10-12T17:00:00Z"
	ev.Teams.Home.TeamID = "BUF"
	ev.Teams.Home.Names.Long = "Buffalo Bills"
	ev.Teams.Away.TeamID = "MIA"
	ev.Teams.Away.Names.Long = "Miami Dolphins"
	over := -110
	under := -105
	line := 249.5
	ev.Odds = map[string]providers.OddEntry{
		"passing_yards-JOSH_ALLEN_1_NFL-game-ou-over": {
			OddID:         "passing_yards-JOSH_ALLEN_1_NFL-game-ou-over",
			BookOverUnder: &line,
			BookOdds:      &over,
		},
		"passing_yards-JOSH_ALLEN_1_NFL-game-ou-under": {
			OddID:         "passing_yards-JOSH_ALLEN_1_NFL-game-ou-under",
			BookOverUnder: &line,
			BookOdds:      &under,
		},
	}
	return ev
}

func TestIngestLivenessEndpoint(t *testing.T) {
	router := testRouter(t, &staticSource{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ingest", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "running", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestTriggerIngestion(t *testing.T) {
	router := testRouter(t, &staticSource{events: []providers.RawEvent{sampleEvent()}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", strings.NewReader(`{"league":"NFL"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool           `json:"success"`
		Data    ingest.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Data.TotalProps)
	assert.Equal(t, 1, body.Data.Inserted)
}

func TestTriggerIngestionRejectsBadBody(t *testing.T) {
	router := testRouter(t, &staticSource{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", strings.NewReader(`{"league":`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t, &staticSource{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAnalyticsNotFound(t *testing.T) {
	router := testRouter(t, &staticSource{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/players/NOBODY_1_NFL?prop_type=Points", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
