package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/propsight/propsight/internal/models"
	"github.com/propsight/propsight/internal/store"
)

// Store is the slice of persistence the precompute engine needs.
type Store interface {
	DistinctPlayerPropPairs(ctx context.Context) ([]store.PlayerPropPair, error)
	JoinedGames(ctx context.Context, playerID, propType string, season int) ([]store.JoinedGame, error)
	UpsertAnalytics(ctx context.Context, rec *models.AnalyticsRecord) error
}

// PrecomputeResult counts what one precompute pass did.
type PrecomputeResult struct {
	Pairs      int   `json:"pairs"`
	Records    int   `json:"records"`
	Skipped    int   `json:"skipped"`
	Errors     int   `json:"errors"`
	DurationMs int64 `json:"duration_ms"`
}

// Engine derives analytics records from joined game history. One record per
// (player, prop type, line, direction); the line is the most recently offered
// one.
type Engine struct {
	store  Store
	logger *logrus.Logger
}

func NewEngine(store Store, logger *logrus.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Precompute rebuilds analytics for every (player, prop type, season) with
// usable game history; windows never cross a season boundary. Pair-level
// failures are counted and skipped; one bad player never aborts the pass.
func (e *Engine) Precompute(ctx context.Context) (*PrecomputeResult, error) {
	started := time.Now()

	pairs, err := e.store.DistinctPlayerPropPairs(ctx)
	if err != nil {
		return nil, err
	}

	result := &PrecomputeResult{Pairs: len(pairs)}
	for _, pair := range pairs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		n, err := e.precomputePair(ctx, pair)
		if err != nil {
			result.Errors++
			e.logger.WithError(err).WithFields(logrus.Fields{
				"player_id": pair.PlayerID,
				"prop_type": pair.PropType,
			}).Warn("Precompute failed for pair")
			continue
		}
		if n == 0 {
			result.Skipped++
			continue
		}
		result.Records += n
	}

	result.DurationMs = time.Since(started).Milliseconds()
	e.logger.WithFields(logrus.Fields{
		"pairs":       result.Pairs,
		"records":     result.Records,
		"skipped":     result.Skipped,
		"errors":      result.Errors,
		"duration_ms": result.DurationMs,
	}).Info("Analytics precompute complete")
	return result, nil
}

func (e *Engine) precomputePair(ctx context.Context, pair store.PlayerPropPair) (int, error) {
	joined, err := e.store.JoinedGames(ctx, pair.PlayerID, pair.PropType, pair.Season)
	if err != nil {
		return 0, err
	}
	if len(joined) == 0 {
		return 0, nil
	}

	games := make([]GamePoint, len(joined))
	for i, g := range joined {
		games[i] = GamePoint{Date: g.Date, Value: g.Value, Line: g.Line}
	}
	currentLine := games[0].Line

	written := 0
	for _, direction := range []string{models.DirectionOver, models.DirectionUnder} {
		rec := e.buildRecord(pair, games, currentLine, direction)
		if err := e.store.UpsertAnalytics(ctx, rec); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func (e *Engine) buildRecord(pair store.PlayerPropPair, games []GamePoint, line float64, direction string) *models.AnalyticsRecord {
	rec := &models.AnalyticsRecord{
		PlayerID:   pair.PlayerID,
		PlayerName: pair.PlayerName,
		PropType:   pair.PropType,
		Line:       line,
		Direction:  direction,
		League:     pair.League,
		Season:     pair.Season,
	}

	rec.SeasonHits, rec.SeasonTotal, rec.SeasonPct = WindowRate(games, 0, direction)
	rec.L20Hits, rec.L20Total, rec.L20Pct = WindowRate(games, 20, direction)
	rec.L10Hits, rec.L10Total, rec.L10Pct = WindowRate(games, 10, direction)
	rec.L5Hits, rec.L5Total, rec.L5Pct = WindowRate(games, 5, direction)

	streak := ComputeStreak(games, direction)
	rec.StreakCurrent = streak.Current
	rec.StreakLongest = streak.Longest
	rec.StreakDirection = streak.Direction

	rec.AvgValueL5 = WindowAverage(games, 5)
	rec.AvgValueL10 = WindowAverage(games, 10)
	rec.AvgValueSeason = WindowAverage(games, 0)
	rec.GamesWithLines = len(games)

	rec.ChartData = datatypes.JSON(chartJSON(games, direction))
	return rec
}

type chartPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
	Line  float64 `json:"line"`
	Hit   bool    `json:"hit"`
}

// chartJSON serializes the last 20 games oldest first for sparkline
// rendering.
func chartJSON(games []GamePoint, direction string) []byte {
	n := len(games)
	if n > 20 {
		n = 20
	}
	points := make([]chartPoint, n)
	for i := 0; i < n; i++ {
		g := games[n-1-i] // reverse into chronological order
		points[i] = chartPoint{Date: g.Date, Value: g.Value, Line: g.Line, Hit: g.Hit(direction)}
	}
	data, err := json.Marshal(points)
	if err != nil {
		return []byte("[]")
	}
	return data
}
