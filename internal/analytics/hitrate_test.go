package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/propsight/propsight/internal/models"
)

func gamesFromValues(values []float64, line float64) []GamePoint {
	games := make([]GamePoint, len(values))
	for i, v := range values {
		games[i] = GamePoint{Date: "2025-10-01", Value: v, Line: line}
	}
	return games
}

func TestWindowRate(t *testing.T) {
	games := gamesFromValues([]float64{30, 25, 40, 20, 35}, 28)

	hits, total, pct := WindowRate(games, 5, models.DirectionOver)
	assert.Equal(t, 3, hits)
	assert.Equal(t, 5, total)
	assert.Equal(t, 60.0, pct)

	hits, total, pct = WindowRate(games, 5, models.DirectionUnder)
	assert.Equal(t, 2, hits)
	assert.Equal(t, 5, total)
	assert.Equal(t, 40.0, pct)

	// Window larger than history clamps to the full slice.
	hits, total, _ = WindowRate(games, 10, models.DirectionOver)
	assert.Equal(t, 3, hits)
	assert.Equal(t, 5, total)

	// n <= 0 means season-to-date.
	_, total, _ = WindowRate(games, 0, models.DirectionOver)
	assert.Equal(t, 5, total)
}

func TestWindowRateWindowsAreMostRecentFirst(t *testing.T) {
	// Most recent two games cleared the line, older three did not.
	games := gamesFromValues([]float64{30, 31, 10, 11, 12}, 28)

	hits, total, pct := WindowRate(games, 2, models.DirectionOver)
	assert.Equal(t, 2, hits)
	assert.Equal(t, 2, total)
	assert.Equal(t, 100.0, pct)

	_, _, seasonPct := WindowRate(games, 0, models.DirectionOver)
	assert.Equal(t, 40.0, seasonPct)
}

func TestWindowRatePushCountsAsMiss(t *testing.T) {
	games := gamesFromValues([]float64{28}, 28)
	overHits, _, _ := WindowRate(games, 1, models.DirectionOver)
	underHits, _, _ := WindowRate(games, 1, models.DirectionUnder)
	assert.Equal(t, 0, overHits)
	assert.Equal(t, 0, underHits)
}

func TestWindowRateRounding(t *testing.T) {
	games := gamesFromValues([]float64{30, 10, 10}, 28)
	_, _, pct := WindowRate(games, 3, models.DirectionOver)
	assert.Equal(t, 33.33, pct)
}

func TestWindowRateEmpty(t *testing.T) {
	hits, total, pct := WindowRate(nil, 5, models.DirectionOver)
	assert.Equal(t, 0, hits)
	assert.Equal(t, 0, total)
	assert.Equal(t, 0.0, pct)
}

func TestWindowAverage(t *testing.T) {
	games := gamesFromValues([]float64{30, 25, 40, 20, 35}, 28)
	assert.Equal(t, 30.0, WindowAverage(games, 5))
	assert.Equal(t, 27.5, WindowAverage(games, 2))
	assert.Equal(t, 30.0, WindowAverage(games, 0))
	assert.Equal(t, 0.0, WindowAverage(nil, 5))
}

func TestGamePointHonorsPerGameLine(t *testing.T) {
	// Line moved mid-season: each game evaluates against its own line.
	games := []GamePoint{
		{Value: 26, Line: 24.5},
		{Value: 26, Line: 27.5},
	}
	hits, total, _ := WindowRate(games, 0, models.DirectionOver)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, total)
}
