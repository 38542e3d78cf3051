// Package analytics computes rolling hit rates, streaks and averages from
// game logs joined against prop lines. The math lives in pure functions; the
// engine wires them to storage.
package analytics

import (
	"math"

	"github.com/propsight/propsight/internal/models"
)

// GamePoint is one joined game, ordered most recent first everywhere in this
// package. Each game carries the line that was offered for it, so hit
// evaluation survives mid-season line moves.
type GamePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
	Line  float64 `json:"line"`
}

// Hit reports whether the game cleared its line in the given direction.
// Landing exactly on the line is a push and counts as a miss both ways.
func (g GamePoint) Hit(direction string) bool {
	if direction == models.DirectionUnder {
		return g.Value < g.Line
	}
	return g.Value > g.Line
}

// WindowRate counts hits over the most recent n games. n <= 0 means the full
// slice. Pct is 0 when the window is empty.
func WindowRate(games []GamePoint, n int, direction string) (hits, total int, pct float64) {
	if n <= 0 || n > len(games) {
		n = len(games)
	}
	for _, g := range games[:n] {
		if g.Hit(direction) {
			hits++
		}
	}
	total = n
	if total > 0 {
		pct = round2(float64(hits) / float64(total) * 100)
	}
	return hits, total, pct
}

// WindowAverage is the mean stat value over the most recent n games, or the
// full slice when n <= 0.
func WindowAverage(games []GamePoint, n int) float64 {
	if len(games) == 0 {
		return 0
	}
	if n <= 0 || n > len(games) {
		n = len(games)
	}
	var sum float64
	for _, g := range games[:n] {
		sum += g.Value
	}
	return round2(sum / float64(n))
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
