package models

import (
	"time"

	"gorm.io/datatypes"
)

// Direction of a prop evaluation.
const (
	DirectionOver  = "over"
	DirectionUnder = "under"
)

// AnalyticsRecord holds precomputed rolling-window hit rates and streaks for
// one (player, prop type, line, direction) combination. Always derived from
// player_game_logs joined against proplines; fully overwritten on each
// precompute run, never hand-edited.
type AnalyticsRecord struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	PlayerID   string  `gorm:"size:64;not null;uniqueIndex:idx_analytics_key,priority:1" json:"player_id"`
	PlayerName string  `gorm:"size:128;not null" json:"player_name"`
	PropType   string  `gorm:"size:64;not null;uniqueIndex:idx_analytics_key,priority:2" json:"prop_type"`
	Line       float64 `gorm:"not null;uniqueIndex:idx_analytics_key,priority:3" json:"line"`
	Direction  string  `gorm:"size:8;not null;uniqueIndex:idx_analytics_key,priority:4" json:"direction"`

	SeasonHits  int     `gorm:"not null" json:"season_hits"`
	SeasonTotal int     `gorm:"not null" json:"season_total"`
	SeasonPct   float64 `gorm:"not null" json:"season_pct"`
	L20Hits     int     `gorm:"not null" json:"l20_hits"`
	L20Total    int     `gorm:"not null" json:"l20_total"`
	L20Pct      float64 `gorm:"not null" json:"l20_pct"`
	L10Hits     int     `gorm:"not null" json:"l10_hits"`
	L10Total    int     `gorm:"not null" json:"l10_total"`
	L10Pct      float64 `gorm:"not null" json:"l10_pct"`
	L5Hits      int     `gorm:"not null" json:"l5_hits"`
	L5Total     int     `gorm:"not null" json:"l5_total"`
	L5Pct       float64 `gorm:"not null" json:"l5_pct"`

	StreakCurrent   int    `gorm:"not null" json:"streak_current"`
	StreakLongest   int    `gorm:"not null" json:"streak_longest"`
	StreakDirection string `gorm:"size:8" json:"streak_direction"`

	AvgValueL5     float64 `json:"avg_value_l5"`
	AvgValueL10    float64 `json:"avg_value_l10"`
	AvgValueSeason float64 `json:"avg_value_season"`

	// Last 20 joined games for sparkline rendering: [{date, value, line, hit}].
	ChartData datatypes.JSON `json:"chart_data"`

	GamesWithLines int       `gorm:"not null" json:"games_with_lines"`
	Season         int       `gorm:"not null;index" json:"season"`
	League         string    `gorm:"size:16" json:"league"`
	LastComputedAt time.Time `json:"last_computed_at"`
}

func (AnalyticsRecord) TableName() string {
	return "player_analytics"
}
