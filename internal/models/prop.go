package models

import (
	"fmt"
	"strconv"
	"time"
)

// PlayerProp is the canonical persisted form of a single player prop line
// offered by one sportsbook for one game. Exactly one row exists per
// conflict key at any time; the ingestion upsert engine is the only writer.
type PlayerProp struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	PlayerID    string    `gorm:"size:64;not null;index:idx_proplines_player" json:"player_id"`
	PlayerName  string    `gorm:"size:128;not null" json:"player_name"`
	Team        string    `gorm:"size:8;not null" json:"team"`
	Opponent    string    `gorm:"size:8;not null" json:"opponent"`
	Season      int       `gorm:"not null;index" json:"season"`
	Date        string    `gorm:"size:10;not null;index" json:"date"` // game date YYYY-MM-DD, not ingestion date
	PropType    string    `gorm:"size:64;not null;index:idx_proplines_player" json:"prop_type"`
	Line        float64   `gorm:"not null" json:"line"`
	OverOdds    *int      `json:"over_odds"`  // American odds, nullable
	UnderOdds   *int      `json:"under_odds"` // American odds, nullable
	Sportsbook  string    `gorm:"size:32;not null" json:"sportsbook"`
	League      string    `gorm:"size:16;not null;index" json:"league"`
	GameID      string    `gorm:"size:64" json:"game_id"`
	ConflictKey string    `gorm:"size:255;not null;uniqueIndex" json:"conflict_key"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
}

func (PlayerProp) TableName() string {
	return "proplines"
}

// BuildConflictKey derives the deterministic dedup key for a prop row.
// Two rows describing the same logical prop always produce the same key.
func BuildConflictKey(playerID, propType string, line float64, sportsbook, date string) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		playerID, propType, strconv.FormatFloat(line, 'f', -1, 64), sportsbook, date)
}

// SameOffer reports whether the mutable fields of an incoming row match the
// stored row, i.e. an upsert would be a no-op.
func (p *PlayerProp) SameOffer(other *PlayerProp) bool {
	return intPtrEqual(p.OverOdds, other.OverOdds) &&
		intPtrEqual(p.UnderOdds, other.UnderOdds) &&
		p.IsActive == other.IsActive
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
