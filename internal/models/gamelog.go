package models

import "time"

// GameLog records a player's actual statistical output for one game and one
// stat category. Unique per (player_id, date, prop_type).
type GameLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	PlayerID   string    `gorm:"size:64;not null;uniqueIndex:idx_gamelogs_key,priority:1" json:"player_id"`
	PlayerName string    `gorm:"size:128;not null" json:"player_name"`
	Date       string    `gorm:"size:10;not null;uniqueIndex:idx_gamelogs_key,priority:2" json:"date"`
	PropType   string    `gorm:"size:64;not null;uniqueIndex:idx_gamelogs_key,priority:3" json:"prop_type"`
	Value      float64   `gorm:"not null" json:"value"`
	Season     int       `gorm:"not null;index" json:"season"`
	Team       string    `gorm:"size:8;not null" json:"team"`
	Opponent   string    `gorm:"size:8;not null" json:"opponent"`
	Position   string    `gorm:"size:8" json:"position"`
	League     string    `gorm:"size:16;not null;index" json:"league"`
	GameID     string    `gorm:"size:64" json:"game_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (GameLog) TableName() string {
	return "player_game_logs"
}
