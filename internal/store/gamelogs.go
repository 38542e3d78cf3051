package store

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/propsight/propsight/internal/models"
)

// UpsertGameLogs writes box score rows, overwriting the value when the same
// (player, date, stat) arrives again. Stat corrections from the feed simply
// replay through here.
func (s *Store) UpsertGameLogs(ctx context.Context, rows []*models.GameLog) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "player_id"}, {Name: "date"}, {Name: "prop_type"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"value", "team", "opponent", "season", "game_id", "updated_at",
			}),
		}).
		Create(&rows).Error
}

// PlayerPropPair identifies one analytics work unit.
type PlayerPropPair struct {
	PlayerID   string
	PlayerName string
	PropType   string
	League     string
	Season     int
}

// DistinctPlayerPropPairs lists every (player, prop type, season) with at
// least one usable game log row. Rows with a zero value are excluded; the
// feed uses zero for stats the player never recorded. Ordered oldest season
// first so, where analytics keys collide across seasons, the current season's
// record wins.
func (s *Store) DistinctPlayerPropPairs(ctx context.Context) ([]PlayerPropPair, error) {
	var pairs []PlayerPropPair
	err := s.db.WithContext(ctx).
		Model(&models.GameLog{}).
		Select("player_id, MAX(player_name) AS player_name, prop_type, MAX(league) AS league, season").
		Where("value IS NOT NULL AND value <> 0").
		Group("player_id, prop_type, season").
		Order("season ASC").
		Scan(&pairs).Error
	return pairs, err
}

// JoinedGame is one game where the player both has a recorded stat and had a
// line offered. The raw material for hit rates and streaks.
type JoinedGame struct {
	Date  string
	Value float64
	Line  float64
}

// JoinedGames returns game logs joined against prop lines for one player,
// prop type and season, most recent first. When several books offered
// different lines for the same game, the most recently updated one wins.
func (s *Store) JoinedGames(ctx context.Context, playerID, propType string, season int) ([]JoinedGame, error) {
	var games []JoinedGame
	err := s.db.WithContext(ctx).
		Table("player_game_logs AS g").
		Select("g.date, g.value, p.line").
		Joins("JOIN proplines p ON p.player_id = g.player_id AND p.prop_type = g.prop_type AND p.date = g.date").
		Where("g.player_id = ? AND g.prop_type = ? AND g.season = ?", playerID, propType, season).
		Where("p.id = (SELECT p2.id FROM proplines p2 WHERE p2.player_id = g.player_id AND p2.prop_type = g.prop_type AND p2.date = g.date ORDER BY p2.last_updated DESC LIMIT 1)").
		Order("g.date DESC").
		Scan(&games).Error
	return games, err
}
