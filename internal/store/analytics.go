package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/propsight/propsight/internal/models"
)

// UpsertAnalytics fully overwrites the record for its
// (player, prop type, line, direction) key. Precompute is the only writer so
// last write wins is the correct policy.
func (s *Store) UpsertAnalytics(ctx context.Context, rec *models.AnalyticsRecord) error {
	rec.LastComputedAt = time.Now().UTC()
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "player_id"}, {Name: "prop_type"}, {Name: "line"}, {Name: "direction"},
			},
			UpdateAll: true,
		}).
		Create(rec).Error
}

// GetPlayerAnalytics returns all precomputed records for one player and prop
// type, both directions, ordered by line.
func (s *Store) GetPlayerAnalytics(ctx context.Context, playerID, propType string) ([]models.AnalyticsRecord, error) {
	var recs []models.AnalyticsRecord
	err := s.db.WithContext(ctx).
		Where("player_id = ? AND prop_type = ?", playerID, propType).
		Order("line ASC, direction ASC").
		Find(&recs).Error
	return recs, err
}

// TopPerformers ranks precomputed records by L10 hit rate for one league,
// prop type and direction. Records with thin samples are excluded so a 2-for-2
// player does not outrank a 9-for-10 one.
func (s *Store) TopPerformers(ctx context.Context, league, propType, direction string, limit int) ([]models.AnalyticsRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	var recs []models.AnalyticsRecord
	q := s.db.WithContext(ctx).
		Where("prop_type = ? AND direction = ?", propType, direction).
		Where("l10_total >= ?", 5)
	if league != "" {
		q = q.Where("league = ?", league)
	}
	err := q.Order("l10_pct DESC, l10_total DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}
