package store

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/propsight/propsight/internal/models"
)

// FindPropsByConflictKeys loads existing rows for the given keys, keyed by
// conflict key. Missing keys are simply absent from the map.
func (s *Store) FindPropsByConflictKeys(ctx context.Context, keys []string) (map[string]*models.PlayerProp, error) {
	if len(keys) == 0 {
		return map[string]*models.PlayerProp{}, nil
	}
	var rows []models.PlayerProp
	if err := s.db.WithContext(ctx).
		Where("conflict_key IN ?", keys).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]*models.PlayerProp, len(rows))
	for i := range rows {
		out[rows[i].ConflictKey] = &rows[i]
	}
	return out, nil
}

// InsertProps inserts new rows, silently skipping any whose conflict key
// already exists. Insert-or-skip at the database level keeps concurrent
// ingestion runs from failing on the unique index.
func (s *Store) InsertProps(ctx context.Context, rows []*models.PlayerProp) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "conflict_key"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

// UpdatePropOffer overwrites only the mutable fields of an existing row.
// Identity fields never change after insert; a changed line is a new row by
// construction of the conflict key.
func (s *Store) UpdatePropOffer(ctx context.Context, id uint, row *models.PlayerProp) error {
	return s.db.WithContext(ctx).
		Model(&models.PlayerProp{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"over_odds":    row.OverOdds,
			"under_odds":   row.UnderOdds,
			"is_active":    row.IsActive,
			"last_updated": time.Now().UTC(),
		}).Error
}

// GetActiveProps returns active lines for a player and prop type, most
// recent game date first.
func (s *Store) GetActiveProps(ctx context.Context, playerID, propType string) ([]models.PlayerProp, error) {
	var rows []models.PlayerProp
	err := s.db.WithContext(ctx).
		Where("player_id = ? AND prop_type = ? AND is_active = ?", playerID, propType, true).
		Order("date DESC, sportsbook ASC").
		Find(&rows).Error
	return rows, err
}
