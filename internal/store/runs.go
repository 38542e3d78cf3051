package store

import (
	"context"

	"github.com/propsight/propsight/internal/models"
)

func (s *Store) CreateIngestionRun(ctx context.Context, run *models.IngestionRun) error {
	return s.db.WithContext(ctx).Create(run).Error
}

// RecentIngestionRuns returns the newest audit rows first.
func (s *Store) RecentIngestionRuns(ctx context.Context, limit int) ([]models.IngestionRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var runs []models.IngestionRun
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
