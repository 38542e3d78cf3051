// Package store is the persistence layer. All database access goes through
// Store; engines depend on the narrow interfaces they declare, not on this
// package.
package store

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/propsight/propsight/internal/models"
	"github.com/propsight/propsight/pkg/database"
)

type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func New(db *database.DB, logger *logrus.Logger) *Store {
	return &Store{db: db.DB, logger: logger}
}

// AutoMigrate creates or updates the schema for every persisted model.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.PlayerProp{},
		&models.GameLog{},
		&models.AnalyticsRecord{},
		&models.IngestionRun{},
	)
}
