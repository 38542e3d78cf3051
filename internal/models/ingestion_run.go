package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// IngestionRun is the audit row written once per pipeline invocation, whether
// triggered over HTTP or by the nightly schedule.
type IngestionRun struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TriggeredBy string         `gorm:"size:32;not null" json:"triggered_by"` // "http" or "schedule"
	Leagues     pq.StringArray `gorm:"type:text[]" json:"leagues"`
	Season      string         `gorm:"size:8" json:"season"`
	Week        string         `gorm:"size:8" json:"week"`
	TotalProps  int            `gorm:"not null" json:"total_props"`
	Inserted    int            `gorm:"not null" json:"inserted"`
	Updated     int            `gorm:"not null" json:"updated"`
	Errors      int            `gorm:"not null" json:"errors"`
	DurationMs  int64          `gorm:"not null" json:"duration_ms"`
	StartedAt   time.Time      `gorm:"index" json:"started_at"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (IngestionRun) TableName() string {
	return "ingestion_runs"
}

func (r *IngestionRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
