package models

import (
	"time"

	"gorm.io/datatypes"
)

// PipelineRun records one pipeline invocation for observability.
type PipelineRun struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement"`
	RunID string `gorm:"type:varchar(36);not null;uniqueIndex"`

	StartedAt  time.Time  `gorm:"type:timestamptz;not null"`
	FinishedAt *time.Time `gorm:"type:timestamptz"`

	Processed  int `gorm:"not null"`
	Skipped    int `gorm:"not null"`
	Candidates int `gorm:"not null"`
	Trades     int `gorm:"not null"`

	Stats datatypes.JSON `gorm:"type:jsonb"`
}

func (PipelineRun) TableName() string {
	return "pipeline_runs"
}
