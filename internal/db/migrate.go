package db

import (
	"ashare/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Instrument{},
		&models.DailyBar{},
		&models.CorporateAction{},
		&models.Candidate{},
		&models.TradeRecord{},
		&models.InstrumentSummary{},
		&models.PipelineRun{},
	)
}
