package models

import "time"

// InstrumentSummary aggregates one instrument's trade records. Recomputed
// wholesale on every run, never incrementally updated.
type InstrumentSummary struct {
	Symbol string `gorm:"primaryKey;type:varchar(16)"`
	Name   string `gorm:"type:varchar(64);not null"`

	TotalReturnPct float64 `gorm:"not null"`
	TradeCount     int     `gorm:"not null"`
	AvgReturnPct   float64 `gorm:"not null"`
	TotalHoldDays  int     `gorm:"not null"`

	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (InstrumentSummary) TableName() string {
	return "instrument_summaries"
}
