package models

import "time"

// Instrument is one roster entry. Symbol is the exchange-prefixed code
// ("sh600000"); Name is the vendor display name, "unknown" when the roster
// could not resolve the code.
type Instrument struct {
	Symbol   string `gorm:"primaryKey;type:varchar(16)"`
	Exchange string `gorm:"type:varchar(8);not null;index"`
	Code     string `gorm:"type:varchar(12);not null"`
	Name     string `gorm:"type:varchar(64);not null"`

	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Instrument) TableName() string {
	return "instruments"
}
