package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one simulated round-trip. HoldDays is the bar-index
// distance between entry and exit, not calendar days. Prices are stored as
// numeric to avoid float drift in the persisted record.
type TradeRecord struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	Symbol string `gorm:"type:varchar(16);not null;index"`
	Name   string `gorm:"type:varchar(64);not null"`

	BuyDate   string          `gorm:"type:varchar(10);not null"`
	SellDate  string          `gorm:"type:varchar(10);not null"`
	BuyPrice  decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	SellPrice decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	HoldDays  int             `gorm:"not null"`
	ReturnPct float64         `gorm:"not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (TradeRecord) TableName() string {
	return "trade_records"
}
