package models

// DailyBar is one trading day for one instrument. Within a symbol's series
// dates are unique and sorted ascending; merge only adds dates that are not
// already present, it never rewrites an existing row.
type DailyBar struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	Symbol string `gorm:"type:varchar(16);not null;uniqueIndex:idx_daily_bars_symbol_date,priority:1"`
	Date   string `gorm:"type:varchar(10);not null;uniqueIndex:idx_daily_bars_symbol_date,priority:2"`

	Open     float64 `gorm:"not null"`
	High     float64 `gorm:"not null"`
	Low      float64 `gorm:"not null"`
	Close    float64 `gorm:"not null"`
	Turnover float64 `gorm:"not null"`
	Volume   int64   `gorm:"not null"`

	// Derived fields, present only after indicator enrichment. Nil means the
	// window was degenerate (zero volume, empty denominator).
	AvgCost60           *float64 `gorm:"column:avg_cost_60"`
	AvgPositionCost     *float64
	ProfitRatio         *float64
	ChipLow90           *float64 `gorm:"column:chip_low_90"`
	ChipHigh90          *float64 `gorm:"column:chip_high_90"`
	ChipConcentration90 *float64 `gorm:"column:chip_concentration_90"`
}

func (DailyBar) TableName() string {
	return "daily_bars"
}
