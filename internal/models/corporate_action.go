package models

// CorporateAction is one dividend/split/rights event. Cash, Bonus and
// Dispatch follow the vendor convention of values stated per 10 shares;
// SplitFactor defaults to 1 (no split). RightsPrice is the subscription
// price for a rights issue.
type CorporateAction struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	Symbol string `gorm:"type:varchar(16);not null;index:idx_corporate_actions_symbol_date,priority:1"`
	Date   string `gorm:"type:varchar(10);not null;index:idx_corporate_actions_symbol_date,priority:2"`

	Cash        float64 `gorm:"not null"`
	Bonus       float64 `gorm:"not null"`
	Dispatch    float64 `gorm:"not null"`
	SplitFactor float64 `gorm:"not null;default:1"`
	RightsPrice float64 `gorm:"not null"`
}

func (CorporateAction) TableName() string {
	return "corporate_actions"
}
