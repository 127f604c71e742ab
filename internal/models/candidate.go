package models

// Candidate is one selection-filter hit. Position preserves append order so
// the persisted list reads back in the order instruments were evaluated.
type Candidate struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	Position int    `gorm:"not null;index"`
	Symbol   string `gorm:"type:varchar(16);not null;uniqueIndex"`
	Exchange string `gorm:"type:varchar(8);not null"`
	Code     string `gorm:"type:varchar(12);not null"`
	Name     string `gorm:"type:varchar(64);not null"`
}

func (Candidate) TableName() string {
	return "candidates"
}
