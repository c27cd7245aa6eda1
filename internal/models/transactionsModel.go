package models

import (
	"time"
)

// OrderRecord is the journal row for one submitted order.
type OrderRecord struct {
	ID            uint    `gorm:"primaryKey"`
	Symbol        string  `gorm:"index;not null"`
	ClientOrderID string  `gorm:"uniqueIndex;not null"`
	OrderID       int64   `gorm:"index"`
	Side          string  `gorm:"not null"`
	Type          string  `gorm:"not null"`
	Quantity      float64 `gorm:"type:decimal(20,8);not null"`
	Price         float64 `gorm:"type:decimal(20,8)"`

	FilledQuantity float64 `gorm:"type:decimal(20,8)"`
	AveragePrice   float64 `gorm:"type:decimal(20,8)"`
	Status         string  `gorm:"not null"`
	Attempts       int
	Error          string

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

const (
	OrderRecordStatusSubmitted = "submitted"
	OrderRecordStatusFilled    = "filled"
	OrderRecordStatusUnfilled  = "unfilled"
	OrderRecordStatusFailed    = "failed"
	OrderRecordStatusCancelled = "cancelled"
)

// TableName sets the table name for OrderRecord model
func (OrderRecord) TableName() string {
	return "orders"
}
