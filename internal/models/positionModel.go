package models

import "time"

// TradeRecord is one closed round trip: a LONG entry and the SELL fill that
// flattened it.
type TradeRecord struct {
	ID         uint    `gorm:"primaryKey"`
	Symbol     string  `gorm:"index;not null"`
	Quantity   float64 `gorm:"type:decimal(20,8);not null"`
	EntryPrice float64 `gorm:"type:decimal(20,8);not null"`
	ExitPrice  float64 `gorm:"type:decimal(20,8);not null"`

	PnL    float64 `gorm:"type:decimal(20,8)"`
	PnLPct float64 `gorm:"type:decimal(20,8)"`
	Reason string  `gorm:"not null"`

	OpenTime  time.Time `gorm:"index;not null"`
	CloseTime time.Time `gorm:"index;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

const (
	TradeReasonSignal     = "signal"
	TradeReasonStopLoss   = "stop_loss"
	TradeReasonTakeProfit = "take_profit"
)

// TableName sets the table name for TradeRecord model
func (TradeRecord) TableName() string {
	return "trades"
}
