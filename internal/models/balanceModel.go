package models

import (
	"time"
)

// Balance is a snapshot of one asset's account balance.
type Balance struct {
	ID     uint    `gorm:"primaryKey"`
	Asset  string  `gorm:"index;not null"`
	Free   float64 `gorm:"type:decimal(20,8);not null"`
	Locked float64 `gorm:"type:decimal(20,8);not null"`

	LastUpdated time.Time `gorm:"index;not null"`
}

// AccountInfo is the subset of account state the bot reads.
type AccountInfo struct {
	CanTrade bool
	Balances []Balance
}

// NonZero returns the balances holding any free or locked amount.
func (a AccountInfo) NonZero() []Balance {
	var out []Balance
	for _, b := range a.Balances {
		if b.Free > 0 || b.Locked > 0 {
			out = append(out, b)
		}
	}
	return out
}
