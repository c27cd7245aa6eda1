package models

import (
	"fmt"
	"time"
)

// Kline is a single candlestick for one interval.
type Kline struct {
	OpenTime   time.Time
	CloseTime  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     float64
	TradeCount int64
}

// PriceSeries is an ordered sequence of klines, newest last.
type PriceSeries []Kline

// PriceTimeFrame5m is the default kline interval.
const PriceTimeFrame5m = "5m"

// Closes returns the close column of the series.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, k := range s {
		closes[i] = k.Close
	}
	return closes
}

// Validate checks that open times are strictly increasing.
func (s PriceSeries) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].OpenTime.After(s[i-1].OpenTime) {
			return fmt.Errorf("%w: kline %d opens at %s, not after %s",
				ErrInvalidParameter, i,
				s[i].OpenTime.Format("2006-01-02 15:04:05"),
				s[i-1].OpenTime.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}
