package indicators

import (
	"fmt"

	"SpotTradeBot/internal/models"
)

// SimpleMovingAverage returns the arithmetic mean of the last period closes.
func SimpleMovingAverage(series models.PriceSeries, period int) (float64, error) {
	return SMA(series.Closes(), period)
}

// SMA is SimpleMovingAverage over a raw close slice.
func SMA(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: sma period %d", models.ErrInvalidParameter, period)
	}
	if len(closes) < period {
		return 0, fmt.Errorf("%w: sma(%d) needs %d closes, have %d",
			models.ErrInsufficientData, period, period, len(closes))
	}

	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period), nil
}
