package indicators

import (
	"fmt"
	"math"

	"SpotTradeBot/internal/models"
)

// RelativeStrengthIndex computes RSI over the last period deltas of the
// series. Average gain and loss are plain means of those deltas.
func RelativeStrengthIndex(series models.PriceSeries, period int) (float64, error) {
	return RSI(series.Closes(), period)
}

// RSI is RelativeStrengthIndex over a raw close slice.
func RSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: rsi period %d", models.ErrInvalidParameter, period)
	}
	if len(closes) < period+1 {
		return 0, fmt.Errorf("%w: rsi(%d) needs %d closes, have %d",
			models.ErrInsufficientData, period, period+1, len(closes))
	}

	window := closes[len(closes)-(period+1):]
	var gains, losses float64
	for i := 1; i < len(window); i++ {
		change := window[i] - window[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += math.Abs(change)
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)
	if avgLoss == 0 {
		return 100, nil
	}

	rs := avgGain / avgLoss
	return clamp(100-(100/(1+rs)), 0, 100), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
