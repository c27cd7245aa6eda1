package indicators

import (
	"testing"
	"time"

	"SpotTradeBot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesOf(closes ...float64) models.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.PriceSeries, len(closes))
	for i, c := range closes {
		s[i] = models.Kline{OpenTime: start.Add(time.Duration(i) * time.Minute), Close: c}
	}
	return s
}

func TestSMA(t *testing.T) {
	v, err := SMA([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 1e-12)

	v, err = SimpleMovingAverage(seriesOf(10, 20), 2)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, v, 1e-12)
}

func TestSMAErrors(t *testing.T) {
	_, err := SMA([]float64{1, 2}, 3)
	assert.ErrorIs(t, err, models.ErrInsufficientData)

	_, err = SMA(nil, 1)
	assert.ErrorIs(t, err, models.ErrInsufficientData)

	_, err = SMA([]float64{1, 2, 3}, 0)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		want   float64
	}{
		{"only gains", []float64{1, 2, 3, 4, 5}, 4, 100},
		{"no movement", []float64{5, 5, 5, 5}, 3, 100},
		{"only losses", []float64{5, 4, 3, 2, 1}, 4, 0},
		{"balanced", []float64{1, 2, 1, 2, 1}, 4, 50},
		{"uses newest window", []float64{100, 1, 2, 3}, 2, 100},
		{"gain twice loss", []float64{10, 12, 11}, 2, 100 - 100/(1+2.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := RSI(tt.closes, tt.period)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, v, 1e-9)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		})
	}
}

func TestRSIErrors(t *testing.T) {
	_, err := RSI([]float64{1, 2, 3}, 3)
	assert.ErrorIs(t, err, models.ErrInsufficientData)

	_, err = RelativeStrengthIndex(seriesOf(1, 2, 3), -1)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}
