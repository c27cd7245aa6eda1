package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceSeries(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := PriceSeries{
		{OpenTime: start, Close: 1},
		{OpenTime: start.Add(time.Minute), Close: 2},
	}
	assert.Equal(t, []float64{1, 2}, s.Closes())
	assert.NoError(t, s.Validate())

	s = append(s, Kline{OpenTime: start.Add(time.Minute), Close: 3})
	assert.ErrorIs(t, s.Validate(), ErrInvalidParameter)

	assert.NoError(t, PriceSeries(nil).Validate())
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err       error
		kind      string
		transient bool
	}{
		{fmt.Errorf("get klines: %w: eof", ErrNetwork), "network", true},
		{fmt.Errorf("create order: %w", ErrRateLimit), "rate_limit", true},
		{fmt.Errorf("%w: bad key", ErrAuth), "auth", false},
		{ErrInvalidSymbol, "invalid_symbol", false},
		{ErrInsufficientBalance, "insufficient_balance", false},
		{ErrInsufficientData, "insufficient_data", false},
		{errors.New("other"), "unknown", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, ErrorKind(tt.err))
		assert.Equal(t, tt.transient, IsTransient(tt.err), tt.kind)
	}
	assert.Empty(t, ErrorKind(nil))
}

func TestOrderHelpers(t *testing.T) {
	assert.InDelta(t, 50.0, OrderRequest{Type: OrderTypeMarket, Quantity: 0.001}.Notional(50000), 1e-9)
	assert.InDelta(t, 49.0, OrderRequest{Type: OrderTypeLimit, Quantity: 0.001, Price: 49000}.Notional(50000), 1e-9)

	assert.True(t, IsTerminalOrderStatus(OrderStatusFilled))
	assert.True(t, IsTerminalOrderStatus(OrderStatusCanceled))
	assert.False(t, IsTerminalOrderStatus(OrderStatusNew))
	assert.False(t, IsTerminalOrderStatus(OrderStatusPartiallyFilled))
}

func TestValidateStruct(t *testing.T) {
	type window struct {
		Short int `validate:"gt=0,ltfield=Long"`
		Long  int `validate:"gt=0"`
	}

	assert.NoError(t, ValidateStruct(window{Short: 2, Long: 3}))

	err := ValidateStruct(window{Short: 3, Long: 3})
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "window.Short ltfield=Long (got 3)")

	err = ValidateStruct(window{})
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "window.Short gt=0")
	assert.Contains(t, err.Error(), "window.Long gt=0")

	assert.ErrorIs(t, ValidateStruct(42), ErrInvalidParameter)
}
