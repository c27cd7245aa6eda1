package events

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"testing"

	"SpotTradeBot/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatSignal(t *testing.T) {
	line := Format(Event{
		Kind:       KindSignalComputed,
		Symbol:     "BTCUSDT",
		Price:      50000,
		Signal:     "BUY",
		Reason:     "golden cross",
		Indicators: map[string]float64{"short_ma": 2, "long_ma": 1},
	})

	assert.Equal(t,
		`signal_computed BTCUSDT price=50000.00000000 signal=BUY long_ma=1.00000000 short_ma=2.00000000 reason="golden cross"`,
		line)
}

func TestFormatOrderFailure(t *testing.T) {
	line := Format(Event{
		Kind:    KindOrderFailed,
		Symbol:  "BTCUSDT",
		Order:   &models.OrderRequest{Side: models.OrderSideSell, Type: models.OrderTypeLimit, Quantity: 0.5, Price: 101, ClientOrderID: "cid"},
		Attempt: 2,
		Reason:  "retrying",
		Err:     fmt.Errorf("create order: %w: timeout", models.ErrNetwork),
	})

	assert.Contains(t, line, "side=SELL type=LIMIT qty=0.50000000 limit=101.00000000 client_id=cid")
	assert.Contains(t, line, "attempt=2")
	assert.Contains(t, line, "error_kind=network")
}

func TestFormatRealizedPnL(t *testing.T) {
	line := Format(Event{Kind: KindRealizedPnL, Symbol: "BTCUSDT", Price: 49000, EntryPrice: 50000, Quantity: 0.001, PnL: -1, PnLPct: -2})
	assert.Contains(t, line, "entry=50000.00000000")
	assert.Contains(t, line, "pnl=-1.00000000 pnl_pct=-2.00%")
}

func TestSinks(t *testing.T) {
	var buf bytes.Buffer
	var seen []Kind
	m := Multi{
		NewLogSink(log.New(&buf, "", 0)),
		nil,
		SinkFunc(func(e Event) { seen = append(seen, e.Kind) }),
	}

	m.Emit(Event{Kind: KindCycleError, Err: errors.New("boom")})
	Discard.Emit(Event{Kind: KindCycleError})

	assert.Equal(t, []Kind{KindCycleError}, seen)
	assert.Contains(t, buf.String(), `cycle_error error_kind=unknown error="boom"`)
}
