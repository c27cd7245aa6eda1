package events

import (
	"time"

	"SpotTradeBot/internal/models"
)

type Kind string

const (
	KindSignalComputed     Kind = "signal_computed"
	KindEntryDecided       Kind = "entry_decided"
	KindEntryDenied        Kind = "entry_denied"
	KindForcedExit         Kind = "forced_exit"
	KindOrderSubmitted     Kind = "order_submitted"
	KindOrderConfirmed     Kind = "order_confirmed"
	KindOrderFailed        Kind = "order_failed"
	KindOrderCancelled     Kind = "order_cancelled"
	KindPositionTransition Kind = "position_transition"
	KindRealizedPnL        Kind = "realized_pnl"
	KindCycleError         Kind = "cycle_error"
)

// Event is one structured observation emitted by the engine. Only the
// fields relevant to Kind are populated.
type Event struct {
	Kind   Kind
	Time   time.Time
	Symbol string
	Price  float64

	Signal     string
	Reason     string
	Indicators map[string]float64

	Order   *models.OrderRequest
	Result  *models.OrderResult
	Attempt int

	FromState  string
	ToState    string
	EntryPrice float64
	Quantity   float64
	OpenedAt   time.Time
	PnL        float64
	PnLPct     float64

	Err error
}

// Sink receives events. Implementations must not block the engine for long.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Multi fans an event out to every sink in order.
type Multi []Sink

func (m Multi) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})
