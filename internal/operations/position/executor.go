package position

import (
	"errors"
	"fmt"
	"time"

	"SpotTradeBot/internal/models"
)

// State of the single tracked position.
type State string

const (
	StateFlat State = "FLAT"
	StateLong State = "LONG"
)

var (
	ErrNotFilled         = errors.New("order not filled")
	ErrInvalidTransition = errors.New("invalid position transition")
)

// Position is the bot's exposure in its traded symbol.
// Quantity > 0 if and only if State == StateLong.
type Position struct {
	Symbol     string
	State      State
	EntryPrice float64
	Quantity   float64
	OpenedAt   time.Time
}

func (p Position) IsFlat() bool {
	return p.State != StateLong
}

// Transition describes one confirmed state change.
type Transition struct {
	From   Position
	To     Position
	Side   models.OrderSide
	Result models.OrderResult

	// Set when the transition closes a LONG.
	RealizedPnL    float64
	RealizedPnLPct float64
}

func (t Transition) Closed() bool {
	return t.From.State == StateLong && t.To.State == StateFlat
}

// Machine is the only mutator of the position. It is not safe for
// concurrent use; the execution loop owns it.
type Machine struct {
	pos Position
	now func() time.Time
}

// NewMachine returns a machine holding a FLAT position for symbol.
func NewMachine(symbol string) *Machine {
	return &Machine{
		pos: Position{Symbol: symbol, State: StateFlat},
		now: time.Now,
	}
}

// SetClock overrides the time source used for OpenedAt.
func (m *Machine) SetClock(now func() time.Time) {
	m.now = now
}

// Snapshot returns a copy of the current position.
func (m *Machine) Snapshot() Position {
	return m.pos
}

// Apply transitions the position on a confirmed fill. Anything other than a
// filled BUY while FLAT or a filled SELL while LONG leaves the position
// untouched and returns an error.
func (m *Machine) Apply(side models.OrderSide, result models.OrderResult) (Transition, error) {
	if !result.Filled || result.FilledQuantity <= 0 {
		return Transition{}, fmt.Errorf("%w: %s order %s status %q",
			ErrNotFilled, side, result.ClientOrderID, result.Status)
	}
	if result.AveragePrice <= 0 {
		return Transition{}, fmt.Errorf("%w: fill price %.8f for order %s",
			models.ErrInvalidParameter, result.AveragePrice, result.ClientOrderID)
	}

	from := m.pos
	switch {
	case side == models.OrderSideBuy && from.State == StateFlat:
		m.pos = Position{
			Symbol:     from.Symbol,
			State:      StateLong,
			EntryPrice: result.AveragePrice,
			Quantity:   result.FilledQuantity,
			OpenedAt:   m.now(),
		}
		return Transition{From: from, To: m.pos, Side: side, Result: result}, nil

	case side == models.OrderSideSell && from.State == StateLong:
		pnl := calculatePnL(from, result.AveragePrice, result.FilledQuantity)
		m.pos = Position{Symbol: from.Symbol, State: StateFlat}
		return Transition{
			From:           from,
			To:             m.pos,
			Side:           side,
			Result:         result,
			RealizedPnL:    pnl,
			RealizedPnLPct: (result.AveragePrice - from.EntryPrice) * 100 / from.EntryPrice,
		}, nil
	}

	return Transition{}, fmt.Errorf("%w: %s fill while %s", ErrInvalidTransition, side, from.State)
}

// Increase adds a further fill of the order that opened the current LONG.
// The entry price becomes the quantity weighted average and OpenedAt is
// kept. It is not a second entry; callers only use it for late fills.
func (m *Machine) Increase(result models.OrderResult) (Transition, error) {
	if !result.Filled || result.FilledQuantity <= 0 {
		return Transition{}, fmt.Errorf("%w: order %s status %q",
			ErrNotFilled, result.ClientOrderID, result.Status)
	}
	if result.AveragePrice <= 0 {
		return Transition{}, fmt.Errorf("%w: fill price %.8f for order %s",
			models.ErrInvalidParameter, result.AveragePrice, result.ClientOrderID)
	}
	from := m.pos
	if from.State != StateLong {
		return Transition{}, fmt.Errorf("%w: increase while %s", ErrInvalidTransition, from.State)
	}

	qty := from.Quantity + result.FilledQuantity
	m.pos.EntryPrice = (from.EntryPrice*from.Quantity + result.AveragePrice*result.FilledQuantity) / qty
	m.pos.Quantity = qty
	return Transition{From: from, To: m.pos, Side: models.OrderSideBuy, Result: result}, nil
}

func calculatePnL(position Position, closePrice, quantity float64) float64 {
	return (closePrice - position.EntryPrice) * quantity
}
