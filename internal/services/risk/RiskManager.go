package risk

import (
	"fmt"

	"SpotTradeBot/internal/models"
	"SpotTradeBot/internal/operations/position"
	"SpotTradeBot/internal/services/strategy"
)

// Limits are the immutable risk settings for one run. Percentages are in
// percent, so 2.0 means 2%.
type Limits struct {
	MaxPositionValue float64 `validate:"gt=0"`
	StopLossPct      float64 `validate:"gt=0"`
	TakeProfitPct    float64 `validate:"gt=0"`
}

type DenyReason string

const (
	DenyNone             DenyReason = ""
	DenyNotBuySignal     DenyReason = "NOT_BUY_SIGNAL"
	DenyNotFlat          DenyReason = "NOT_FLAT"
	DenyMaxPositionValue DenyReason = "MAX_POSITION_VALUE"
	DenyZeroQuantity     DenyReason = "ZERO_QUANTITY"
)

type ExitReason string

const (
	ExitNone       ExitReason = ""
	ExitStopLoss   ExitReason = "STOP_LOSS"
	ExitTakeProfit ExitReason = "TAKE_PROFIT"
)

// EntryDecision is the verdict on a proposed entry.
type EntryDecision struct {
	Allowed       bool
	Reason        DenyReason
	ProposedValue float64
}

// ExitDecision is the verdict on an open position at the current price.
type ExitDecision struct {
	Forced bool
	Reason ExitReason
	PnLPct float64
}

// Manager vetoes entries and forces exits independently of the strategy.
// It holds no position state of its own.
type Manager struct {
	limits Limits
}

func NewManager(limits Limits) (*Manager, error) {
	if err := models.ValidateStruct(limits); err != nil {
		return nil, fmt.Errorf("risk limits: %w", err)
	}
	return &Manager{limits: limits}, nil
}

func (m *Manager) Limits() Limits {
	return m.limits
}

// CheckEntry allows a BUY only from FLAT and only for a positive proposed
// value within the max position value.
func (m *Manager) CheckEntry(signal strategy.Signal, pos position.Position, proposedValue float64) EntryDecision {
	d := EntryDecision{ProposedValue: proposedValue}
	switch {
	case signal != strategy.SignalBuy:
		d.Reason = DenyNotBuySignal
	case !pos.IsFlat():
		d.Reason = DenyNotFlat
	case proposedValue <= 0:
		d.Reason = DenyZeroQuantity
	case proposedValue > m.limits.MaxPositionValue:
		d.Reason = DenyMaxPositionValue
	default:
		d.Allowed = true
	}
	return d
}

// CheckExit forces an exit when a LONG has moved past the stop-loss or
// take-profit threshold.
func (m *Manager) CheckExit(pos position.Position, currentPrice float64) ExitDecision {
	if pos.State != position.StateLong || pos.EntryPrice <= 0 {
		return ExitDecision{}
	}

	pnlPct := (currentPrice - pos.EntryPrice) * 100 / pos.EntryPrice
	switch {
	case pnlPct <= -m.limits.StopLossPct:
		return ExitDecision{Forced: true, Reason: ExitStopLoss, PnLPct: pnlPct}
	case pnlPct >= m.limits.TakeProfitPct:
		return ExitDecision{Forced: true, Reason: ExitTakeProfit, PnLPct: pnlPct}
	}
	return ExitDecision{PnLPct: pnlPct}
}

// EntryQuantity sizes a new entry from the configured trade amount.
func (m *Manager) EntryQuantity(tradeAmount, currentPrice float64) float64 {
	if currentPrice <= 0 {
		return 0
	}
	return tradeAmount / currentPrice
}

// ExitQuantity is always the whole position; partial exits are not made.
func (m *Manager) ExitQuantity(pos position.Position) float64 {
	return pos.Quantity
}
