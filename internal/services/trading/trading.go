package trading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SpotTradeBot/internal/models"
	"SpotTradeBot/internal/operations/position"
	"SpotTradeBot/internal/services/events"
	"SpotTradeBot/internal/services/risk"
	"SpotTradeBot/internal/services/strategy"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trader runs the poll, decide, act loop for one symbol. It owns the
// position machine; strategy and risk only ever see snapshots.
type Trader struct {
	cfg       Config
	market    MarketData
	exchange  Exchange
	strategy  strategy.Strategy
	risk      *risk.Manager
	machine   *position.Machine
	submitter *Submitter
	sink      events.Sink

	// LIMIT orders that may still rest on the book, by client order ID
	resting map[string]restingOrder

	now   func() time.Time
	newID func() string
}

func NewTrader(
	cfg Config,
	market MarketData,
	exchange Exchange,
	strat strategy.Strategy,
	riskManager *risk.Manager,
	machine *position.Machine,
	sink events.Sink,
) *Trader {
	if sink == nil {
		sink = events.Discard
	}
	if cfg.OrderType == "" {
		cfg.OrderType = models.OrderTypeMarket
	}
	return &Trader{
		cfg:       cfg,
		market:    market,
		exchange:  exchange,
		strategy:  strat,
		risk:      riskManager,
		machine:   machine,
		submitter: NewSubmitter(exchange, cfg.Retry, sink),
		sink:      sink,
		resting:   make(map[string]restingOrder),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Position returns a snapshot of the current position.
func (t *Trader) Position() position.Position {
	return t.machine.Snapshot()
}

// Run executes cycles until ctx is cancelled. A failed cycle is reported and
// the loop carries on after the normal interval. Cancellation is honoured
// between cycles and during the sleep, never in the middle of an order.
func (t *Trader) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		if _, err := t.RunCycle(ctx); err != nil {
			t.emit(events.Event{Kind: events.KindCycleError, Err: err})
		}

		timer := time.NewTimer(t.cfg.CheckInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// RunCycle performs one poll, decide, act pass.
func (t *Trader) RunCycle(ctx context.Context) (CycleReport, error) {
	var report CycleReport

	if t.cfg.OrderType == models.OrderTypeLimit {
		if err := t.reconcile(ctx); err != nil {
			return report, err
		}
	}

	var price float64
	err := t.fetch(ctx, func(ctx context.Context) (err error) {
		price, err = t.market.GetTickerPrice(ctx, t.cfg.Symbol)
		return err
	})
	if err != nil {
		return report, fmt.Errorf("failed to get ticker price: %w", err)
	}
	if price <= 0 {
		return report, fmt.Errorf("%w: ticker price %.8f", models.ErrInvalidParameter, price)
	}
	report.Price = price

	pos := t.machine.Snapshot()
	report.Exit = t.risk.CheckExit(pos, price)

	var series models.PriceSeries
	err = t.fetch(ctx, func(ctx context.Context) (err error) {
		series, err = t.market.GetKlines(ctx, t.cfg.Symbol, t.cfg.KlineInterval, t.cfg.KlineLimit)
		return err
	})
	if err == nil {
		err = series.Validate()
	}
	if err != nil {
		if !report.Exit.Forced {
			return report, fmt.Errorf("failed to get klines: %w", err)
		}
		// The exit does not depend on the strategy, so it still goes ahead.
		t.emit(events.Event{Kind: events.KindCycleError, Price: price, Reason: "klines unavailable", Err: err})
		report.Analysis = strategy.Analysis{Signal: strategy.SignalHold, Reason: "klines unavailable"}
	} else {
		report.Analysis = t.strategy.Analyze(series)
		t.emit(events.Event{
			Kind:       events.KindSignalComputed,
			Price:      price,
			Signal:     string(report.Analysis.Signal),
			Reason:     report.Analysis.Reason,
			Indicators: report.Analysis.Values,
		})
	}

	req, reason, ok := t.decide(pos, price, &report)
	if !ok {
		return report, nil
	}
	report.Order = &req

	return report, t.execute(ctx, req, reason, price, &report)
}

// decide turns the cycle's observations into at most one order. A forced
// exit wins over any signal and blocks re-entry until the next cycle.
func (t *Trader) decide(pos position.Position, price float64, report *CycleReport) (models.OrderRequest, string, bool) {
	exit := report.Exit
	if exit.Forced {
		t.emit(events.Event{
			Kind:       events.KindForcedExit,
			Price:      price,
			Signal:     string(report.Analysis.Signal),
			Reason:     string(exit.Reason),
			Indicators: report.Analysis.Values,
			EntryPrice: pos.EntryPrice,
			Quantity:   pos.Quantity,
			PnL:        (price - pos.EntryPrice) * pos.Quantity,
			PnLPct:     exit.PnLPct,
		})
		return t.newOrder(models.OrderSideSell, t.risk.ExitQuantity(pos), price), exitTradeReason(exit.Reason), true
	}

	switch report.Analysis.Signal {
	case strategy.SignalSell:
		if pos.IsFlat() {
			return models.OrderRequest{}, "", false
		}
		return t.newOrder(models.OrderSideSell, t.risk.ExitQuantity(pos), price), models.TradeReasonSignal, true

	case strategy.SignalBuy:
		qty := roundQuantity(t.risk.EntryQuantity(t.cfg.TradeAmount, price), t.cfg.QuantityPrecision)
		req := t.newOrder(models.OrderSideBuy, qty, price)
		decision := t.risk.CheckEntry(report.Analysis.Signal, pos, req.Notional(price))
		report.Entry = &decision
		if !decision.Allowed {
			t.emit(events.Event{
				Kind:       events.KindEntryDenied,
				Price:      price,
				Signal:     string(report.Analysis.Signal),
				Reason:     fmt.Sprintf("%s (proposed value %.8f, max %.8f)", decision.Reason, decision.ProposedValue, t.risk.Limits().MaxPositionValue),
				Indicators: report.Analysis.Values,
			})
			return models.OrderRequest{}, "", false
		}
		t.emit(events.Event{
			Kind:       events.KindEntryDecided,
			Price:      price,
			Signal:     string(report.Analysis.Signal),
			Reason:     report.Analysis.Reason,
			Indicators: report.Analysis.Values,
			Order:      orderRef(req),
		})
		return req, models.TradeReasonSignal, true
	}

	return models.OrderRequest{}, "", false
}

func (t *Trader) newOrder(side models.OrderSide, qty, price float64) models.OrderRequest {
	req := models.OrderRequest{
		Symbol:        t.cfg.Symbol,
		Side:          side,
		Type:          t.cfg.OrderType,
		Quantity:      qty,
		ClientOrderID: t.newID(),
	}
	if req.Type == models.OrderTypeLimit {
		req.Price = price
	}
	return req
}

// execute submits req and applies a confirmed fill. The order is awaited to
// completion even if ctx is cancelled meanwhile.
func (t *Trader) execute(ctx context.Context, req models.OrderRequest, reason string, price float64, report *CycleReport) error {
	result, err := t.submitter.Submit(context.WithoutCancel(ctx), req)
	report.Result = &result
	if err != nil {
		if req.Side == models.OrderSideBuy && errors.Is(err, models.ErrInsufficientBalance) {
			t.emit(events.Event{
				Kind:   events.KindEntryDenied,
				Price:  price,
				Signal: string(strategy.SignalBuy),
				Reason: "insufficient balance",
				Order:  orderRef(req),
				Err:    err,
			})
		}
		return fmt.Errorf("failed to submit %s order: %w", req.Side, err)
	}

	if req.Type == models.OrderTypeLimit && !models.IsTerminalOrderStatus(result.Status) {
		t.resting[req.ClientOrderID] = restingOrder{
			side:         req.Side,
			applied:      result.FilledQuantity,
			appliedPrice: result.AveragePrice,
		}
	}

	if !result.Filled {
		t.emit(events.Event{
			Kind:   events.KindOrderFailed,
			Price:  price,
			Order:  orderRef(req),
			Result: &result,
			Reason: "not filled",
		})
		return nil
	}

	t.emit(events.Event{
		Kind:   events.KindOrderConfirmed,
		Price:  price,
		Order:  orderRef(req),
		Result: &result,
	})

	tr, err := t.apply(req.Side, result, reason)
	if err != nil {
		return err
	}
	report.Transition = &tr
	return nil
}

func (t *Trader) apply(side models.OrderSide, result models.OrderResult, reason string) (position.Transition, error) {
	tr, err := t.machine.Apply(side, result)
	if err != nil {
		return tr, fmt.Errorf("failed to apply %s fill: %w", side, err)
	}

	t.emit(events.Event{
		Kind:       events.KindPositionTransition,
		Price:      result.AveragePrice,
		FromState:  string(tr.From.State),
		ToState:    string(tr.To.State),
		EntryPrice: tr.To.EntryPrice,
		Quantity:   tr.To.Quantity,
		OpenedAt:   tr.To.OpenedAt,
		Result:     &result,
	})
	if tr.Closed() {
		t.emit(events.Event{
			Kind:       events.KindRealizedPnL,
			Price:      result.AveragePrice,
			EntryPrice: tr.From.EntryPrice,
			Quantity:   result.FilledQuantity,
			OpenedAt:   tr.From.OpenedAt,
			PnL:        tr.RealizedPnL,
			PnLPct:     tr.RealizedPnLPct,
			Reason:     reason,
		})
	}
	return tr, nil
}

// fetch retries transient market data failures; unlike order submission it
// gives up as soon as ctx is cancelled.
func (t *Trader) fetch(ctx context.Context, fn func(context.Context) error) error {
	attempts := t.cfg.Retry.attempts()
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil || !models.IsTransient(err) {
			return err
		}
		if attempt == attempts {
			break
		}
		timer := time.NewTimer(t.cfg.Retry.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w (cancelled: %v)", err, ctx.Err())
		case <-timer.C:
		}
	}
	return err
}

func (t *Trader) emit(e events.Event) {
	if e.Time.IsZero() {
		e.Time = t.now()
	}
	if e.Symbol == "" {
		e.Symbol = t.cfg.Symbol
	}
	t.sink.Emit(e)
}

func exitTradeReason(r risk.ExitReason) string {
	switch r {
	case risk.ExitStopLoss:
		return models.TradeReasonStopLoss
	case risk.ExitTakeProfit:
		return models.TradeReasonTakeProfit
	}
	return models.TradeReasonSignal
}

// roundQuantity truncates q to precision decimal places so the order never
// exceeds the trade amount.
func roundQuantity(q float64, precision int32) float64 {
	if q <= 0 {
		return 0
	}
	f, _ := decimal.NewFromFloat(q).Truncate(precision).Float64()
	return f
}
