package trading

import (
	"context"
	"fmt"

	"SpotTradeBot/internal/models"
	"SpotTradeBot/internal/services/events"
)

// restingOrder tracks what of a LIMIT order the position already holds.
type restingOrder struct {
	side         models.OrderSide
	applied      float64
	appliedPrice float64
}

// reconcile cancels LIMIT orders this trader left resting on the book. Any
// quantity that executed before the cancel is applied: as the fill when
// none of the order had been applied yet, otherwise added to the LONG the
// order opened.
func (t *Trader) reconcile(ctx context.Context) error {
	if len(t.resting) == 0 {
		return nil
	}
	rec, ok := t.exchange.(Reconciler)
	if !ok {
		return nil
	}

	open, err := rec.GetOpenOrders(ctx, t.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("failed to get open orders: %w", err)
	}

	stillOpen := make(map[string]models.OpenOrder, len(open))
	for _, o := range open {
		stillOpen[o.ClientOrderID] = o
	}

	for id, ro := range t.resting {
		o, ok := stillOpen[id]
		if !ok {
			// Filled or cancelled on the exchange side since the last cycle.
			if lookup, canLookup := t.exchange.(OrderLookup); canLookup {
				res, found, err := lookup.LookupOrder(ctx, t.cfg.Symbol, id)
				if err != nil {
					return fmt.Errorf("failed to look up order %s: %w", id, err)
				}
				if found {
					t.settle(id, ro, res)
				}
			}
			delete(t.resting, id)
			continue
		}

		res, err := rec.CancelOrder(context.WithoutCancel(ctx), t.cfg.Symbol, o.OrderID)
		if err != nil {
			return fmt.Errorf("failed to cancel order %s: %w", id, err)
		}
		t.emit(events.Event{
			Kind:   events.KindOrderCancelled,
			Price:  o.Price,
			Order:  &models.OrderRequest{Symbol: o.Symbol, Side: o.Side, Type: o.Type, Quantity: o.OrigQuantity, Price: o.Price, ClientOrderID: id},
			Result: &res,
			Reason: "stale limit order",
		})
		t.settle(id, ro, res)
		delete(t.resting, id)
	}
	return nil
}

func (t *Trader) settle(id string, ro restingOrder, res models.OrderResult) {
	extra := res.FilledQuantity - ro.applied
	if extra <= 0 {
		return
	}
	if ro.applied == 0 {
		res.Filled = true
		if _, err := t.apply(ro.side, res, models.TradeReasonSignal); err != nil {
			t.emit(events.Event{Kind: events.KindCycleError, Result: &res, Err: err})
		}
		return
	}

	if ro.side != models.OrderSideBuy {
		// the position is already flat; nothing left to attach the quantity to
		t.emit(events.Event{
			Kind:     events.KindCycleError,
			Quantity: extra,
			Result:   &res,
			Reason:   fmt.Sprintf("order %s sold %.8f more after closing the position; not applied", id, extra),
		})
		return
	}

	// Price the late quantity from the order's cumulative average.
	price := (res.FilledQuantity*res.AveragePrice - ro.applied*ro.appliedPrice) / extra
	if price <= 0 {
		price = res.AveragePrice
	}
	late := res
	late.Filled = true
	late.FilledQuantity = extra
	late.AveragePrice = price

	tr, err := t.machine.Increase(late)
	if err != nil {
		t.emit(events.Event{Kind: events.KindCycleError, Result: &late, Err: fmt.Errorf("failed to add late fill of %s: %w", id, err)})
		return
	}
	t.emit(events.Event{
		Kind:       events.KindPositionTransition,
		Price:      price,
		FromState:  string(tr.From.State),
		ToState:    string(tr.To.State),
		EntryPrice: tr.To.EntryPrice,
		Quantity:   tr.To.Quantity,
		OpenedAt:   tr.To.OpenedAt,
		Result:     &late,
		Reason:     "late fill",
	})
}
