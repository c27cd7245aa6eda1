package handlers

import (
	"log"

	"SpotTradeBot/internal/models"
	"SpotTradeBot/internal/services/events"
)

type OrderStore interface {
	Upsert(order *models.OrderRecord) error
}

type TradeStore interface {
	Create(trade *models.TradeRecord) error
}

type BalanceStore interface {
	CreateBatch(balances []models.Balance) error
}

// JournalHandler persists order and trade events. It is an events.Sink;
// storage failures are logged and never reach the trading loop.
type JournalHandler struct {
	orders   OrderStore
	trades   TradeStore
	balances BalanceStore
	logger   *log.Logger
}

func NewJournalHandler(orders OrderStore, trades TradeStore, balances BalanceStore, logger *log.Logger) *JournalHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &JournalHandler{
		orders:   orders,
		trades:   trades,
		balances: balances,
		logger:   logger,
	}
}

func (h *JournalHandler) Emit(e events.Event) {
	switch e.Kind {
	case events.KindOrderSubmitted:
		h.saveOrder(e, models.OrderRecordStatusSubmitted)
	case events.KindOrderConfirmed:
		h.saveOrder(e, models.OrderRecordStatusFilled)
	case events.KindOrderCancelled:
		h.saveOrder(e, models.OrderRecordStatusCancelled)
	case events.KindOrderFailed:
		if e.Result != nil && e.Err == nil {
			h.saveOrder(e, models.OrderRecordStatusUnfilled)
		} else {
			h.saveOrder(e, models.OrderRecordStatusFailed)
		}
	case events.KindRealizedPnL:
		h.saveTrade(e)
	}
}

// RecordBalances stores a snapshot of every non-zero balance.
func (h *JournalHandler) RecordBalances(info models.AccountInfo) error {
	return h.balances.CreateBatch(info.NonZero())
}

func (h *JournalHandler) saveOrder(e events.Event, status string) {
	if e.Order == nil || e.Order.ClientOrderID == "" {
		return
	}
	record := &models.OrderRecord{
		Symbol:        e.Order.Symbol,
		ClientOrderID: e.Order.ClientOrderID,
		Side:          string(e.Order.Side),
		Type:          string(e.Order.Type),
		Quantity:      e.Order.Quantity,
		Price:         e.Order.Price,
		Status:        status,
		Attempts:      e.Attempt,
	}
	if r := e.Result; r != nil {
		record.OrderID = r.OrderID
		record.FilledQuantity = r.FilledQuantity
		record.AveragePrice = r.AveragePrice
	}
	if e.Err != nil {
		record.Error = e.Err.Error()
	}

	if err := h.orders.Upsert(record); err != nil {
		h.logger.Printf("Error saving order %s: %v", record.ClientOrderID, err)
	}
}

func (h *JournalHandler) saveTrade(e events.Event) {
	trade := &models.TradeRecord{
		Symbol:     e.Symbol,
		Quantity:   e.Quantity,
		EntryPrice: e.EntryPrice,
		ExitPrice:  e.Price,
		PnL:        e.PnL,
		PnLPct:     e.PnLPct,
		Reason:     e.Reason,
		OpenTime:   e.OpenedAt,
		CloseTime:  e.Time,
	}
	if err := h.trades.Create(trade); err != nil {
		h.logger.Printf("Error saving trade for %s: %v", trade.Symbol, err)
	}
}
