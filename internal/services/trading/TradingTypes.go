package trading

import (
	"context"
	"time"

	"SpotTradeBot/internal/models"
	"SpotTradeBot/internal/operations/position"
	"SpotTradeBot/internal/services/risk"
	"SpotTradeBot/internal/services/strategy"
)

// MarketData supplies price history and the live price.
type MarketData interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) (models.PriceSeries, error)
	GetTickerPrice(ctx context.Context, symbol string) (float64, error)
}

// Exchange accepts orders.
type Exchange interface {
	SubmitOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error)
}

// OrderLookup is implemented by exchanges that can report an order by its
// client order ID. found is false when the exchange has no such order.
type OrderLookup interface {
	LookupOrder(ctx context.Context, symbol, clientOrderID string) (result models.OrderResult, found bool, err error)
}

// Reconciler is implemented by exchanges that can list and cancel resting
// orders.
type Reconciler interface {
	GetOpenOrders(ctx context.Context, symbol string) ([]models.OpenOrder, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) (models.OrderResult, error)
}

// RetryPolicy bounds retries of transient failures with a fixed backoff.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Config holds the execution loop settings.
type Config struct {
	Symbol            string
	TradeAmount       float64
	CheckInterval     time.Duration
	KlineInterval     string
	KlineLimit        int
	OrderType         models.OrderType
	QuantityPrecision int32
	Retry             RetryPolicy
}

// CycleReport summarizes what one cycle observed and did.
type CycleReport struct {
	Price      float64
	Analysis   strategy.Analysis
	Exit       risk.ExitDecision
	Entry      *risk.EntryDecision
	Order      *models.OrderRequest
	Result     *models.OrderResult
	Transition *position.Transition
}

// Acted reports whether the cycle changed the position.
func (r CycleReport) Acted() bool {
	return r.Transition != nil
}
