package models

type OrderSide string

type OrderType string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"

	OrderTypeMarket OrderType = "MARKET"
	OrderTypeLimit  OrderType = "LIMIT"
)

// OrderRequest is the venue-neutral order the engine asks the exchange for.
type OrderRequest struct {
	Symbol        string
	Side          OrderSide
	Type          OrderType
	Quantity      float64
	Price         float64 // LIMIT only
	ClientOrderID string
}

// OrderResult is the exchange's answer to an OrderRequest. Fills are binary:
// Filled is true when any quantity executed and FilledQuantity is what the
// position records.
type OrderResult struct {
	Filled         bool
	FilledQuantity float64
	AveragePrice   float64
	OrderID        int64
	ClientOrderID  string
	Status         string
	Err            error
}

// Notional returns the quote value of the request at its limit price, or at
// the supplied reference price for market orders.
func (r OrderRequest) Notional(refPrice float64) float64 {
	if r.Type == OrderTypeLimit && r.Price > 0 {
		return r.Quantity * r.Price
	}
	return r.Quantity * refPrice
}

// OpenOrder is a resting order reported by the exchange.
type OpenOrder struct {
	OrderID          int64
	ClientOrderID    string
	Symbol           string
	Side             OrderSide
	Type             OrderType
	Price            float64
	OrigQuantity     float64
	ExecutedQuantity float64
	Status           string
}

const (
	OrderStatusNew             = "NEW"
	OrderStatusPartiallyFilled = "PARTIALLY_FILLED"
	OrderStatusFilled          = "FILLED"
	OrderStatusCanceled        = "CANCELED"
	OrderStatusRejected        = "REJECTED"
	OrderStatusExpired         = "EXPIRED"
)

// IsTerminalOrderStatus reports whether an order in status can no longer
// execute.
func IsTerminalOrderStatus(status string) bool {
	switch status {
	case OrderStatusFilled, OrderStatusCanceled, OrderStatusRejected, OrderStatusExpired:
		return true
	}
	return false
}
