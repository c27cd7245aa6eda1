package binance

import (
	"context"
	"errors"
	"fmt"

	"SpotTradeBot/internal/models"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"
)

// SubmitOrder places a MARKET or LIMIT (GTC) order and reports its fill.
func (c *BinanceClient) SubmitOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	qty := c.formatQuantity(req.Quantity)
	if qty == "0" {
		return models.OrderResult{}, fmt.Errorf("%w: quantity %.8f rounds to zero", models.ErrInvalidParameter, req.Quantity)
	}

	if err := c.wait(ctx); err != nil {
		return models.OrderResult{}, err
	}

	svc := c.client.NewCreateOrderService().
		Symbol(req.Symbol).
		Side(gobinance.SideType(req.Side)).
		Type(gobinance.OrderType(req.Type)).
		Quantity(qty).
		NewOrderRespType(gobinance.NewOrderRespTypeFULL)
	if req.ClientOrderID != "" {
		svc = svc.NewClientOrderID(req.ClientOrderID)
	}

	switch req.Type {
	case models.OrderTypeMarket:
	case models.OrderTypeLimit:
		if req.Price <= 0 {
			return models.OrderResult{}, fmt.Errorf("%w: limit order without price", models.ErrInvalidParameter)
		}
		svc = svc.TimeInForce(gobinance.TimeInForceTypeGTC).Price(c.formatPrice(req.Price))
	default:
		return models.OrderResult{}, fmt.Errorf("%w: order type %q", models.ErrInvalidParameter, req.Type)
	}

	res, err := svc.Do(ctx)
	if err != nil {
		return models.OrderResult{ClientOrderID: req.ClientOrderID, Err: err}, classify("create order", err)
	}

	return newResult(res.OrderID, res.ClientOrderID, string(res.Status), res.ExecutedQuantity, res.CummulativeQuoteQuantity), nil
}

// LookupOrder fetches an order by client order ID. found is false when the
// exchange does not know the order.
func (c *BinanceClient) LookupOrder(ctx context.Context, symbol, clientOrderID string) (models.OrderResult, bool, error) {
	if err := c.wait(ctx); err != nil {
		return models.OrderResult{}, false, err
	}

	o, err := c.client.NewGetOrderService().
		Symbol(symbol).
		OrigClientOrderID(clientOrderID).
		Do(ctx)
	if err != nil {
		if apiCode(err) == codeNoSuchOrder {
			return models.OrderResult{}, false, nil
		}
		return models.OrderResult{}, false, classify("get order", err)
	}

	return newResult(o.OrderID, o.ClientOrderID, string(o.Status), o.ExecutedQuantity, o.CummulativeQuoteQuantity), true, nil
}

// GetOpenOrders lists resting orders for symbol.
func (c *BinanceClient) GetOpenOrders(ctx context.Context, symbol string) ([]models.OpenOrder, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	orders, err := c.client.NewListOpenOrdersService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, classify("list open orders", err)
	}

	open := make([]models.OpenOrder, 0, len(orders))
	for _, o := range orders {
		open = append(open, models.OpenOrder{
			OrderID:          o.OrderID,
			ClientOrderID:    o.ClientOrderID,
			Symbol:           o.Symbol,
			Side:             models.OrderSide(o.Side),
			Type:             models.OrderType(o.Type),
			Price:            parseFloat(o.Price),
			OrigQuantity:     parseFloat(o.OrigQuantity),
			ExecutedQuantity: parseFloat(o.ExecutedQuantity),
			Status:           string(o.Status),
		})
	}
	return open, nil
}

// CancelOrder cancels a resting order and reports what had executed.
func (c *BinanceClient) CancelOrder(ctx context.Context, symbol string, orderID int64) (models.OrderResult, error) {
	if err := c.wait(ctx); err != nil {
		return models.OrderResult{}, err
	}

	res, err := c.client.NewCancelOrderService().
		Symbol(symbol).
		OrderID(orderID).
		Do(ctx)
	if err != nil {
		return models.OrderResult{}, classify("cancel order", err)
	}

	return newResult(res.OrderID, res.OrigClientOrderID, string(res.Status), res.ExecutedQuantity, res.CummulativeQuoteQuantity), nil
}

// newResult builds a binary fill result: any executed quantity counts as
// filled, priced at the volume weighted average.
func newResult(orderID int64, clientOrderID, status, executedQty, cumQuoteQty string) models.OrderResult {
	executed := parseDecimal(executedQty)
	quote := parseDecimal(cumQuoteQty)

	res := models.OrderResult{
		OrderID:       orderID,
		ClientOrderID: clientOrderID,
		Status:        status,
	}
	if executed.IsPositive() {
		res.Filled = true
		res.FilledQuantity, _ = executed.Float64()
		res.AveragePrice, _ = quote.Div(executed).Float64()
	}
	return res
}

func (c *BinanceClient) formatQuantity(q float64) string {
	return decimal.NewFromFloat(q).Truncate(c.quantityPrecision).String()
}

func (c *BinanceClient) formatPrice(p float64) string {
	return decimal.NewFromFloat(p).Round(c.pricePrecision).String()
}

// Binance spot error codes the adapter distinguishes.
const (
	codeUnknown          = -1000
	codeDisconnected     = -1001
	codeUnauthorized     = -1002
	codeTooManyRequests  = -1003
	codeUnexpectedResp   = -1006
	codeTimeout          = -1007
	codeServerBusy       = -1008
	codeTooManyOrders    = -1015
	codeTimestamp        = -1021
	codeInvalidSignature = -1022
	codeBadSymbol        = -1121
	codeNewOrderRejected = -2010
	codeNoSuchOrder      = -2013
	codeBadAPIKeyFormat  = -2014
	codeRejectedMbxKey   = -2015
)

// classify maps a go-binance error onto the models taxonomy, keeping the
// original error in the chain.
func classify(op string, err error) error {
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		// transport failure, timeout or unreadable response
		return fmt.Errorf("%s: %w: %w", op, models.ErrNetwork, err)
	}

	var kind error
	switch apiErr.Code {
	case 0, codeUnknown, codeDisconnected, codeUnexpectedResp, codeTimeout, codeServerBusy, codeTimestamp:
		kind = models.ErrNetwork
	case codeTooManyRequests, codeTooManyOrders:
		kind = models.ErrRateLimit
	case codeUnauthorized, codeInvalidSignature, codeBadAPIKeyFormat, codeRejectedMbxKey:
		kind = models.ErrAuth
	case codeBadSymbol:
		kind = models.ErrInvalidSymbol
	case codeNewOrderRejected:
		if isInsufficientBalance(apiErr.Message) {
			kind = models.ErrInsufficientBalance
		} else {
			kind = models.ErrInvalidParameter
		}
	default:
		kind = models.ErrInvalidParameter
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

func apiCode(err error) int64 {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}
