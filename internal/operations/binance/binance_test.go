package binance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SpotTradeBot/internal/models"

	"github.com/adshao/go-binance/v2/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *BinanceClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBinanceClient(Options{
		APIKey:            "key",
		SecretKey:         "secret",
		BaseURL:           srv.URL,
		RequestsPerSecond: 1000,
		Burst:             1000,
		QuantityPrecision: 6,
		PricePrecision:    2,
	})
}

func TestGetKlines(t *testing.T) {
	var query string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		query = r.URL.RawQuery
		fmt.Fprint(w, `[
			[1700000000000,"100.0","101.0","99.0","100.5","12.5",1700000299999,"1256.25",42,"6.0","603.0","0"],
			[1700000300000,"100.5","102.0","100.0","101.5","8.25",1700000599999,"837.375",17,"4.0","406.0","0"]
		]`)
	})

	series, err := c.GetKlines(context.Background(), "BTCUSDT", "5m", 2)
	require.NoError(t, err)
	assert.Contains(t, query, "symbol=BTCUSDT")
	assert.Contains(t, query, "interval=5m")
	assert.Contains(t, query, "limit=2")

	require.Len(t, series, 2)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), series[0].OpenTime)
	assert.Equal(t, 100.5, series[0].Close)
	assert.Equal(t, 12.5, series[0].Volume)
	assert.Equal(t, int64(42), series[0].TradeCount)
	assert.Equal(t, 101.5, series[1].Close)
	assert.NoError(t, series.Validate())
}

func TestGetTickerPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		fmt.Fprint(w, `[{"symbol":"BTCUSDT","price":"50123.45000000"}]`)
	})

	price, err := c.GetTickerPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 50123.45, price)
}

func TestGetAccountInfo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/account", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-MBX-APIKEY"))
		fmt.Fprint(w, `{"canTrade":true,"balances":[
			{"asset":"BTC","free":"0.00100000","locked":"0.00000000"},
			{"asset":"ETH","free":"0.00000000","locked":"0.00000000"},
			{"asset":"USDT","free":"100.50000000","locked":"5.00000000"}
		]}`)
	})

	info, err := c.GetAccountInfo(context.Background())
	require.NoError(t, err)
	assert.True(t, info.CanTrade)
	require.Len(t, info.Balances, 3)

	nonZero := info.NonZero()
	require.Len(t, nonZero, 2)
	assert.Equal(t, "BTC", nonZero[0].Asset)
	assert.Equal(t, 5.0, nonZero[1].Locked)
}

func TestSubmitMarketOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/order", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "BUY", r.Form.Get("side"))
		assert.Equal(t, "MARKET", r.Form.Get("type"))
		assert.Equal(t, "0.001234", r.Form.Get("quantity"))
		assert.Equal(t, "cid-1", r.Form.Get("newClientOrderId"))
		assert.Empty(t, r.Form.Get("price"))
		fmt.Fprint(w, `{"symbol":"BTCUSDT","orderId":77,"clientOrderId":"cid-1","transactTime":1700000000000,
			"price":"0.00000000","origQty":"0.00123400","executedQty":"0.00123400",
			"cummulativeQuoteQty":"61.70000000","status":"FILLED","timeInForce":"GTC","type":"MARKET","side":"BUY","fills":[]}`)
	})

	res, err := c.SubmitOrder(context.Background(), models.OrderRequest{
		Symbol: "BTCUSDT", Side: models.OrderSideBuy, Type: models.OrderTypeMarket,
		Quantity: 0.0012345678, ClientOrderID: "cid-1",
	})
	require.NoError(t, err)
	assert.True(t, res.Filled)
	assert.Equal(t, 0.001234, res.FilledQuantity)
	assert.InDelta(t, 50000, res.AveragePrice, 1e-6)
	assert.Equal(t, int64(77), res.OrderID)
	assert.Equal(t, models.OrderStatusFilled, res.Status)
}

func TestSubmitLimitOrderResting(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "LIMIT", r.Form.Get("type"))
		assert.Equal(t, "GTC", r.Form.Get("timeInForce"))
		assert.Equal(t, "50000.13", r.Form.Get("price"))
		fmt.Fprint(w, `{"symbol":"BTCUSDT","orderId":78,"clientOrderId":"cid-2","executedQty":"0.00000000",
			"cummulativeQuoteQty":"0.00000000","status":"NEW","type":"LIMIT","side":"BUY"}`)
	})

	res, err := c.SubmitOrder(context.Background(), models.OrderRequest{
		Symbol: "BTCUSDT", Side: models.OrderSideBuy, Type: models.OrderTypeLimit,
		Quantity: 0.001, Price: 50000.129, ClientOrderID: "cid-2",
	})
	require.NoError(t, err)
	assert.False(t, res.Filled)
	assert.Equal(t, models.OrderStatusNew, res.Status)
}

func TestSubmitOrderRejectsZeroQuantity(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := c.SubmitOrder(context.Background(), models.OrderRequest{
		Symbol: "BTCUSDT", Side: models.OrderSideBuy, Type: models.OrderTypeMarket, Quantity: 0.0000001,
	})
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
	assert.False(t, called)
}

func TestSubmitOrderErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"insufficient balance", http.StatusBadRequest, `{"code":-2010,"msg":"Account has insufficient balance for requested action."}`, models.ErrInsufficientBalance},
		{"order rejected", http.StatusBadRequest, `{"code":-2010,"msg":"Market is closed."}`, models.ErrInvalidParameter},
		{"bad signature", http.StatusUnauthorized, `{"code":-1022,"msg":"Signature for this request is not valid."}`, models.ErrAuth},
		{"bad key", http.StatusUnauthorized, `{"code":-2015,"msg":"Invalid API-key, IP, or permissions for action."}`, models.ErrAuth},
		{"bad symbol", http.StatusBadRequest, `{"code":-1121,"msg":"Invalid symbol."}`, models.ErrInvalidSymbol},
		{"rate limited", http.StatusTooManyRequests, `{"code":-1003,"msg":"Too many requests."}`, models.ErrRateLimit},
		{"timeout", http.StatusServiceUnavailable, `{"code":-1007,"msg":"Timeout waiting for response from backend server."}`, models.ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})

			_, err := c.SubmitOrder(context.Background(), models.OrderRequest{
				Symbol: "BTCUSDT", Side: models.OrderSideBuy, Type: models.OrderTypeMarket, Quantity: 0.001, ClientOrderID: "cid",
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *common.APIError
			assert.True(t, errors.As(err, &apiErr), "api error kept in chain")
		})
	}
}

func TestClassifyTransportFailure(t *testing.T) {
	err := classify("get klines", errors.New("dial tcp: connection refused"))
	assert.ErrorIs(t, err, models.ErrNetwork)
	assert.True(t, models.IsTransient(err))
}

func TestLookupOrder(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v3/order", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "cid-3", r.URL.Query().Get("origClientOrderId"))
			fmt.Fprint(w, `{"symbol":"BTCUSDT","orderId":79,"clientOrderId":"cid-3","executedQty":"0.00200000",
				"cummulativeQuoteQty":"99.00000000","status":"FILLED","type":"MARKET","side":"SELL"}`)
		})

		res, found, err := c.LookupOrder(context.Background(), "BTCUSDT", "cid-3")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, res.Filled)
		assert.InDelta(t, 49500, res.AveragePrice, 1e-6)
	})

	t.Run("unknown", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"code":-2013,"msg":"Order does not exist."}`)
		})

		_, found, err := c.LookupOrder(context.Background(), "BTCUSDT", "cid-4")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestOpenOrdersAndCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v3/openOrders":
			fmt.Fprint(w, `[{"symbol":"BTCUSDT","orderId":80,"clientOrderId":"cid-5","price":"49000.00","origQty":"0.00100000",
				"executedQty":"0.00040000","status":"PARTIALLY_FILLED","type":"LIMIT","side":"BUY"}]`)
		case r.URL.Path == "/api/v3/order" && r.Method == http.MethodDelete:
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, r.URL.RawQuery+"&"+string(body), "orderId=80")
			fmt.Fprint(w, `{"symbol":"BTCUSDT","orderId":80,"origClientOrderId":"cid-5","clientOrderId":"cancel-1",
				"executedQty":"0.00040000","cummulativeQuoteQty":"19.60000000","status":"CANCELED","type":"LIMIT","side":"BUY"}`)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	open, err := c.GetOpenOrders(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "cid-5", open[0].ClientOrderID)
	assert.Equal(t, 0.0004, open[0].ExecutedQuantity)
	assert.Equal(t, 49000.0, open[0].Price)

	res, err := c.CancelOrder(context.Background(), "BTCUSDT", open[0].OrderID)
	require.NoError(t, err)
	assert.Equal(t, "cid-5", res.ClientOrderID)
	assert.Equal(t, models.OrderStatusCanceled, res.Status)
	assert.True(t, res.Filled)
	assert.InDelta(t, 49000, res.AveragePrice, 1e-6)
}
