package binance

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"SpotTradeBot/internal/models"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// Options configures the spot client. BaseURL may point at any venue that
// speaks the Binance spot REST dialect.
type Options struct {
	APIKey            string
	SecretKey         string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	QuantityPrecision int32
	PricePrecision    int32
}

// BinanceClient adapts the go-binance spot client to the market data and
// exchange contracts of the trading loop. Every call waits on a shared rate
// limiter and every failure is mapped onto the models error taxonomy.
type BinanceClient struct {
	client      *gobinance.Client
	rateLimiter *rate.Limiter
	httpClient  *http.Client

	quantityPrecision int32
	pricePrecision    int32
}

func NewBinanceClient(opts Options) *BinanceClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = 20
	}

	// Create custom HTTP client with timeouts
	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	spotClient := gobinance.NewClient(opts.APIKey, opts.SecretKey)
	spotClient.HTTPClient = httpClient
	if opts.BaseURL != "" {
		spotClient.BaseURL = opts.BaseURL
	}

	return &BinanceClient{
		client:            spotClient,
		rateLimiter:       rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		httpClient:        httpClient,
		quantityPrecision: opts.QuantityPrecision,
		pricePrecision:    opts.PricePrecision,
	}
}

func (c *BinanceClient) wait(ctx context.Context) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", models.ErrNetwork, err)
	}
	return nil
}

// GetKlines returns the newest limit klines for symbol, oldest first.
func (c *BinanceClient) GetKlines(ctx context.Context, symbol, interval string, limit int) (models.PriceSeries, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	klines, err := c.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, classify("get klines", err)
	}

	series := make(models.PriceSeries, 0, len(klines))
	for _, k := range klines {
		series = append(series, models.Kline{
			OpenTime:   time.UnixMilli(k.OpenTime).UTC(),
			CloseTime:  time.UnixMilli(k.CloseTime).UTC(),
			Open:       parseFloat(k.Open),
			High:       parseFloat(k.High),
			Low:        parseFloat(k.Low),
			Close:      parseFloat(k.Close),
			Volume:     parseFloat(k.Volume),
			TradeCount: k.TradeNum,
		})
	}
	return series, nil
}

// GetTickerPrice returns the last traded price for symbol.
func (c *BinanceClient) GetTickerPrice(ctx context.Context, symbol string) (float64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}

	prices, err := c.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, classify("get ticker price", err)
	}
	for _, p := range prices {
		if p.Symbol == symbol {
			return parseFloat(p.Price), nil
		}
	}
	return 0, fmt.Errorf("%w: no ticker price for %s", models.ErrInvalidSymbol, symbol)
}

// GetAccountInfo returns the account's trade permission and balances.
func (c *BinanceClient) GetAccountInfo(ctx context.Context) (models.AccountInfo, error) {
	if err := c.wait(ctx); err != nil {
		return models.AccountInfo{}, err
	}

	account, err := c.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return models.AccountInfo{}, classify("get account info", err)
	}

	now := time.Now()
	info := models.AccountInfo{CanTrade: account.CanTrade}
	for _, b := range account.Balances {
		info.Balances = append(info.Balances, models.Balance{
			Asset:       b.Asset,
			Free:        parseFloat(b.Free),
			Locked:      parseFloat(b.Locked),
			LastUpdated: now,
		})
	}
	return info, nil
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		log.Printf("Error parsing decimal %q: %v", s, err)
		return decimal.Zero
	}
	return d
}

func parseFloat(s string) float64 {
	f, _ := parseDecimal(s).Float64()
	return f
}

func isInsufficientBalance(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "insufficient balance")
}
