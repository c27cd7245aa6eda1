package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"SpotTradeBot/internal/models"

	"github.com/joho/godotenv"
)

// Load reads .env (when present) and the process environment.
func Load(filenames ...string) (*Config, error) {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds a config from the process environment only.
func FromEnv() *Config {
	return &Config{
		Exchange: ExchangeConfig{
			APIKey:            os.Getenv("EXCHANGE_API_KEY"),
			SecretKey:         os.Getenv("EXCHANGE_SECRET_KEY"),
			BaseURL:           os.Getenv("EXCHANGE_BASE_URL"),
			RequestsPerSecond: EnvToFloat("REQUESTS_PER_SECOND", 10),
		},
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     EnvtoInt(os.Getenv("DB_PORT")),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Trading: TradingConfig{
			Symbol:        strings.ToUpper(envOr("TRADING_SYMBOL", "BTCUSDT")),
			TradeAmount:   EnvToFloat("TRADE_AMOUNT", 10),
			CheckInterval: time.Duration(EnvToIntOr("CHECK_INTERVAL", 60)) * time.Second,
			KlineInterval: envOr("KLINE_INTERVAL", models.PriceTimeFrame5m),
			KlineLimit:    EnvToIntOr("KLINE_LIMIT", 100),
		},
		Strategy: StrategyConfig{
			Kind:          strings.ToUpper(envOr("STRATEGY", "MA")),
			ShortPeriod:   EnvToIntOr("MA_SHORT_PERIOD", 10),
			LongPeriod:    EnvToIntOr("MA_LONG_PERIOD", 20),
			RSIPeriod:     EnvToIntOr("RSI_PERIOD", 14),
			RSIOversold:   EnvToFloat("RSI_OVERSOLD", 30),
			RSIOverbought: EnvToFloat("RSI_OVERBOUGHT", 70),
		},
		Risk: RiskConfig{
			MaxPositionValue: EnvToFloat("MAX_POSITION_SIZE", 1000),
			StopLossPct:      EnvToFloat("STOP_LOSS_PERCENTAGE", 2.0),
			TakeProfitPct:    EnvToFloat("TAKE_PROFIT_PERCENTAGE", 3.0),
		},
		Order: OrderConfig{
			Type:              strings.ToUpper(envOr("ORDER_TYPE", string(models.OrderTypeMarket))),
			QuantityPrecision: int32(EnvToIntOr("QUANTITY_PRECISION", 6)),
			PricePrecision:    int32(EnvToIntOr("PRICE_PRECISION", 2)),
			MaxAttempts:       EnvToIntOr("ORDER_MAX_ATTEMPTS", 3),
			RetryBackoff:      time.Duration(EnvToIntOr("ORDER_RETRY_BACKOFF_MS", 2000)) * time.Millisecond,
		},
		LogFile: os.Getenv("LOG_FILE"),
	}
}

// Validate rejects settings the bot cannot run with.
func (c *Config) Validate() error {
	if err := models.ValidateStruct(c); err != nil {
		return err
	}
	if c.Risk.TradeAmountExceeds(c.Trading.TradeAmount) {
		return fmt.Errorf("%w: TRADE_AMOUNT %.8f exceeds MAX_POSITION_SIZE %.8f; every entry would be denied",
			models.ErrInvalidParameter, c.Trading.TradeAmount, c.Risk.MaxPositionValue)
	}
	return nil
}

// RequireCredentials fails when API keys are missing or still placeholders.
func (c *Config) RequireCredentials() error {
	key, secret := c.Exchange.APIKey, c.Exchange.SecretKey
	if key == "" || secret == "" {
		return fmt.Errorf("%w: EXCHANGE_API_KEY and EXCHANGE_SECRET_KEY must be set", models.ErrAuth)
	}
	if key == "your_api_key_here" || secret == "your_secret_key_here" {
		return fmt.Errorf("%w: replace the placeholder API keys", models.ErrAuth)
	}
	return nil
}

// JournalEnabled reports whether a database is configured.
func (c *Config) JournalEnabled() bool {
	return c.Database.Host != ""
}

// DSN is the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.DBName)
}

func (r RiskConfig) TradeAmountExceeds(amount float64) bool {
	return r.MaxPositionValue > 0 && amount > r.MaxPositionValue
}

// helper env(string) to int
func EnvtoInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// helper to read an int env var with a default
func EnvToIntOr(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// helper to read a float env var with a default
func EnvToFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
