package config

import "time"

type Config struct {
	Exchange ExchangeConfig
	Database DatabaseConfig
	Trading  TradingConfig
	Strategy StrategyConfig
	Risk     RiskConfig
	Order    OrderConfig
	LogFile  string
}

type ExchangeConfig struct {
	APIKey            string
	SecretKey         string
	BaseURL           string
	RequestsPerSecond float64 `validate:"gte=0"`
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type TradingConfig struct {
	Symbol        string        `validate:"required,alphanum"`
	TradeAmount   float64       `validate:"gt=0"`
	CheckInterval time.Duration `validate:"gt=0"`
	KlineInterval string        `validate:"oneof=1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h 1d 3d 1w 1M"`
	KlineLimit    int           `validate:"gt=0,lte=1000"`
}

type StrategyConfig struct {
	Kind          string  `validate:"oneof=MA RSI"`
	ShortPeriod   int     `validate:"gt=0,ltfield=LongPeriod"`
	LongPeriod    int     `validate:"gt=0"`
	RSIPeriod     int     `validate:"gt=0"`
	RSIOversold   float64 `validate:"gte=0,ltfield=RSIOverbought"`
	RSIOverbought float64 `validate:"lte=100"`
}

type RiskConfig struct {
	MaxPositionValue float64 `validate:"gt=0"`
	StopLossPct      float64 `validate:"gt=0"`
	TakeProfitPct    float64 `validate:"gt=0"`
}

type OrderConfig struct {
	Type              string        `validate:"oneof=MARKET LIMIT"`
	QuantityPrecision int32         `validate:"gte=0,lte=18"`
	PricePrecision    int32         `validate:"gte=0,lte=18"`
	MaxAttempts       int           `validate:"min=1"`
	RetryBackoff      time.Duration `validate:"gte=0"`
}

