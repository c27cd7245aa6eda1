package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"SpotTradeBot/config"
	"SpotTradeBot/internal/handlers"
	"SpotTradeBot/internal/models"
	"SpotTradeBot/internal/operations/binance"
	"SpotTradeBot/internal/operations/position"
	"SpotTradeBot/internal/repositories"
	"SpotTradeBot/internal/services/events"
	"SpotTradeBot/internal/services/risk"
	"SpotTradeBot/internal/services/strategy"
	"SpotTradeBot/internal/services/trading"
)

func runBot(ctx context.Context, envFile string) error {
	// Load configuration
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	strat, err := strategy.New(strategyConfig(cfg.Strategy))
	if err != nil {
		return err
	}

	riskManager, err := risk.NewManager(risk.Limits{
		MaxPositionValue: cfg.Risk.MaxPositionValue,
		StopLossPct:      cfg.Risk.StopLossPct,
		TakeProfitPct:    cfg.Risk.TakeProfitPct,
	})
	if err != nil {
		return err
	}

	if need := strat.MinHistory(); cfg.Trading.KlineLimit < need {
		logger.Printf("WARNING: KLINE_LIMIT %d is below the %d klines %s needs; it will only HOLD",
			cfg.Trading.KlineLimit, need, strat.Name())
	}

	client := newExchangeClient(cfg)

	sinks := events.Multi{events.NewLogSink(logger)}
	var journal *handlers.JournalHandler
	if cfg.JournalEnabled() {
		db, err := repositories.Open(cfg.Database.DSN())
		if err != nil {
			return err
		}
		journal = handlers.NewJournalHandler(
			repositories.NewOrderRepository(db),
			repositories.NewTradeRepository(db),
			repositories.NewBalanceRepository(db),
			logger,
		)
		sinks = append(sinks, journal)
		logger.Println("Trade journal enabled")
	}

	// Setup context for graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	account, err := client.GetAccountInfo(ctx)
	switch {
	case errors.Is(err, models.ErrAuth):
		return fmt.Errorf("failed to authenticate: %w", err)
	case err != nil:
		logger.Printf("Could not read account info: %v", err)
	default:
		if !account.CanTrade {
			logger.Println("WARNING: account reports trading disabled")
		}
		if journal != nil {
			if err := journal.RecordBalances(account); err != nil {
				logger.Printf("Error saving balances: %v", err)
			}
		}
	}

	trader := trading.NewTrader(
		tradingConfig(cfg),
		client,
		client,
		strat,
		riskManager,
		position.NewMachine(cfg.Trading.Symbol),
		sinks,
	)

	logger.Printf("Trading bot started for %s with strategy %s", cfg.Trading.Symbol, strat.Name())
	logger.Printf("Checking market every %s (%s klines, %s orders)",
		cfg.Trading.CheckInterval, cfg.Trading.KlineInterval, cfg.Order.Type)

	if err := trader.Run(ctx); err != nil {
		return err
	}

	logger.Println("Shutting down...")
	if pos := trader.Position(); pos.State == position.StateLong {
		// Open positions are deliberately left in place on shutdown.
		logger.Printf("WARNING: %s position left open: %.8f @ %.8f since %s; it is not liquidated",
			pos.Symbol, pos.Quantity, pos.EntryPrice, pos.OpenedAt.Format("2006-01-02 15:04:05"))
	}
	logger.Println("Shutdown complete")
	return nil
}

func checkConnection(ctx context.Context, out io.Writer, envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Connection test")
	if err := cfg.RequireCredentials(); err != nil {
		fmt.Fprintf(out, "FAIL API keys: %v\n", err)
		return err
	}
	fmt.Fprintln(out, "OK   API keys found")

	client := newExchangeClient(cfg)

	price, err := client.GetTickerPrice(ctx, cfg.Trading.Symbol)
	if err != nil {
		fmt.Fprintf(out, "FAIL ticker %s: %v\n", cfg.Trading.Symbol, err)
		return err
	}
	fmt.Fprintf(out, "OK   %s price: %.8f\n", cfg.Trading.Symbol, price)

	account, err := client.GetAccountInfo(ctx)
	if err != nil {
		fmt.Fprintf(out, "FAIL account info: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "OK   authenticated, %d balances, trading enabled: %t\n", len(account.Balances), account.CanTrade)

	nonZero := account.NonZero()
	for i, b := range nonZero {
		if i == 5 {
			fmt.Fprintf(out, "     ... and %d more\n", len(nonZero)-5)
			break
		}
		fmt.Fprintf(out, "     %s: free %.8f locked %.8f\n", b.Asset, b.Free, b.Locked)
	}

	printSettings(out, cfg)
	return nil
}

// printSettings shows the trading configuration the bot would run with.
func printSettings(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Configuration")
	fmt.Fprintf(out, "     symbol:        %s\n", cfg.Trading.Symbol)
	fmt.Fprintf(out, "     trade amount:  %.8f\n", cfg.Trading.TradeAmount)
	fmt.Fprintf(out, "     check every:   %s (%s klines x%d)\n", cfg.Trading.CheckInterval, cfg.Trading.KlineInterval, cfg.Trading.KlineLimit)
	switch strategy.Kind(cfg.Strategy.Kind) {
	case strategy.KindRSI:
		fmt.Fprintf(out, "     strategy:      RSI(%d) oversold %.2f overbought %.2f\n",
			cfg.Strategy.RSIPeriod, cfg.Strategy.RSIOversold, cfg.Strategy.RSIOverbought)
	default:
		fmt.Fprintf(out, "     strategy:      %s (%d/%d)\n", cfg.Strategy.Kind, cfg.Strategy.ShortPeriod, cfg.Strategy.LongPeriod)
	}
	fmt.Fprintf(out, "     stop loss:     %.2f%%\n", cfg.Risk.StopLossPct)
	fmt.Fprintf(out, "     take profit:   %.2f%%\n", cfg.Risk.TakeProfitPct)
	fmt.Fprintf(out, "     max position:  %.8f\n", cfg.Risk.MaxPositionValue)
	fmt.Fprintf(out, "     orders:        %s, %d attempts\n", cfg.Order.Type, cfg.Order.MaxAttempts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(out, "WARN %v\n", err)
	}
}

func newExchangeClient(cfg *config.Config) *binance.BinanceClient {
	return binance.NewBinanceClient(binance.Options{
		APIKey:            cfg.Exchange.APIKey,
		SecretKey:         cfg.Exchange.SecretKey,
		BaseURL:           cfg.Exchange.BaseURL,
		RequestsPerSecond: cfg.Exchange.RequestsPerSecond,
		QuantityPrecision: cfg.Order.QuantityPrecision,
		PricePrecision:    cfg.Order.PricePrecision,
	})
}

func strategyConfig(c config.StrategyConfig) strategy.Config {
	return strategy.Config{
		Kind: strategy.Kind(c.Kind),
		MA: strategy.MAParams{
			ShortPeriod: c.ShortPeriod,
			LongPeriod:  c.LongPeriod,
		},
		RSI: strategy.RSIParams{
			Period:     c.RSIPeriod,
			Oversold:   c.RSIOversold,
			Overbought: c.RSIOverbought,
		},
	}
}

func tradingConfig(cfg *config.Config) trading.Config {
	return trading.Config{
		Symbol:            cfg.Trading.Symbol,
		TradeAmount:       cfg.Trading.TradeAmount,
		CheckInterval:     cfg.Trading.CheckInterval,
		KlineInterval:     cfg.Trading.KlineInterval,
		KlineLimit:        cfg.Trading.KlineLimit,
		OrderType:         models.OrderType(cfg.Order.Type),
		QuantityPrecision: cfg.Order.QuantityPrecision,
		Retry: trading.RetryPolicy{
			MaxAttempts: cfg.Order.MaxAttempts,
			Backoff:     cfg.Order.RetryBackoff,
		},
	}
}

// newLogger writes to stderr and, when path is set, appends to that file.
func newLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(os.Stderr, "", log.LstdFlags), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return log.New(io.MultiWriter(os.Stderr, f), "", log.LstdFlags), func() { f.Close() }, nil
}
