package strategy

import (
	"fmt"

	"SpotTradeBot/internal/models"
)

// Strategy is a tagged variant over the supported signal generators. The
// zero value is not usable; build one with New.
type Strategy struct {
	kind Kind
	ma   MAParams
	rsi  RSIParams
}

// New validates cfg and returns the configured variant.
func New(cfg Config) (Strategy, error) {
	switch cfg.Kind {
	case KindMACrossover:
		if err := models.ValidateStruct(cfg.MA); err != nil {
			return Strategy{}, fmt.Errorf("ma crossover: %w", err)
		}
		return Strategy{kind: KindMACrossover, ma: cfg.MA}, nil

	case KindRSI:
		if err := models.ValidateStruct(cfg.RSI); err != nil {
			return Strategy{}, fmt.Errorf("rsi: %w", err)
		}
		return Strategy{kind: KindRSI, rsi: cfg.RSI}, nil

	default:
		return Strategy{}, fmt.Errorf("%w: unknown strategy %q", models.ErrInvalidParameter, cfg.Kind)
	}
}

// Kind returns the configured variant.
func (s Strategy) Kind() Kind {
	return s.kind
}

// Name is a human readable label including parameters.
func (s Strategy) Name() string {
	switch s.kind {
	case KindMACrossover:
		return fmt.Sprintf("MA_Cross_%d_%d", s.ma.ShortPeriod, s.ma.LongPeriod)
	case KindRSI:
		return fmt.Sprintf("RSI_%d_%.0f_%.0f", s.rsi.Period, s.rsi.Oversold, s.rsi.Overbought)
	}
	return "unknown"
}

// MinHistory is the number of klines the variant needs to emit anything
// other than HOLD.
func (s Strategy) MinHistory() int {
	switch s.kind {
	case KindMACrossover:
		return s.ma.LongPeriod + 1
	case KindRSI:
		return s.rsi.Period + 1
	}
	return 0
}

// Analyze derives a signal from series. Indicator failures, including
// insufficient history, come back as HOLD with the reason set.
func (s Strategy) Analyze(series models.PriceSeries) Analysis {
	switch s.kind {
	case KindMACrossover:
		return analyzeMACrossover(s.ma, series)
	case KindRSI:
		return analyzeRSI(s.rsi, series)
	}
	return newHoldResult("strategy not configured", nil)
}
