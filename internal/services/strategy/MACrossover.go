package strategy

import (
	"fmt"

	"SpotTradeBot/internal/models"
	"SpotTradeBot/internal/services/indicators"
)

// analyzeMACrossover signals only on the cycle where the short MA crosses
// the long MA, comparing the newest window against the one before it.
func analyzeMACrossover(p MAParams, series models.PriceSeries) Analysis {
	closes := series.Closes()

	shortMA, err := indicators.SMA(closes, p.ShortPeriod)
	if err != nil {
		return newHoldResult(err.Error(), nil)
	}
	longMA, err := indicators.SMA(closes, p.LongPeriod)
	if err != nil {
		return newHoldResult(err.Error(), nil)
	}

	values := map[string]float64{
		"short_ma": shortMA,
		"long_ma":  longMA,
	}

	prev := closes[:len(closes)-1]
	prevShortMA, err := indicators.SMA(prev, p.ShortPeriod)
	if err != nil {
		return newHoldResult(err.Error(), values)
	}
	prevLongMA, err := indicators.SMA(prev, p.LongPeriod)
	if err != nil {
		return newHoldResult(err.Error(), values)
	}
	values["prev_short_ma"] = prevShortMA
	values["prev_long_ma"] = prevLongMA

	switch {
	case prevShortMA <= prevLongMA && shortMA > longMA:
		return Analysis{
			Signal: SignalBuy,
			Reason: fmt.Sprintf("golden cross: MA%d(%.8f) > MA%d(%.8f)", p.ShortPeriod, shortMA, p.LongPeriod, longMA),
			Values: values,
		}
	case prevShortMA >= prevLongMA && shortMA < longMA:
		return Analysis{
			Signal: SignalSell,
			Reason: fmt.Sprintf("death cross: MA%d(%.8f) < MA%d(%.8f)", p.ShortPeriod, shortMA, p.LongPeriod, longMA),
			Values: values,
		}
	}
	return newHoldResult("no crossover", values)
}
