package strategy

import (
	"fmt"

	"SpotTradeBot/internal/models"
	"SpotTradeBot/internal/services/indicators"
)

func analyzeRSI(p RSIParams, series models.PriceSeries) Analysis {
	rsi, err := indicators.RelativeStrengthIndex(series, p.Period)
	if err != nil {
		return newHoldResult(err.Error(), nil)
	}

	values := map[string]float64{"rsi": rsi}
	switch {
	case rsi < p.Oversold:
		return Analysis{
			Signal: SignalBuy,
			Reason: fmt.Sprintf("oversold: RSI%d %.2f < %.2f", p.Period, rsi, p.Oversold),
			Values: values,
		}
	case rsi > p.Overbought:
		return Analysis{
			Signal: SignalSell,
			Reason: fmt.Sprintf("overbought: RSI%d %.2f > %.2f", p.Period, rsi, p.Overbought),
			Values: values,
		}
	}
	return newHoldResult(fmt.Sprintf("neutral: RSI%d %.2f", p.Period, rsi), values)
}
