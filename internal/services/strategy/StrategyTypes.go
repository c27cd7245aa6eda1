package strategy

// Signal is the directional output of a strategy for one cycle.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// Kind selects the strategy variant.
type Kind string

const (
	KindMACrossover Kind = "MA"
	KindRSI         Kind = "RSI"
)

type MAParams struct {
	ShortPeriod int `validate:"gt=0,ltfield=LongPeriod"`
	LongPeriod  int `validate:"gt=0"`
}

type RSIParams struct {
	Period     int     `validate:"gt=0"`
	Oversold   float64 `validate:"gte=0,ltfield=Overbought"`
	Overbought float64 `validate:"lte=100"`
}

// Config is the configuration-time choice of variant and its parameters.
// Only the params matching Kind are read.
type Config struct {
	Kind Kind
	MA   MAParams
	RSI  RSIParams
}

// Analysis is the result of one Analyze call. Values holds the indicator
// readings that produced the signal, keyed by name.
type Analysis struct {
	Signal Signal
	Reason string
	Values map[string]float64
}

// Helper function for hold results
func newHoldResult(reason string, values map[string]float64) Analysis {
	return Analysis{
		Signal: SignalHold,
		Reason: reason,
		Values: values,
	}
}
