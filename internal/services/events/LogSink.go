package events

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"SpotTradeBot/internal/models"
)

// LogSink renders events as single log lines.
type LogSink struct {
	logger *log.Logger
}

func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(e Event) {
	s.logger.Print(Format(e))
}

// Format renders e as "kind symbol key=value ..." with stable key order.
func Format(e Event) string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Symbol != "" {
		b.WriteString(" ")
		b.WriteString(e.Symbol)
	}
	if e.Price > 0 {
		fmt.Fprintf(&b, " price=%.8f", e.Price)
	}
	if e.Signal != "" {
		fmt.Fprintf(&b, " signal=%s", e.Signal)
	}
	if len(e.Indicators) > 0 {
		keys := make([]string, 0, len(e.Indicators))
		for k := range e.Indicators {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%.8f", k, e.Indicators[k])
		}
	}
	if o := e.Order; o != nil {
		fmt.Fprintf(&b, " side=%s type=%s qty=%.8f", o.Side, o.Type, o.Quantity)
		if o.Type == models.OrderTypeLimit {
			fmt.Fprintf(&b, " limit=%.8f", o.Price)
		}
		if o.ClientOrderID != "" {
			fmt.Fprintf(&b, " client_id=%s", o.ClientOrderID)
		}
	}
	if e.Attempt > 0 {
		fmt.Fprintf(&b, " attempt=%d", e.Attempt)
	}
	if r := e.Result; r != nil {
		fmt.Fprintf(&b, " filled=%t filled_qty=%.8f avg_price=%.8f status=%s",
			r.Filled, r.FilledQuantity, r.AveragePrice, r.Status)
		if r.OrderID != 0 {
			fmt.Fprintf(&b, " order_id=%d", r.OrderID)
		}
	}
	if e.FromState != "" || e.ToState != "" {
		fmt.Fprintf(&b, " %s->%s", e.FromState, e.ToState)
	}
	if e.EntryPrice > 0 {
		fmt.Fprintf(&b, " entry=%.8f", e.EntryPrice)
	}
	if e.Quantity > 0 {
		fmt.Fprintf(&b, " qty=%.8f", e.Quantity)
	}
	if e.Kind == KindRealizedPnL || e.Kind == KindForcedExit {
		fmt.Fprintf(&b, " pnl=%.8f pnl_pct=%.2f%%", e.PnL, e.PnLPct)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, " reason=%q", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " error_kind=%s error=%q", models.ErrorKind(e.Err), e.Err.Error())
	}
	return b.String()
}
