package trading

import (
	"context"
	"fmt"
	"time"

	"SpotTradeBot/internal/models"
	"SpotTradeBot/internal/services/events"
)

// Submitter sends one order with bounded retries. Every attempt carries the
// same client order ID, and after a transient failure the exchange is asked
// whether the order already exists before it is sent again.
type Submitter struct {
	exchange Exchange
	policy   RetryPolicy
	sink     events.Sink
	sleep    func(time.Duration)
	now      func() time.Time
}

func NewSubmitter(exchange Exchange, policy RetryPolicy, sink events.Sink) *Submitter {
	if sink == nil {
		sink = events.Discard
	}
	return &Submitter{
		exchange: exchange,
		policy:   policy,
		sink:     sink,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Submit returns the exchange's result for req. Non-transient errors abort at
// once; transient ones are retried until the policy is exhausted. Callers
// that must not be interrupted should pass a context without cancellation.
func (s *Submitter) Submit(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	if req.ClientOrderID == "" {
		return models.OrderResult{}, fmt.Errorf("%w: order without client order id", models.ErrInvalidParameter)
	}

	attempts := s.policy.attempts()
	lookup, canLookup := s.exchange.(OrderLookup)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			s.sleep(s.policy.Backoff)

			if canLookup {
				res, found, err := lookup.LookupOrder(ctx, req.Symbol, req.ClientOrderID)
				if err != nil {
					// Unknown whether the earlier send landed; do not send again blind.
					lastErr = fmt.Errorf("failed to look up order %s: %w", req.ClientOrderID, err)
					s.emitFailure(req, attempt, lastErr, attempt < attempts && models.IsTransient(err))
					if !models.IsTransient(err) {
						return models.OrderResult{}, lastErr
					}
					continue
				}
				if found {
					return withClientID(res, req.ClientOrderID), nil
				}
			}
		}

		s.sink.Emit(events.Event{
			Kind:    events.KindOrderSubmitted,
			Time:    s.now(),
			Symbol:  req.Symbol,
			Price:   req.Price,
			Order:   orderRef(req),
			Attempt: attempt,
		})

		res, err := s.exchange.SubmitOrder(ctx, req)
		if err == nil {
			return withClientID(res, req.ClientOrderID), nil
		}

		lastErr = err
		retry := models.IsTransient(err) && attempt < attempts
		s.emitFailure(req, attempt, err, retry)
		if !models.IsTransient(err) {
			return withClientID(res, req.ClientOrderID), err
		}
	}

	return models.OrderResult{ClientOrderID: req.ClientOrderID, Err: lastErr},
		fmt.Errorf("order %s failed after %d attempts: %w", req.ClientOrderID, attempts, lastErr)
}

func (s *Submitter) emitFailure(req models.OrderRequest, attempt int, err error, retrying bool) {
	reason := "giving up"
	switch {
	case retrying:
		reason = "retrying"
	case !models.IsTransient(err):
		reason = "not retryable"
	}
	s.sink.Emit(events.Event{
		Kind:    events.KindOrderFailed,
		Time:    s.now(),
		Symbol:  req.Symbol,
		Order:   orderRef(req),
		Attempt: attempt,
		Reason:  reason,
		Err:     err,
	})
}

func withClientID(res models.OrderResult, id string) models.OrderResult {
	if res.ClientOrderID == "" {
		res.ClientOrderID = id
	}
	return res
}

func orderRef(req models.OrderRequest) *models.OrderRequest {
	r := req
	return &r
}
