package models

import "errors"

var (
	// ErrInsufficientData means the price history is shorter than an
	// indicator period requires.
	ErrInsufficientData = errors.New("insufficient data")

	ErrNetwork             = errors.New("network error")
	ErrRateLimit           = errors.New("rate limit exceeded")
	ErrAuth                = errors.New("authentication failed")
	ErrInvalidSymbol       = errors.New("invalid symbol")
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrRateLimit)
}

// ErrorKind returns a short label for the taxonomy class of err.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrRateLimit):
		return "rate_limit"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrInvalidSymbol):
		return "invalid_symbol"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, ErrInsufficientBalance):
		return "insufficient_balance"
	default:
		return "unknown"
	}
}
