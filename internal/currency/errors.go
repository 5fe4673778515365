package currency

import (
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable wraps the last error after the fetch retry budget is
// spent. Callers render it as a "try again / update rates" message.
var ErrUpstreamUnavailable = errors.New("rates API unavailable")

// UnsupportedCurrencyError reports a code missing from the latest quote set.
type UnsupportedCurrencyError struct {
	Currency string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("currency %s not supported", e.Currency)
}
