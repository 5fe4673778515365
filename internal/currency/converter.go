package currency

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"travel-assistant/internal/storage"
)

// BaseCurrency is the fixed reference currency all stored quotes are
// expressed against. The upstream never quotes it against itself.
const BaseCurrency = "EUR"

// AuditTool tags the history row written after every successful refresh.
const AuditTool = "update_currency_rates"

// DefaultBasket is the set of codes fetched when a refresh names none.
var DefaultBasket = []string{
	"USD", "AUD", "CAD", "PLN", "MXN", "INR", "NPR", "PKR", "BDT", "CNY",
	"JPY", "RUB", "TWD", "ZAR", "BRL", "ARS", "EGP", "NZD", "GBP",
}

// AuditLogger receives the best-effort refresh audit row. A failed write is
// logged and never fails the refresh itself.
type AuditLogger interface {
	Store(query, response, toolName string)
}

// Conversion is a successful convert call.
type Conversion struct {
	From   string
	To     string
	Amount float64
	Result float64
	Date   string
}

// RefreshResult is a successful refresh: the fetched quotes and their date.
type RefreshResult struct {
	Rates map[string]float64
	Date  string
}

// Converter composes the fetcher and the rate store: it refreshes quotes on
// demand (and on the scheduler's interval) and answers conversions from
// whatever the store currently holds.
type Converter struct {
	fetcher *Fetcher
	store   *storage.RateStore
	audit   AuditLogger
}

// NewConverter wires a converter. audit may be nil when no query cache is
// attached (the standalone refresh daemon without a history db).
func NewConverter(fetcher *Fetcher, store *storage.RateStore, audit AuditLogger) *Converter {
	return &Converter{fetcher: fetcher, store: store, audit: audit}
}

// Refresh fetches the latest quotes and upserts them. Concurrent refreshes
// are safe: the upsert is keyed and idempotent, so the worst case is wasted
// work, not corruption.
func (c *Converter) Refresh(ctx context.Context, symbols ...string) (RefreshResult, error) {
	if len(symbols) == 0 {
		symbols = DefaultBasket
	}

	batch, err := c.fetcher.FetchLatest(ctx, symbols)
	if err != nil {
		return RefreshResult{}, err
	}

	rows := make([]storage.Rate, 0, len(batch.Rates))
	for code, rate := range batch.Rates {
		rows = append(rows, storage.Rate{
			Currency:  code,
			Rate:      rate,
			Timestamp: batch.Timestamp,
			Date:      batch.Date,
		})
	}
	if err := c.store.Upsert(rows); err != nil {
		return RefreshResult{}, err
	}

	if c.audit != nil {
		c.audit.Store(
			AuditTool,
			fmt.Sprintf("Currency rates updated successfully for %s.", batch.Date),
			AuditTool,
		)
	}

	log.Printf("updated %d rates for %s", len(rows), batch.Date)
	return RefreshResult{Rates: batch.Rates, Date: batch.Date}, nil
}

// Convert answers amount from→to using the newest stored quotes. Both codes
// must appear in the latest quote set; the base currency itself is implicitly
// quoted at 1.0, which also makes base→base an identity conversion.
func (c *Converter) Convert(amount float64, from, to string) (Conversion, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	latest, err := c.store.Latest(from, to)
	if err != nil {
		return Conversion{}, err
	}
	rates := latest.Rates
	if _, ok := rates[BaseCurrency]; !ok {
		rates[BaseCurrency] = 1.0
	}

	if _, ok := rates[from]; !ok {
		return Conversion{}, &UnsupportedCurrencyError{Currency: from}
	}
	if _, ok := rates[to]; !ok {
		return Conversion{}, &UnsupportedCurrencyError{Currency: to}
	}

	rate := rates[to]
	if from != BaseCurrency {
		rate = rates[to] / rates[from]
	}

	return Conversion{
		From:   from,
		To:     to,
		Amount: amount,
		Result: math.Round(amount*rate*100) / 100,
		Date:   latest.Date,
	}, nil
}
