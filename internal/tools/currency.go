package tools

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"travel-assistant/internal/currency"
)

// CurrencyTool renders conversions and rate refreshes into user-facing
// sentences over the currency converter.
type CurrencyTool struct {
	conv *currency.Converter
}

func NewCurrencyTool(conv *currency.Converter) *CurrencyTool {
	return &CurrencyTool{conv: conv}
}

// Convert answers "how much is X in Y" from the stored rates.
func (t *CurrencyTool) Convert(amount float64, fromCur, toCur string) string {
	res, err := t.conv.Convert(amount, fromCur, toCur)
	if err != nil {
		log.Printf("currency conversion error: %v", err)
		var unsupported *currency.UnsupportedCurrencyError
		if errors.As(err, &unsupported) {
			return fmt.Sprintf("Currency conversion failed: %v. Try updating currency rates.", err)
		}
		return fmt.Sprintf("Currency conversion failed: %v.", err)
	}

	context := " (that's about the cost of a coffee)"
	if res.Result >= 20 {
		context = " (that's about the cost of a nice dinner)"
	}
	return fmt.Sprintf("%s %s is %s %s%s.", trimAmount(amount), res.From, trimAmount(res.Result), res.To, context)
}

// UpdateRates refreshes the stored rates on demand.
func (t *CurrencyTool) UpdateRates(ctx context.Context) string {
	res, err := t.conv.Refresh(ctx)
	if err != nil {
		return fmt.Sprintf("Failed to update currency rates: %v.", err)
	}
	return fmt.Sprintf("Currency rates updated successfully for %s.", res.Date)
}

func trimAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
