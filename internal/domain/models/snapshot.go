package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketSnapshot holds the prices known for a ticker at fetch time.
// A field with Valid == false was not available from the provider.
type MarketSnapshot struct {
	Ticker         string              `json:"ticker"`
	CurrentPrice   decimal.NullDecimal `json:"current_price"`
	PreviousClose  decimal.NullDecimal `json:"previous_close"`
	YearStartPrice decimal.NullDecimal `json:"year_start_price"`
	AsOf           time.Time           `json:"as_of"`
}

// HasCurrentPrice reports whether the snapshot can be evaluated.
func (s *MarketSnapshot) HasCurrentPrice() bool {
	return s != nil && s.CurrentPrice.Valid
}

// Price wraps a known value.
func Price(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}
