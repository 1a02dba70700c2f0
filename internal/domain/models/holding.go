package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Holding is one position of the tracked portfolio.
type Holding struct {
	Ticker        string
	Shares        decimal.Decimal
	PurchasePrice decimal.Decimal
}

// NewHolding normalizes the ticker and enforces shares > 0 and purchase_price >= 0.
func NewHolding(ticker string, shares, purchasePrice decimal.Decimal) (Holding, error) {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return Holding{}, &ValidationError{Ticker: ticker, Field: "ticker", Reason: "ticker is required"}
	}
	if !shares.IsPositive() {
		return Holding{}, &ValidationError{Ticker: t, Field: "shares", Reason: "shares must be greater than 0, got " + shares.String()}
	}
	if purchasePrice.IsNegative() {
		return Holding{}, &ValidationError{Ticker: t, Field: "purchase_price", Reason: "purchase_price must be greater than or equal to 0, got " + purchasePrice.String()}
	}
	return Holding{Ticker: t, Shares: shares, PurchasePrice: purchasePrice}, nil
}

// Rejection reports a portfolio record that failed validation at load time.
type Rejection struct {
	Index  int    `json:"index"`
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}
