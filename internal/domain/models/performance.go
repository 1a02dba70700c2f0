package models

import "github.com/shopspring/decimal"

// HoldingPerformance is the derived view of one holding for a single cycle.
// Optional metrics carry Valid == false when their denominator or input is missing.
type HoldingPerformance struct {
	Ticker             string              `json:"ticker"`
	Shares             decimal.Decimal     `json:"shares"`
	PurchasePrice      decimal.Decimal     `json:"purchase_price"`
	CurrentPrice       decimal.Decimal     `json:"current_price"`
	InvestmentValue    decimal.Decimal     `json:"investment_value"`
	CurrentValue       decimal.Decimal     `json:"current_value"`
	GainLoss           decimal.Decimal     `json:"gain_loss"`
	GainLossPercent    decimal.NullDecimal `json:"gain_loss_percent"`
	DailyChange        decimal.NullDecimal `json:"daily_change"`
	DailyChangePercent decimal.NullDecimal `json:"daily_change_percent"`
	DailyValueChange   decimal.Decimal     `json:"daily_value_change"`
	YTDChange          decimal.NullDecimal `json:"ytd_change"`
	YTDStartValue      decimal.NullDecimal `json:"ytd_start_value"`
	YTDGainLoss        decimal.NullDecimal `json:"ytd_gain_loss"`
}

// HasDailyData reports whether a previous close was available.
func (p HoldingPerformance) HasDailyData() bool { return p.DailyChange.Valid }

// HasYTDData reports whether the holding contributes to the YTD totals.
func (p HoldingPerformance) HasYTDData() bool { return p.YTDStartValue.Valid }

// PortfolioPerformance summarizes all holdings evaluated in a cycle.
type PortfolioPerformance struct {
	TotalInvestment         decimal.Decimal     `json:"total_investment"`
	TotalCurrentValue       decimal.Decimal     `json:"total_current_value"`
	TotalGainLoss           decimal.Decimal     `json:"total_gain_loss"`
	TotalGainLossPercent    decimal.NullDecimal `json:"total_gain_loss_percent"`
	TotalDailyChange        decimal.Decimal     `json:"total_daily_change"`
	TotalDailyChangePercent decimal.Decimal     `json:"total_daily_change_percent"`
	TotalYTDInvestment      decimal.Decimal     `json:"total_ytd_investment"`
	TotalYTDGainLoss        decimal.NullDecimal `json:"total_ytd_gain_loss"`
	TotalYTDPercent         decimal.NullDecimal `json:"total_ytd_percent"`
	Evaluated               int                 `json:"evaluated"`
	WithYTD                 int                 `json:"with_ytd"`
	Skipped                 int                 `json:"skipped"`
}
