package performance

import (
	"github.com/shopspring/decimal"

	"FolioPull/internal/domain/models"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Compute derives the performance of one holding from its market snapshot.
// It returns an *models.OmissionError when the snapshot carries no current price;
// the caller skips the holding and keeps going with the rest of the batch.
func Compute(h models.Holding, s *models.MarketSnapshot) (models.HoldingPerformance, error) {
	if !s.HasCurrentPrice() {
		return models.HoldingPerformance{}, &models.OmissionError{Ticker: h.Ticker, Reason: models.OmitMissingPrice}
	}

	price := s.CurrentPrice.Decimal
	invested := h.Shares.Mul(h.PurchasePrice)
	value := h.Shares.Mul(price)
	gain := value.Sub(invested)

	p := models.HoldingPerformance{
		Ticker:           h.Ticker,
		Shares:           h.Shares,
		PurchasePrice:    h.PurchasePrice,
		CurrentPrice:     price,
		InvestmentValue:  invested,
		CurrentValue:     value,
		GainLoss:         gain,
		GainLossPercent:  Percent(gain, invested),
		DailyValueChange: decimal.Zero,
	}

	if s.PreviousClose.Valid {
		prev := s.PreviousClose.Decimal
		change := price.Sub(prev)
		p.DailyChange = decimal.NewNullDecimal(change)
		p.DailyChangePercent = Percent(change, prev)
		p.DailyValueChange = h.Shares.Mul(change)
	}

	if s.YearStartPrice.Valid {
		start := s.YearStartPrice.Decimal
		p.YTDChange = Percent(price.Sub(start), start)
		if p.YTDChange.Valid {
			p.YTDStartValue = YTDStartValue(value, p.YTDChange.Decimal)
		}
		if p.YTDStartValue.Valid {
			p.YTDGainLoss = decimal.NewNullDecimal(value.Sub(p.YTDStartValue.Decimal))
		}
	}

	return p, nil
}

// Percent returns num/den*100, or an undefined value when den is zero.
func Percent(num, den decimal.Decimal) decimal.NullDecimal {
	if den.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(num.Div(den).Mul(hundred))
}

// YTDStartValue back-calculates the year-start value of a position from its
// current value and YTD percentage: value / (1 + pct/100).
// The result is undefined for pct == -100.
func YTDStartValue(value, pct decimal.Decimal) decimal.NullDecimal {
	den := one.Add(pct.Div(hundred))
	if den.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(value.Div(den))
}
