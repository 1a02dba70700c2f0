package performance

import (
	"github.com/shopspring/decimal"

	"FolioPull/internal/domain/models"
)

// Aggregate folds per-holding records into the portfolio summary.
// skipped is the number of holdings omitted earlier in the cycle.
// The boolean is false when records is empty: there is nothing to summarize
// and callers should report "no data" rather than a zeroed summary.
func Aggregate(records []models.HoldingPerformance, skipped int) (models.PortfolioPerformance, bool) {
	if len(records) == 0 {
		return models.PortfolioPerformance{}, false
	}

	var (
		invested = decimal.Zero
		value    = decimal.Zero
		daily    = decimal.Zero
		ytdBase  = decimal.Zero
		withYTD  int
	)
	for _, r := range records {
		invested = invested.Add(r.InvestmentValue)
		value = value.Add(r.CurrentValue)
		daily = daily.Add(r.DailyValueChange)
		if r.YTDStartValue.Valid {
			ytdBase = ytdBase.Add(r.YTDStartValue.Decimal)
			withYTD++
		}
	}

	gain := value.Sub(invested)
	out := models.PortfolioPerformance{
		TotalInvestment:         invested,
		TotalCurrentValue:       value,
		TotalGainLoss:           gain,
		TotalGainLossPercent:    Percent(gain, invested),
		TotalDailyChange:        daily,
		TotalDailyChangePercent: dailyPercent(value, daily),
		TotalYTDInvestment:      ytdBase,
		Evaluated:               len(records),
		WithYTD:                 withYTD,
		Skipped:                 skipped,
	}

	if withYTD > 0 && ytdBase.IsPositive() {
		ytdGain := value.Sub(ytdBase)
		out.TotalYTDGainLoss = decimal.NewNullDecimal(ytdGain)
		out.TotalYTDPercent = Percent(ytdGain, ytdBase)
	}

	return out, true
}

// dailyPercent measures the daily change against the back-derived previous
// total (value - change), not against a sum of individual previous closes.
func dailyPercent(value, change decimal.Decimal) decimal.Decimal {
	if !value.IsPositive() {
		return decimal.Zero
	}
	pct := Percent(change, value.Sub(change))
	if !pct.Valid {
		return decimal.Zero
	}
	return pct.Decimal
}
