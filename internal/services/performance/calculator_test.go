package performance

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FolioPull/internal/domain/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func holding(t *testing.T, ticker, shares, price string) models.Holding {
	t.Helper()
	h, err := models.NewHolding(ticker, dec(shares), dec(price))
	require.NoError(t, err)
	return h
}

func snapshot(current, prev, yearStart string) *models.MarketSnapshot {
	s := &models.MarketSnapshot{}
	if current != "" {
		s.CurrentPrice = models.Price(dec(current))
	}
	if prev != "" {
		s.PreviousClose = models.Price(dec(prev))
	}
	if yearStart != "" {
		s.YearStartPrice = models.Price(dec(yearStart))
	}
	return s
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func assertNullDec(t *testing.T, want string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "expected a defined value")
	assertDec(t, want, got.Decimal)
}

func TestComputeBasicGain(t *testing.T) {
	p, err := Compute(holding(t, "AAPL", "10", "100"), snapshot("120", "", ""))
	require.NoError(t, err)

	assertDec(t, "1000", p.InvestmentValue)
	assertDec(t, "1200", p.CurrentValue)
	assertDec(t, "200", p.GainLoss)
	assertNullDec(t, "20.00", p.GainLossPercent)
	assert.Equal(t, "20.00", p.GainLossPercent.Decimal.StringFixed(2))
}

func TestComputeValuesAreExact(t *testing.T) {
	p, err := Compute(holding(t, "FRAC", "0.1", "0.2"), snapshot("0.3", "", ""))
	require.NoError(t, err)

	assert.True(t, p.InvestmentValue.Equal(p.Shares.Mul(p.PurchasePrice)))
	assert.True(t, p.CurrentValue.Equal(p.Shares.Mul(p.CurrentPrice)))
	assert.True(t, p.GainLoss.Equal(p.CurrentValue.Sub(p.InvestmentValue)))
	assertDec(t, "0.02", p.InvestmentValue)
	assertDec(t, "0.03", p.CurrentValue)
	assertDec(t, "0.01", p.GainLoss)
}

func TestComputeMissingCurrentPrice(t *testing.T) {
	tests := []struct {
		name string
		snap *models.MarketSnapshot
	}{
		{"nil snapshot", nil},
		{"no current price", snapshot("", "10", "9")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(holding(t, "TSLA", "1", "1"), tt.snap)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrMissingCurrentPrice))
			var om *models.OmissionError
			require.True(t, errors.As(err, &om))
			assert.Equal(t, "TSLA", om.Ticker)
			assert.Equal(t, models.OmitMissingPrice, om.Reason)
		})
	}
}

func TestComputeZeroCostBasis(t *testing.T) {
	p, err := Compute(holding(t, "GIFT", "3", "0"), snapshot("10", "", ""))
	require.NoError(t, err)

	assertDec(t, "0", p.InvestmentValue)
	assertDec(t, "30", p.GainLoss)
	assert.False(t, p.GainLossPercent.Valid)
}

func TestComputeDailyMetrics(t *testing.T) {
	t.Run("without previous close", func(t *testing.T) {
		p, err := Compute(holding(t, "NVDA", "4", "50"), snapshot("60", "", ""))
		require.NoError(t, err)
		assert.False(t, p.DailyChange.Valid)
		assert.False(t, p.DailyChangePercent.Valid)
		assert.True(t, p.DailyValueChange.IsZero())
		assert.False(t, p.HasDailyData())
	})

	t.Run("with previous close", func(t *testing.T) {
		p, err := Compute(holding(t, "NVDA", "4", "50"), snapshot("60", "50", ""))
		require.NoError(t, err)
		assertNullDec(t, "10", p.DailyChange)
		assertNullDec(t, "20", p.DailyChangePercent)
		assertDec(t, "40", p.DailyValueChange)
	})

	t.Run("unchanged price is a true zero", func(t *testing.T) {
		p, err := Compute(holding(t, "NVDA", "4", "50"), snapshot("60", "60", ""))
		require.NoError(t, err)
		assertNullDec(t, "0", p.DailyChange)
		assertNullDec(t, "0", p.DailyChangePercent)
		assert.True(t, p.HasDailyData())
	})

	t.Run("zero previous close", func(t *testing.T) {
		p, err := Compute(holding(t, "NVDA", "4", "50"), snapshot("60", "0", ""))
		require.NoError(t, err)
		assertNullDec(t, "60", p.DailyChange)
		assert.False(t, p.DailyChangePercent.Valid)
		assertDec(t, "240", p.DailyValueChange)
	})
}

func TestComputeYTD(t *testing.T) {
	t.Run("back-calculated from percentage", func(t *testing.T) {
		p, err := Compute(holding(t, "AMZN", "10", "8"), snapshot("15", "", "10"))
		require.NoError(t, err)
		assertDec(t, "150", p.CurrentValue)
		assertNullDec(t, "50", p.YTDChange)
		assertNullDec(t, "100", p.YTDStartValue)
		assertNullDec(t, "50", p.YTDGainLoss)
		assert.True(t, p.HasYTDData())
	})

	t.Run("no year start price", func(t *testing.T) {
		p, err := Compute(holding(t, "AMZN", "10", "8"), snapshot("15", "", ""))
		require.NoError(t, err)
		assert.False(t, p.YTDChange.Valid)
		assert.False(t, p.YTDStartValue.Valid)
		assert.False(t, p.YTDGainLoss.Valid)
	})

	t.Run("total loss to zero", func(t *testing.T) {
		p, err := Compute(holding(t, "BUST", "10", "8"), snapshot("0", "", "10"))
		require.NoError(t, err)
		assertNullDec(t, "-100", p.YTDChange)
		assert.False(t, p.YTDStartValue.Valid)
		assert.False(t, p.YTDGainLoss.Valid)
		assert.False(t, p.HasYTDData())
	})

	t.Run("zero year start price", func(t *testing.T) {
		p, err := Compute(holding(t, "IPO", "10", "8"), snapshot("12", "", "0"))
		require.NoError(t, err)
		assert.False(t, p.YTDChange.Valid)
		assert.False(t, p.YTDStartValue.Valid)
	})
}

func TestYTDStartValue(t *testing.T) {
	assertNullDec(t, "100", YTDStartValue(dec("150"), dec("50")))
	assertNullDec(t, "200", YTDStartValue(dec("100"), dec("-50")))
	assert.False(t, YTDStartValue(dec("150"), dec("-100")).Valid)
}

func TestPercent(t *testing.T) {
	assertNullDec(t, "25", Percent(dec("1"), dec("4")))
	assertNullDec(t, "-10", Percent(dec("-5"), dec("50")))
	assert.False(t, Percent(dec("5"), decimal.Zero).Valid)
}
