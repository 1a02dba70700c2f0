package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestFilePortfolioJSON(t *testing.T) {
	path := writeFile(t, "portfolio.json", `{
  "investments": [
    {"ticker": " aapl ", "shares": 10, "purchase_price": 150.25},
    {"ticker": "MSFT", "shares": "2.5", "purchase_price": 0},
    {"ticker": "BAD", "shares": 0, "purchase_price": 10},
    {"ticker": "NEG", "shares": 1, "purchase_price": -1},
    {"ticker": "", "shares": 1, "purchase_price": 1},
    {"ticker": "NOPRICE", "shares": 1},
    {"ticker": "AAPL", "shares": 1, "purchase_price": 100}
  ]
}`)

	holdings, rejections, err := NewFilePortfolio(path).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, holdings, 3)
	assert.Equal(t, "AAPL", holdings[0].Ticker)
	assert.True(t, holdings[0].PurchasePrice.Equal(decimal.RequireFromString("150.25")))
	assert.Equal(t, "MSFT", holdings[1].Ticker)
	assert.True(t, holdings[1].Shares.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, "AAPL", holdings[2].Ticker, "duplicate tickers stay separate positions")

	require.Len(t, rejections, 4)
	assert.Equal(t, 2, rejections[0].Index)
	assert.Equal(t, "BAD", rejections[0].Ticker)
	assert.Contains(t, rejections[0].Reason, "shares")
	assert.Equal(t, "NEG", rejections[1].Ticker)
	assert.Contains(t, rejections[1].Reason, "purchase_price")
	assert.Equal(t, "", rejections[2].Ticker)
	assert.Equal(t, "purchase_price is required", rejections[3].Reason)
}

func TestFilePortfolioYAML(t *testing.T) {
	path := writeFile(t, "portfolio.yaml", `
investments:
  - ticker: nvda
    shares: 3
    purchase_price: 450.5
  - ticker: PYPL
    shares: abc
    purchase_price: 60
`)
	holdings, rejections, err := NewFilePortfolio(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "NVDA", holdings[0].Ticker)
	assert.True(t, holdings[0].PurchasePrice.Equal(decimal.RequireFromString("450.5")))
	require.Len(t, rejections, 1)
	assert.Contains(t, rejections[0].Reason, "not a number")
}

func TestFilePortfolioErrors(t *testing.T) {
	_, _, err := NewFilePortfolio(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	assert.Error(t, err)

	_, _, err = NewFilePortfolio(writeFile(t, "broken.json", `{"investments": [`)).Load(context.Background())
	assert.Error(t, err)
}
