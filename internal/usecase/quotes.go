package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"FolioPull/internal/domain/models"
	drepo "FolioPull/internal/domain/repository"
	"FolioPull/internal/services/performance"

	"github.com/shopspring/decimal"
)

// Quote is a watchlist price line: latest price and change since previous close.
type Quote struct {
	Ticker        string              `json:"ticker"`
	Price         decimal.NullDecimal `json:"price"`
	Change        decimal.NullDecimal `json:"change"`
	PercentChange decimal.NullDecimal `json:"percent_change"`
	AsOf          *time.Time          `json:"as_of,omitempty"`
	Error         string              `json:"error,omitempty"`
}

// QuoteService fetches watchlist quotes, independent of the portfolio.
type QuoteService struct {
	provider    drepo.SnapshotProvider
	symbols     []string
	concurrency int
	timeout     time.Duration
}

func NewQuoteService(provider drepo.SnapshotProvider, symbols []string, concurrency int) *QuoteService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &QuoteService{
		provider:    provider,
		symbols:     normalizeSymbols(symbols),
		concurrency: concurrency,
		timeout:     10 * time.Second,
	}
}

// Symbols returns the configured watchlist.
func (s *QuoteService) Symbols() []string { return append([]string(nil), s.symbols...) }

// Quotes fetches the given symbols, or the configured watchlist when none are
// given. Results keep the request order; a failed symbol carries Error.
func (s *QuoteService) Quotes(ctx context.Context, symbols []string) []Quote {
	symbols = normalizeSymbols(symbols)
	if len(symbols) == 0 {
		symbols = s.symbols
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := make([]Quote, len(symbols))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			snap, err := s.provider.Fetch(ctx, sym)
			out[i] = quoteFrom(sym, snap, err)
		}(i, sym)
	}

	wg.Wait()
	return out
}

func quoteFrom(sym string, snap *models.MarketSnapshot, err error) Quote {
	q := Quote{Ticker: sym}
	if err != nil {
		q.Error = string(models.OmissionFromFetch(sym, err).Reason)
		return q
	}
	if !snap.HasCurrentPrice() {
		q.Error = string(models.OmitMissingPrice)
		return q
	}
	at := snap.AsOf
	q.AsOf = &at
	q.Price = snap.CurrentPrice
	if snap.PreviousClose.Valid {
		change := snap.CurrentPrice.Decimal.Sub(snap.PreviousClose.Decimal)
		q.Change = decimal.NewNullDecimal(change)
		q.PercentChange = performance.Percent(change, snap.PreviousClose.Decimal)
	}
	return q
}

func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
