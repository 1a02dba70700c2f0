package repository

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"FolioPull/internal/domain/models"

	"gopkg.in/yaml.v3"
)

type staticPrice struct {
	Current       amount `yaml:"current"`
	PreviousClose amount `yaml:"previous_close"`
	YearStart     amount `yaml:"year_start"`
}

// StaticProvider serves fixed snapshots, for offline runs and demos.
type StaticProvider struct {
	snaps map[string]models.MarketSnapshot
	now   func() time.Time
}

// NewStaticProviderFromFile reads prices from a YAML document of the form
//
//	prices:
//	  AAPL: {current: 187.5, previous_close: 185.1, year_start: 170}
func NewStaticProviderFromFile(path string) (*StaticProvider, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prices: %w", err)
	}
	var doc struct {
		Prices map[string]staticPrice `yaml:"prices"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse prices %s: %w", path, err)
	}

	snaps := make(map[string]models.MarketSnapshot, len(doc.Prices))
	for ticker, p := range doc.Prices {
		t := strings.ToUpper(strings.TrimSpace(ticker))
		s := models.MarketSnapshot{Ticker: t}
		if s.CurrentPrice, err = p.Current.nullDecimal(); err != nil {
			return nil, fmt.Errorf("prices %s current: %w", t, err)
		}
		if s.PreviousClose, err = p.PreviousClose.nullDecimal(); err != nil {
			return nil, fmt.Errorf("prices %s previous_close: %w", t, err)
		}
		if s.YearStartPrice, err = p.YearStart.nullDecimal(); err != nil {
			return nil, fmt.Errorf("prices %s year_start: %w", t, err)
		}
		snaps[t] = s
	}
	return NewStaticProvider(snaps), nil
}

// NewStaticProvider serves the given snapshots keyed by ticker.
func NewStaticProvider(snaps map[string]models.MarketSnapshot) *StaticProvider {
	return &StaticProvider{snaps: snaps, now: time.Now}
}

func (p *StaticProvider) Fetch(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.NewFetchError(models.FetchNetwork, ticker, err)
	}
	s, ok := p.snaps[ticker]
	if !ok {
		return nil, models.NewFetchError(models.FetchNotFound, ticker, nil)
	}
	if s.AsOf.IsZero() {
		s.AsOf = p.now()
	}
	return &s, nil
}
