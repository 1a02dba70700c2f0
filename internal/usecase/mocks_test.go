package usecase

import (
	"context"
	"sync"

	"FolioPull/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of SnapshotProvider for testing
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Fetch(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketSnapshot), args.Error(1)
}

// MockSource is a mock implementation of PortfolioSource for testing
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Load(ctx context.Context) ([]models.Holding, []models.Rejection, error) {
	args := m.Called(ctx)
	h, _ := args.Get(0).([]models.Holding)
	r, _ := args.Get(1).([]models.Rejection)
	return h, r, args.Error(2)
}

// MockSink is a mock implementation of Sink for testing
type MockSink struct {
	mock.Mock
	name string
}

func (m *MockSink) Name() string { return m.name }

func (m *MockSink) Publish(ctx context.Context, c *models.Cycle) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// fakeMetrics records only what the tests look at.
type fakeMetrics struct {
	mu        sync.Mutex
	cycles    int
	omissions map[string]int
	errors    map[string]int
	value     float64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{omissions: map[string]int{}, errors: map[string]int{}}
}

func (f *fakeMetrics) RecordCycle(int, int, float64) {
	f.mu.Lock()
	f.cycles++
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordOmission(reason string) {
	f.mu.Lock()
	f.omissions[reason]++
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	f.errors[kind]++
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordLastPrice(string, float64) {}
func (f *fakeMetrics) RecordLatency(string, float64)   {}

func (f *fakeMetrics) RecordPortfolio(value, _, _ float64) {
	f.mu.Lock()
	f.value = value
	f.mu.Unlock()
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func holding(ticker, shares, price string) models.Holding {
	h, err := models.NewHolding(ticker, dec(shares), dec(price))
	if err != nil {
		panic(err)
	}
	return h
}

func snap(ticker, current, prev string) *models.MarketSnapshot {
	s := &models.MarketSnapshot{Ticker: ticker, CurrentPrice: models.Price(dec(current))}
	if prev != "" {
		s.PreviousClose = models.Price(dec(prev))
	}
	return s
}
