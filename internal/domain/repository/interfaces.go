package repository

import (
	"context"

	"FolioPull/internal/domain/models"
)

// SnapshotProvider supplies the market prices of a ticker for the current cycle.
// Failures are reported as *models.FetchError.
type SnapshotProvider interface {
	Fetch(ctx context.Context, ticker string) (*models.MarketSnapshot, error)
}

// PortfolioSource loads the holdings to evaluate. Records failing validation
// are returned as rejections, not as an error.
type PortfolioSource interface {
	Load(ctx context.Context) ([]models.Holding, []models.Rejection, error)
}

// Sink receives every completed cycle.
type Sink interface {
	Name() string
	Publish(ctx context.Context, c *models.Cycle) error
}

// Publisher sends encoded messages to a broker topic.
type Publisher interface {
	Publish(ctx context.Context, key []byte, value interface{}) error
	Close() error
}

type Metrics interface {
	RecordCycle(evaluated, omitted int, seconds float64)
	RecordOmission(reason string)
	RecordError(kind string)
	RecordLastPrice(ticker string, price float64)
	RecordLatency(op string, seconds float64)
	RecordPortfolio(value, gainLoss, dailyChange float64)
}
