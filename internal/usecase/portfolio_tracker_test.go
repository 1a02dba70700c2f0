package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"FolioPull/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var cycleAt = time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

func newTracker(src *MockSource, prov *MockProvider, m *fakeMetrics, opts ...TrackerOption) *PortfolioTracker {
	opts = append([]TrackerOption{WithTrackerClock(func() time.Time { return cycleAt })}, opts...)
	return NewPortfolioTracker(src, prov, m, opts...)
}

func TestRunCycleEvaluatesInDefinitionOrder(t *testing.T) {
	src := new(MockSource)
	prov := new(MockProvider)
	sink := &MockSink{name: "test"}
	m := newFakeMetrics()

	holdings := []models.Holding{
		holding("AAPL", "10", "100"),
		holding("MSFT", "2", "300"),
		holding("NVDA", "5", "50"),
	}
	rejections := []models.Rejection{{Index: 3, Ticker: "BAD", Reason: "shares must be positive"}}
	src.On("Load", mock.Anything).Return(holdings, rejections, nil).Once()

	prov.On("Fetch", mock.Anything, "AAPL").Return(snap("AAPL", "120", "118"), nil)
	prov.On("Fetch", mock.Anything, "MSFT").Return(nil, models.NewFetchError(models.FetchNotFound, "MSFT", nil))
	prov.On("Fetch", mock.Anything, "NVDA").Return(snap("NVDA", "60", ""), nil)
	sink.On("Publish", mock.Anything, mock.AnythingOfType("*models.Cycle")).Return(nil)

	tr := newTracker(src, prov, m, WithSinks(sink), WithConcurrency(2))
	c, err := tr.RunCycle(context.Background())
	require.NoError(t, err)

	require.Len(t, c.Holdings, 2)
	assert.Equal(t, "AAPL", c.Holdings[0].Ticker)
	assert.Equal(t, "NVDA", c.Holdings[1].Ticker)
	require.Len(t, c.Omissions, 1)
	assert.Equal(t, models.OmitNotFound, c.Omissions[0].Reason)
	assert.Equal(t, rejections, c.Rejections)
	assert.Equal(t, cycleAt, c.At)

	require.NotNil(t, c.Summary)
	assert.Equal(t, 2, c.Summary.Evaluated)
	assert.Equal(t, 1, c.Summary.Skipped)
	assert.True(t, c.Summary.TotalCurrentValue.Equal(dec("1500")))

	assert.Equal(t, 1, m.cycles)
	assert.Equal(t, 1, m.omissions["not_found"])
	assert.Equal(t, 1500.0, m.value)
	sink.AssertNumberOfCalls(t, "Publish", 1)
	src.AssertExpectations(t)
}

func TestRunCycleAllOmittedIsEmpty(t *testing.T) {
	src := new(MockSource)
	prov := new(MockProvider)
	sink := &MockSink{name: "test"}

	src.On("Load", mock.Anything).Return([]models.Holding{holding("AAPL", "1", "1")}, nil, nil)
	prov.On("Fetch", mock.Anything, "AAPL").Return(nil, errors.New("connection refused"))
	sink.On("Publish", mock.Anything, mock.Anything).Return(nil)

	c, err := newTracker(src, prov, newFakeMetrics(), WithSinks(sink)).RunCycle(context.Background())
	require.NoError(t, err)
	assert.True(t, c.Empty())
	require.Len(t, c.Omissions, 1)
	assert.Equal(t, models.OmitNetwork, c.Omissions[0].Reason)
	sink.AssertCalled(t, "Publish", mock.Anything, c)
}

func TestRunCycleLoadFailure(t *testing.T) {
	src := new(MockSource)
	src.On("Load", mock.Anything).Return(nil, nil, errors.New("no such file"))
	m := newFakeMetrics()

	_, err := newTracker(src, new(MockProvider), m).RunCycle(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, m.errors["portfolio_load"])
}

func TestRunCycleSinkFailureIsNotFatal(t *testing.T) {
	src := new(MockSource)
	prov := new(MockProvider)
	failing := &MockSink{name: "csv"}
	ok := &MockSink{name: "web"}
	m := newFakeMetrics()

	src.On("Load", mock.Anything).Return([]models.Holding{holding("AAPL", "1", "100")}, nil, nil)
	prov.On("Fetch", mock.Anything, "AAPL").Return(snap("AAPL", "110", "100"), nil)
	failing.On("Publish", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	ok.On("Publish", mock.Anything, mock.Anything).Return(nil)

	c, err := newTracker(src, prov, m, WithSinks(failing, ok)).RunCycle(context.Background())
	require.NoError(t, err)
	assert.False(t, c.Empty())
	assert.Equal(t, 1, m.errors["sink_csv"])
	ok.AssertNumberOfCalls(t, "Publish", 1)
}

func TestLoadRunsOnce(t *testing.T) {
	src := new(MockSource)
	prov := new(MockProvider)
	src.On("Load", mock.Anything).Return([]models.Holding{holding("AAPL", "1", "100")}, nil, nil).Once()
	prov.On("Fetch", mock.Anything, "AAPL").Return(snap("AAPL", "110", ""), nil)

	tr := newTracker(src, prov, newFakeMetrics())
	require.NoError(t, tr.Load(context.Background()))
	_, err := tr.RunCycle(context.Background())
	require.NoError(t, err)
	_, err = tr.RunCycle(context.Background())
	require.NoError(t, err)
	src.AssertNumberOfCalls(t, "Load", 1)
}

// countingProvider tracks the highest number of concurrent fetches.
type countingProvider struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (p *countingProvider) Fetch(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		old := p.peak.Load()
		if n <= old || p.peak.CompareAndSwap(old, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return snap(ticker, "10", "9"), nil
}

func TestFetchConcurrencyIsBounded(t *testing.T) {
	src := new(MockSource)
	var hs []models.Holding
	for _, tk := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		hs = append(hs, holding(tk, "1", "1"))
	}
	src.On("Load", mock.Anything).Return(hs, nil, nil)

	prov := &countingProvider{}
	tr := NewPortfolioTracker(src, prov, newFakeMetrics(), WithConcurrency(3))
	c, err := tr.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Len(t, c.Holdings, 8)
	assert.LessOrEqual(t, prov.peak.Load(), int32(3))
}

func TestRunOnce(t *testing.T) {
	src := new(MockSource)
	prov := new(MockProvider)
	sink := &MockSink{name: "test"}
	src.On("Load", mock.Anything).Return([]models.Holding{holding("AAPL", "1", "100")}, nil, nil)
	prov.On("Fetch", mock.Anything, "AAPL").Return(snap("AAPL", "110", ""), nil)
	sink.On("Publish", mock.Anything, mock.Anything).Return(nil)

	tr := newTracker(src, prov, newFakeMetrics(), WithSinks(sink), WithOnce(true))
	require.NoError(t, tr.Run(context.Background()))
	sink.AssertNumberOfCalls(t, "Publish", 1)
}

func TestRunStopsOnCancel(t *testing.T) {
	src := new(MockSource)
	prov := new(MockProvider)
	var published atomic.Int32
	sink := &MockSink{name: "test"}
	src.On("Load", mock.Anything).Return([]models.Holding{holding("AAPL", "1", "100")}, nil, nil)
	prov.On("Fetch", mock.Anything, "AAPL").Return(snap("AAPL", "110", ""), nil)
	sink.On("Publish", mock.Anything, mock.Anything).Run(func(mock.Arguments) { published.Add(1) }).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	tr := newTracker(src, prov, newFakeMetrics(), WithSinks(sink), WithInterval(5*time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()

	require.Eventually(t, func() bool { return published.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
