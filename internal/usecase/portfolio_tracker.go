package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"FolioPull/internal/domain/models"
	drepo "FolioPull/internal/domain/repository"
	"FolioPull/internal/services/performance"
	applogger "FolioPull/pkg/logger"
)

// PortfolioTracker runs refresh cycles: fetch every holding's snapshot,
// compute and aggregate, then hand the cycle to every sink.
type PortfolioTracker struct {
	source   drepo.PortfolioSource
	provider drepo.SnapshotProvider
	sinks    []drepo.Sink
	metrics  drepo.Metrics
	log      *applogger.Logger
	now      func() time.Time

	concurrency  int
	fetchTimeout time.Duration
	interval     time.Duration
	once         bool

	mu         sync.Mutex
	loaded     bool
	holdings   []models.Holding
	rejections []models.Rejection
}

// TrackerOption configures PortfolioTracker.
type TrackerOption func(*PortfolioTracker)

// NewPortfolioTracker creates a new PortfolioTracker instance.
func NewPortfolioTracker(
	source drepo.PortfolioSource,
	provider drepo.SnapshotProvider,
	metrics drepo.Metrics,
	opts ...TrackerOption,
) *PortfolioTracker {
	t := &PortfolioTracker{
		source:       source,
		provider:     provider,
		metrics:      metrics,
		log:          applogger.Nop(),
		now:          time.Now,
		concurrency:  4,
		fetchTimeout: 5 * time.Second,
		interval:     5 * time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.concurrency < 1 {
		t.concurrency = 1
	}
	return t
}

// WithSinks appends sinks that receive every cycle.
func WithSinks(sinks ...drepo.Sink) TrackerOption {
	return func(t *PortfolioTracker) { t.sinks = append(t.sinks, sinks...) }
}

// WithConcurrency bounds parallel snapshot fetches.
func WithConcurrency(n int) TrackerOption {
	return func(t *PortfolioTracker) { t.concurrency = n }
}

// WithFetchTimeout bounds a single snapshot fetch. Zero disables the bound.
func WithFetchTimeout(d time.Duration) TrackerOption {
	return func(t *PortfolioTracker) { t.fetchTimeout = d }
}

// WithInterval sets the delay between cycles.
func WithInterval(d time.Duration) TrackerOption {
	return func(t *PortfolioTracker) { t.interval = d }
}

// WithOnce makes Run stop after the first cycle.
func WithOnce(once bool) TrackerOption {
	return func(t *PortfolioTracker) { t.once = once }
}

// WithTrackerLogger sets the logger.
func WithTrackerLogger(l *applogger.Logger) TrackerOption {
	return func(t *PortfolioTracker) { t.log = l }
}

// WithTrackerClock overrides the time source used to stamp cycles.
func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(t *PortfolioTracker) { t.now = now }
}

// Load reads the portfolio definition. It runs once; later calls are no-ops.
func (t *PortfolioTracker) Load(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded {
		return nil
	}

	holdings, rejections, err := t.source.Load(ctx)
	if err != nil {
		t.metrics.RecordError("portfolio_load")
		return fmt.Errorf("load portfolio: %w", err)
	}
	for _, r := range rejections {
		t.log.Error("holding rejected",
			applogger.Int("index", r.Index),
			applogger.String("ticker", r.Ticker),
			applogger.String("reason", r.Reason),
		)
	}
	t.log.Info("portfolio loaded",
		applogger.Int("holdings", len(holdings)),
		applogger.Int("rejected", len(rejections)),
	)

	t.holdings = holdings
	t.rejections = rejections
	t.loaded = true
	return nil
}

// Holdings returns the loaded holdings in definition order.
func (t *PortfolioTracker) Holdings() []models.Holding {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Holding(nil), t.holdings...)
}

// RunCycle performs one refresh pass and publishes the result.
// Only a failed portfolio load is returned as an error.
func (t *PortfolioTracker) RunCycle(ctx context.Context) (*models.Cycle, error) {
	if err := t.Load(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	holdings := t.Holdings()

	inputs := t.fetchAll(ctx, holdings)
	res := performance.Evaluate(inputs)

	cycle := &models.Cycle{
		At:         t.now(),
		Holdings:   res.Holdings,
		Omissions:  res.Omissions,
		Rejections: append([]models.Rejection(nil), t.rejections...),
		Summary:    res.Summary,
	}

	t.record(cycle, time.Since(start))
	t.publish(ctx, cycle)
	return cycle, nil
}

// Run repeats RunCycle every interval until ctx is done.
func (t *PortfolioTracker) Run(ctx context.Context) error {
	if _, err := t.RunCycle(ctx); err != nil {
		return err
	}
	if t.once {
		return nil
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := t.RunCycle(ctx); err != nil {
				return err
			}
		}
	}
}

func (t *PortfolioTracker) fetchAll(ctx context.Context, holdings []models.Holding) []performance.Input {
	inputs := make([]performance.Input, len(holdings))
	sem := make(chan struct{}, t.concurrency)
	var wg sync.WaitGroup

	for i, h := range holdings {
		inputs[i].Holding = h
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				inputs[i].Err = models.NewFetchError(models.FetchNetwork, ticker, ctx.Err())
				return
			}
			defer func() { <-sem }()

			inputs[i].Snapshot, inputs[i].Err = t.fetch(ctx, ticker)
		}(i, h.Ticker)
	}

	wg.Wait()
	return inputs
}

func (t *PortfolioTracker) fetch(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	if t.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.fetchTimeout)
		defer cancel()
	}

	start := time.Now()
	snap, err := t.provider.Fetch(ctx, ticker)
	t.metrics.RecordLatency("fetch", time.Since(start).Seconds())
	if err != nil {
		t.metrics.RecordError("fetch")
		return nil, err
	}
	if snap.HasCurrentPrice() {
		f, _ := snap.CurrentPrice.Decimal.Float64()
		t.metrics.RecordLastPrice(ticker, f)
	}
	return snap, nil
}

func (t *PortfolioTracker) record(c *models.Cycle, took time.Duration) {
	for _, o := range c.Omissions {
		t.metrics.RecordOmission(string(o.Reason))
		t.log.Warn("holding omitted",
			applogger.String("ticker", o.Ticker),
			applogger.String("reason", string(o.Reason)),
			applogger.String("detail", o.Detail),
		)
	}
	t.metrics.RecordCycle(len(c.Holdings), len(c.Omissions), took.Seconds())

	if c.Empty() {
		t.log.Warn("cycle produced no data",
			applogger.Int("omitted", len(c.Omissions)),
			applogger.Error(models.ErrEmptyAggregate),
		)
		return
	}

	s := c.Summary
	value, _ := s.TotalCurrentValue.Float64()
	gain, _ := s.TotalGainLoss.Float64()
	daily, _ := s.TotalDailyChange.Float64()
	t.metrics.RecordPortfolio(value, gain, daily)

	t.log.Info("cycle complete",
		applogger.Int("evaluated", s.Evaluated),
		applogger.Int("omitted", s.Skipped),
		applogger.Decimal("value", s.TotalCurrentValue),
		applogger.Decimal("gain_loss", s.TotalGainLoss),
		applogger.Decimal("daily_change", s.TotalDailyChange),
		applogger.Duration("duration_ms", took),
	)
}

func (t *PortfolioTracker) publish(ctx context.Context, c *models.Cycle) {
	for _, s := range t.sinks {
		start := time.Now()
		if err := s.Publish(ctx, c); err != nil {
			t.metrics.RecordError("sink_" + s.Name())
			t.log.Error("sink publish failed",
				applogger.String("sink", s.Name()),
				applogger.Error(err),
			)
			continue
		}
		t.metrics.RecordLatency("sink_"+s.Name(), time.Since(start).Seconds())
	}
}
