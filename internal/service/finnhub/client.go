package finnhub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"FolioPull/internal/domain/models"
	"FolioPull/internal/service/cache"
	"FolioPull/internal/service/ratelimit"
	xhttp "FolioPull/pkg/http"
	applogger "FolioPull/pkg/logger"
	"FolioPull/pkg/util"

	"github.com/shopspring/decimal"
)

const limiterKey = "finnhub"

// Client implements a SnapshotProvider backed by the Finnhub REST API.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
	log     *applogger.Logger
	now     func() time.Time

	yearCache cache.BytesCache
	yearTTL   time.Duration

	limiter  *ratelimit.Limiter
	capacity float64
	refill   float64
}

// Option configures Client.
type Option func(*Client)

// New creates a new Finnhub snapshot provider.
func New(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		log:     applogger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient(xhttp.WithTimeout(5 * time.Second))
	}
	return c
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithYearStartCache caches year-start prices. They change once a year, so the
// ttl can be long.
func WithYearStartCache(bc cache.BytesCache, ttl time.Duration) Option {
	return func(c *Client) {
		c.yearCache = bc
		c.yearTTL = ttl
	}
}

// WithRateLimit bounds outgoing calls with a token bucket.
func WithRateLimit(l *ratelimit.Limiter, capacity, refillPerSec float64) Option {
	return func(c *Client) {
		c.limiter = l
		c.capacity = capacity
		c.refill = refillPerSec
	}
}

// WithLogger sets the logger.
func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

type quoteResponse struct {
	C  decimal.Decimal `json:"c"`
	PC decimal.Decimal `json:"pc"`
	T  int64           `json:"t"`
}

type candleResponse struct {
	C []decimal.Decimal `json:"c"`
	S string            `json:"s"`
}

// Fetch returns the current snapshot of ticker. The year-start price is best
// effort: a failed lookup leaves it undefined.
func (c *Client) Fetch(ctx context.Context, ticker string) (*models.MarketSnapshot, error) {
	if !c.allow() {
		return nil, models.NewFetchError(models.FetchNetwork, ticker, errors.New("rate limit exceeded"))
	}

	var q quoteResponse
	if err := c.get(ctx, "/quote", map[string][]string{"symbol": {ticker}}, &q); err != nil {
		return nil, models.NewFetchError(classify(err), ticker, err)
	}
	// Finnhub answers unknown symbols with an all-zero quote.
	if q.C.IsZero() && q.T == 0 {
		return nil, models.NewFetchError(models.FetchNotFound, ticker, nil)
	}
	if !q.C.IsPositive() {
		return nil, models.NewFetchError(models.FetchNoData, ticker, fmt.Errorf("current price %s", q.C))
	}

	snap := &models.MarketSnapshot{
		Ticker:       ticker,
		CurrentPrice: models.Price(q.C),
		AsOf:         c.now(),
	}
	if q.T > 0 {
		snap.AsOf = time.Unix(q.T, 0)
	}
	if q.PC.IsPositive() {
		snap.PreviousClose = models.Price(q.PC)
	}

	start, err := c.yearStart(ctx, ticker)
	if err != nil {
		c.log.Debug("year start price unavailable",
			applogger.String("ticker", ticker),
			applogger.Error(err),
		)
	} else {
		snap.YearStartPrice = start
	}

	return snap, nil
}

func (c *Client) yearStart(ctx context.Context, ticker string) (decimal.NullDecimal, error) {
	now := c.now()
	key := "year_start:" + ticker + ":" + strconv.Itoa(now.Year())

	if c.yearCache != nil {
		b, ok, err := c.yearCache.GetBytes(ctx, key)
		if err != nil {
			c.log.Warn("year start cache read failed", applogger.String("key", key), applogger.Error(err))
		} else if ok {
			d, err := decimal.NewFromString(string(b))
			if err == nil {
				return models.Price(d), nil
			}
		}
	}

	if !c.allow() {
		return decimal.NullDecimal{}, errors.New("rate limit exceeded")
	}

	from, to := util.YearStartWindow(now)
	var cr candleResponse
	err := c.get(ctx, "/stock/candle", map[string][]string{
		"symbol":     {ticker},
		"resolution": {"D"},
		"from":       {strconv.FormatInt(from.Unix(), 10)},
		"to":         {strconv.FormatInt(to.Unix(), 10)},
	}, &cr)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if cr.S != "ok" || len(cr.C) == 0 {
		return decimal.NullDecimal{}, fmt.Errorf("no candles (status %q)", cr.S)
	}

	first := cr.C[0]
	if c.yearCache != nil {
		if err := c.yearCache.SetBytes(ctx, key, []byte(first.String()), c.yearTTL); err != nil {
			c.log.Warn("year start cache write failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	return models.Price(first), nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dest interface{}) error {
	params.Set("token", c.apiKey)
	return c.http.GetJSON(ctx, c.baseURL+path, params, dest)
}

func (c *Client) allow() bool {
	if c.limiter == nil {
		return true
	}
	return c.limiter.Allow(limiterKey, c.capacity, c.refill)
}

func classify(err error) models.FetchErrorKind {
	var se *xhttp.StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return models.FetchNotFound
	}
	return models.FetchNetwork
}
