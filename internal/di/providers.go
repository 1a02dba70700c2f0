package di

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"FolioPull/internal/domain/repository"
	"FolioPull/internal/handler/api"
	internalrepo "FolioPull/internal/repository"
	"FolioPull/internal/render"
	"FolioPull/internal/service/cache"
	"FolioPull/internal/service/finnhub"
	"FolioPull/internal/service/ratelimit"
	"FolioPull/internal/usecase"
	"FolioPull/pkg/config"
	xhttp "FolioPull/pkg/http"
	pkgkafka "FolioPull/pkg/kafka"
	applogger "FolioPull/pkg/logger"
	"FolioPull/pkg/metrics"
	"FolioPull/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache creates the byte cache shared by snapshot and year-start caching.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.BytesCache, error) {
	if cfg.Cache.Backend != "redis" {
		return cache.NewTTLCache(), nil
	}

	rc := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, err
	}
	l.Info("redis cache connected", applogger.String("addr", cfg.Cache.Redis.Addr))
	return rc, nil
}

// ProvideSnapshotProvider creates the market data provider selected by config.
func ProvideSnapshotProvider(
	cfg *config.Config,
	bc cache.BytesCache,
	limiter *ratelimit.Limiter,
	l *applogger.Logger,
) (repository.SnapshotProvider, error) {
	var p repository.SnapshotProvider
	switch cfg.Provider.Type {
	case "static":
		sp, err := internalrepo.NewStaticProviderFromFile(cfg.Static.File)
		if err != nil {
			return nil, fmt.Errorf("static provider: %w", err)
		}
		p = sp
	default:
		p = finnhub.New(cfg.Finnhub.APIKey, cfg.Finnhub.BaseURL,
			finnhub.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(cfg.Provider.Timeout))),
			finnhub.WithYearStartCache(bc, cfg.Provider.YearStartTTL),
			finnhub.WithRateLimit(limiter, cfg.Provider.Rate.Capacity, cfg.Provider.Rate.RefillPerSec),
			finnhub.WithLogger(l),
		)
	}
	l.Info("snapshot provider ready", applogger.String("type", cfg.Provider.Type))
	return usecase.NewCachedProvider(p, bc, cfg.Provider.SnapshotTTL, l), nil
}

// ProvidePortfolioSource creates the portfolio file reader.
func ProvidePortfolioSource(cfg *config.Config) repository.PortfolioSource {
	return internalrepo.NewFilePortfolio(cfg.Portfolio.File)
}

// ProvideKafkaSink creates the Kafka sink, or nil when it is disabled.
func ProvideKafkaSink(cfg *config.Config) (*internalrepo.KafkaSink, error) {
	k := cfg.Sinks.Kafka
	if !k.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithRequiredAcks(k.RequiredAcks),
		pkgkafka.WithMaxAttempts(k.MaxAttempts),
		pkgkafka.WithTimeouts(k.WriteTimeout, k.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaSink(internalrepo.NewKafkaPublisher(producer, k.Topic)), nil
}

// ProvideQuoteService creates the watchlist quote service.
func ProvideQuoteService(cfg *config.Config, p repository.SnapshotProvider) *usecase.QuoteService {
	return usecase.NewQuoteService(p, cfg.Watchlist.Symbols, cfg.Provider.MaxConcurrency)
}

// ProvideSinks lists the enabled sinks in publish order.
func ProvideSinks(cfg *config.Config, latest *usecase.LatestCycle, ks *internalrepo.KafkaSink) []repository.Sink {
	var sinks []repository.Sink
	if cfg.Sinks.Terminal {
		sinks = append(sinks, render.NewTerminalSink(os.Stdout, !cfg.Refresh.Once))
	}
	if cfg.Sinks.CSV.Enabled {
		sinks = append(sinks, internalrepo.NewCSVFileSink(cfg.Sinks.CSV.Path))
	}
	if cfg.Sinks.Web {
		sinks = append(sinks, latest)
	}
	if ks != nil {
		sinks = append(sinks, ks)
	}
	return sinks
}

// ProvidePortfolioTracker creates the refresh loop.
func ProvidePortfolioTracker(
	cfg *config.Config,
	source repository.PortfolioSource,
	provider repository.SnapshotProvider,
	m repository.Metrics,
	sinks []repository.Sink,
	l *applogger.Logger,
) *usecase.PortfolioTracker {
	names := make([]string, 0, len(sinks))
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	l.Info("tracker configured",
		applogger.Strings("sinks", names),
		applogger.Duration("interval_ms", cfg.Refresh.Interval),
		applogger.Any("once", cfg.Refresh.Once),
	)
	return usecase.NewPortfolioTracker(source, provider, m,
		usecase.WithSinks(sinks...),
		usecase.WithConcurrency(cfg.Provider.MaxConcurrency),
		usecase.WithFetchTimeout(cfg.Provider.Timeout),
		usecase.WithInterval(cfg.Refresh.Interval),
		usecase.WithOnce(cfg.Refresh.Once),
		usecase.WithTrackerLogger(l),
	)
}

// ProvideHTTPServer creates the dashboard server. It serves only /metrics when
// the web sink is off, and nothing at all when metrics are off too.
func ProvideHTTPServer(cfg *config.Config, h *api.PortfolioEchoHandler, l *applogger.Logger) *xhttp.Server {
	if !cfg.Sinks.Web && !cfg.Metrics.Enabled {
		return nil
	}
	var handler xhttp.Handler
	if cfg.Sinks.Web {
		handler = h
	}
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(handler,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}

// ProvideClosers collects resources released on shutdown.
func ProvideClosers(bc cache.BytesCache, ks *internalrepo.KafkaSink) server.Closers {
	var out server.Closers
	if ks != nil {
		out = append(out, ks)
	}
	if c, ok := bc.(io.Closer); ok {
		out = append(out, c)
	}
	return out
}

// ProvideApp creates the application server.
func ProvideApp(
	l *applogger.Logger,
	tracker *usecase.PortfolioTracker,
	srv *xhttp.Server,
	closers server.Closers,
) *server.App {
	return server.New(l, tracker, srv, closers)
}
