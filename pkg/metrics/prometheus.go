package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cycles       prometheus.Counter
	evaluated    prometheus.Gauge
	omitted      prometheus.Gauge
	cycleSeconds prometheus.Histogram
	omissions    *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
	value        prometheus.Gauge
	gainLoss     prometheus.Gauge
	dailyChange  prometheus.Gauge
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates a recorder registered on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		cycles: f.NewCounter(prometheus.CounterOpts{
			Name: "foliopull_cycles_total",
			Help: "Total number of completed refresh cycles",
		}),
		evaluated: f.NewGauge(prometheus.GaugeOpts{
			Name: "foliopull_holdings_evaluated",
			Help: "Holdings evaluated in the last cycle",
		}),
		omitted: f.NewGauge(prometheus.GaugeOpts{
			Name: "foliopull_holdings_omitted",
			Help: "Holdings omitted in the last cycle",
		}),
		cycleSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "foliopull_cycle_duration_seconds",
			Help:    "Duration of refresh cycles in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		omissions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foliopull_omissions_total",
				Help: "Holdings omitted from a cycle by reason",
			},
			[]string{"reason"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "foliopull_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "foliopull_last_price",
				Help: "Last observed current price for a ticker",
			},
			[]string{"ticker"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "foliopull_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		value: f.NewGauge(prometheus.GaugeOpts{
			Name: "foliopull_portfolio_value",
			Help: "Total current portfolio value",
		}),
		gainLoss: f.NewGauge(prometheus.GaugeOpts{
			Name: "foliopull_portfolio_gain_loss",
			Help: "Total portfolio gain or loss against cost basis",
		}),
		dailyChange: f.NewGauge(prometheus.GaugeOpts{
			Name: "foliopull_portfolio_daily_change",
			Help: "Total portfolio value change since previous close",
		}),
	}
}

// RecordCycle records a completed refresh cycle.
func (r *Recorder) RecordCycle(evaluated, omitted int, seconds float64) {
	r.cycles.Inc()
	r.evaluated.Set(float64(evaluated))
	r.omitted.Set(float64(omitted))
	r.cycleSeconds.Observe(seconds)
}

// RecordOmission records a holding left out of a cycle.
func (r *Recorder) RecordOmission(reason string) {
	r.omissions.WithLabelValues(reason).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a ticker.
func (r *Recorder) RecordLastPrice(ticker string, price float64) {
	r.lastPrice.WithLabelValues(ticker).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordPortfolio records the portfolio level totals of a cycle.
func (r *Recorder) RecordPortfolio(value, gainLoss, dailyChange float64) {
	r.value.Set(value)
	r.gainLoss.Set(gainLoss)
	r.dailyChange.Set(dailyChange)
}
