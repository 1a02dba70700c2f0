package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes JSON messages to Kafka and records publish metrics.
type Producer struct {
	writer writer
	comp   string
	now    func() time.Time
}

// NewProducer creates a new Kafka producer.
func NewProducer(opts ...ProducerOption) (*Producer, error) {
	cfg := &ProducerConfig{
		RequiredAcks: -1,
		Compression:  "gzip",
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
		BatchTimeout: 10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	bal := kafka.Balancer(&kafka.LeastBytes{})
	if cfg.HashByKey {
		bal = &kafka.Hash{}
	}

	initProducerMetrics()
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     bal,
			RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
			Compression:  parseCompression(cfg.Compression),
			MaxAttempts:  cfg.MaxAttempts,
			WriteTimeout: cfg.WriteTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			BatchSize:    1,
			BatchTimeout: cfg.BatchTimeout,
		},
		comp: cfg.Compression,
		now:  time.Now,
	}, nil
}

// Publish sends value to topic. []byte and string values are sent as is,
// anything else is JSON encoded.
func (p *Producer) Publish(ctx context.Context, topic string, key []byte, value interface{}) error {
	start := p.now()
	v, err := encode(value)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: v,
		Time:  start,
	})
	observe(topic, p.comp, len(v), time.Since(start), err)
	if err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func encode(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return b, nil
}

func parseCompression(s string) kafka.Compression {
	switch s {
	case "snappy":
		return kafka.Snappy
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	default:
		return kafka.Gzip
	}
}

var (
	producerMetricsOnce sync.Once
	producerMsgs        *prometheus.CounterVec
	producerBytes       *prometheus.CounterVec
	producerLatency     *prometheus.HistogramVec
)

func initProducerMetrics() {
	producerMetricsOnce.Do(func() {
		producerMsgs = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "foliopull_kafka_producer_messages_total",
			Help: "Messages published to Kafka by result",
		}, []string{"topic", "compression", "result"})
		producerBytes = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "foliopull_kafka_producer_bytes_total",
			Help: "Payload bytes published",
		}, []string{"topic", "compression"})
		producerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foliopull_kafka_producer_publish_seconds",
			Help:    "Publish latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"topic"})
	})
}

func observe(topic, comp string, bytes int, took time.Duration, err error) {
	if producerMsgs == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	producerMsgs.WithLabelValues(topic, comp, result).Inc()
	producerBytes.WithLabelValues(topic, comp).Add(float64(bytes))
	producerLatency.WithLabelValues(topic).Observe(took.Seconds())
}
