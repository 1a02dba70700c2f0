package repository

import (
	"context"

	"FolioPull/internal/domain/models"
	"FolioPull/internal/domain/repository"
	pkgkafka "FolioPull/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key []byte, value interface{}) error {
	return p.producer.Publish(ctx, p.topic, key, value)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

const cycleKey = "portfolio"

// KafkaSink publishes every cycle as one JSON message keyed "portfolio",
// so all cycles land on the same partition in order.
type KafkaSink struct {
	pub repository.Publisher
}

func NewKafkaSink(pub repository.Publisher) *KafkaSink {
	return &KafkaSink{pub: pub}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Publish(ctx context.Context, c *models.Cycle) error {
	return s.pub.Publish(ctx, []byte(cycleKey), c)
}

func (s *KafkaSink) Close() error { return s.pub.Close() }
