package repository

import (
	"context"

	"StockPulse/internal/domain/models"
	drepo "StockPulse/internal/domain/repository"
	pkgkafka "StockPulse/pkg/kafka"
)

// KafkaResultPublisher publishes completed engine results to a Kafka topic,
// keyed by task id so per-task ordering is preserved downstream.
type KafkaResultPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaResultPublisher creates a Kafka-backed ResultPublisher.
func NewKafkaResultPublisher(producer *pkgkafka.Producer, topic string) drepo.ResultPublisher {
	return &KafkaResultPublisher{producer: producer, topic: topic}
}

func (p *KafkaResultPublisher) Publish(ctx context.Context, res *models.Result) error {
	return p.producer.Publish(ctx, p.topic, []byte(res.ID), res)
}

func (p *KafkaResultPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
