package audit

import (
	"context"

	"vigil/internal/platform/kafka/producer"
)

// KafkaSink publishes audit events to a Kafka topic.
type KafkaSink struct {
	producer *producer.Producer
	topic    string
}

// NewKafkaSink constructs a sink writing to the given topic.
func NewKafkaSink(p *producer.Producer, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

func (s *KafkaSink) Publish(ctx context.Context, key, value []byte) error {
	return s.producer.Produce(ctx, &producer.Message{
		Topic: s.topic,
		Key:   key,
		Value: value,
	})
}

var _ Sink = (*KafkaSink)(nil)
