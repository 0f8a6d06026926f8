package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/bibbank/risk-service/pkg/events"
	pkgkafka "github.com/bibbank/risk-service/pkg/kafka"
)

// DefaultTopic is the topic risk events are forwarded to.
const DefaultTopic = "risk-events"

// MessageProducer is the subset of pkg/kafka.Producer used by KafkaNotifier.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// KafkaNotifier forwards domain events to Kafka as JSON envelopes keyed by
// aggregate id, so every event of one risk lands on the same partition.
type KafkaNotifier struct {
	producer MessageProducer
	topic    string
	logger   *slog.Logger
}

// NewKafkaNotifier creates a new KafkaNotifier.
func NewKafkaNotifier(producer MessageProducer, topic string, logger *slog.Logger) *KafkaNotifier {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaNotifier{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Handle implements port.EventHandler.
func (n *KafkaNotifier) Handle(ctx context.Context, evt events.DomainEvent) error {
	env, err := events.NewEnvelope(evt)
	if err != nil {
		return err
	}

	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope %s: %w", evt.EventType(), err)
	}

	n.logger.DebugContext(ctx, "publishing event",
		slog.String("event_type", evt.EventType()),
		slog.String("topic", n.topic),
		slog.Int("payload_size", len(value)),
	)

	msg := pkgkafka.Message{
		Key:   []byte(env.AggregateID),
		Value: value,
		Headers: map[string]string{
			"event_type":     env.EventType,
			"aggregate_type": env.AggregateType,
			"event_id":       env.ID.String(),
		},
	}
	if err := n.producer.Publish(ctx, n.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event to topic %s: %w", n.topic, err)
	}
	return nil
}

// Topic returns the destination topic.
func (n *KafkaNotifier) Topic() string { return n.topic }
