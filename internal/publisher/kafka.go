package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/events"
	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/kafkautil"
)

// writeTimeout is the maximum time to wait for a Kafka write operation.
const writeTimeout = 10 * time.Second

// KafkaPublisher publishes incident events to a Kafka topic. Messages are
// keyed by incident_id so all events of one incident land on one partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

// Ensure KafkaPublisher implements Publisher
var _ Publisher = (*KafkaPublisher)(nil)

// NewKafka creates a publisher for the given Kafka topic. The writer is
// configured for at-least-once delivery with synchronous writes.
func NewKafka(brokers string, topic string) (*KafkaPublisher, error) {
	if err := kafkautil.ValidateProducerParams(brokers, topic); err != nil {
		return nil, err
	}

	brokerList := kafkautil.ParseBrokers(brokers)

	slog.Info("Initializing Kafka publisher",
		"brokers", brokerList,
		"topic", topic,
	)

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerList...),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // Key-based partitioning (hashes the message key)
		WriteTimeout: writeTimeout,
		RequiredAcks: kafka.RequireOne, // At-least-once semantics (waits for leader ack)
		Async:        false,            // Synchronous writes for reliability and error handling
	}

	return &KafkaPublisher{
		writer: writer,
		topic:  topic,
	}, nil
}

// Publish serializes the incident event to JSON and writes it to the topic,
// keyed by incident_id.
func (p *KafkaPublisher) Publish(ctx context.Context, event *events.NormalizedIncidentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal incident event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.IncidentID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "event-type", Value: []byte(event.EventType)},
			{Key: "action", Value: []byte(event.Action)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return &TransportError{Channel: p.topic, Err: err}
	}

	slog.Info("Published incident event",
		"incident_id", event.IncidentID,
		"action", event.Action,
		"priority", event.Priority,
		"channel", p.topic,
	)
	return nil
}

// Close gracefully closes the Kafka writer and releases resources.
func (p *KafkaPublisher) Close() error {
	slog.Info("Closing Kafka publisher", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		slog.Error("Error closing Kafka publisher", "error", err)
		return err
	}
	return nil
}
