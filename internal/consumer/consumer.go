// Package consumer provides Kafka consumer functionality for the raw alert
// notifications topic.
package consumer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/events"
	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/kafkautil"
)

// Consumer wraps a Kafka reader and decodes each message as a relay envelope
// carrying an alert notification.
type Consumer struct {
	reader *kafka.Reader
	topic  string
}

// NewConsumer creates a new Kafka consumer with the specified brokers, topic,
// and group ID. The consumer is configured for at-least-once delivery.
func NewConsumer(brokers string, topic string, groupID string) (*Consumer, error) {
	if err := kafkautil.ValidateConsumerParams(brokers, topic, groupID); err != nil {
		return nil, err
	}

	brokerList := kafkautil.ParseBrokers(brokers)

	slog.Info("Initializing Kafka consumer",
		"brokers", brokerList,
		"topic", topic,
		"group_id", groupID,
	)

	reader := kafka.NewReader(kafkautil.NewReaderConfig(brokerList, topic, groupID))

	return &Consumer{
		reader: reader,
		topic:  topic,
	}, nil
}

// ReadMessage reads the next message from Kafka and decodes it as an
// AlertNotification. When decoding fails the raw message is still returned
// together with a *events.ParseError, so the caller can commit the offset of
// a poison message instead of redelivering it forever.
func (c *Consumer) ReadMessage(ctx context.Context) (*events.AlertNotification, *kafka.Message, error) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read message from Kafka: %w", err)
	}

	notification, err := events.ParseNotification(msg.Value)
	if err != nil {
		return nil, &msg, err
	}

	return notification, &msg, nil
}

// CommitMessage commits the offset for the given message. This should be
// called only after the incident event has been published. Offsets are
// per-partition high-water marks: a commit for a later message on the same
// partition also commits past earlier uncommitted ones, so with concurrent
// workers redelivery of a failed message is best effort, not guaranteed.
func (c *Consumer) CommitMessage(ctx context.Context, msg *kafka.Message) error {
	return c.reader.CommitMessages(ctx, *msg)
}

// Close gracefully closes the Kafka reader and releases resources.
func (c *Consumer) Close() error {
	slog.Info("Closing Kafka consumer", "topic", c.topic)
	if err := c.reader.Close(); err != nil {
		slog.Error("Error closing Kafka consumer", "error", err)
		return err
	}
	slog.Info("Kafka consumer closed successfully")
	return nil
}
