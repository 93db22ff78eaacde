// Package kafkautil provides shared Kafka configuration helpers for the
// consumer and the Kafka publisher.
package kafkautil

import (
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	// MaxPollWait is the maximum time the reader waits for new data before
	// returning whatever is available.
	MaxPollWait = 500 * time.Millisecond
	// CommitInterval flushes committed offsets to the broker periodically.
	// Offsets are still committed explicitly per message.
	CommitInterval = time.Second
)

// ParseBrokers parses a comma-separated broker list and trims whitespace.
func ParseBrokers(brokers string) []string {
	if brokers == "" {
		return nil
	}
	brokerList := strings.Split(brokers, ",")
	for i := range brokerList {
		brokerList[i] = strings.TrimSpace(brokerList[i])
	}
	return brokerList
}

// ValidateConsumerParams validates common consumer parameters.
func ValidateConsumerParams(brokers, topic, groupID string) error {
	if brokers == "" {
		return fmt.Errorf("brokers cannot be empty")
	}
	if topic == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	if groupID == "" {
		return fmt.Errorf("groupID cannot be empty")
	}
	return nil
}

// ValidateProducerParams validates common producer parameters.
func ValidateProducerParams(brokers, topic string) error {
	if brokers == "" {
		return fmt.Errorf("brokers cannot be empty")
	}
	if topic == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	return nil
}

// NewReaderConfig creates a standard Kafka reader configuration for
// at-least-once delivery.
func NewReaderConfig(brokers []string, topic, groupID string) kafka.ReaderConfig {
	return kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,    // Return immediately when any data is available
		MaxBytes:       10e6, // 10MB
		MaxWait:        MaxPollWait,
		CommitInterval: CommitInterval,
		StartOffset:    kafka.FirstOffset, // Start from beginning if no committed offset
	}
}
