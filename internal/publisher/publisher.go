// Package publisher delivers normalized incident events to the configured
// outbound channel. The channel is one opaque identifier chosen at startup:
// an SNS topic ARN or a Kafka topic. Publishers do not retry internally;
// failures surface to the processing loop as *TransportError.
package publisher

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/events"
)

// snsARNPrefix identifies a destination channel as an SNS topic.
const snsARNPrefix = "arn:aws:sns:"

// TransportError reports a publish that could not be completed because the
// destination channel was unreachable, rejected the message, or timed out.
type TransportError struct {
	Channel string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to publish to channel %s: %v", e.Channel, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Publisher delivers one normalized incident event per call.
type Publisher interface {
	Publish(ctx context.Context, event *events.NormalizedIncidentEvent) error
	Close() error
}

// New selects a publisher implementation from the channel identifier: an SNS
// topic ARN gets the SNS publisher, anything else is treated as a Kafka topic
// on the given brokers.
func New(ctx context.Context, channel, kafkaBrokers string) (Publisher, error) {
	if channel == "" {
		return nil, fmt.Errorf("channel cannot be empty")
	}
	if isSNSChannel(channel) {
		return NewSNS(ctx, channel)
	}
	return NewKafka(kafkaBrokers, channel)
}

// isSNSChannel reports whether the channel identifier is an SNS topic ARN.
func isSNSChannel(channel string) bool {
	return strings.HasPrefix(channel, snsARNPrefix)
}
