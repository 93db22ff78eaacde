package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/events"
)

// SNSPublisher publishes incident events to an SNS topic. Region and
// credentials come from the ambient AWS configuration (env, instance role).
type SNSPublisher struct {
	client   *sns.Client
	topicARN string
}

// Ensure SNSPublisher implements Publisher
var _ Publisher = (*SNSPublisher)(nil)

// NewSNS creates a publisher for the given SNS topic ARN.
func NewSNS(ctx context.Context, topicARN string) (*SNSPublisher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	slog.Info("Initializing SNS publisher", "topic_arn", topicARN, "region", cfg.Region)

	return &SNSPublisher{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
	}, nil
}

// Publish serializes the incident event to JSON and publishes it to the
// configured SNS topic.
func (p *SNSPublisher) Publish(ctx context.Context, event *events.NormalizedIncidentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal incident event: %w", err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		return &TransportError{Channel: p.topicARN, Err: err}
	}

	slog.Info("Published incident event",
		"incident_id", event.IncidentID,
		"action", event.Action,
		"priority", event.Priority,
		"channel", p.topicARN,
	)
	return nil
}

// Close is a no-op for the SNS publisher.
func (p *SNSPublisher) Close() error {
	return nil
}
