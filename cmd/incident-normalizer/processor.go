package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/consumer"
	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/events"
	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/metrics"
	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/normalizer"
	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/publisher"
)

const workerCount = 10

// work represents a unit of work for the worker pool.
type work struct {
	notification *events.AlertNotification
	msg          *kafka.Message
}

// processorDeps holds all dependencies needed for alert processing.
type processorDeps struct {
	consumer   *consumer.Consumer
	normalizer *normalizer.Normalizer
	publisher  publisher.Publisher
	metrics    metrics.Recorder
}

// processAlerts reads alert notifications from Kafka and processes them
// concurrently. Invocations are independent; incident correlation relies on
// the deterministic incident identifier, not on processing order.
func processAlerts(ctx context.Context, kafkaConsumer *consumer.Consumer, norm *normalizer.Normalizer, pub publisher.Publisher, m metrics.Recorder) error {
	slog.Info("Starting alert processing loop", "workers", workerCount)

	deps := &processorDeps{
		consumer:   kafkaConsumer,
		normalizer: norm,
		publisher:  pub,
		metrics:    m,
	}

	jobs := make(chan work, workerCount*2)
	var wg sync.WaitGroup

	// Start worker goroutines
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go runWorker(ctx, deps, jobs, &wg)
	}

	// Read messages and dispatch to workers
	dispatchMessages(ctx, deps, jobs)

	close(jobs)
	wg.Wait()
	slog.Info("Alert processing loop stopped")
	return nil
}

// runWorker processes jobs from the channel until it's closed.
func runWorker(ctx context.Context, deps *processorDeps, jobs <-chan work, wg *sync.WaitGroup) {
	defer wg.Done()
	for job := range jobs {
		processOne(ctx, deps, job.notification, job.msg)
	}
}

// dispatchMessages reads messages from Kafka and dispatches them to workers.
// Undecodable payloads are counted and committed so they are not redelivered
// forever; no incident event is emitted for them.
func dispatchMessages(ctx context.Context, deps *processorDeps, jobs chan<- work) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			notification, msg, err := deps.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				var parseErr *events.ParseError
				if errors.As(err, &parseErr) {
					slog.Error("Dropping undecodable alert payload", "error", parseErr)
					deps.metrics.RecordParseFailure()
					deps.metrics.RecordError()
					commitOffset(ctx, deps.consumer, msg)
					continue
				}
				slog.Error("Failed to read alert notification", "error", err)
				continue
			}
			deps.metrics.RecordReceived()
			jobs <- work{notification: notification, msg: msg}
		}
	}
}

// processOne handles a single notification: normalize, publish, commit.
func processOne(ctx context.Context, deps *processorDeps, notification *events.AlertNotification, msg *kafka.Message) {
	startTime := time.Now()

	event := deps.normalizer.Normalize(notification)

	// Publish the incident event. No internal retry: the offset is not
	// committed on failure, leaving redelivery of the whole invocation to
	// the at-least-once consumer. With concurrent workers that redelivery
	// is best effort — a later commit on the same partition can pass a
	// failed message by.
	if err := deps.publisher.Publish(ctx, event); err != nil {
		handlePublishFailure(deps, event, err)
		return
	}

	deps.metrics.RecordProcessed(time.Since(startTime))
	deps.metrics.RecordPublished()

	slog.Info("Normalized alert into incident event",
		"incident_id", event.IncidentID,
		"incident_key", event.Data.IncidentKey,
		"action", event.Action,
		"priority", event.Priority,
		"title", event.Title,
	)

	commitOffset(ctx, deps.consumer, msg)
}

// handlePublishFailure records a failed publish attempt.
func handlePublishFailure(deps *processorDeps, event *events.NormalizedIncidentEvent, err error) {
	var transportErr *publisher.TransportError
	if errors.As(err, &transportErr) {
		slog.Error("Failed to publish incident event",
			"incident_id", event.IncidentID,
			"channel", transportErr.Channel,
			"error", transportErr.Err,
		)
	} else {
		slog.Error("Failed to publish incident event",
			"incident_id", event.IncidentID,
			"error", err,
		)
	}
	deps.metrics.RecordError()
	deps.metrics.RecordPublishFailure()
}

// commitOffset commits the Kafka offset for the given message.
func commitOffset(ctx context.Context, c *consumer.Consumer, msg *kafka.Message) {
	if msg == nil {
		return
	}
	if err := c.CommitMessage(ctx, msg); err != nil {
		slog.Error("Failed to commit offset", "error", err)
	}
}
