// Package metrics provides metrics recording for the incident-normalizer
// service. It uses the null object pattern to avoid nil checks throughout
// the codebase.
package metrics

import "time"

// Recorder defines the interface for recording processing metrics.
type Recorder interface {
	// RecordReceived increments the count of received notifications.
	RecordReceived()

	// RecordProcessed records a successfully processed notification with its latency.
	RecordProcessed(latency time.Duration)

	// RecordPublished increments the count of published incident events.
	RecordPublished()

	// RecordError increments the error counter.
	RecordError()

	// RecordParseFailure increments the count of undecodable payloads.
	RecordParseFailure()

	// RecordPublishFailure increments the count of failed publish attempts.
	RecordPublishFailure()
}

// NoOp is a no-op implementation of Recorder that discards all metrics.
// Use this when metrics collection is not configured.
type NoOp struct{}

// NewNoOp creates a new no-op metrics recorder.
func NewNoOp() *NoOp {
	return &NoOp{}
}

func (n *NoOp) RecordReceived()                 {}
func (n *NoOp) RecordProcessed(_ time.Duration) {}
func (n *NoOp) RecordPublished()                {}
func (n *NoOp) RecordError()                    {}
func (n *NoOp) RecordParseFailure()             {}
func (n *NoOp) RecordPublishFailure()           {}

// Ensure NoOp implements Recorder
var _ Recorder = (*NoOp)(nil)
