package metrics

import "time"

// CollectorAdapter adapts a Collector to the Recorder interface.
type CollectorAdapter struct {
	collector *Collector
}

// NewCollectorAdapter wraps a Collector to implement Recorder.
func NewCollectorAdapter(collector *Collector) *CollectorAdapter {
	return &CollectorAdapter{collector: collector}
}

func (a *CollectorAdapter) RecordReceived() {
	a.collector.RecordReceived()
}

func (a *CollectorAdapter) RecordProcessed(latency time.Duration) {
	a.collector.RecordProcessed(latency)
}

func (a *CollectorAdapter) RecordPublished() {
	a.collector.RecordPublished()
}

func (a *CollectorAdapter) RecordError() {
	a.collector.RecordError()
}

func (a *CollectorAdapter) RecordParseFailure() {
	a.collector.IncrementCustom("parse_failures")
}

func (a *CollectorAdapter) RecordPublishFailure() {
	a.collector.IncrementCustom("publish_failures")
}

// Ensure CollectorAdapter implements Recorder
var _ Recorder = (*CollectorAdapter)(nil)
