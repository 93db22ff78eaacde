package publisher

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/events"
)

// MockPublisher records published events instead of delivering them.
// Useful for testing without a broker and for dry runs.
type MockPublisher struct {
	mu       sync.Mutex
	events   []*events.NormalizedIncidentEvent
	failWith error
}

// Ensure MockPublisher implements Publisher
var _ Publisher = (*MockPublisher)(nil)

// NewMock creates a new mock publisher.
func NewMock() *MockPublisher {
	return &MockPublisher{}
}

// FailWith makes subsequent Publish calls return the given error.
func (p *MockPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failWith = err
}

// Publish records the event, or returns the configured failure.
func (p *MockPublisher) Publish(_ context.Context, event *events.NormalizedIncidentEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return p.failWith
	}
	p.events = append(p.events, event)
	slog.Debug("Mock publish (event recorded, not delivered)",
		"incident_id", event.IncidentID,
		"action", event.Action,
	)
	return nil
}

// Events returns a copy of all recorded events.
func (p *MockPublisher) Events() []*events.NormalizedIncidentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*events.NormalizedIncidentEvent, len(p.events))
	copy(out, p.events)
	return out
}

// Close is a no-op for the mock publisher.
func (p *MockPublisher) Close() error {
	return nil
}
