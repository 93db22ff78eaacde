package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNoOp_ImplementsRecorder(t *testing.T) {
	var _ Recorder = (*NoOp)(nil)
}

func TestNoOp_AllMethodsWork(t *testing.T) {
	noop := NewNoOp()

	// All these should not panic
	noop.RecordReceived()
	noop.RecordProcessed(time.Second)
	noop.RecordPublished()
	noop.RecordError()
	noop.RecordParseFailure()
	noop.RecordPublishFailure()
}

func TestCollector_Counters(t *testing.T) {
	// nil Redis client: counting works, only reporting is disabled
	c := NewCollector("incident-normalizer", nil)

	c.RecordReceived()
	c.RecordReceived()
	c.RecordProcessed(10 * time.Millisecond)
	c.RecordPublished()
	c.RecordError()

	snapshot := c.GetSnapshot()
	if snapshot.ServiceName != "incident-normalizer" {
		t.Errorf("ServiceName = %q, want %q", snapshot.ServiceName, "incident-normalizer")
	}
	if snapshot.NotificationsReceived != 2 {
		t.Errorf("NotificationsReceived = %d, want 2", snapshot.NotificationsReceived)
	}
	if snapshot.IncidentsProcessed != 1 {
		t.Errorf("IncidentsProcessed = %d, want 1", snapshot.IncidentsProcessed)
	}
	if snapshot.IncidentsPublished != 1 {
		t.Errorf("IncidentsPublished = %d, want 1", snapshot.IncidentsPublished)
	}
	if snapshot.ProcessingErrors != 1 {
		t.Errorf("ProcessingErrors = %d, want 1", snapshot.ProcessingErrors)
	}
	if snapshot.AvgProcessingLatencyNs <= 0 {
		t.Errorf("AvgProcessingLatencyNs = %f, want > 0", snapshot.AvgProcessingLatencyNs)
	}
}

func TestCollector_CustomCounters(t *testing.T) {
	c := NewCollector("incident-normalizer", nil)

	c.IncrementCustom("parse_failures")
	c.IncrementCustom("parse_failures")
	c.IncrementCustom("publish_failures")

	snapshot := c.GetSnapshot()
	if got := snapshot.CustomCounters["parse_failures"]; got != 2 {
		t.Errorf("parse_failures = %d, want 2", got)
	}
	if got := snapshot.CustomCounters["publish_failures"]; got != 1 {
		t.Errorf("publish_failures = %d, want 1", got)
	}
}

func TestCollectorAdapter(t *testing.T) {
	c := NewCollector("incident-normalizer", nil)
	adapter := NewCollectorAdapter(c)

	adapter.RecordReceived()
	adapter.RecordProcessed(5 * time.Millisecond)
	adapter.RecordPublished()
	adapter.RecordError()
	adapter.RecordParseFailure()
	adapter.RecordPublishFailure()

	snapshot := c.GetSnapshot()
	if snapshot.NotificationsReceived != 1 {
		t.Errorf("NotificationsReceived = %d, want 1", snapshot.NotificationsReceived)
	}
	if got := snapshot.CustomCounters["parse_failures"]; got != 1 {
		t.Errorf("parse_failures = %d, want 1", got)
	}
	if got := snapshot.CustomCounters["publish_failures"]; got != 1 {
		t.Errorf("publish_failures = %d, want 1", got)
	}
}

// TestCollector_ConcurrentSnapshotWhileReporting takes snapshots from
// multiple goroutines while the reporter is updating its rate state, the way
// the HTTP /metrics handler does when Redis reporting is enabled. Run with
// -race to verify the rate-state locking.
func TestCollector_ConcurrentSnapshotWhileReporting(t *testing.T) {
	// Unreachable Redis address: Set fails and is logged, but the reporter
	// still runs its full write path including the rate-state update.
	redisClient := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer redisClient.Close()

	c := NewCollector("incident-normalizer", redisClient)
	c.SetReportInterval(time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordProcessed(time.Millisecond)
				if s := c.GetSnapshot(); s == nil {
					t.Error("GetSnapshot() returned nil")
					return
				}
			}
		}()
	}
	wg.Wait()
	c.Stop()

	if got := c.GetSnapshot().IncidentsProcessed; got != 400 {
		t.Errorf("IncidentsProcessed = %d, want 400", got)
	}
}

func TestCollector_StartStopWithoutRedis(t *testing.T) {
	c := NewCollector("incident-normalizer", nil)
	c.SetReportInterval(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	c.Start(ctx)
	c.RecordReceived()
	c.Stop()
}
