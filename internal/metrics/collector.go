package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// MetricsKeyPrefix is the Redis key prefix for service metrics.
	MetricsKeyPrefix = "metrics:"
	// MetricsTTL is how long metrics stay in Redis if not refreshed.
	MetricsTTL = 2 * time.Minute
	// DefaultReportInterval is the default interval for writing metrics to Redis.
	DefaultReportInterval = 30 * time.Second
)

// ServiceMetrics holds the reported metrics for the service.
type ServiceMetrics struct {
	ServiceName string    `json:"service_name"`
	StartedAt   time.Time `json:"started_at"`
	LastUpdated time.Time `json:"last_updated"`
	Status      string    `json:"status"` // "healthy" or "unhealthy"

	// Counters (monotonically increasing since start)
	NotificationsReceived uint64 `json:"notifications_received"`
	IncidentsProcessed    uint64 `json:"incidents_processed"`
	IncidentsPublished    uint64 `json:"incidents_published"`
	ProcessingErrors      uint64 `json:"processing_errors"`

	// Rate (per report interval)
	NotificationsPerSecond float64 `json:"notifications_per_second"`

	// Latency (all-time average in nanoseconds)
	AvgProcessingLatencyNs float64 `json:"avg_processing_latency_ns"`

	// Service-specific counters (parse failures, publish failures)
	CustomCounters map[string]uint64 `json:"custom_counters,omitempty"`
}

// Collector collects metrics and periodically reports them to Redis.
type Collector struct {
	serviceName    string
	redis          *redis.Client
	startedAt      time.Time
	reportInterval time.Duration

	// Atomic counters
	received  atomic.Uint64
	processed atomic.Uint64
	published atomic.Uint64
	errors    atomic.Uint64

	// Rate calculation state, written by the reporter goroutine and read
	// by any GetSnapshot caller (the HTTP /metrics handler included).
	rateMu             sync.Mutex
	lastReportTime     time.Time
	lastProcessedCount uint64

	// Latency tracking
	totalLatencyNs atomic.Uint64
	latencyCount   atomic.Uint64

	// Custom counters
	customMu       sync.RWMutex
	customCounters map[string]*atomic.Uint64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewCollector creates a new metrics collector for the service.
func NewCollector(serviceName string, redisClient *redis.Client) *Collector {
	return &Collector{
		serviceName:    serviceName,
		redis:          redisClient,
		startedAt:      time.Now().UTC(),
		reportInterval: DefaultReportInterval,
		lastReportTime: time.Now().UTC(),
		customCounters: make(map[string]*atomic.Uint64),
		stopCh:         make(chan struct{}),
	}
}

// SetReportInterval sets the interval for writing metrics to Redis.
// Must be called before Start; the running reporter does not observe changes.
func (c *Collector) SetReportInterval(interval time.Duration) {
	c.reportInterval = interval
}

// Start begins the periodic metrics reporting to Redis.
func (c *Collector) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.reportInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				c.writeMetrics(context.Background()) // Final write
				return
			case <-c.stopCh:
				c.writeMetrics(context.Background()) // Final write
				return
			case <-ticker.C:
				c.writeMetrics(ctx)
			}
		}
	}()
}

// Stop stops the metrics reporting.
func (c *Collector) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}

// RecordReceived increments the notifications received counter.
func (c *Collector) RecordReceived() {
	c.received.Add(1)
}

// RecordProcessed increments the processed counter with latency.
func (c *Collector) RecordProcessed(latency time.Duration) {
	c.processed.Add(1)
	c.totalLatencyNs.Add(uint64(latency.Nanoseconds()))
	c.latencyCount.Add(1)
}

// RecordPublished increments the incidents published counter.
func (c *Collector) RecordPublished() {
	c.published.Add(1)
}

// RecordError increments the processing errors counter.
func (c *Collector) RecordError() {
	c.errors.Add(1)
}

// IncrementCustom increments a custom counter by name.
func (c *Collector) IncrementCustom(name string) {
	c.customMu.RLock()
	counter, exists := c.customCounters[name]
	c.customMu.RUnlock()

	if !exists {
		c.customMu.Lock()
		// Double-check after acquiring write lock
		if counter, exists = c.customCounters[name]; !exists {
			counter = &atomic.Uint64{}
			c.customCounters[name] = counter
		}
		c.customMu.Unlock()
	}
	counter.Add(1)
}

// GetSnapshot returns current metrics without writing to Redis.
func (c *Collector) GetSnapshot() *ServiceMetrics {
	now := time.Now().UTC()
	processed := c.processed.Load()

	// Calculate rate
	c.rateMu.Lock()
	elapsed := now.Sub(c.lastReportTime).Seconds()
	var rate float64
	if elapsed > 0 {
		rate = float64(processed-c.lastProcessedCount) / elapsed
	}
	c.rateMu.Unlock()

	// Calculate all-time average latency in nanoseconds
	var avgLatencyNs float64
	latencyCount := c.latencyCount.Load()
	if latencyCount > 0 {
		avgLatencyNs = float64(c.totalLatencyNs.Load()) / float64(latencyCount)
	}

	c.customMu.RLock()
	customCounters := make(map[string]uint64, len(c.customCounters))
	for name, counter := range c.customCounters {
		customCounters[name] = counter.Load()
	}
	c.customMu.RUnlock()

	return &ServiceMetrics{
		ServiceName:            c.serviceName,
		StartedAt:              c.startedAt,
		LastUpdated:            now,
		Status:                 "healthy",
		NotificationsReceived:  c.received.Load(),
		IncidentsProcessed:     processed,
		IncidentsPublished:     c.published.Load(),
		ProcessingErrors:       c.errors.Load(),
		NotificationsPerSecond: rate,
		AvgProcessingLatencyNs: avgLatencyNs,
		CustomCounters:         customCounters,
	}
}

// writeMetrics writes current metrics to Redis.
func (c *Collector) writeMetrics(ctx context.Context) {
	if c.redis == nil {
		return
	}

	metrics := c.GetSnapshot()

	// Update rate calculation state
	c.rateMu.Lock()
	c.lastReportTime = metrics.LastUpdated
	c.lastProcessedCount = metrics.IncidentsProcessed
	c.rateMu.Unlock()

	data, err := json.Marshal(metrics)
	if err != nil {
		slog.Error("Failed to marshal metrics", "service", c.serviceName, "error", err)
		return
	}

	key := MetricsKeyPrefix + c.serviceName
	if err := c.redis.Set(ctx, key, data, MetricsTTL).Err(); err != nil {
		slog.Error("Failed to write metrics to Redis", "service", c.serviceName, "error", err)
		return
	}

	slog.Debug("Metrics written to Redis", "service", c.serviceName, "key", key)
}

// ConnectRedis creates and validates a Redis connection.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return client, nil
}
