// Package config provides configuration parsing and validation for the
// incident-normalizer service.
package config

import (
	"fmt"
	"os"
)

// Config holds all configuration parameters for the incident-normalizer service.
type Config struct {
	KafkaBrokers    string
	AlertsTopic     string
	ConsumerGroupID string

	// Channel is the destination for normalized incident events: an SNS
	// topic ARN or a Kafka topic name.
	Channel string

	// FallbackService is substituted when a notification has no service label.
	FallbackService string
	// EmitterService is the fixed service identifier stamped on outbound events.
	EmitterService string

	// RedisAddr enables Redis-backed metrics reporting. Empty disables it.
	RedisAddr string
	// ListenAddr enables the health/metrics HTTP API. Empty disables it.
	ListenAddr string
}

// Validate checks that all required configuration fields are set.
// Returns an error if validation fails, nil otherwise.
func (c *Config) Validate() error {
	if c.KafkaBrokers == "" {
		return fmt.Errorf("kafka-brokers cannot be empty")
	}
	if c.AlertsTopic == "" {
		return fmt.Errorf("alerts-topic cannot be empty")
	}
	if c.ConsumerGroupID == "" {
		return fmt.Errorf("consumer-group-id cannot be empty")
	}
	if c.Channel == "" {
		return fmt.Errorf("channel cannot be empty")
	}
	if c.FallbackService == "" {
		return fmt.Errorf("fallback-service cannot be empty")
	}
	if c.EmitterService == "" {
		return fmt.Errorf("emitter-service cannot be empty")
	}
	return nil
}

// GetEnvOrDefault returns the environment variable value or a default if not set.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
