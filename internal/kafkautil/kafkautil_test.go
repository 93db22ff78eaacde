package kafkautil

import (
	"reflect"
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestParseBrokers(t *testing.T) {
	tests := []struct {
		name    string
		brokers string
		want    []string
	}{
		{"single broker", "localhost:9092", []string{"localhost:9092"}},
		{"multiple brokers", "localhost:9092,localhost:9093", []string{"localhost:9092", "localhost:9093"}},
		{"whitespace trimmed", " localhost:9092 , localhost:9093 ", []string{"localhost:9092", "localhost:9093"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseBrokers(tt.brokers); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseBrokers(%q) = %v, want %v", tt.brokers, got, tt.want)
			}
		})
	}
}

func TestValidateConsumerParams(t *testing.T) {
	tests := []struct {
		name    string
		brokers string
		topic   string
		groupID string
		wantErr bool
	}{
		{"valid", "localhost:9092", "alerts.notifications", "group", false},
		{"empty brokers", "", "alerts.notifications", "group", true},
		{"empty topic", "localhost:9092", "", "group", true},
		{"empty group", "localhost:9092", "alerts.notifications", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConsumerParams(tt.brokers, tt.topic, tt.groupID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConsumerParams() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateProducerParams(t *testing.T) {
	if err := ValidateProducerParams("localhost:9092", "incidents.normalized"); err != nil {
		t.Errorf("ValidateProducerParams() unexpected error = %v", err)
	}
	if err := ValidateProducerParams("", "incidents.normalized"); err == nil {
		t.Error("ValidateProducerParams() expected error for empty brokers")
	}
	if err := ValidateProducerParams("localhost:9092", ""); err == nil {
		t.Error("ValidateProducerParams() expected error for empty topic")
	}
}

func TestNewReaderConfig(t *testing.T) {
	cfg := NewReaderConfig([]string{"localhost:9092"}, "alerts.notifications", "group")

	if cfg.Topic != "alerts.notifications" {
		t.Errorf("Topic = %q, want %q", cfg.Topic, "alerts.notifications")
	}
	if cfg.GroupID != "group" {
		t.Errorf("GroupID = %q, want %q", cfg.GroupID, "group")
	}
	if cfg.StartOffset != kafka.FirstOffset {
		t.Errorf("StartOffset = %d, want kafka.FirstOffset", cfg.StartOffset)
	}
	if cfg.MaxWait != MaxPollWait {
		t.Errorf("MaxWait = %v, want %v", cfg.MaxWait, MaxPollWait)
	}
	if cfg.CommitInterval != CommitInterval {
		t.Errorf("CommitInterval = %v, want %v", cfg.CommitInterval, CommitInterval)
	}
}
