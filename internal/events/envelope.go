package events

import (
	"encoding/json"
	"fmt"
)

// ParseError reports an inbound payload that could not be decoded into an
// AlertNotification. It is raised before any field extraction, so no partial
// incident event is ever built from a malformed payload.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to parse alert notification: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to parse alert notification: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// relayEnvelope is the wrapper the notification relay puts around the alert
// router's payload. The original notification travels as a JSON string in
// the Message field.
type relayEnvelope struct {
	Type      string `json:"Type,omitempty"`
	MessageID string `json:"MessageId,omitempty"`
	TopicARN  string `json:"TopicArn,omitempty"`
	Message   string `json:"Message"`
	Timestamp string `json:"Timestamp,omitempty"`
}

// ParseNotification decodes a relay envelope and the AlertNotification
// nested in its Message field. Every failure is reported as a *ParseError.
func ParseNotification(payload []byte) (*AlertNotification, error) {
	var env relayEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, &ParseError{Reason: "invalid relay envelope", Err: err}
	}
	if env.Message == "" {
		return nil, &ParseError{Reason: "envelope is missing the nested message field"}
	}

	var n AlertNotification
	if err := json.Unmarshal([]byte(env.Message), &n); err != nil {
		return nil, &ParseError{Reason: "invalid notification in message field", Err: err}
	}
	return &n, nil
}
