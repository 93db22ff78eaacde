package events

import (
	"encoding/json"
	"errors"
	"testing"
)

// wrap puts a notification payload into a relay envelope the way the
// notification relay delivers it.
func wrap(t *testing.T, inner string) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"Type":      "Notification",
		"MessageId": "11111111-2222-3333-4444-555555555555",
		"Message":   inner,
	})
	if err != nil {
		t.Fatalf("failed to build envelope: %v", err)
	}
	return payload
}

func TestParseNotification(t *testing.T) {
	inner := `{
		"status": "firing",
		"commonLabels": {"alertname": "HighErrorRate", "service": "DocStorageService", "severity": "sev2"},
		"commonAnnotations": {"summary": "Too many errors"},
		"externalURL": "http://alertmanager.example"
	}`

	n, err := ParseNotification(wrap(t, inner))
	if err != nil {
		t.Fatalf("ParseNotification() error = %v", err)
	}

	if n.Status != "firing" {
		t.Errorf("Status = %q, want %q", n.Status, "firing")
	}
	if got := n.Label("alertname"); got != "HighErrorRate" {
		t.Errorf("Label(alertname) = %q, want %q", got, "HighErrorRate")
	}
	if got := n.Annotation("summary"); got != "Too many errors" {
		t.Errorf("Annotation(summary) = %q, want %q", got, "Too many errors")
	}
	if n.ExternalURL != "http://alertmanager.example" {
		t.Errorf("ExternalURL = %q, want %q", n.ExternalURL, "http://alertmanager.example")
	}
}

func TestParseNotification_Errors(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"not JSON", []byte("not json at all")},
		{"missing message field", []byte(`{"Type": "Notification", "MessageId": "abc"}`)},
		{"empty message field", []byte(`{"Message": ""}`)},
		{"message is not JSON", []byte(`{"Message": "plain text"}`)},
		{"message is wrong shape", []byte(`{"Message": "[1, 2, 3]"}`)},
		{"empty payload", []byte("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseNotification(tt.payload)
			if err == nil {
				t.Fatal("ParseNotification() expected error, got nil")
			}
			if n != nil {
				t.Errorf("ParseNotification() returned a partial notification: %+v", n)
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("error %v is not a *ParseError", err)
			}
		})
	}
}

func TestLabelAndAnnotation_NilMaps(t *testing.T) {
	n := &AlertNotification{}
	if got := n.Label("service"); got != "" {
		t.Errorf("Label() on nil map = %q, want empty", got)
	}
	if got := n.Annotation("summary"); got != "" {
		t.Errorf("Annotation() on nil map = %q, want empty", got)
	}
}

func TestNormalizedIncidentEvent_JSONShape(t *testing.T) {
	event := &NormalizedIncidentEvent{
		EventType:  EventTypeIncident,
		IncidentID: "8f3a2b1c4d5e6f70",
		Action:     ActionCreated,
		Priority:   PriorityHigh,
		Title:      "HighErrorRate",
		Timestamp:  "2024-03-01T10:00:00Z",
		Service:    "incident-normalizer",
		Data: IncidentData{
			IncidentKey: "DocStorageService:HighErrorRate:sev2",
		},
	}

	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded["eventType"] != "incident" {
		t.Errorf("eventType = %v, want %q", decoded["eventType"], "incident")
	}
	if decoded["incidentId"] != "8f3a2b1c4d5e6f70" {
		t.Errorf("incidentId = %v, want %q", decoded["incidentId"], "8f3a2b1c4d5e6f70")
	}
	// Empty description must be omitted, not emitted as "".
	if _, present := decoded["description"]; present {
		t.Error("empty description should be omitted from the JSON output")
	}
}
