// Package events defines the inbound alert notification shape and the
// normalized incident event published downstream.
package events

// Alert lifecycle status values sent by the alert router.
const (
	StatusFiring   = "firing"
	StatusResolved = "resolved"
)

// Incident actions derived from the alert status.
const (
	ActionCreated  = "created"
	ActionResolved = "resolved"
	ActionUpdated  = "updated"
)

// Normalized priority vocabulary used by the downstream incident consumer.
const (
	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH"
	PriorityMedium   = "MEDIUM"
	PriorityLow      = "LOW"
	PriorityMinimal  = "MINIMAL"
)

// EventTypeIncident is the constant event type stamped on every outbound event.
const EventTypeIncident = "incident"

// AlertNotification is the grouped notification the alert router delivers to
// its receivers. None of the fields is guaranteed to be present: labels like
// service and severity are user-defined, and annotations may be empty.
type AlertNotification struct {
	Status            string            `json:"status,omitempty"`
	CommonLabels      map[string]string `json:"commonLabels,omitempty"`
	CommonAnnotations map[string]string `json:"commonAnnotations,omitempty"`
	ExternalURL       string            `json:"externalURL,omitempty"`
}

// Label returns the value of a common label, or "" when absent.
func (n *AlertNotification) Label(name string) string {
	if n.CommonLabels == nil {
		return ""
	}
	return n.CommonLabels[name]
}

// Annotation returns the value of a common annotation, or "" when absent.
func (n *AlertNotification) Annotation(name string) string {
	if n.CommonAnnotations == nil {
		return ""
	}
	return n.CommonAnnotations[name]
}

// NormalizedIncidentEvent is the outbound incident event. The incident_id is
// a deterministic fingerprint of the (service, alertname, severity) triple,
// so retried deliveries of the same logical alert converge on one incident.
type NormalizedIncidentEvent struct {
	EventType   string       `json:"eventType"`
	IncidentID  string       `json:"incidentId"`
	Action      string       `json:"action"`
	Priority    string       `json:"priority"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Timestamp   string       `json:"timestamp"`
	Service     string       `json:"service"`
	Data        IncidentData `json:"data"`
}

// IncidentData carries the untransformed notification alongside the derived
// incident key, preserved for downstream debugging and audit.
type IncidentData struct {
	Notification *AlertNotification `json:"notification"`
	ConsoleURL   string             `json:"consoleUrl,omitempty"`
	Labels       map[string]string  `json:"labels,omitempty"`
	Annotations  map[string]string  `json:"annotations,omitempty"`
	IncidentKey  string             `json:"incidentKey"`
}
