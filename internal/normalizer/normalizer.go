// Package normalizer derives a stable incident identity from raw alert
// notifications and maps the alert vocabulary onto the normalized incident
// schema consumed downstream.
package normalizer

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/aws-samples/sample-grafana-prometheus-stack/internal/events"
)

const (
	// defaultAlertName is substituted when a notification carries no
	// alertname label.
	defaultAlertName = "unknown"
	// defaultSeverity is substituted when a notification carries no
	// severity label. It maps to MEDIUM priority.
	defaultSeverity = "sev3"

	keySeparator = ":"
)

// Options configure a Normalizer. Both values are deployment constants, kept
// explicit here so the transformation stays testable with varied defaults.
type Options struct {
	// FallbackService is substituted when a notification carries no
	// service label.
	FallbackService string
	// EmitterService is the fixed service identifier stamped on every
	// outbound event.
	EmitterService string
}

// Normalizer transforms alert notifications into normalized incident events.
// It is stateless and safe for concurrent use.
type Normalizer struct {
	opts Options
	now  func() time.Time
}

// New creates a Normalizer with the given options.
func New(opts Options) *Normalizer {
	return &Normalizer{
		opts: opts,
		now:  time.Now,
	}
}

// IncidentKey builds the colon-delimited (service, alertname, severity) key
// that decides whether two alerts refer to the same incident. Label values
// are used verbatim; a value containing a colon shifts the key boundaries.
// Kept as-is for compatibility with the deployed identifier space.
func (no *Normalizer) IncidentKey(n *events.AlertNotification) string {
	service := n.Label("service")
	if service == "" {
		service = no.opts.FallbackService
	}
	alertName := n.Label("alertname")
	if alertName == "" {
		alertName = defaultAlertName
	}
	severity := n.Label("severity")
	if severity == "" {
		severity = defaultSeverity
	}
	return service + keySeparator + alertName + keySeparator + severity
}

// IncidentID returns the first 16 hex characters of the MD5 of the incident
// key. The fingerprint is not a security boundary: the contract is a
// deterministic, fixed-width, non-secret identifier so retried deliveries of
// the same logical alert converge on one incident.
func IncidentID(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])[:16]
}

// Normalize transforms one alert notification into a normalized incident
// event. The input is not mutated; the timestamp is taken at transformation
// time, not copied from the input.
func (no *Normalizer) Normalize(n *events.AlertNotification) *events.NormalizedIncidentEvent {
	key := no.IncidentKey(n)

	severity := n.Label("severity")
	if severity == "" {
		severity = defaultSeverity
	}
	title := n.Label("alertname")
	if title == "" {
		title = defaultAlertName
	}

	description := n.Annotation("summary")
	if description == "" {
		description = n.Annotation("description")
	}

	return &events.NormalizedIncidentEvent{
		EventType:   events.EventTypeIncident,
		IncidentID:  IncidentID(key),
		Action:      actionForStatus(n.Status),
		Priority:    priorityForSeverity(severity),
		Title:       title,
		Description: description,
		Timestamp:   no.now().UTC().Format(time.RFC3339),
		Service:     no.opts.EmitterService,
		Data: events.IncidentData{
			Notification: n,
			ConsoleURL:   n.ExternalURL,
			Labels:       n.CommonLabels,
			Annotations:  n.CommonAnnotations,
			IncidentKey:  key,
		},
	}
}

// actionForStatus maps the alert lifecycle status to an incident action.
// Anything other than firing or resolved, including a missing status, is
// treated as an update to an existing incident.
func actionForStatus(status string) string {
	switch status {
	case events.StatusFiring:
		return events.ActionCreated
	case events.StatusResolved:
		return events.ActionResolved
	default:
		return events.ActionUpdated
	}
}

// priorityForSeverity maps the raw severity label to the normalized priority
// vocabulary. Unrecognized severities map to MINIMAL.
func priorityForSeverity(severity string) string {
	switch severity {
	case "sev1":
		return events.PriorityCritical
	case "sev2":
		return events.PriorityHigh
	case "sev3":
		return events.PriorityMedium
	case "sev4":
		return events.PriorityLow
	default:
		return events.PriorityMinimal
	}
}
