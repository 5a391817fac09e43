package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"roicalc/events"
)

// SourceService identifies this service in forwarded event envelopes
const SourceService = "roicalc"

// EventEnvelope wraps a forwarded event with delivery metadata
type EventEnvelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"sourceService"`
	Payload       json.RawMessage `json:"payload"`
}

// publishRecorder is the slice of the metrics provider the forwarder reports to
type publishRecorder interface {
	RecordNATSMessagePublished(ctx context.Context, eventType string)
}

// EventForwarder republishes in-process events onto the message bus
type EventForwarder struct {
	publisher     MessagePublisher
	subjectMapper *EventSubjectMapper
	metrics       publishRecorder
	now           func() time.Time
}

// NewEventForwarder creates a forwarder publishing through publisher
func NewEventForwarder(publisher MessagePublisher, metrics publishRecorder) *EventForwarder {
	return &EventForwarder{
		publisher:     publisher,
		subjectMapper: NewEventSubjectMapper(),
		metrics:       metrics,
		now:           time.Now,
	}
}

// Register subscribes the forwarder to every event type it knows a subject for
func (f *EventForwarder) Register(bus *events.Bus) {
	for _, eventType := range []events.EventType{
		events.EventTypeScenarioSaved,
		events.EventTypeScenarioDeleted,
		events.EventTypeLeadCaptured,
	} {
		bus.Subscribe(eventType, f.Handle)
	}
}

// Handle forwards a single event. Failures are logged; the bus never sees them.
func (f *EventForwarder) Handle(ctx context.Context, event events.Event) {
	if err := f.Forward(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to forward event")
	}
}

// Forward wraps the event in an envelope and publishes it
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     f.now().UTC(),
		SourceService: SourceService,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := f.subjectMapper.MapEventToSubject(event)
	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	if f.metrics != nil {
		f.metrics.RecordNATSMessagePublished(ctx, string(event.Type()))
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event to NATS")

	return nil
}
