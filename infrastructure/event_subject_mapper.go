package infrastructure

import (
	"fmt"

	"roicalc/events"
)

// Subjects calculator events are forwarded to
const (
	SubjectScenarioSaved   = "roicalc.scenarios.saved"
	SubjectScenarioDeleted = "roicalc.scenarios.deleted"
	SubjectLeadCaptured    = "roicalc.leads.captured"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeScenarioSaved:
		return SubjectScenarioSaved
	case events.EventTypeScenarioDeleted:
		return SubjectScenarioDeleted
	case events.EventTypeLeadCaptured:
		return SubjectLeadCaptured
	default:
		return fmt.Sprintf("roicalc.unknown.%s", event.Type())
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		SubjectScenarioSaved,
		SubjectScenarioDeleted,
		SubjectLeadCaptured,
	}
}
