package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeScenarioSaved   EventType = "scenario_saved"
	EventTypeScenarioDeleted EventType = "scenario_deleted"
	EventTypeLeadCaptured    EventType = "lead_captured"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// ScenarioSavedEvent is emitted after a scenario has been persisted
type ScenarioSavedEvent struct {
	ScenarioID int64     `json:"scenarioId"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e ScenarioSavedEvent) Type() EventType {
	return EventTypeScenarioSaved
}

// ScenarioDeletedEvent is emitted after a scenario has been removed
type ScenarioDeletedEvent struct {
	ScenarioID int64 `json:"scenarioId"`
}

func (e ScenarioDeletedEvent) Type() EventType {
	return EventTypeScenarioDeleted
}

// LeadCapturedEvent is emitted after a lead has been written to the lead log
type LeadCapturedEvent struct {
	LeadID    int64     `json:"leadId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e LeadCapturedEvent) Type() EventType {
	return EventTypeLeadCaptured
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers.
// Handlers run asynchronously and never block or fail the emitter.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers outlive the request that triggered the event
	handlerCtx := context.WithoutCancel(ctx)

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(handlerCtx, event)
		}(handler, i)
	}
}
