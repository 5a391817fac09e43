package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitDeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	received := make(chan Event, 2)

	bus.Subscribe(EventTypeLeadCaptured, func(ctx context.Context, event Event) {
		received <- event
	})
	bus.Subscribe(EventTypeLeadCaptured, func(ctx context.Context, event Event) {
		received <- event
	})
	bus.Subscribe(EventTypeScenarioSaved, func(ctx context.Context, event Event) {
		t.Errorf("unexpected delivery of %s", event.Type())
	})

	lead := LeadCapturedEvent{LeadID: 7, Email: "ap@example.com", CreatedAt: time.Now()}
	bus.Emit(context.Background(), lead)

	for i := 0; i < 2; i++ {
		select {
		case event := <-received:
			assert.Equal(t, lead, event)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewBus()
	done := make(chan struct{})

	bus.Subscribe(EventTypeScenarioDeleted, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeScenarioDeleted, func(ctx context.Context, event Event) {
		close(done)
	})

	require.NotPanics(t, func() {
		bus.Emit(context.Background(), ScenarioDeletedEvent{ScenarioID: 1})
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second handler was not called")
	}
}

func TestBus_HandlersSurviveCallerCancellation(t *testing.T) {
	bus := NewBus()
	errs := make(chan error, 1)

	bus.Subscribe(EventTypeScenarioSaved, func(ctx context.Context, event Event) {
		time.Sleep(10 * time.Millisecond)
		errs <- ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	bus.Emit(ctx, ScenarioSavedEvent{ScenarioID: 1, Name: "baseline"})
	cancel()

	select {
	case err := <-errs:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("handler was not called")
	}
}
