package service

import (
	"context"
	"io"

	"roicalc/events"
	"roicalc/models"
)

// ScenarioRepository defines the interface for scenario persistence
type ScenarioRepository interface {
	// Create stores a scenario and returns it with its assigned id and creation time
	Create(ctx context.Context, name string, inputs models.MetricsInput, results models.ResultsRecord) (*models.Scenario, error)

	// List returns summaries of all scenarios, newest first
	List(ctx context.Context) ([]*models.ScenarioSummary, error)

	// GetByID returns the scenario with the given id, or nil if none exists
	GetByID(ctx context.Context, id int64) (*models.Scenario, error)

	// Delete removes the scenario with the given id and returns the number of rows removed
	Delete(ctx context.Context, id int64) (int64, error)
}

// LeadRepository defines the interface for the append-only lead log
type LeadRepository interface {
	// Create appends an email address to the lead log
	Create(ctx context.Context, email string) (*models.Lead, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event)
}

// MetricsRecorder receives operational counters from the services
type MetricsRecorder interface {
	RecordSimulation(ctx context.Context, shortCircuited bool)
	RecordScenarioSaved(ctx context.Context)
	RecordScenarioDeleted(ctx context.Context)
	RecordReport(ctx context.Context, outcome string)
	RecordLeadCapture(ctx context.Context, success bool)
}

// ReportComposer lays out a report document for a pair of inputs and results.
// The returned document is fully composed and only needs to be written out.
type ReportComposer interface {
	Compose(inputs models.MetricsInput, results models.ResultsRecord) (io.WriterTo, error)
}

// LeadCapturer records a lead without holding up the caller
type LeadCapturer interface {
	CaptureAsync(email string)
}

// SimulationService defines the interface for running simulations
type SimulationService interface {
	// Simulate coerces a raw payload into inputs and computes their results
	Simulate(ctx context.Context, raw map[string]any) (models.MetricsInput, models.ResultsRecord, error)

	// Run computes results for inputs that are already coerced
	Run(ctx context.Context, inputs models.MetricsInput) models.ResultsRecord
}

// ScenarioService defines the interface for scenario operations
type ScenarioService interface {
	// Create validates and persists a named scenario. Results are computed when omitted.
	Create(ctx context.Context, name string, rawInputs, rawResults map[string]any) (*models.Scenario, error)

	List(ctx context.Context) ([]*models.ScenarioSummary, error)

	Get(ctx context.Context, id int64) (*models.Scenario, error)

	// Delete removes a scenario and returns the number of rows removed
	Delete(ctx context.Context, id int64) (int64, error)
}

// ReportService defines the interface for preparing PDF reports
type ReportService interface {
	Prepare(ctx context.Context, req ReportRequest) (*PreparedReport, error)
}
