package observability

// Metric name prefixes
const (
	MetricPrefix = "roicalc"
)

// Metric names
const (
	// Simulation metrics
	SimulationsTotal = MetricPrefix + ".simulations.total"

	// Scenario metrics
	ScenariosSavedTotal   = MetricPrefix + ".scenarios.saved_total"
	ScenariosDeletedTotal = MetricPrefix + ".scenarios.deleted_total"

	// Report metrics
	ReportsTotal = MetricPrefix + ".reports.total"

	// Lead metrics
	LeadCapturesTotal = MetricPrefix + ".leads.captures_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// HTTP metrics
	HTTPRequestDuration = MetricPrefix + ".http.request_duration"
)

// Label keys
const (
	LabelOutcome   = "outcome"
	LabelEventType = "event_type"
	LabelMethod    = "method"
	LabelRoute     = "route"
	LabelStatus    = "status"
)

// Outcome values
const (
	OutcomeComputed       = "computed"
	OutcomeShortCircuited = "short_circuited"
	OutcomeSuccess        = "success"
	OutcomeFailure        = "failure"
)
