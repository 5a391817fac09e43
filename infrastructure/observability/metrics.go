package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"

	"roicalc/config"
)

// MetricsProvider manages OpenTelemetry metrics for the calculator.
// Every Record method is a no-op until the provider has been initialized with an exporter.
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	simulationsCounter      metric.Int64Counter
	scenariosSavedCounter   metric.Int64Counter
	scenariosDeletedCounter metric.Int64Counter
	reportsCounter          metric.Int64Counter
	leadCapturesCounter     metric.Int64Counter
	natsPublishedCounter    metric.Int64Counter
	httpDurationHist        metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.markInitialized()
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.markInitialized()
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	if err := mp.initializeWithReader(reader); err != nil {
		return err
	}

	// Set as global meter provider
	otel.SetMeterProvider(mp.meterProvider)

	log.Info("Metrics provider initialized successfully")
	return nil
}

// initializeWithReader builds the meter provider around reader and creates the instruments
func (mp *MetricsProvider) initializeWithReader(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter("roicalc")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	return nil
}

func (mp *MetricsProvider) markInitialized() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.initialized = true
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.simulationsCounter, SimulationsTotal, "Total number of simulations run"},
		{&mp.scenariosSavedCounter, ScenariosSavedTotal, "Total number of scenarios saved"},
		{&mp.scenariosDeletedCounter, ScenariosDeletedTotal, "Total number of scenarios deleted"},
		{&mp.reportsCounter, ReportsTotal, "Total number of report requests by outcome"},
		{&mp.leadCapturesCounter, LeadCapturesTotal, "Total number of lead capture attempts by outcome"},
		{&mp.natsPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published"},
	}

	for _, c := range counters {
		*c.target, err = mp.meter.Int64Counter(
			c.name,
			metric.WithDescription(c.description),
			metric.WithUnit("1"),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
	}

	mp.httpDurationHist, err = mp.meter.Float64Histogram(
		HTTPRequestDuration,
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request duration histogram: %w", err)
	}

	return nil
}

// Shutdown flushes and shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordSimulation records a simulation request
func (mp *MetricsProvider) RecordSimulation(ctx context.Context, shortCircuited bool) {
	if !mp.isEnabled() {
		return
	}

	outcome := OutcomeComputed
	if shortCircuited {
		outcome = OutcomeShortCircuited
	}
	mp.simulationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelOutcome, outcome)))
}

// RecordScenarioSaved records a scenario being saved
func (mp *MetricsProvider) RecordScenarioSaved(ctx context.Context) {
	if !mp.isEnabled() {
		return
	}
	mp.scenariosSavedCounter.Add(ctx, 1)
}

// RecordScenarioDeleted records a scenario being deleted
func (mp *MetricsProvider) RecordScenarioDeleted(ctx context.Context) {
	if !mp.isEnabled() {
		return
	}
	mp.scenariosDeletedCounter.Add(ctx, 1)
}

// RecordReport records the outcome of a report request
func (mp *MetricsProvider) RecordReport(ctx context.Context, outcome string) {
	if !mp.isEnabled() {
		return
	}
	mp.reportsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelOutcome, outcome)))
}

// RecordLeadCapture records a lead capture attempt
func (mp *MetricsProvider) RecordLeadCapture(ctx context.Context, success bool) {
	if !mp.isEnabled() {
		return
	}

	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	mp.leadCapturesCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelOutcome, outcome)))
}

// RecordNATSMessagePublished records an event forwarded to NATS
func (mp *MetricsProvider) RecordNATSMessagePublished(ctx context.Context, eventType string) {
	if !mp.isEnabled() {
		return
	}
	mp.natsPublishedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelEventType, eventType)))
}

// RecordHTTPRequest records a served HTTP request with its duration
func (mp *MetricsProvider) RecordHTTPRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	mp.httpDurationHist.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String(LabelMethod, method),
			attribute.String(LabelRoute, route),
			attribute.Int(LabelStatus, status),
		),
	)
}

// isEnabled reports whether instruments exist to record into
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meter != nil
}
