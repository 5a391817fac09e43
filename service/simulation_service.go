package service

import (
	"context"

	log "github.com/sirupsen/logrus"

	"roicalc/models"
	"roicalc/simulation"
)

// simulationService implements the SimulationService interface
type simulationService struct {
	metrics MetricsRecorder
}

// NewSimulationService creates a new simulation service
func NewSimulationService(metrics MetricsRecorder) SimulationService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &simulationService{metrics: metrics}
}

// Simulate coerces a raw payload into inputs and computes their results
func (s *simulationService) Simulate(ctx context.Context, raw map[string]any) (models.MetricsInput, models.ResultsRecord, error) {
	inputs, err := CoerceMetrics(raw)
	if err != nil {
		return models.MetricsInput{}, models.ResultsRecord{}, err
	}
	return inputs, s.Run(ctx, inputs), nil
}

// Run computes results for inputs that are already coerced.
// Inputs with no invoice volume or no staff yield the empty results record.
func (s *simulationService) Run(ctx context.Context, inputs models.MetricsInput) models.ResultsRecord {
	if ShouldShortCircuit(inputs) {
		log.WithFields(log.Fields{
			"monthlyInvoiceVolume": inputs.MonthlyInvoiceVolume,
			"apStaffCount":         inputs.APStaffCount,
		}).Debug("Skipping simulation for degenerate inputs")
		s.metrics.RecordSimulation(ctx, true)
		return models.EmptyResults()
	}

	s.metrics.RecordSimulation(ctx, false)
	return simulation.Compute(inputs)
}
