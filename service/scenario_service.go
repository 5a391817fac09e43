package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"roicalc/events"
	"roicalc/models"
	"roicalc/simulation"
)

// scenarioService implements the ScenarioService interface
type scenarioService struct {
	scenarioRepo   ScenarioRepository
	simulator      SimulationService
	eventPublisher EventPublisher
	metrics        MetricsRecorder
}

// NewScenarioService creates a new scenario service
func NewScenarioService(scenarioRepo ScenarioRepository, simulator SimulationService, eventPublisher EventPublisher, metrics MetricsRecorder) ScenarioService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &scenarioService{
		scenarioRepo:   scenarioRepo,
		simulator:      simulator,
		eventPublisher: eventPublisher,
		metrics:        metrics,
	}
}

// Create validates and persists a named scenario.
//
// The stored results are always what the engine derives from the stored
// inputs. Results supplied by the caller must agree with the engine to within
// one unit in the last place of each figure, which absorbs clients that round
// with binary floats.
func (s *scenarioService) Create(ctx context.Context, name string, rawInputs, rawResults map[string]any) (*models.Scenario, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("scenario name is required")
	}
	if len(rawInputs) == 0 {
		return nil, validationError("scenario inputs are required")
	}

	inputs, err := CoerceMetrics(rawInputs)
	if err != nil {
		return nil, err
	}
	results := s.simulator.Run(ctx, inputs)

	if len(rawResults) > 0 {
		supplied, err := CoerceResults(rawResults)
		if err != nil {
			return nil, err
		}
		if !resultsAgree(supplied, results) {
			return nil, validationError("scenario results do not match its inputs (each figure must be within one unit in the last place of the computed value)")
		}
	}

	scenario, err := s.scenarioRepo.Create(ctx, name, inputs, results)
	if err != nil {
		return nil, storageError(err, "failed to save scenario")
	}

	log.WithFields(log.Fields{
		"scenarioId": scenario.ID,
		"name":       scenario.Name,
	}).Info("Scenario saved")

	s.metrics.RecordScenarioSaved(ctx)
	if s.eventPublisher != nil {
		s.eventPublisher.Emit(ctx, events.ScenarioSavedEvent{
			ScenarioID: scenario.ID,
			Name:       scenario.Name,
			CreatedAt:  scenario.CreatedAt,
		})
	}

	return scenario, nil
}

// List returns summaries of all scenarios, newest first
func (s *scenarioService) List(ctx context.Context) ([]*models.ScenarioSummary, error) {
	summaries, err := s.scenarioRepo.List(ctx)
	if err != nil {
		return nil, storageError(err, "failed to list scenarios")
	}
	if summaries == nil {
		summaries = []*models.ScenarioSummary{}
	}
	return summaries, nil
}

// Get returns a scenario by id
func (s *scenarioService) Get(ctx context.Context, id int64) (*models.Scenario, error) {
	scenario, err := s.scenarioRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "failed to get scenario")
	}
	if scenario == nil {
		return nil, notFoundError("Scenario not found")
	}
	return scenario, nil
}

// Delete removes a scenario by id
func (s *scenarioService) Delete(ctx context.Context, id int64) (int64, error) {
	changes, err := s.scenarioRepo.Delete(ctx, id)
	if err != nil {
		return 0, storageError(err, "failed to delete scenario")
	}
	if changes == 0 {
		return 0, notFoundError("Scenario not found")
	}

	log.WithField("scenarioId", id).Info("Scenario deleted")

	s.metrics.RecordScenarioDeleted(ctx)
	if s.eventPublisher != nil {
		s.eventPublisher.Emit(ctx, events.ScenarioDeletedEvent{ScenarioID: id})
	}

	return changes, nil
}

// resultsAgree compares supplied figures with computed ones, allowing a
// difference of one unit in the last place. The unbounded ROI sentinel must
// match exactly.
func resultsAgree(supplied, computed models.ResultsRecord) bool {
	figures := []struct {
		supplied, computed string
		places             int32
	}{
		{supplied.MonthlySavings, computed.MonthlySavings, simulation.CurrencyPlaces},
		{supplied.CumulativeSavings, computed.CumulativeSavings, simulation.CurrencyPlaces},
		{supplied.NetSavings, computed.NetSavings, simulation.CurrencyPlaces},
		{supplied.PaybackMonths, computed.PaybackMonths, simulation.PaybackPlaces},
		{supplied.ROIPercentage, computed.ROIPercentage, simulation.PercentPlaces},
	}

	for _, f := range figures {
		if f.supplied == f.computed {
			continue
		}
		a, err := decimal.NewFromString(f.supplied)
		if err != nil {
			return false
		}
		b, err := decimal.NewFromString(f.computed)
		if err != nil {
			return false
		}
		if a.Sub(b).Abs().GreaterThan(decimal.New(1, -f.places)) {
			return false
		}
	}
	return true
}
