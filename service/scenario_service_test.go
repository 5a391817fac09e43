package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roicalc/events"
	"roicalc/models"
)

func goldenInputs() models.MetricsInput {
	return models.MetricsInput{
		MonthlyInvoiceVolume:      2000,
		APStaffCount:              3,
		AvgHoursPerInvoice:        0.17,
		HourlyWage:                30,
		ManualErrorRatePercent:    0.5,
		ErrorCost:                 100,
		TimeHorizonMonths:         36,
		OneTimeImplementationCost: 50000,
	}
}

func newTestScenarioService(repo *MockScenarioRepository, publisher *MockEventPublisher) ScenarioService {
	return NewScenarioService(repo, NewSimulationService(nil), publisher, nil)
}

func TestScenarioService_Create_ComputesResults(t *testing.T) {
	ctx := context.Background()
	repo := new(MockScenarioRepository)
	publisher := new(MockEventPublisher)
	svc := newTestScenarioService(repo, publisher)

	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	saved := &models.Scenario{
		ID:        42,
		Name:      "Q3 baseline",
		Inputs:    goldenInputs(),
		Results:   goldenResults(),
		CreatedAt: createdAt,
	}

	repo.On("Create", ctx, "Q3 baseline", goldenInputs(), goldenResults()).Return(saved, nil)
	publisher.On("Emit", ctx, events.ScenarioSavedEvent{
		ScenarioID: 42,
		Name:       "Q3 baseline",
		CreatedAt:  createdAt,
	}).Return()

	scenario, err := svc.Create(ctx, "  Q3 baseline ", goldenPayload(), nil)

	require.NoError(t, err)
	assert.Equal(t, saved, scenario)
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestScenarioService_Create_AcceptsMatchingResults(t *testing.T) {
	ctx := context.Background()
	repo := new(MockScenarioRepository)
	publisher := new(MockEventPublisher)
	svc := newTestScenarioService(repo, publisher)

	saved := &models.Scenario{ID: 1, Name: "match", Inputs: goldenInputs(), Results: goldenResults()}
	repo.On("Create", ctx, "match", goldenInputs(), goldenResults()).Return(saved, nil)
	publisher.On("Emit", ctx, mock.AnythingOfType("events.ScenarioSavedEvent")).Return()

	scenario, err := svc.Create(ctx, "match", goldenPayload(), goldenResultsPayload())

	require.NoError(t, err)
	assert.Equal(t, int64(1), scenario.ID)
	repo.AssertExpectations(t)
}

func TestScenarioService_Create_RejectsMismatchedResults(t *testing.T) {
	ctx := context.Background()
	repo := new(MockScenarioRepository)
	publisher := new(MockEventPublisher)
	svc := newTestScenarioService(repo, publisher)

	results := goldenResultsPayload()
	results["netSavings"] = "999999999.00"

	_, err := svc.Create(ctx, "tampered", goldenPayload(), results)

	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestScenarioService_Create_ToleratesLastPlaceRounding(t *testing.T) {
	ctx := context.Background()
	repo := new(MockScenarioRepository)
	publisher := new(MockEventPublisher)
	svc := newTestScenarioService(repo, publisher)

	saved := &models.Scenario{ID: 2, Name: "rounded", Inputs: goldenInputs(), Results: goldenResults()}
	repo.On("Create", ctx, "rounded", goldenInputs(), goldenResults()).Return(saved, nil)
	publisher.On("Emit", ctx, mock.AnythingOfType("events.ScenarioSavedEvent")).Return()

	results := goldenResultsPayload()
	results["monthlySavings"] = "34099.99"
	results["roiPercentage"] = "2355.21"
	results["paybackMonths"] = "1.4"

	_, err := svc.Create(ctx, "rounded", goldenPayload(), results)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestResultsAgree(t *testing.T) {
	computed := goldenResults()

	tests := []struct {
		name   string
		modify func(*models.ResultsRecord)
		agree  bool
	}{
		{"identical", func(*models.ResultsRecord) {}, true},
		{"one cent low", func(r *models.ResultsRecord) { r.NetSavings = "1177599.99" }, true},
		{"one cent high", func(r *models.ResultsRecord) { r.CumulativeSavings = "1227600.01" }, true},
		{"two cents off", func(r *models.ResultsRecord) { r.NetSavings = "1177600.02" }, false},
		{"payback one tenth off", func(r *models.ResultsRecord) { r.PaybackMonths = "1.6" }, true},
		{"payback two tenths off", func(r *models.ResultsRecord) { r.PaybackMonths = "1.7" }, false},
		{"unbounded against finite", func(r *models.ResultsRecord) { r.ROIPercentage = models.ROIUnbounded }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			supplied := goldenResults()
			tt.modify(&supplied)
			assert.Equal(t, tt.agree, resultsAgree(supplied, computed))
		})
	}

	unbounded := goldenResults()
	unbounded.ROIPercentage = models.ROIUnbounded
	assert.True(t, resultsAgree(unbounded, unbounded))
}

func TestScenarioService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	repo := new(MockScenarioRepository)
	svc := newTestScenarioService(repo, new(MockEventPublisher))

	_, err := svc.Create(ctx, "   ", goldenPayload(), nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, "no inputs", nil, nil)
	assert.ErrorIs(t, err, ErrValidation)

	negative := goldenPayload()
	negative["errorCost"] = -10.0
	_, err = svc.Create(ctx, "negative", negative, nil)
	assert.ErrorIs(t, err, ErrValidation)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestScenarioService_Create_StorageFailure(t *testing.T) {
	ctx := context.Background()
	repo := new(MockScenarioRepository)
	publisher := new(MockEventPublisher)
	svc := newTestScenarioService(repo, publisher)

	repo.On("Create", ctx, "broken", goldenInputs(), goldenResults()).Return(nil, errors.New("connection refused"))

	_, err := svc.Create(ctx, "broken", goldenPayload(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.Error(), "connection refused")
	publisher.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
}

func TestScenarioService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockScenarioRepository)
	svc := newTestScenarioService(repo, new(MockEventPublisher))

	repo.On("List", ctx).Return(nil, nil).Once()
	summaries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)

	expected := []*models.ScenarioSummary{{ID: 2, Name: "newer"}, {ID: 1, Name: "older"}}
	repo.On("List", ctx).Return(expected, nil).Once()
	summaries, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, summaries)

	repo.On("List", ctx).Return(nil, errors.New("timeout")).Once()
	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestScenarioService_Get(t *testing.T) {
	ctx := context.Background()
	repo := new(MockScenarioRepository)
	svc := newTestScenarioService(repo, new(MockEventPublisher))

	scenario := &models.Scenario{ID: 5, Name: "found", Inputs: goldenInputs(), Results: goldenResults()}
	repo.On("GetByID", ctx, int64(5)).Return(scenario, nil)
	repo.On("GetByID", ctx, int64(6)).Return(nil, nil)

	got, err := svc.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, scenario, got)

	_, err = svc.Get(ctx, 6)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScenarioService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockScenarioRepository)
	publisher := new(MockEventPublisher)
	svc := newTestScenarioService(repo, publisher)

	repo.On("Delete", ctx, int64(5)).Return(int64(1), nil)
	repo.On("Delete", ctx, int64(6)).Return(int64(0), nil)
	publisher.On("Emit", ctx, events.ScenarioDeletedEvent{ScenarioID: 5}).Return().Once()

	changes, err := svc.Delete(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changes)

	_, err = svc.Delete(ctx, 6)
	assert.ErrorIs(t, err, ErrNotFound)

	publisher.AssertExpectations(t)
}
