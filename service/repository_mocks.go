package service

import (
	"context"
	"io"

	"roicalc/events"
	"roicalc/models"

	"github.com/stretchr/testify/mock"
)

// MockScenarioRepository is a mock implementation of ScenarioRepository
type MockScenarioRepository struct {
	mock.Mock
}

func (m *MockScenarioRepository) Create(ctx context.Context, name string, inputs models.MetricsInput, results models.ResultsRecord) (*models.Scenario, error) {
	args := m.Called(ctx, name, inputs, results)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scenario), args.Error(1)
}

func (m *MockScenarioRepository) List(ctx context.Context) ([]*models.ScenarioSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScenarioSummary), args.Error(1)
}

func (m *MockScenarioRepository) GetByID(ctx context.Context, id int64) (*models.Scenario, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Scenario), args.Error(1)
}

func (m *MockScenarioRepository) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockLeadRepository is a mock implementation of LeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, email string) (*models.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Emit(ctx context.Context, event events.Event) {
	m.Called(ctx, event)
}

// MockReportComposer is a mock implementation of ReportComposer
type MockReportComposer struct {
	mock.Mock
}

func (m *MockReportComposer) Compose(inputs models.MetricsInput, results models.ResultsRecord) (io.WriterTo, error) {
	args := m.Called(inputs, results)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriterTo), args.Error(1)
}

// MockLeadCapturer is a mock implementation of LeadCapturer
type MockLeadCapturer struct {
	mock.Mock
}

func (m *MockLeadCapturer) CaptureAsync(email string) {
	m.Called(email)
}
