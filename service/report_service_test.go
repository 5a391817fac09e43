package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubDocument struct {
	body string
}

func (d stubDocument) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.body)
	return int64(n), err
}

func newTestReportService(composer *MockReportComposer, leads *MockLeadCapturer) *reportService {
	svc := NewReportService(composer, leads, nil).(*reportService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return svc
}

func TestReportService_Prepare_Success(t *testing.T) {
	composer := new(MockReportComposer)
	leads := new(MockLeadCapturer)
	svc := newTestReportService(composer, leads)

	leads.On("CaptureAsync", "ap@example.com").Return()
	composer.On("Compose", goldenInputs(), goldenResults()).Return(stubDocument{body: "%PDF-stub"}, nil)

	report, err := svc.Prepare(context.Background(), ReportRequest{
		Email:   " ap@example.com ",
		Inputs:  goldenPayload(),
		Results: goldenResultsPayload(),
	})

	require.NoError(t, err)
	assert.Equal(t, "ROI_Report_1700000000123.pdf", report.Filename)

	var buf bytes.Buffer
	_, err = report.Document.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stub", buf.String())

	composer.AssertExpectations(t)
	leads.AssertExpectations(t)
}

func TestReportService_Prepare_MissingData(t *testing.T) {
	tests := []struct {
		name string
		req  ReportRequest
	}{
		{"missing email", ReportRequest{Inputs: goldenPayload(), Results: goldenResultsPayload()}},
		{"blank email", ReportRequest{Email: "  ", Inputs: goldenPayload(), Results: goldenResultsPayload()}},
		{"missing inputs", ReportRequest{Email: "ap@example.com", Results: goldenResultsPayload()}},
		{"missing results", ReportRequest{Email: "ap@example.com", Inputs: goldenPayload()}},
		{"empty results", ReportRequest{Email: "ap@example.com", Inputs: goldenPayload(), Results: map[string]any{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			composer := new(MockReportComposer)
			leads := new(MockLeadCapturer)
			svc := newTestReportService(composer, leads)

			report, err := svc.Prepare(context.Background(), tt.req)

			assert.Nil(t, report)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, MissingReportDataMessage, err.Error())
			composer.AssertNotCalled(t, "Compose", mock.Anything, mock.Anything)
			leads.AssertNotCalled(t, "CaptureAsync", mock.Anything)
		})
	}
}

func TestReportService_Prepare_InvalidEmail(t *testing.T) {
	composer := new(MockReportComposer)
	leads := new(MockLeadCapturer)
	svc := newTestReportService(composer, leads)

	leads.On("CaptureAsync", "not an email").Return()

	_, err := svc.Prepare(context.Background(), ReportRequest{
		Email:   "not an email",
		Inputs:  goldenPayload(),
		Results: goldenResultsPayload(),
	})

	assert.ErrorIs(t, err, ErrValidation)
	composer.AssertNotCalled(t, "Compose", mock.Anything, mock.Anything)
	leads.AssertExpectations(t)
}

func TestReportService_Prepare_MalformedResults(t *testing.T) {
	composer := new(MockReportComposer)
	leads := new(MockLeadCapturer)
	svc := newTestReportService(composer, leads)

	leads.On("CaptureAsync", "ap@example.com").Return()

	results := goldenResultsPayload()
	results["roiPercentage"] = "very high"

	_, err := svc.Prepare(context.Background(), ReportRequest{
		Email:   "ap@example.com",
		Inputs:  goldenPayload(),
		Results: results,
	})

	assert.ErrorIs(t, err, ErrValidation)
	composer.AssertNotCalled(t, "Compose", mock.Anything, mock.Anything)
	leads.AssertExpectations(t)
}

func TestReportService_Prepare_NegativeInputsStillCaptureLead(t *testing.T) {
	composer := new(MockReportComposer)
	leads := new(MockLeadCapturer)
	svc := newTestReportService(composer, leads)

	leads.On("CaptureAsync", "ap@example.com").Return()

	inputs := goldenPayload()
	inputs["hourlyWage"] = -30.0

	_, err := svc.Prepare(context.Background(), ReportRequest{
		Email:   "ap@example.com",
		Inputs:  inputs,
		Results: goldenResultsPayload(),
	})

	assert.ErrorIs(t, err, ErrValidation)
	leads.AssertExpectations(t)
}

func TestReportService_Prepare_LegacyPayload(t *testing.T) {
	composer := new(MockReportComposer)
	leads := new(MockLeadCapturer)
	svc := newTestReportService(composer, leads)

	leads.On("CaptureAsync", "ap@example.com").Return()
	composer.On("Compose", goldenInputs(), goldenResults()).Return(stubDocument{body: "%PDF-legacy"}, nil)

	report, err := svc.Prepare(context.Background(), ReportRequest{
		Email: "ap@example.com",
		Inputs: map[string]any{
			"monthly_invoice_volume":       2000.0,
			"num_ap_staff":                 3.0,
			"avg_hours_per_invoice":        0.17,
			"hourly_wage":                  30.0,
			"error_rate_manual":            0.5,
			"error_cost":                   100.0,
			"time_horizon_months":          36.0,
			"one_time_implementation_cost": 50000.0,
		},
		Results: map[string]any{
			"monthly_savings":    "34100.00",
			"cumulative_savings": "1227600.00",
			"net_savings":        "1177600.00",
			"payback_months":     "1.5",
			"roi_percentage":     "2355.20",
		},
	})

	require.NoError(t, err)
	require.NotNil(t, report)
	composer.AssertExpectations(t)
	leads.AssertExpectations(t)
}

func TestReportService_Prepare_RenderFailureStillCapturesLead(t *testing.T) {
	composer := new(MockReportComposer)
	leads := new(MockLeadCapturer)
	svc := newTestReportService(composer, leads)

	leads.On("CaptureAsync", "ap@example.com").Return()
	composer.On("Compose", goldenInputs(), goldenResults()).Return(nil, errors.New("font missing"))

	_, err := svc.Prepare(context.Background(), ReportRequest{
		Email:   "ap@example.com",
		Inputs:  goldenPayload(),
		Results: goldenResultsPayload(),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRender)
	leads.AssertExpectations(t)
}

func TestReportService_Prepare_LeadFailureDoesNotAffectReport(t *testing.T) {
	repo := new(MockLeadRepository)
	leadService := NewLeadService(repo, nil, nil, time.Second)
	composer := new(MockReportComposer)

	svc := NewReportService(composer, leadService, nil)

	repo.On("Create", mock.Anything, "ap@example.com").Return(nil, errors.New("lead table locked"))
	composer.On("Compose", goldenInputs(), goldenResults()).Return(stubDocument{body: "%PDF-ok"}, nil)

	report, err := svc.Prepare(context.Background(), ReportRequest{
		Email:   "ap@example.com",
		Inputs:  goldenPayload(),
		Results: goldenResultsPayload(),
	})

	require.NoError(t, err)
	require.NotNil(t, report)

	require.NoError(t, leadService.Wait(context.Background()))
	repo.AssertExpectations(t)
}
