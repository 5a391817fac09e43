package service

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// MissingReportDataMessage is returned when a report request lacks an email, inputs or results
const MissingReportDataMessage = "Missing required data to generate the report."

// ReportRequest is a request for a PDF report of a simulation
type ReportRequest struct {
	Email   string         `json:"email"`
	Inputs  map[string]any `json:"inputs"`
	Results map[string]any `json:"results"`
}

// PreparedReport is a composed report ready to be written to the client
type PreparedReport struct {
	Filename string
	Document io.WriterTo
}

// reportService implements the ReportService interface
type reportService struct {
	composer ReportComposer
	leads    LeadCapturer
	metrics  MetricsRecorder
	now      func() time.Time
}

// NewReportService creates a new report service
func NewReportService(composer ReportComposer, leads LeadCapturer, metrics MetricsRecorder) ReportService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &reportService{
		composer: composer,
		leads:    leads,
		metrics:  metrics,
		now:      time.Now,
	}
}

// Prepare validates a report request, hands the email to lead capture and composes the document.
//
// Any request carrying an email, inputs and results is captured as a lead,
// whatever happens to the report afterwards. Capture never affects the
// outcome. Nothing is composed for an invalid request.
func (s *reportService) Prepare(ctx context.Context, req ReportRequest) (*PreparedReport, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || len(req.Inputs) == 0 || len(req.Results) == 0 {
		s.metrics.RecordReport(ctx, ReportOutcomeInvalid)
		return nil, validationError(MissingReportDataMessage)
	}

	s.leads.CaptureAsync(email)

	if _, err := mail.ParseAddress(email); err != nil {
		s.metrics.RecordReport(ctx, ReportOutcomeInvalid)
		return nil, validationError("invalid email address")
	}

	inputs, err := CoerceMetrics(req.Inputs)
	if err != nil {
		s.metrics.RecordReport(ctx, ReportOutcomeInvalid)
		return nil, err
	}

	results, err := CoerceResults(req.Results)
	if err != nil {
		s.metrics.RecordReport(ctx, ReportOutcomeInvalid)
		return nil, err
	}

	document, err := s.composer.Compose(inputs, results)
	if err != nil {
		log.WithError(err).Error("Failed to compose report")
		s.metrics.RecordReport(ctx, ReportOutcomeRenderFailed)
		return nil, renderError(err, "failed to generate report")
	}

	return &PreparedReport{
		Filename: fmt.Sprintf("ROI_Report_%d.pdf", s.now().UnixMilli()),
		Document: document,
	}, nil
}
