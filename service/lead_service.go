package service

import (
	"context"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"roicalc/events"
)

// LeadService writes captured emails to the lead log.
//
// Capture is best-effort: failures are logged and counted but never reach
// the caller.
type LeadService struct {
	leadRepo       LeadRepository
	eventPublisher EventPublisher
	metrics        MetricsRecorder
	timeout        time.Duration

	wg sync.WaitGroup
}

// NewLeadService creates a new lead service. A timeout of zero disables the per-write deadline.
func NewLeadService(leadRepo LeadRepository, eventPublisher EventPublisher, metrics MetricsRecorder, timeout time.Duration) *LeadService {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &LeadService{
		leadRepo:       leadRepo,
		eventPublisher: eventPublisher,
		metrics:        metrics,
		timeout:        timeout,
	}
}

// Record appends the email to the lead log and returns once the write has finished
func (s *LeadService) Record(ctx context.Context, email string) {
	logger := log.WithField("emailDomain", emailDomain(email))

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Lead capture panicked")
			s.metrics.RecordLeadCapture(ctx, false)
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	lead, err := s.leadRepo.Create(ctx, email)
	if err != nil {
		logger.WithError(err).Error("Failed to capture lead")
		s.metrics.RecordLeadCapture(ctx, false)
		return
	}

	logger.WithField("leadId", lead.ID).Info("Lead captured")
	s.metrics.RecordLeadCapture(ctx, true)

	if s.eventPublisher != nil {
		s.eventPublisher.Emit(ctx, events.LeadCapturedEvent{
			LeadID:    lead.ID,
			Email:     lead.Email,
			CreatedAt: lead.CreatedAt,
		})
	}
}

// CaptureAsync records the lead in the background, detached from any request
func (s *LeadService) CaptureAsync(email string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Record(context.Background(), email)
	}()
}

// Wait blocks until background captures have finished or ctx is done
func (s *LeadService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// emailDomain keeps addresses out of the logs
func emailDomain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[i+1:]
	}
	return ""
}
