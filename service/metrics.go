package service

import "context"

// NoopMetrics discards every measurement
type NoopMetrics struct{}

func (NoopMetrics) RecordSimulation(context.Context, bool)  {}
func (NoopMetrics) RecordScenarioSaved(context.Context)     {}
func (NoopMetrics) RecordScenarioDeleted(context.Context)   {}
func (NoopMetrics) RecordReport(context.Context, string)    {}
func (NoopMetrics) RecordLeadCapture(context.Context, bool) {}

// Report outcomes recorded through MetricsRecorder.RecordReport
const (
	ReportOutcomeRendered     = "rendered"
	ReportOutcomeInvalid      = "invalid"
	ReportOutcomeRenderFailed = "render_failed"
	ReportOutcomeAborted      = "aborted"
)
