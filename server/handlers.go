package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"roicalc/service"
)

const maxBodyBytes = 1 << 20

var errEmptyReport = errors.New("report document is empty")

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers serves the calculator's HTTP API
type Handlers struct {
	simulation service.SimulationService
	scenarios  service.ScenarioService
	reports    service.ReportService
	metrics    service.MetricsRecorder
	health     Pinger
}

// NewHandlers creates the HTTP handlers
func NewHandlers(simulation service.SimulationService, scenarios service.ScenarioService, reports service.ReportService, metrics service.MetricsRecorder, health Pinger) *Handlers {
	if metrics == nil {
		metrics = service.NoopMetrics{}
	}
	return &Handlers{
		simulation: simulation,
		scenarios:  scenarios,
		reports:    reports,
		metrics:    metrics,
		health:     health,
	}
}

type createScenarioRequest struct {
	Name    string         `json:"name"`
	Inputs  map[string]any `json:"inputs"`
	Results map[string]any `json:"results"`
}

type deleteScenarioResponse struct {
	Message string `json:"message"`
	Changes int64  `json:"changes"`
}

// Simulate handles POST /simulate
func (h *Handlers) Simulate(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := decodeBody(w, r, &raw); err != nil {
		writeServiceError(w, r, err)
		return
	}

	_, results, err := h.simulation.Simulate(r.Context(), raw)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// CreateScenario handles POST /scenarios
func (h *Handlers) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var req createScenarioRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	scenario, err := h.scenarios.Create(r.Context(), req.Name, req.Inputs, req.Results)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, scenario)
}

// ListScenarios handles GET /scenarios
func (h *Handlers) ListScenarios(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.scenarios.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// GetScenario handles GET /scenarios/{id}
func (h *Handlers) GetScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := scenarioID(w, r)
	if !ok {
		return
	}

	scenario, err := h.scenarios.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, scenario)
}

// DeleteScenario handles DELETE /scenarios/{id}
func (h *Handlers) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	id, ok := scenarioID(w, r)
	if !ok {
		return
	}

	changes, err := h.scenarios.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteScenarioResponse{Message: "deleted", Changes: changes})
}

// GenerateReport handles POST /report/generate.
//
// The download headers are committed with the first byte of the document, so
// a failure before that still gets a JSON error. Once bytes have reached the
// client a failure can only abort the connection.
func (h *Handlers) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req service.ReportRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	prepared, err := h.reports.Prepare(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := &attachmentWriter{w: w, contentType: "application/pdf", filename: prepared.Filename}
	written, err := prepared.Document.WriteTo(out)
	if err == nil && !out.started {
		err = errEmptyReport
	}
	if err == nil {
		h.metrics.RecordReport(r.Context(), service.ReportOutcomeRendered)
		return
	}

	if !out.started {
		h.metrics.RecordReport(r.Context(), service.ReportOutcomeRenderFailed)
		requestLogger(r).WithError(err).Error("Failed to write report")
		writeError(w, http.StatusInternalServerError, renderFailureMessage)
		return
	}

	h.metrics.RecordReport(r.Context(), service.ReportOutcomeAborted)
	requestLogger(r).WithError(err).WithField("bytesWritten", written).Error("Report stream aborted")
	panic(http.ErrAbortHandler)
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			requestLogger(r).WithError(err).Warn("Health check failed")
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, "OK"); err != nil {
		log.WithError(err).Debug("Failed to write health response")
	}
}

// decodeBody decodes a JSON request body. An empty body decodes to the zero value.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &service.Error{Kind: service.ErrValidation, Message: "request body too large"}
	}
	return &service.Error{Kind: service.ErrValidation, Message: "request body must be a JSON object", Err: err}
}

// scenarioID parses the {id} path segment. Ids that cannot exist are reported as not found.
func scenarioID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, "Scenario not found")
		return 0, false
	}
	return id, true
}
