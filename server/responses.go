package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"roicalc/service"
)

// renderFailureMessage is returned when a report cannot be produced
const renderFailureMessage = "An internal server error occurred while generating the PDF."

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps a service error to its HTTP status
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusFor(err)

	logger := requestLogger(r).WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed")
	} else {
		logger.Debug("Request rejected")
	}

	writeError(w, status, message)
}

func statusFor(err error) (int, string) {
	message := err.Error()

	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, message
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, message
	case errors.Is(err, service.ErrStorage):
		// The public API has always answered storage failures with 400
		return http.StatusBadRequest, message
	case errors.Is(err, service.ErrRender):
		return http.StatusInternalServerError, renderFailureMessage
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// attachmentWriter sends a download. Headers are committed on the first
// non-empty write; empty writes leave the response untouched.
type attachmentWriter struct {
	w           http.ResponseWriter
	contentType string
	filename    string
	started     bool
}

func (a *attachmentWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if !a.started {
		a.started = true
		header := a.w.Header()
		header.Set("Content-Type", a.contentType)
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", a.filename))
		a.w.WriteHeader(http.StatusOK)
	}
	return a.w.Write(p)
}
