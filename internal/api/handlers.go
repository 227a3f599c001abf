// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	apperrors "home-quote-workers/internal/common/errors"
	"home-quote-workers/internal/common/metrics"
	"home-quote-workers/internal/pricing"
	builddashboarddata "home-quote-workers/internal/workers/quote/build-dashboard-data"
)

const maxBodyBytes = 64 << 10

type errorBody struct {
	Code        apperrors.ErrorCode `json:"code"`
	Message     string              `json:"message"`
	Details     string              `json:"details,omitempty"`
	FieldErrors []string            `json:"fieldErrors,omitempty"`
	RequestID   string              `json:"requestId,omitempty"`
}

type referenceResponse struct {
	States        []string         `json:"states"`
	PropertyTypes []string         `json:"propertyTypes"`
	Defaults      pricing.Defaults `json:"defaults"`
}

func (s *Server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, apperrors.NewParseError(err))
		return
	}

	out, err := s.quotes.Process(metrics.WithSource(r.Context(), metrics.SourceAPI), raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReference(w http.ResponseWriter, r *http.Request) {
	out, err := s.dashboard.Execute(r.Context(), nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, referenceResponse{
		States:        out.States,
		PropertyTypes: out.PropertyTypes,
		Defaults:      out.Defaults,
	})
}

func (s *Server) handleTopRisk(w http.ResponseWriter, r *http.Request) {
	input := &builddashboarddata.Input{}
	if v := r.URL.Query().Get("n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, r, apperrors.NewInvalidQuoteInputError("n must be an integer", []string{"n: " + err.Error()}))
			return
		}
		input.TopN = &n
	}

	out, err := s.dashboard.Execute(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out.TopRiskStates)
}

func (s *Server) handlePremiumTrend(w http.ResponseWriter, r *http.Request) {
	out, err := s.dashboard.Execute(r.Context(), nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out.PremiumTrend)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not ready",
			"failed": failed,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.AsStandardError(err)

	status := http.StatusInternalServerError
	switch stdErr.Code {
	case apperrors.ErrCodeInvalidQuoteInput, apperrors.ErrCodeParseError:
		status = http.StatusBadRequest
	}

	body := errorBody{
		Code:      stdErr.Code,
		Message:   stdErr.Message,
		RequestID: RequestID(r.Context()),
	}
	if status == http.StatusBadRequest {
		body.Details = stdErr.Details
	}
	if fe, ok := stdErr.Metadata["fieldErrors"].([]string); ok {
		body.FieldErrors = fe
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", map[string]interface{}{
			"path":      r.URL.Path,
			"code":      string(stdErr.Code),
			"error":     err.Error(),
			"requestId": body.RequestID,
		})
	}
	writeJSON(w, status, map[string]errorBody{"error": body})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
