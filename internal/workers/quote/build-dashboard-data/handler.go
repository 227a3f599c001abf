// internal/workers/quote/build-dashboard-data/handler.go
package builddashboarddata

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "home-quote-workers/internal/common/errors"
	"home-quote-workers/internal/common/logger"
	"home-quote-workers/internal/common/metrics"
	"home-quote-workers/internal/common/observability"
	"home-quote-workers/internal/pricing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "build-dashboard-data"
)

var (
	ErrParse = apperrors.ErrParse
)

type Handler struct {
	config     *Config
	obs        *observability.Observability
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		obs:        obs,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if vars := strings.TrimSpace(job.Variables); vars != "" {
		if err := json.Unmarshal([]byte(vars), &input); err != nil {
			h.recordJob(ctx, start, string(apperrors.ErrCodeParseError))
			h.errHandler.HandleJobError(ctx, client, job, apperrors.NewParseError(err))
			return
		}
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.recordJob(ctx, start, string(apperrors.AsStandardError(err).Code))
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err == nil {
		_, err = cmd.Send(ctx)
	}
	if err != nil {
		stdErr := apperrors.NewJobCompletionError(err)
		h.recordJob(ctx, start, string(stdErr.Code))
		h.errHandler.HandleJobError(ctx, client, job, stdErr)
		return
	}
	h.recordJob(ctx, start, "")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	n := h.topN(input)
	_, span := h.obs.StartSpan(ctx, TaskType, attribute.Int("dashboard.top_n", n))
	defer span.End()

	output := &Output{
		TopRiskStates: pricing.TopRiskStates(n),
		PremiumTrend:  pricing.SampleTrend(),
		Defaults:      pricing.DefaultInputs(),
		States:        pricing.States(),
		PropertyTypes: pricing.PropertyTypes(),
	}

	h.logger.Debug("dashboard data built", map[string]interface{}{
		"topN":   n,
		"states": len(output.States),
	})
	return output, nil
}

// topN resolves the chart size. Values outside [1, len(states)] are clamped.
func (h *Handler) topN(input *Input) int {
	n := h.config.TopRiskStates
	if n <= 0 {
		n = pricing.DefaultTopRiskStates
	}
	if input != nil && input.TopN != nil {
		n = *input.TopN
	}
	if n < 1 {
		n = 1
	}
	if max := len(pricing.States()); n > max {
		n = max
	}
	return n
}

func (h *Handler) recordJob(ctx context.Context, start time.Time, errorCode string) {
	status := "completed"
	if errorCode != "" {
		status = "failed"
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()
	} else {
		metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	}
	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, status)
	h.obs.RecordJobDuration(ctx, TaskType, elapsed, status)
}

// Execute builds the dashboard payload for tests and the HTTP API.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
