// internal/workers/quote/calculate-premium-quote/handler.go
package calculatepremiumquote

import (
	"context"
	"encoding/json"
	"time"

	"home-quote-workers/internal/common/database"
	apperrors "home-quote-workers/internal/common/errors"
	"home-quote-workers/internal/common/logger"
	"home-quote-workers/internal/common/metrics"
	"home-quote-workers/internal/common/observability"
	"home-quote-workers/internal/common/validation"
	"home-quote-workers/internal/pricing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "calculate-premium-quote"
)

var (
	ErrInvalidQuoteInput = apperrors.ErrInvalidQuoteInput
	ErrParse             = apperrors.ErrParse
)

type Handler struct {
	config     *Config
	cache      *database.QuoteCache
	obs        *observability.Observability
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

// NewHandler builds the worker. cache and obs may be nil.
func NewHandler(config *Config, cache *database.QuoteCache, obs *observability.Observability, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		cache:      cache,
		obs:        obs,
		errHandler: apperrors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(metrics.WithSource(context.Background(), metrics.SourceJob), h.config.Timeout)
	defer cancel()

	output, err := h.Process(ctx, []byte(job.Variables))
	if err != nil {
		h.recordJob(ctx, start, string(apperrors.AsStandardError(err).Code))
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if err := h.completeJob(ctx, client, job, output); err != nil {
		h.failCompletion(ctx, client, job, start, err)
		return
	}
	h.recordJob(ctx, start, "")
}

// Process validates raw JSON variables and prices the quote. It is shared by
// the job handler and the HTTP API.
func (h *Handler) Process(ctx context.Context, raw []byte) (*Output, error) {
	if err := validation.ValidateQuoteInput(raw, h.config.StrictRanges).Err(); err != nil {
		return nil, err
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, apperrors.NewParseError(err)
	}
	return h.execute(ctx, &input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	ctx, span := h.obs.StartSpan(ctx, TaskType,
		attribute.String("quote.state", input.State),
		attribute.String("quote.property_type", input.PropertyType),
	)
	defer span.End()

	key := database.QuoteKey(input.State, input.PropertyType, input.SquareFootage, input.RoofAge)

	var cached Output
	found, err := h.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.QuoteCacheLookups.WithLabelValues("error").Inc()
		h.logger.Warn("quote cache lookup failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	case found:
		metrics.QuoteCacheLookups.WithLabelValues("hit").Inc()
		metrics.ObserveQuote(metrics.SourceFrom(ctx), cached.RiskLabel, cached.Premium)
		return &cached, nil
	case h.cache != nil:
		metrics.QuoteCacheLookups.WithLabelValues("miss").Inc()
	}

	output := BuildOutput(input)
	metrics.ObserveQuote(metrics.SourceFrom(ctx), output.RiskLabel, output.Premium)

	if err := h.cache.Set(ctx, key, output); err != nil {
		h.logger.Warn("quote cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	h.logger.Info("quote computed", map[string]interface{}{
		"state":        input.State,
		"propertyType": input.PropertyType,
		"premium":      output.Premium,
		"riskLabel":    output.RiskLabel,
	})
	return output, nil
}

// BuildOutput runs the pricing core for decoded input.
func BuildOutput(input *Input) *Output {
	q := pricing.ComputeQuote(input.State, input.PropertyType, input.SquareFootage, input.RoofAge)
	return &Output{
		Premium:          q.Premium,
		RiskLabel:        q.RiskLabel,
		FormattedPremium: pricing.FormatPremium(q.Premium),
		Breakdown:        pricing.Breakdown(input.State, input.PropertyType, input.SquareFootage, input.RoofAge),
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// failCompletion hands a rejected complete command back to the broker as a
// retryable failure.
func (h *Handler) failCompletion(ctx context.Context, client worker.JobClient, job entities.Job, start time.Time, err error) {
	stdErr := apperrors.NewJobCompletionError(err)
	h.recordJob(ctx, start, string(stdErr.Code))
	h.errHandler.HandleJobError(ctx, client, job, stdErr)
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

// Execute prices already-decoded input without schema validation.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
