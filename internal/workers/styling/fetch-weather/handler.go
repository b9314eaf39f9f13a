// internal/workers/styling/fetch-weather/handler.go
package fetchweather

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"outfit-workers/internal/common/errors"
	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/common/metrics"
	"outfit-workers/internal/common/observability"
	"outfit-workers/internal/common/validation"
	"outfit-workers/internal/common/weather"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "fetch-weather"
)

// Fetcher is satisfied by *weather.Client.
type Fetcher interface {
	Fetch(ctx context.Context, city string) (weather.Report, error)
}

type Handler struct {
	config       *Config
	weather      Fetcher
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, fetcher Fetcher, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		weather:      fetcher,
		obs:          obs,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	start := time.Now()
	status := "failed"
	defer func() {
		h.obs.RecordJobDuration(context.Background(), TaskType, time.Since(start), status)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if err := validation.ValidateJobVariables(job.Variables, validation.FetchWeatherSchema); err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(ctx, client, job, errors.NewInputValidationError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	status = "completed"
	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	city := strings.TrimSpace(input.City)
	if city == "" {
		return nil, errors.NewInputValidationError("city is required")
	}

	report, err := h.weather.Fetch(ctx, city)
	if err != nil {
		var stdErr *errors.StandardError
		if stderrors.As(err, &stdErr) && stdErr.Code == errors.ErrCodeInputValidationFailed {
			return nil, err
		}
		if !h.config.FallbackOnError {
			return nil, err
		}
		h.logger.Warn("weather lookup failed, using fallback", map[string]interface{}{
			"city":  city,
			"error": err.Error(),
		})
		report = weather.Fallback(city)
	}
	metrics.WeatherLookups.WithLabelValues(report.Source).Inc()

	return &Output{
		City:        report.City,
		Weather:     report.Category,
		Temperature: report.Temperature,
		WeatherCode: report.WeatherCode,
		Source:      report.Source,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "completed")
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey": job.Key,
		"source": output.Source,
	})
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := errors.FromError(err).Code
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
