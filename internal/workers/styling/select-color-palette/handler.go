// internal/workers/styling/select-color-palette/handler.go
package selectcolorpalette

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"outfit-workers/internal/common/errors"
	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/common/metrics"
	"outfit-workers/internal/common/observability"
	"outfit-workers/internal/common/validation"
	"outfit-workers/internal/stylist/catalog"
	"outfit-workers/internal/stylist/palette"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "select-color-palette"
)

type Handler struct {
	config       *Config
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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

	if err := validation.ValidateJobVariables(job.Variables, validation.SelectColorPaletteSchema); err != nil {
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

// execute is a pure table lookup; unknown complexions land on Spring and
// the generic color list.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	skin := catalog.Normalize(input.SkinTone)
	undertone := catalog.Normalize(input.Undertone)

	return &Output{
		Palette:        palette.GetColorPalette(skin, undertone),
		Recommendation: palette.GetColorRecommendation(skin),
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
		"season": output.Palette.Season,
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
