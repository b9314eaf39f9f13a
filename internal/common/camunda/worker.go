// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"outfit-workers/internal/common/config"
	"outfit-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// HandlerFunc is the job callback every styling worker exposes as Handle.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Instrument wraps a handler with the active-job gauge and duration
// histogram for taskType.
func Instrument(taskType string, handler HandlerFunc) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		handler(client, job)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	}
}

// StartWorker opens a job worker for taskType. Close the returned worker
// on shutdown.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler HandlerFunc, log *zap.Logger) worker.JobWorker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(Instrument(taskType, handler))).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Name(taskType).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeoutMs", wcfg.Timeout),
	)
	return jobWorker
}
