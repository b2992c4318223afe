// internal/common/camunda/job.go
package camunda

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"leasing-wizard/internal/common/errors"
	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/common/metrics"
)

// CompleteJob completes job with output as its variables.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, taskType string, output interface{}, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	log.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

// FailJob counts the failure and hands err to the error handler, which
// either retries the job or throws a BPMN error.
func FailJob(ctx context.Context, client worker.JobClient, job entities.Job, taskType string, err error, handler *errors.ErrorHandler) {
	stdErr := errors.Normalize(err)
	metrics.WorkerJobsFailed.WithLabelValues(taskType, string(stdErr.Code)).Inc()
	handler.HandleJobError(ctx, client, job, stdErr)
}
