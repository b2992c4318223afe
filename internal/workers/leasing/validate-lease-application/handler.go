// internal/workers/leasing/validate-lease-application/handler.go
package validateleaseapplication

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"

	"leasing-wizard/internal/common/camunda"
	"leasing-wizard/internal/common/errors"
	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/common/observability"
	"leasing-wizard/internal/common/validation"
	"leasing-wizard/internal/leasing/form"
)

const (
	TaskType = "validate-lease-application"
)

type Handler struct {
	config       *Config
	form         *form.Form
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, f *form.Form, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		form:         f,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		camunda.FailJob(ctx, client, job, TaskType, errors.NewInvalidPayloadError(err.Error()), h.errorHandler)
		return
	}

	ctx, span := observability.StartSpan(ctx, TaskType, attribute.Int64("jobKey", job.Key))
	output, err := h.execute(ctx, &input)
	observability.EndSpan(span, err)
	if err != nil {
		camunda.FailJob(ctx, client, job, TaskType, err, h.errorHandler)
		return
	}

	camunda.CompleteJob(ctx, client, job, TaskType, output, h.logger)
}

// execute decodes the draft, checks its wire shape and then runs the full
// form schema. An invalid draft yields both the output and a
// LEASE_VALIDATION_FAILED error.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if len(input.Application) == 0 || string(input.Application) == "null" {
		return nil, errors.NewInvalidPayloadError("application is required")
	}

	draft, wire, err := form.DecodeDraft(input.Application)
	if err != nil {
		return nil, errors.NewInvalidPayloadError(err.Error())
	}

	var res *validation.ValidationResult
	if !wire.Valid {
		res = wire
	} else {
		form.DeriveProductModel(&draft)
		res = h.form.Validate(draft)
	}

	output := &Output{
		IsValid:          res.Valid,
		ValidationErrors: res.Errors,
		NormalizedDraft:  draft,
	}
	if output.ValidationErrors == nil {
		output.ValidationErrors = []validation.ValidationError{}
	}

	h.logger.Info("validation completed", map[string]interface{}{
		"isValid":    res.Valid,
		"errorCount": len(res.Errors),
	})

	if !res.Valid {
		return output, errors.NewLeaseValidationFailedError(res.ToMap())
	}
	return output, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
