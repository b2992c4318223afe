// internal/workers/leasing/create-lease-record/handler.go
package createleaserecord

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"

	"leasing-wizard/internal/common/camunda"
	"leasing-wizard/internal/common/errors"
	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/common/observability"
	"leasing-wizard/internal/leasing/store"
)

const (
	TaskType = "create-lease-record"
)

type Handler struct {
	config       *Config
	store        *store.Store
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, st *store.Store, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        st,
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

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	draft := input.NormalizedDraft
	if draft == nil {
		draft = input.Application
	}
	if draft == nil {
		return nil, errors.NewInvalidPayloadError("application is required")
	}

	app, err := h.store.Create(ctx, *draft, input.SubmittedBy)
	if err != nil {
		if stderrors.Is(err, store.ErrDuplicate) {
			return nil, errors.NewDuplicateApplicationError(draft.Email)
		}
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	h.logger.Info("lease record created", map[string]interface{}{
		"applicationId": app.ID,
		"productType":   string(draft.ProductType),
		"leaseDuration": draft.LeaseDuration,
	})

	return &Output{
		ApplicationID: app.ID,
		Status:        app.Status,
		CreatedAt:     app.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
