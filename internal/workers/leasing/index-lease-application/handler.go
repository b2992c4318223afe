// internal/workers/leasing/index-lease-application/handler.go
package indexleaseapplication

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"

	"leasing-wizard/internal/common/camunda"
	"leasing-wizard/internal/common/database"
	"leasing-wizard/internal/common/errors"
	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/common/observability"
	"leasing-wizard/internal/leasing/form"
	"leasing-wizard/internal/models"
)

const (
	TaskType = "index-lease-application"
)

// Indexer stores a document under id. *database.ElasticsearchClient satisfies it.
type Indexer interface {
	IndexDocument(ctx context.Context, index, id string, doc interface{}) (*database.IndexResult, error)
}

type Handler struct {
	config       *Config
	indexer      Indexer
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(config *Config, indexer Indexer, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		indexer:      indexer,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
		now:          time.Now,
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

	ctx, span := observability.StartSpan(ctx, TaskType,
		attribute.Int64("jobKey", job.Key),
		attribute.String("index", h.config.Index),
	)
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
	if draft == nil || input.ApplicationID == "" {
		return nil, errors.NewInvalidPayloadError("applicationId and application are required")
	}

	doc := BuildDocument(input.ApplicationID, *draft, input.CreatedAt, h.now())
	res, err := h.indexer.IndexDocument(ctx, h.config.Index, input.ApplicationID, doc)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewTimeoutError("elasticsearch", err)
		}
		return nil, errors.NewIndexingFailedError(h.config.Index, err)
	}

	h.logger.Info("lease application indexed", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"index":         res.Index,
		"result":        res.Result,
		"version":       res.Version,
	})

	return &Output{
		Indexed:    true,
		DocumentID: res.ID,
		Result:     res.Result,
		Status:     models.StatusIndexed,
	}, nil
}

// BuildDocument flattens a draft into the indexed search document.
func BuildDocument(applicationID string, d models.ApplicationDraft, createdAt string, now time.Time) SearchDocument {
	return SearchDocument{
		ApplicationID: applicationID,
		FullName:      d.FullName,
		Email:         d.Email,
		Country:       d.Country,
		ProductType:   string(d.ProductType),
		ProductModel:  d.ProductModel,
		LeaseDuration: d.LeaseDuration,
		MonthlyBudget: d.MonthlyBudget,
		EmployerName:  d.EmployerName,
		AnnualIncome:  d.AnnualIncome,
		HasDocument:   d.Document != nil,
		ExtendedLease: form.ShowAdditionalFields(d.LeaseDuration),
		Status:        models.StatusIndexed,
		CreatedAt:     createdAt,
		IndexedAt:     now.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
