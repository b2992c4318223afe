// Package submission delivers a validated application draft to its
// destination and returns an acknowledgement.
package submission

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/models"
)

// Ack acknowledges an accepted submission.
type Ack struct {
	Reference          string    `json:"reference"`
	ProcessInstanceKey int64     `json:"processInstanceKey,omitempty"`
	SubmittedAt        time.Time `json:"submittedAt"`
}

// Sink accepts a draft that has passed full validation.
type Sink interface {
	Submit(ctx context.Context, draft models.ApplicationDraft) (Ack, error)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, draft models.ApplicationDraft) (Ack, error)

func (f SinkFunc) Submit(ctx context.Context, draft models.ApplicationDraft) (Ack, error) {
	return f(ctx, draft)
}

// NoopSink logs the submission and acknowledges it with a fresh reference.
type NoopSink struct {
	logger logger.Logger
	now    func() time.Time
}

func NewNoopSink(log logger.Logger) *NoopSink {
	return &NoopSink{logger: log, now: time.Now}
}

func (s *NoopSink) Submit(ctx context.Context, draft models.ApplicationDraft) (Ack, error) {
	ack := Ack{Reference: uuid.NewString(), SubmittedAt: s.now().UTC()}
	s.logger.Info("Form submitted", map[string]interface{}{
		"reference":     ack.Reference,
		"fullName":      draft.FullName,
		"email":         draft.Email,
		"country":       draft.Country,
		"productType":   string(draft.ProductType),
		"productModel":  draft.ProductModel,
		"leaseDuration": draft.LeaseDuration,
		"monthlyBudget": draft.MonthlyBudget,
		"hasDocument":   draft.Document != nil,
	})
	return ack, nil
}
