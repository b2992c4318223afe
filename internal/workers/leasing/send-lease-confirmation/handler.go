// internal/workers/leasing/send-lease-confirmation/handler.go
package sendleaseconfirmation

import (
	"context"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"

	"leasing-wizard/internal/common/camunda"
	"leasing-wizard/internal/common/errors"
	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/common/observability"
	"leasing-wizard/internal/common/validation"
	"leasing-wizard/internal/models"
)

const (
	TaskType = "send-lease-confirmation"
)

// Mailer sends plain-text email. *aws.SESClient satisfies it.
type Mailer interface {
	SendText(ctx context.Context, from, to, subject, body string) (string, error)
}

// SMSSender sends a text message. *aws.SNSClient satisfies it.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, senderID, message string) (string, error)
}

type Handler struct {
	config       *Config
	mailer       Mailer
	sms          SMSSender
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
	now          func() time.Time
}

func NewHandler(config *Config, mailer Mailer, sms SMSSender, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		mailer:       mailer,
		sms:          sms,
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
		attribute.String("applicationId", input.ApplicationID),
	)
	output, err := h.execute(ctx, &input)
	observability.EndSpan(span, err)
	if err != nil {
		camunda.FailJob(ctx, client, job, TaskType, err, h.errorHandler)
		return
	}

	camunda.CompleteJob(ctx, client, job, TaskType, output, h.logger)
}

// execute emails the applicant and, when enabled and the phone looks
// dialable, sends an SMS. Email failures fail the job; SMS failures are
// recorded on the output only.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	draft := input.NormalizedDraft
	if draft == nil {
		draft = input.Application
	}
	if draft == nil || input.ApplicationID == "" {
		return nil, errors.NewInvalidPayloadError("applicationId and application are required")
	}

	data := messageData{ApplicationID: input.ApplicationID, Draft: *draft}
	output := &Output{
		MessageIDs:    []string{},
		Notifications: []models.Notification{},
		SentAt:        h.now().UTC().Format(time.RFC3339),
	}

	email := models.Notification{
		ApplicationID: input.ApplicationID,
		Recipient:     draft.Email,
		Channel:       models.ChannelEmail,
		Status:        models.NotificationDisabled,
	}
	if h.config.EmailEnabled && h.mailer != nil {
		subject, err := render(subjectTemplate, data)
		if err != nil {
			return nil, errors.NewNotificationSendFailedError(models.ChannelEmail, fmt.Errorf("render subject: %w", err))
		}
		body, err := render(emailTemplate, data)
		if err != nil {
			return nil, errors.NewNotificationSendFailedError(models.ChannelEmail, fmt.Errorf("render body: %w", err))
		}

		id, err := h.mailer.SendText(ctx, h.config.FromEmail, draft.Email, subject, body)
		if err != nil {
			return nil, errors.NewNotificationSendFailedError(models.ChannelEmail, err)
		}
		email.Status = models.NotificationSent
		email.MessageID = id
		output.EmailSent = true
		output.MessageIDs = append(output.MessageIDs, id)
	}
	output.Notifications = append(output.Notifications, email)

	sms := models.Notification{
		ApplicationID: input.ApplicationID,
		Recipient:     draft.Phone,
		Channel:       models.ChannelSMS,
		Status:        models.NotificationDisabled,
	}
	if h.config.SMSEnabled && h.sms != nil && validation.ValidatePhone(draft.Phone) {
		h.sendSMS(ctx, data, &sms)
		if sms.Status == models.NotificationSent {
			output.SMSSent = true
			output.MessageIDs = append(output.MessageIDs, sms.MessageID)
		}
	}
	output.Notifications = append(output.Notifications, sms)

	h.logger.Info("confirmation sent", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"emailSent":     output.EmailSent,
		"smsSent":       output.SMSSent,
	})
	return output, nil
}

func (h *Handler) sendSMS(ctx context.Context, data messageData, n *models.Notification) {
	text, err := render(smsTemplate, data)
	if err == nil {
		n.MessageID, err = h.sms.SendSMS(ctx, n.Recipient, h.config.SenderID, text)
	}
	if err != nil {
		n.Status = models.NotificationFailed
		n.Error = err.Error()
		h.logger.Warn("sms confirmation failed", map[string]interface{}{
			"applicationId": data.ApplicationID,
			"error":         err.Error(),
		})
		return
	}
	n.Status = models.NotificationSent
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
