package submission

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/models"
)

// DefaultProcessID is the BPMN process started for each application.
const DefaultProcessID = "lease-application"

// ProcessStarter starts a BPMN process instance. *camunda.Client satisfies it.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, vars interface{}) (int64, error)
}

// ProcessVariables is the variable document handed to the process instance.
type ProcessVariables struct {
	Application models.ApplicationDraft `json:"application"`
	SubmittedAt string                  `json:"submittedAt"`
}

// ProcessSink starts one process instance per submission.
type ProcessSink struct {
	starter   ProcessStarter
	processID string
	logger    logger.Logger
	now       func() time.Time
}

func NewProcessSink(starter ProcessStarter, processID string, log logger.Logger) *ProcessSink {
	if processID == "" {
		processID = DefaultProcessID
	}
	return &ProcessSink{starter: starter, processID: processID, logger: log, now: time.Now}
}

func (s *ProcessSink) Submit(ctx context.Context, draft models.ApplicationDraft) (Ack, error) {
	submittedAt := s.now().UTC()
	key, err := s.starter.StartProcess(ctx, s.processID, ProcessVariables{
		Application: draft,
		SubmittedAt: submittedAt.Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Error("Failed to start lease process", map[string]interface{}{
			"processId": s.processID,
			"error":     err.Error(),
		})
		return Ack{}, fmt.Errorf("start %s: %w", s.processID, err)
	}

	s.logger.Info("Lease process started", map[string]interface{}{
		"processId":          s.processID,
		"processInstanceKey": key,
		"email":              draft.Email,
	})
	return Ack{
		Reference:          strconv.FormatInt(key, 10),
		ProcessInstanceKey: key,
		SubmittedAt:        submittedAt,
	}, nil
}
