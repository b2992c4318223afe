// internal/workers/leasing/send-lease-confirmation/models.go
package sendleaseconfirmation

import "leasing-wizard/internal/models"

type Input struct {
	ApplicationID   string                   `json:"applicationId"`
	Application     *models.ApplicationDraft `json:"application"`
	NormalizedDraft *models.ApplicationDraft `json:"normalizedDraft"`
}

type Output struct {
	EmailSent     bool                  `json:"emailSent"`
	SMSSent       bool                  `json:"smsSent"`
	MessageIDs    []string              `json:"messageIds"`
	Notifications []models.Notification `json:"notifications"`
	SentAt        string                `json:"sentAt"` // ISO 8601
}
