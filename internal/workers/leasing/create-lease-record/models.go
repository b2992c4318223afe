// internal/workers/leasing/create-lease-record/models.go
package createleaserecord

import "leasing-wizard/internal/models"

// Input takes the validated draft. NormalizedDraft, set by the validation
// task, wins over the raw application when both are present.
type Input struct {
	Application     *models.ApplicationDraft `json:"application"`
	NormalizedDraft *models.ApplicationDraft `json:"normalizedDraft"`
	SubmittedBy     string                   `json:"submittedBy"`
}

type Output struct {
	ApplicationID string `json:"applicationId"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"` // ISO 8601
}
