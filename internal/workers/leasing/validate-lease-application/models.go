// internal/workers/leasing/validate-lease-application/models.go
package validateleaseapplication

import (
	"github.com/goccy/go-json"

	"leasing-wizard/internal/common/validation"
	"leasing-wizard/internal/models"
)

type Input struct {
	Application json.RawMessage `json:"application"`
}

type Output struct {
	IsValid          bool                         `json:"isValid"`
	ValidationErrors []validation.ValidationError `json:"validationErrors"`
	NormalizedDraft  models.ApplicationDraft      `json:"normalizedDraft"`
}
