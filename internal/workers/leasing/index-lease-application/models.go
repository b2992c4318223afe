// internal/workers/leasing/index-lease-application/models.go
package indexleaseapplication

import "leasing-wizard/internal/models"

type Input struct {
	ApplicationID   string                   `json:"applicationId"`
	Application     *models.ApplicationDraft `json:"application"`
	NormalizedDraft *models.ApplicationDraft `json:"normalizedDraft"`
	CreatedAt       string                   `json:"createdAt"`
}

type Output struct {
	Indexed    bool   `json:"indexed"`
	DocumentID string `json:"documentId"`
	Result     string `json:"result"`
	Status     string `json:"status"`
}

// SearchDocument is the shape stored in the lease application index.
type SearchDocument struct {
	ApplicationID string   `json:"applicationId"`
	FullName      string   `json:"fullName"`
	Email         string   `json:"email"`
	Country       string   `json:"country"`
	ProductType   string   `json:"productType"`
	ProductModel  string   `json:"productModel"`
	LeaseDuration int      `json:"leaseDuration"`
	MonthlyBudget float64  `json:"monthlyBudget"`
	EmployerName  string   `json:"employerName,omitempty"`
	AnnualIncome  *float64 `json:"annualIncome,omitempty"`
	HasDocument   bool     `json:"hasDocument"`
	ExtendedLease bool     `json:"extendedLease"`
	Status        string   `json:"status"`
	CreatedAt     string   `json:"createdAt,omitempty"`
	IndexedAt     string   `json:"indexedAt"`
}
