// internal/models/application.go
package models

import "time"

// ProductType is the kind of asset being leased.
type ProductType string

const (
	ProductCar       ProductType = "Car"
	ProductApartment ProductType = "Apartment"
	ProductEquipment ProductType = "Equipment"
)

// ProductTypes lists the selectable product types in display order.
var ProductTypes = []ProductType{ProductCar, ProductApartment, ProductEquipment}

// Valid reports whether p is one of the enumerated product types.
func (p ProductType) Valid() bool {
	for _, t := range ProductTypes {
		if p == t {
			return true
		}
	}
	return false
}

// Default values of a freshly mounted wizard.
const (
	DefaultLeaseDuration = 12
	DefaultMonthlyBudget = 500
)

// ApplicationDraft is the single record built up across the wizard steps.
type ApplicationDraft struct {
	FullName string `json:"fullName" yaml:"fullName"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	DOB      string `json:"dob" yaml:"dob"`
	Country  string `json:"country" yaml:"country"`

	ProductType   ProductType `json:"productType,omitempty" yaml:"productType,omitempty"`
	ProductModel  string      `json:"productModel" yaml:"productModel"`
	LeaseDuration int         `json:"leaseDuration" yaml:"leaseDuration"`
	MonthlyBudget float64     `json:"monthlyBudget" yaml:"monthlyBudget"`

	Notes        string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Document     *Document `json:"document,omitempty" yaml:"document,omitempty"`
	Terms        bool      `json:"terms" yaml:"terms"`
	EmployerName string    `json:"employerName,omitempty" yaml:"employerName,omitempty"`
	AnnualIncome *float64  `json:"annualIncome,omitempty" yaml:"annualIncome,omitempty"`
}

// NewApplicationDraft returns a draft holding the wizard defaults.
func NewApplicationDraft() ApplicationDraft {
	return ApplicationDraft{
		LeaseDuration: DefaultLeaseDuration,
		MonthlyBudget: DefaultMonthlyBudget,
	}
}

// Clone returns a deep copy so callers cannot mutate the owner's pointers.
func (d ApplicationDraft) Clone() ApplicationDraft {
	out := d
	if d.Document != nil {
		doc := *d.Document
		out.Document = &doc
	}
	if d.AnnualIncome != nil {
		income := *d.AnnualIncome
		out.AnnualIncome = &income
	}
	return out
}

// Document is an opaque reference to an attachment picked by the user.
type Document struct {
	Name        string `json:"name" yaml:"name"`
	Size        int64  `json:"size,omitempty" yaml:"size,omitempty"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Lease application statuses.
const (
	StatusSubmitted = "SUBMITTED"
	StatusIndexed   = "INDEXED"
)

// LeaseApplication is an accepted draft as stored by the back office.
type LeaseApplication struct {
	ID          string           `json:"id"`
	Draft       ApplicationDraft `json:"draft"`
	Status      string           `json:"status"`
	SubmittedBy string           `json:"submittedBy,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}
