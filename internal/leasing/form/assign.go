package form

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"leasing-wizard/internal/models"
)

// ErrUnknownField is returned when a field path is not part of the draft.
var ErrUnknownField = errors.New("UNKNOWN_FIELD")

// FieldError reports raw input that could not be converted to the field's type.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// productModels maps each product type to its derived model label.
var productModels = map[models.ProductType]string{
	models.ProductCar:       "Car Model",
	models.ProductApartment: "Apartment Model",
	models.ProductEquipment: "Equipment Model",
}

// ProductModelFor returns the derived product model for p.
func ProductModelFor(p models.ProductType) (string, bool) {
	m, ok := productModels[p]
	return m, ok
}

// DeriveProductModel overwrites the draft's model with the one derived from
// its product type. Drafts without a known type are left alone.
func DeriveProductModel(d *models.ApplicationDraft) {
	if m, ok := ProductModelFor(d.ProductType); ok {
		d.ProductModel = m
	}
}

// Fields lists every draft field path in wizard order.
var Fields = []string{
	FieldFullName, FieldEmail, FieldPhone, FieldDOB, FieldCountry,
	FieldProductType, FieldProductModel, FieldLeaseDuration, FieldMonthlyBudget,
	FieldNotes, FieldDocument, FieldTerms, FieldEmployerName, FieldAnnualIncome,
}

// Assign converts raw user input and stores it on d. Numeric fields that
// fail to parse are reset to their zero value so that validation rejects
// them, and a *FieldError is returned. Setting the product type also
// derives the product model when the type is known.
func Assign(d *models.ApplicationDraft, field, raw string) error {
	switch field {
	case FieldFullName:
		d.FullName = raw
	case FieldEmail:
		d.Email = raw
	case FieldPhone:
		d.Phone = raw
	case FieldDOB:
		d.DOB = raw
	case FieldCountry:
		d.Country = raw
	case FieldProductType:
		d.ProductType = models.ProductType(strings.TrimSpace(raw))
		if m, ok := ProductModelFor(d.ProductType); ok {
			d.ProductModel = m
		}
	case FieldProductModel:
		d.ProductModel = raw
	case FieldLeaseDuration:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			d.LeaseDuration = 0
			return &FieldError{Field: field, Message: MsgLeaseDuration}
		}
		d.LeaseDuration = n
	case FieldMonthlyBudget:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			d.MonthlyBudget = 0
			return &FieldError{Field: field, Message: MsgMonthlyBudget}
		}
		d.MonthlyBudget = v
	case FieldNotes:
		d.Notes = raw
	case FieldDocument:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			d.Document = nil
			return nil
		}
		d.Document = &models.Document{Name: filepath.Base(raw), Path: raw}
	case FieldTerms:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			d.Terms = false
			return nil
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			d.Terms = false
			return &FieldError{Field: field, Message: MsgTerms}
		}
		d.Terms = v
	case FieldEmployerName:
		d.EmployerName = raw
	case FieldAnnualIncome:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			d.AnnualIncome = nil
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			d.AnnualIncome = nil
			return &FieldError{Field: field, Message: MsgAnnualNumber}
		}
		d.AnnualIncome = &v
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Value renders a field of d back to the text a user would type.
func Value(d models.ApplicationDraft, field string) string {
	switch field {
	case FieldFullName:
		return d.FullName
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldDOB:
		return d.DOB
	case FieldCountry:
		return d.Country
	case FieldProductType:
		return string(d.ProductType)
	case FieldProductModel:
		return d.ProductModel
	case FieldLeaseDuration:
		return strconv.Itoa(d.LeaseDuration)
	case FieldMonthlyBudget:
		return strconv.FormatFloat(d.MonthlyBudget, 'f', -1, 64)
	case FieldNotes:
		return d.Notes
	case FieldDocument:
		if d.Document == nil {
			return ""
		}
		return d.Document.Path
	case FieldTerms:
		return strconv.FormatBool(d.Terms)
	case FieldEmployerName:
		return d.EmployerName
	case FieldAnnualIncome:
		if d.AnnualIncome == nil {
			return ""
		}
		return strconv.FormatFloat(*d.AnnualIncome, 'f', -1, 64)
	}
	return ""
}
