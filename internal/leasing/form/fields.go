// Package form declares the leasing application schema: per-field rules
// grouped into step fragments, and the full schema with its cross-field
// refinement.
package form

import (
	"strings"
	"time"
	"unicode/utf8"

	"leasing-wizard/internal/common/validation"
	"leasing-wizard/internal/models"
)

// Field paths, matching the JSON names of models.ApplicationDraft.
const (
	FieldFullName      = "fullName"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldDOB           = "dob"
	FieldCountry       = "country"
	FieldProductType   = "productType"
	FieldProductModel  = "productModel"
	FieldLeaseDuration = "leaseDuration"
	FieldMonthlyBudget = "monthlyBudget"
	FieldNotes         = "notes"
	FieldDocument      = "document"
	FieldTerms         = "terms"
	FieldEmployerName  = "employerName"
	FieldAnnualIncome  = "annualIncome"
)

// User-facing messages.
const (
	MsgFullName      = "Full Name must be at least 3 characters"
	MsgEmail         = "Invalid email format"
	MsgPhone         = "Phone number must be valid"
	MsgAdult         = "You must be at least 18 years old"
	MsgCountry       = "Country is required"
	MsgProductType   = "Invalid product type"
	MsgProductModel  = "Product Model is required"
	MsgLeaseDuration = "Lease duration must be between 1-36 months"
	MsgMonthlyBudget = "Minimum budget is $500"
	MsgTerms         = "You must agree to the terms"
	MsgEmployerName  = "Employer Name is required for leases longer than 24 months"
	MsgAnnualIncome  = "Annual Income is required for leases longer than 24 months"
	MsgAnnualNumber  = "Annual income must be a number"
)

// Limits enforced by the field rules.
const (
	MinFullNameLength = 3
	MinPhoneLength    = 10
	MinAge            = 18
	MinLeaseDuration  = 1
	MaxLeaseDuration  = 36
	MinMonthlyBudget  = 500
)

// dobLayouts are the date formats accepted for the date of birth.
var dobLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// ParseDOB parses a date of birth in any accepted layout.
func ParseDOB(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AgeInYears subtracts birth year from the current year. Month and day are
// deliberately ignored.
func AgeInYears(dob, now time.Time) int {
	return now.Year() - dob.Year()
}

type draftRule = validation.Rule[models.ApplicationDraft]

func fieldRules(now func() time.Time) map[string]draftRule {
	return map[string]draftRule{
		FieldFullName: {
			Path: FieldFullName, Code: "TOO_SHORT", Message: MsgFullName,
			Check: func(d models.ApplicationDraft) bool {
				return utf8.RuneCountInString(d.FullName) >= MinFullNameLength
			},
		},
		FieldEmail: {
			Path: FieldEmail, Code: "INVALID_EMAIL", Message: MsgEmail,
			Check: func(d models.ApplicationDraft) bool {
				return validation.ValidateEmail(d.Email)
			},
		},
		FieldPhone: {
			Path: FieldPhone, Code: "TOO_SHORT", Message: MsgPhone,
			Check: func(d models.ApplicationDraft) bool {
				return utf8.RuneCountInString(d.Phone) >= MinPhoneLength
			},
		},
		FieldDOB: {
			Path: FieldDOB, Code: "UNDERAGE", Message: MsgAdult,
			Check: func(d models.ApplicationDraft) bool {
				dob, ok := ParseDOB(d.DOB)
				return ok && AgeInYears(dob, now()) >= MinAge
			},
		},
		FieldCountry: {
			Path: FieldCountry, Code: "REQUIRED", Message: MsgCountry,
			Check: func(d models.ApplicationDraft) bool {
				return d.Country != ""
			},
		},
		FieldProductType: {
			Path: FieldProductType, Code: "INVALID_ENUM_VALUE", Message: MsgProductType,
			Check: func(d models.ApplicationDraft) bool {
				return d.ProductType.Valid()
			},
		},
		FieldProductModel: {
			Path: FieldProductModel, Code: "REQUIRED", Message: MsgProductModel,
			Check: func(d models.ApplicationDraft) bool {
				return d.ProductModel != ""
			},
		},
		FieldLeaseDuration: {
			Path: FieldLeaseDuration, Code: "OUT_OF_RANGE", Message: MsgLeaseDuration,
			Check: func(d models.ApplicationDraft) bool {
				return d.LeaseDuration >= MinLeaseDuration && d.LeaseDuration <= MaxLeaseDuration
			},
		},
		FieldMonthlyBudget: {
			Path: FieldMonthlyBudget, Code: "MINIMUM_VIOLATION", Message: MsgMonthlyBudget,
			Check: func(d models.ApplicationDraft) bool {
				return d.MonthlyBudget >= MinMonthlyBudget
			},
		},
		FieldTerms: {
			Path: FieldTerms, Code: "MUST_BE_TRUE", Message: MsgTerms,
			Check: func(d models.ApplicationDraft) bool {
				return d.Terms
			},
		},
		FieldNotes:        validation.Optional[models.ApplicationDraft](FieldNotes),
		FieldDocument:     validation.Optional[models.ApplicationDraft](FieldDocument),
		FieldEmployerName: validation.Optional[models.ApplicationDraft](FieldEmployerName),
		FieldAnnualIncome: validation.Optional[models.ApplicationDraft](FieldAnnualIncome),
	}
}
