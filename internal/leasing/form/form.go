package form

import (
	"time"

	"leasing-wizard/internal/common/validation"
	"leasing-wizard/internal/models"
)

// Fragment and Schema specialised to the application draft.
type (
	Fragment = validation.Fragment[models.ApplicationDraft]
	Schema   = validation.Schema[models.ApplicationDraft]
)

// Fragment names.
const (
	PersonalInfoName      = "personalInfo"
	LeasingDetailsName    = "leasingDetails"
	AdditionalDetailsName = "additionalDetails"
	EmployerDetailsName   = "employerDetails"
	ApplicationName       = "application"
)

// Form holds the step fragments and the full schema for one clock.
type Form struct {
	now               func() time.Time
	personalInfo      Fragment
	leasingDetails    Fragment
	additionalDetails Fragment
	full              *Schema
}

// Option configures a Form.
type Option func(*Form)

// WithClock replaces time.Now as the source of the current year.
func WithClock(now func() time.Time) Option {
	return func(f *Form) {
		f.now = now
	}
}

// New builds the leasing form schema.
func New(opts ...Option) *Form {
	f := &Form{now: time.Now}
	for _, opt := range opts {
		opt(f)
	}

	rules := fieldRules(func() time.Time { return f.now() })
	pick := func(name string, paths ...string) Fragment {
		rs := make([]draftRule, 0, len(paths))
		for _, p := range paths {
			rs = append(rs, rules[p])
		}
		return validation.NewFragment(name, rs...)
	}

	f.personalInfo = pick(PersonalInfoName, FieldFullName, FieldEmail, FieldPhone, FieldDOB, FieldCountry)
	f.leasingDetails = pick(LeasingDetailsName, FieldProductType, FieldProductModel, FieldLeaseDuration, FieldMonthlyBudget)

	base := pick(AdditionalDetailsName, FieldNotes, FieldDocument, FieldTerms)
	employer := pick(EmployerDetailsName, FieldEmployerName, FieldAnnualIncome)
	f.additionalDetails = validation.Merge(AdditionalDetailsName, base, employer)

	f.full = validation.NewSchema(
		validation.Merge(ApplicationName, f.personalInfo, f.leasingDetails, f.additionalDetails),
		EmployerRefinement,
	)
	return f
}

// PersonalInfo is the step 1 fragment.
func (f *Form) PersonalInfo() Fragment { return f.personalInfo }

// LeasingDetails is the step 2 fragment.
func (f *Form) LeasingDetails() Fragment { return f.leasingDetails }

// AdditionalDetails is the step 3 fragment, employer fields included.
func (f *Form) AdditionalDetails() Fragment { return f.additionalDetails }

// Schema is the full document schema including the employer refinement.
func (f *Form) Schema() *Schema { return f.full }

// Now returns the form's current time.
func (f *Form) Now() time.Time { return f.now() }

// Validate runs the full schema.
func (f *Form) Validate(d models.ApplicationDraft) *validation.ValidationResult {
	return f.full.Validate(d)
}

// ValidateFragment runs only the rules of frag, without refinements.
func (f *Form) ValidateFragment(d models.ApplicationDraft, frag Fragment) *validation.ValidationResult {
	return f.full.ValidateFragment(d, frag)
}

// ValidateField runs a single field rule.
func (f *Form) ValidateField(d models.ApplicationDraft, path string) *validation.ValidationResult {
	return f.full.ValidateField(d, path)
}
