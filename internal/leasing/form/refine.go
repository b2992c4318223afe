package form

import (
	"strings"

	"leasing-wizard/internal/common/validation"
	"leasing-wizard/internal/models"
)

// AdditionalFieldsThreshold is the lease duration above which employer
// details are shown and required.
const AdditionalFieldsThreshold = 24

// EmployerRefinement requires employer name and a non-zero annual income
// for leases longer than AdditionalFieldsThreshold months.
func EmployerRefinement(d models.ApplicationDraft) []validation.ValidationError {
	if d.LeaseDuration <= AdditionalFieldsThreshold {
		return nil
	}

	var errs []validation.ValidationError
	if strings.TrimSpace(d.EmployerName) == "" {
		errs = append(errs, validation.ValidationError{
			Field: FieldEmployerName, Message: MsgEmployerName, Code: "CONDITIONALLY_REQUIRED",
		})
	}
	if d.AnnualIncome == nil || *d.AnnualIncome == 0 {
		errs = append(errs, validation.ValidationError{
			Field: FieldAnnualIncome, Message: MsgAnnualIncome, Code: "CONDITIONALLY_REQUIRED",
		})
	}
	return errs
}

// ShowAdditionalFields reports whether the employer inputs are visible.
func ShowAdditionalFields(leaseDuration int) bool {
	return leaseDuration > AdditionalFieldsThreshold
}
