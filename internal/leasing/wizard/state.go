package wizard

import "leasing-wizard/internal/models"

// Step is a wizard state.
type Step int

const (
	Step1 Step = iota + 1
	Step2
	Step3
	Submitted
)

func (s Step) String() string {
	switch s {
	case Step1:
		return "step1"
	case Step2:
		return "step2"
	case Step3:
		return "step3"
	case Submitted:
		return "submitted"
	}
	return "unknown"
}

// Title is the heading shown for the step.
func (s Step) Title() string {
	switch s {
	case Step1:
		return "Personal Information"
	case Step2:
		return "Leasing Details"
	case Step3:
		return "Additional Details"
	case Submitted:
		return "Submitted"
	}
	return ""
}

// State is a read-only snapshot of the controller.
type State struct {
	Step                 Step
	Draft                models.ApplicationDraft
	Errors               map[string]string
	ShowAdditionalFields bool
	Blocked              bool
	Notice               string
	Fields               []string
}
