// Package wizard drives the three-step leasing application: it owns the
// draft, gates each step on its fragment of the schema and hands the
// validated draft to a submission sink.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/common/metrics"
	"leasing-wizard/internal/common/validation"
	"leasing-wizard/internal/leasing/countries"
	"leasing-wizard/internal/leasing/form"
	"leasing-wizard/internal/leasing/submission"
	"leasing-wizard/internal/models"
)

var (
	ErrStepInvalid      = errors.New("step has invalid fields")
	ErrBlocked          = errors.New("wizard is blocked")
	ErrNoNextStep       = errors.New("no next step")
	ErrNoPreviousStep   = errors.New("no previous step")
	ErrNotFinalStep     = errors.New("submit is only allowed on the final step")
	ErrDerivedField     = errors.New("field is derived from the product type")
	ErrUnknownField     = form.ErrUnknownField
	ErrAlreadySubmitted = errors.New("application already submitted")
)

// NoticeCountriesUnavailable is shown while the country list could not be loaded.
const NoticeCountriesUnavailable = "Error fetching countries"

// Controller is the wizard state machine. It is not safe for concurrent use.
type Controller struct {
	form   *form.Form
	source countries.Source
	sink   submission.Sink
	logger logger.Logger

	step           Step
	draft          models.ApplicationDraft
	errors         map[string]string
	countries      []models.Country
	blocked        bool
	notice         string
	showAdditional bool
	ack            *submission.Ack
}

// Option configures a Controller.
type Option func(*Controller)

// WithForm replaces the default form, typically to pin the clock.
func WithForm(f *form.Form) Option {
	return func(c *Controller) {
		c.form = f
	}
}

func WithLogger(log logger.Logger) Option {
	return func(c *Controller) {
		c.logger = log
	}
}

// WithDraft seeds the controller with an existing draft instead of the defaults.
func WithDraft(d models.ApplicationDraft) Option {
	return func(c *Controller) {
		c.draft = d.Clone()
	}
}

// New returns a controller on Step1 holding a default draft.
func New(source countries.Source, sink submission.Sink, opts ...Option) *Controller {
	c := &Controller{
		source: source,
		sink:   sink,
		step:   Step1,
		draft:  models.NewApplicationDraft(),
		errors: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.form == nil {
		c.form = form.New()
	}
	if c.logger == nil {
		c.logger = logger.NewNoOpLogger()
	}
	c.showAdditional = form.ShowAdditionalFields(c.draft.LeaseDuration)
	return c
}

// Mount loads the country list. A failure blocks the wizard on Step1 until
// Mount succeeds.
func (c *Controller) Mount(ctx context.Context) error {
	list, err := c.source.List(ctx)
	if err != nil {
		c.blocked = true
		c.notice = NoticeCountriesUnavailable
		metrics.CountryFetches.WithLabelValues("error").Inc()
		c.logger.Error("Error fetching countries", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("load countries: %w", err)
	}

	countries.SortByName(list)
	c.countries = list
	c.blocked = false
	c.notice = ""
	metrics.CountryFetches.WithLabelValues("ok").Inc()
	c.logger.Debug("Countries loaded", map[string]interface{}{"count": len(list)})
	return nil
}

// Set converts raw input and stores it on the draft.
func (c *Controller) Set(field, raw string) error {
	if c.step == Submitted {
		return ErrAlreadySubmitted
	}
	if field == form.FieldProductModel && c.draft.ProductType.Valid() {
		return fmt.Errorf("%w: %s", ErrDerivedField, field)
	}

	if err := form.Assign(&c.draft, field, raw); err != nil {
		var fe *form.FieldError
		if errors.As(err, &fe) {
			c.errors[fe.Field] = fe.Message
			c.afterChange(field)
		}
		return err
	}

	switch field {
	case form.FieldProductType:
		c.revalidate(form.FieldProductType)
		if c.draft.ProductType.Valid() {
			c.revalidate(form.FieldProductModel)
		}
	default:
		if _, shown := c.errors[field]; shown {
			c.revalidate(field)
		}
	}
	c.afterChange(field)
	return nil
}

// SetDocument attaches doc, or clears the attachment when doc is nil.
func (c *Controller) SetDocument(doc *models.Document) error {
	if c.step == Submitted {
		return ErrAlreadySubmitted
	}
	if doc == nil {
		c.draft.Document = nil
	} else {
		d := *doc
		c.draft.Document = &d
	}
	if _, shown := c.errors[form.FieldDocument]; shown {
		c.revalidate(form.FieldDocument)
	}
	return nil
}

// Touch validates a single field, as when the input loses focus.
func (c *Controller) Touch(field string) error {
	if !isField(field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	c.revalidate(field)
	return nil
}

// Next validates the current step's fields and advances on success.
func (c *Controller) Next() error {
	var (
		frag form.Fragment
		next Step
	)
	switch c.step {
	case Step1:
		if c.blocked {
			return ErrBlocked
		}
		frag, next = c.form.PersonalInfo(), Step2
	case Step2:
		frag, next = c.form.LeasingDetails(), Step3
	default:
		return ErrNoNextStep
	}

	res := c.form.ValidateFragment(c.draft, frag)
	c.replaceErrors(frag.Paths(), res)
	if !res.Valid {
		c.recordFailures(res)
		return fmt.Errorf("%w: %s", ErrStepInvalid, strings.Join(res.Fields(), ", "))
	}

	c.moveTo(next)
	return nil
}

// Previous steps back without validation.
func (c *Controller) Previous() error {
	switch c.step {
	case Step2:
		c.moveTo(Step1)
	case Step3:
		c.moveTo(Step2)
	default:
		return ErrNoPreviousStep
	}
	return nil
}

// Submit validates the whole draft, including the employer refinement, and
// hands it to the sink. The sink is called at most once per successful
// validation; a sink failure leaves the wizard on Step3.
func (c *Controller) Submit(ctx context.Context) error {
	switch c.step {
	case Submitted:
		return ErrAlreadySubmitted
	case Step3:
	default:
		return ErrNotFinalStep
	}

	res := c.form.Validate(c.draft)
	c.errors = res.ToMap()
	if !res.Valid {
		c.recordFailures(res)
		metrics.WizardSubmissions.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%w: %s", ErrStepInvalid, strings.Join(res.Fields(), ", "))
	}

	ack, err := c.sink.Submit(ctx, c.draft.Clone())
	if err != nil {
		metrics.WizardSubmissions.WithLabelValues("failed").Inc()
		c.logger.Error("Submission failed", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("submit application: %w", err)
	}

	c.ack = &ack
	metrics.WizardSubmissions.WithLabelValues("accepted").Inc()
	c.logger.Info("Application submitted", map[string]interface{}{"reference": ack.Reference})
	c.moveTo(Submitted)
	return nil
}

func (c *Controller) Step() Step { return c.step }

// Draft returns a copy of the draft.
func (c *Controller) Draft() models.ApplicationDraft { return c.draft.Clone() }

// Countries returns the loaded country list.
func (c *Controller) Countries() []models.Country {
	out := make([]models.Country, len(c.countries))
	copy(out, c.countries)
	return out
}

// Errors returns the currently surfaced message per field.
func (c *Controller) Errors() map[string]string {
	out := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		out[k] = v
	}
	return out
}

// Ack returns the acknowledgement once submitted.
func (c *Controller) Ack() (submission.Ack, bool) {
	if c.ack == nil {
		return submission.Ack{}, false
	}
	return *c.ack, true
}

// State returns a snapshot for rendering.
func (c *Controller) State() State {
	return State{
		Step:                 c.step,
		Draft:                c.draft.Clone(),
		Errors:               c.Errors(),
		ShowAdditionalFields: c.showAdditional,
		Blocked:              c.blocked,
		Notice:               c.notice,
		Fields:               c.VisibleFields(),
	}
}

// VisibleFields lists the inputs shown on the current step.
func (c *Controller) VisibleFields() []string {
	switch c.step {
	case Step1:
		return c.form.PersonalInfo().Paths()
	case Step2:
		fields := c.form.LeasingDetails().Paths()
		if c.showAdditional {
			// Shown under leaseDuration but not part of the step gate.
			fields = append(fields, form.FieldEmployerName, form.FieldAnnualIncome)
		}
		return fields
	case Step3:
		return []string{form.FieldNotes, form.FieldDocument, form.FieldTerms}
	}
	return nil
}

func (c *Controller) afterChange(field string) {
	if field == form.FieldLeaseDuration {
		c.showAdditional = form.ShowAdditionalFields(c.draft.LeaseDuration)
	}
}

func (c *Controller) revalidate(field string) {
	res := c.form.ValidateField(c.draft, field)
	if msg := res.FirstError(field); msg != "" {
		c.errors[field] = msg
		return
	}
	delete(c.errors, field)
}

func (c *Controller) replaceErrors(paths []string, res *validation.ValidationResult) {
	for _, p := range paths {
		delete(c.errors, p)
	}
	for field, msg := range res.ToMap() {
		c.errors[field] = msg
	}
}

func (c *Controller) recordFailures(res *validation.ValidationResult) {
	for _, field := range res.Fields() {
		metrics.WizardValidationFailures.WithLabelValues(c.step.String(), field).Inc()
	}
	c.logger.Debug("Validation failed", map[string]interface{}{
		"step":   c.step.String(),
		"fields": res.Fields(),
	})
}

func (c *Controller) moveTo(next Step) {
	metrics.WizardTransitions.WithLabelValues(c.step.String(), next.String()).Inc()
	c.step = next
}

func isField(field string) bool {
	for _, f := range form.Fields {
		if f == field {
			return true
		}
	}
	return false
}
