package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasing-wizard/internal/common/logger"
	"leasing-wizard/internal/common/metrics"
	"leasing-wizard/internal/leasing/countries"
	"leasing-wizard/internal/leasing/form"
	"leasing-wizard/internal/leasing/submission"
	"leasing-wizard/internal/models"
)

var fixedNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

type recordingSink struct {
	calls  int
	drafts []models.ApplicationDraft
	err    error
}

func (s *recordingSink) Submit(_ context.Context, d models.ApplicationDraft) (submission.Ack, error) {
	s.calls++
	s.drafts = append(s.drafts, d)
	if s.err != nil {
		return submission.Ack{}, s.err
	}
	return submission.Ack{Reference: "ref-1", SubmittedAt: fixedNow}, nil
}

var testCountries = countries.StaticSource{
	{Name: models.CountryName{Common: "Germany"}, Flag: "🇩🇪"},
	{Name: models.CountryName{Common: "Austria"}, Flag: "🇦🇹"},
}

func newController(t *testing.T, source countries.Source, sink submission.Sink) *Controller {
	t.Helper()
	f := form.New(form.WithClock(func() time.Time { return fixedNow }))
	c := New(source, sink, WithForm(f), WithLogger(logger.NewTestLogger(t)))
	require.NoError(t, c.Mount(context.Background()))
	return c
}

func set(t *testing.T, c *Controller, values map[string]string) {
	t.Helper()
	for _, field := range form.Fields {
		if raw, ok := values[field]; ok {
			require.NoError(t, c.Set(field, raw), field)
		}
	}
}

var janeStep1 = map[string]string{
	form.FieldFullName: "Jane Doe",
	form.FieldEmail:    "jane@x.com",
	form.FieldPhone:    "1234567890",
	form.FieldDOB:      "1990-01-01",
	form.FieldCountry:  "Germany",
}

var janeStep2 = map[string]string{
	form.FieldProductType:   "Car",
	form.FieldLeaseDuration: "30",
	form.FieldMonthlyBudget: "600",
}

// toStep3 walks Jane's documented example through the first two steps.
func toStep3(t *testing.T, c *Controller) {
	t.Helper()
	set(t, c, janeStep1)
	require.NoError(t, c.Next())
	set(t, c, janeStep2)
	require.NoError(t, c.Next())
	require.Equal(t, Step3, c.Step())
}

func TestNew_Defaults(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})

	assert.Equal(t, Step1, c.Step())
	d := c.Draft()
	assert.Equal(t, models.DefaultLeaseDuration, d.LeaseDuration)
	assert.Equal(t, float64(models.DefaultMonthlyBudget), d.MonthlyBudget)
	assert.False(t, c.State().ShowAdditionalFields)
	assert.Equal(t, []string{"Austria", "Germany"}, countries.Names(c.Countries()))
}

func TestMount_FailureBlocksStep1(t *testing.T) {
	fail := true
	source := countries.SourceFunc(func(context.Context) ([]models.Country, error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return testCountries, nil
	})
	f := form.New(form.WithClock(func() time.Time { return fixedNow }))
	c := New(source, &recordingSink{}, WithForm(f), WithLogger(logger.NewTestLogger(t)))

	err := c.Mount(context.Background())
	require.Error(t, err)
	state := c.State()
	assert.True(t, state.Blocked)
	assert.Equal(t, NoticeCountriesUnavailable, state.Notice)

	set(t, c, janeStep1)
	assert.ErrorIs(t, c.Next(), ErrBlocked)
	assert.Equal(t, Step1, c.Step())

	fail = false
	require.NoError(t, c.Mount(context.Background()))
	assert.False(t, c.State().Blocked)
	assert.Empty(t, c.State().Notice)
	assert.NoError(t, c.Next())
}

func TestNext_Step1IndependentOfLaterFields(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})
	set(t, c, janeStep1)

	// invalid step 2 and 3 values must not matter
	require.NoError(t, c.Set(form.FieldLeaseDuration, "99"))
	require.NoError(t, c.Set(form.FieldMonthlyBudget, "1"))
	require.NoError(t, c.Set(form.FieldTerms, "false"))

	require.NoError(t, c.Next())
	assert.Equal(t, Step2, c.Step())
}

func TestNext_Step1Gate(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		raw     string
		message string
	}{
		{"short name", form.FieldFullName, "Jo", form.MsgFullName},
		{"bad email", form.FieldEmail, "jane.example.com", form.MsgEmail},
		{"short phone", form.FieldPhone, "12345", form.MsgPhone},
		{"underage", form.FieldDOB, "2010-05-05", form.MsgAdult},
		{"unparseable dob", form.FieldDOB, "yesterday", form.MsgAdult},
		{"missing country", form.FieldCountry, "", form.MsgCountry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, testCountries, &recordingSink{})
			set(t, c, janeStep1)
			require.NoError(t, c.Set(tt.field, tt.raw))

			err := c.Next()
			require.ErrorIs(t, err, ErrStepInvalid)
			assert.Equal(t, Step1, c.Step())
			assert.Equal(t, map[string]string{tt.field: tt.message}, c.Errors())
		})
	}
}

func TestNext_Step1AgeUsesYearOnly(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})
	set(t, c, janeStep1)
	// turns 18 in December 2025, counted as 18 in June
	require.NoError(t, c.Set(form.FieldDOB, "2007-12-31"))

	assert.NoError(t, c.Next())
}

func TestNext_Step2IgnoresEmployerFields(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})
	set(t, c, janeStep1)
	require.NoError(t, c.Next())
	set(t, c, janeStep2)

	assert.True(t, c.State().ShowAdditionalFields)
	require.NoError(t, c.Next())
	assert.Equal(t, Step3, c.Step())
	assert.Empty(t, c.Errors())
}

func TestVisibleFields_EmployerFieldsFollowLeaseDuration(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})
	set(t, c, janeStep1)
	require.NoError(t, c.Next())

	details := []string{form.FieldProductType, form.FieldProductModel, form.FieldLeaseDuration, form.FieldMonthlyBudget}
	assert.Equal(t, details, c.VisibleFields())

	require.NoError(t, c.Set(form.FieldLeaseDuration, "30"))
	assert.Equal(t, append(details, form.FieldEmployerName, form.FieldAnnualIncome), c.VisibleFields())
	assert.Equal(t, c.VisibleFields(), c.State().Fields)

	require.NoError(t, c.Set(form.FieldLeaseDuration, "24"))
	assert.Equal(t, details, c.VisibleFields())

	require.NoError(t, c.Set(form.FieldLeaseDuration, "25"))
	set(t, c, map[string]string{form.FieldProductType: "Car", form.FieldMonthlyBudget: "600"})
	require.NoError(t, c.Next())
	assert.Equal(t, []string{form.FieldNotes, form.FieldDocument, form.FieldTerms}, c.VisibleFields())
}

func TestNext_Step2Gate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]string
		invalid []string
	}{
		{
			name:    "no product type",
			values:  map[string]string{form.FieldLeaseDuration: "12", form.FieldMonthlyBudget: "500"},
			invalid: []string{form.FieldProductType, form.FieldProductModel},
		},
		{
			name:    "duration too long",
			values:  map[string]string{form.FieldProductType: "Equipment", form.FieldLeaseDuration: "37", form.FieldMonthlyBudget: "500"},
			invalid: []string{form.FieldLeaseDuration},
		},
		{
			name:    "duration zero",
			values:  map[string]string{form.FieldProductType: "Equipment", form.FieldLeaseDuration: "0", form.FieldMonthlyBudget: "500"},
			invalid: []string{form.FieldLeaseDuration},
		},
		{
			name:    "budget too low",
			values:  map[string]string{form.FieldProductType: "Apartment", form.FieldLeaseDuration: "1", form.FieldMonthlyBudget: "499.99"},
			invalid: []string{form.FieldMonthlyBudget},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, testCountries, &recordingSink{})
			set(t, c, janeStep1)
			require.NoError(t, c.Next())
			set(t, c, tt.values)

			require.ErrorIs(t, c.Next(), ErrStepInvalid)
			assert.Equal(t, Step2, c.Step())
			errs := c.Errors()
			for _, f := range tt.invalid {
				assert.Contains(t, errs, f)
			}
			assert.Len(t, errs, len(tt.invalid))
		})
	}
}

func TestSet_ProductTypeDerivesModel(t *testing.T) {
	tests := []struct {
		productType string
		model       string
	}{
		{"Car", "Car Model"},
		{"Apartment", "Apartment Model"},
		{"Equipment", "Equipment Model"},
	}

	c := newController(t, testCountries, &recordingSink{})
	for _, tt := range tests {
		require.NoError(t, c.Set(form.FieldProductType, tt.productType))
		assert.Equal(t, tt.model, c.Draft().ProductModel)
	}
}

func TestSet_UnknownProductTypeKeepsModel(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})
	require.NoError(t, c.Set(form.FieldProductType, "Car"))
	require.NoError(t, c.Set(form.FieldProductType, "Boat"))

	assert.Equal(t, "Car Model", c.Draft().ProductModel)
	assert.Equal(t, form.MsgProductType, c.Errors()[form.FieldProductType])
}

func TestSet_ProductModelIsDerived(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})
	require.NoError(t, c.Set(form.FieldProductModel, "Custom"))
	assert.Equal(t, "Custom", c.Draft().ProductModel)

	require.NoError(t, c.Set(form.FieldProductType, "Car"))
	assert.ErrorIs(t, c.Set(form.FieldProductModel, "Custom"), ErrDerivedField)
	assert.Equal(t, "Car Model", c.Draft().ProductModel)
}

func TestSet_LeaseDurationTogglesAdditionalFields(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})

	steps := []struct {
		raw  string
		show bool
	}{
		{"25", true},
		{"24", false},
		{"36", true},
		{"1", false},
		{"30", true},
	}
	for _, s := range steps {
		require.NoError(t, c.Set(form.FieldLeaseDuration, s.raw))
		assert.Equal(t, s.show, c.State().ShowAdditionalFields, s.raw)
	}

	var fe *form.FieldError
	require.ErrorAs(t, c.Set(form.FieldLeaseDuration, "thirty"), &fe)
	assert.Equal(t, form.FieldLeaseDuration, fe.Field)
	assert.False(t, c.State().ShowAdditionalFields)
	assert.Equal(t, 0, c.Draft().LeaseDuration)
	assert.Equal(t, form.MsgLeaseDuration, c.Errors()[form.FieldLeaseDuration])
}

func TestSet_UnknownField(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})
	assert.ErrorIs(t, c.Set("nickname", "JD"), ErrUnknownField)
	assert.ErrorIs(t, c.Touch("nickname"), ErrUnknownField)
}

func TestTouch_ValidatesSingleField(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})
	require.NoError(t, c.Set(form.FieldEmail, "not-an-email"))
	assert.Empty(t, c.Errors())

	require.NoError(t, c.Touch(form.FieldEmail))
	assert.Equal(t, map[string]string{form.FieldEmail: form.MsgEmail}, c.Errors())

	// once shown, the error follows further edits
	require.NoError(t, c.Set(form.FieldEmail, "jane@x.com"))
	assert.Empty(t, c.Errors())
}

func TestPrevious(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})
	assert.ErrorIs(t, c.Previous(), ErrNoPreviousStep)

	toStep3(t, c)
	require.NoError(t, c.Set(form.FieldLeaseDuration, "99"))
	require.NoError(t, c.Previous())
	assert.Equal(t, Step2, c.Step())
	require.NoError(t, c.Previous())
	assert.Equal(t, Step1, c.Step())
}

func TestNext_NoNextStepFromStep3(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})
	toStep3(t, c)
	assert.ErrorIs(t, c.Next(), ErrNoNextStep)
}

func TestSubmit_OnlyOnFinalStep(t *testing.T) {
	sink := &recordingSink{}
	c := newController(t, testCountries, sink)
	assert.ErrorIs(t, c.Submit(context.Background()), ErrNotFinalStep)
	assert.Zero(t, sink.calls)
}

func TestSubmit_JaneExample(t *testing.T) {
	sink := &recordingSink{}
	c := newController(t, testCountries, sink)
	accepted := testutil.ToFloat64(metrics.WizardSubmissions.WithLabelValues("accepted"))

	toStep3(t, c)
	set(t, c, map[string]string{
		form.FieldTerms:        "true",
		form.FieldEmployerName: "Acme",
		form.FieldAnnualIncome: "50000",
	})
	assert.Equal(t, []string{form.FieldNotes, form.FieldDocument, form.FieldTerms}, c.VisibleFields())

	require.NoError(t, c.Submit(context.Background()))

	assert.Equal(t, Submitted, c.Step())
	require.Equal(t, 1, sink.calls)
	got := sink.drafts[0]
	assert.Equal(t, "Car Model", got.ProductModel)
	assert.Equal(t, 30, got.LeaseDuration)
	require.NotNil(t, got.AnnualIncome)
	assert.Equal(t, 50000.0, *got.AnnualIncome)

	ack, ok := c.Ack()
	require.True(t, ok)
	assert.Equal(t, "ref-1", ack.Reference)
	assert.Equal(t, accepted+1, testutil.ToFloat64(metrics.WizardSubmissions.WithLabelValues("accepted")))

	assert.ErrorIs(t, c.Submit(context.Background()), ErrAlreadySubmitted)
	assert.ErrorIs(t, c.Set(form.FieldNotes, "late"), ErrAlreadySubmitted)
	assert.Equal(t, 1, sink.calls)
}

func TestSubmit_MissingAnnualIncome(t *testing.T) {
	sink := &recordingSink{}
	c := newController(t, testCountries, sink)

	toStep3(t, c)
	set(t, c, map[string]string{
		form.FieldTerms:        "true",
		form.FieldEmployerName: "Acme",
	})

	err := c.Submit(context.Background())
	require.ErrorIs(t, err, ErrStepInvalid)
	assert.Equal(t, Step3, c.Step())
	assert.Zero(t, sink.calls)
	assert.Equal(t, map[string]string{form.FieldAnnualIncome: form.MsgAnnualIncome}, c.Errors())
	_, ok := c.Ack()
	assert.False(t, ok)
}

func TestSubmit_ZeroIncomeCountsAsMissing(t *testing.T) {
	sink := &recordingSink{}
	c := newController(t, testCountries, sink)

	toStep3(t, c)
	set(t, c, map[string]string{
		form.FieldTerms:        "true",
		form.FieldEmployerName: "   ",
		form.FieldAnnualIncome: "0",
	})

	require.ErrorIs(t, c.Submit(context.Background()), ErrStepInvalid)
	errs := c.Errors()
	assert.Equal(t, form.MsgEmployerName, errs[form.FieldEmployerName])
	assert.Equal(t, form.MsgAnnualIncome, errs[form.FieldAnnualIncome])
	assert.Zero(t, sink.calls)
}

func TestSubmit_ShortLeaseSkipsEmployer(t *testing.T) {
	sink := &recordingSink{}
	c := newController(t, testCountries, sink)

	set(t, c, janeStep1)
	require.NoError(t, c.Next())
	set(t, c, map[string]string{form.FieldProductType: "Apartment", form.FieldLeaseDuration: "24", form.FieldMonthlyBudget: "900"})
	assert.NotContains(t, c.VisibleFields(), form.FieldEmployerName)
	require.NoError(t, c.Next())
	assert.Equal(t, []string{form.FieldNotes, form.FieldDocument, form.FieldTerms}, c.VisibleFields())

	require.NoError(t, c.SetDocument(&models.Document{Name: "payslip.pdf", Size: 2048}))
	require.NoError(t, c.Set(form.FieldTerms, "true"))
	require.NoError(t, c.Submit(context.Background()))

	require.Equal(t, 1, sink.calls)
	require.NotNil(t, sink.drafts[0].Document)
	assert.Equal(t, "payslip.pdf", sink.drafts[0].Document.Name)
}

func TestSubmit_TermsRequired(t *testing.T) {
	sink := &recordingSink{}
	c := newController(t, testCountries, sink)
	toStep3(t, c)
	set(t, c, map[string]string{form.FieldEmployerName: "Acme", form.FieldAnnualIncome: "50000"})

	require.ErrorIs(t, c.Submit(context.Background()), ErrStepInvalid)
	assert.Equal(t, map[string]string{form.FieldTerms: form.MsgTerms}, c.Errors())
	assert.Zero(t, sink.calls)
}

func TestSubmit_SinkFailureStaysOnStep3(t *testing.T) {
	boom := errors.New("broker down")
	sink := &recordingSink{err: boom}
	c := newController(t, testCountries, sink)

	toStep3(t, c)
	set(t, c, map[string]string{
		form.FieldTerms:        "true",
		form.FieldEmployerName: "Acme",
		form.FieldAnnualIncome: "50000",
	})

	err := c.Submit(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Step3, c.Step())
	assert.Equal(t, 1, sink.calls)

	sink.err = nil
	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, Submitted, c.Step())
}

func TestDraft_IsACopy(t *testing.T) {
	c := newController(t, testCountries, &recordingSink{})
	require.NoError(t, c.Set(form.FieldAnnualIncome, "100"))

	d := c.Draft()
	*d.AnnualIncome = 5
	assert.Equal(t, 100.0, *c.Draft().AnnualIncome)
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "step1", Step1.String())
	assert.Equal(t, "Leasing Details", Step2.Title())
	assert.Equal(t, "unknown", Step(0).String())
}
