package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Name  string
	Email string
	Plan  string
	Seats int
}

var (
	nameRule = Rule[account]{
		Path: "name", Code: "TOO_SHORT", Message: "name too short",
		Check: func(a account) bool { return len(a.Name) >= 3 },
	}
	emailRule = Rule[account]{
		Path: "email", Code: "INVALID_EMAIL", Message: "bad email",
		Check: func(a account) bool { return ValidateEmail(a.Email) },
	}
	seatsRule = Rule[account]{
		Path: "seats", Code: "OUT_OF_RANGE", Message: "seats out of range",
		Check: func(a account) bool { return a.Seats >= 1 && a.Seats <= 10 },
	}
)

func teamRefinement(a account) []ValidationError {
	if a.Plan == "team" && a.Seats < 2 {
		return []ValidationError{{Field: "seats", Message: "team plans need two seats", Code: "REFINEMENT"}}
	}
	return nil
}

func TestRuleApply(t *testing.T) {
	assert.Nil(t, nameRule.Apply(account{Name: "Ada"}))

	err := nameRule.Apply(account{Name: "A"})
	require.NotNil(t, err)
	assert.Equal(t, "name", err.Field)
	assert.Equal(t, "name too short", err.Message)

	assert.Nil(t, Optional[account]("plan").Apply(account{}))
}

func TestMerge_UnionLaterWins(t *testing.T) {
	strict := Rule[account]{Path: "name", Message: "strict", Check: func(account) bool { return false }}

	a := NewFragment("a", nameRule, emailRule)
	b := NewFragment("b", strict, seatsRule)
	merged := Merge("ab", a, b)

	assert.Equal(t, []string{"name", "email", "seats"}, merged.Paths())
	r, ok := merged.Rule("name")
	require.True(t, ok)
	assert.Equal(t, "strict", r.Message)
}

func TestMerge_Idempotent(t *testing.T) {
	a := NewFragment("a", nameRule, emailRule)
	b := NewFragment("b", seatsRule, Optional[account]("plan"))

	once := NewSchema(Merge("once", a, b))
	twice := NewSchema(Merge("twice", a, b, b))

	assert.Equal(t, once.Fields().Paths(), twice.Fields().Paths())

	inputs := []account{
		{},
		{Name: "Ada", Email: "ada@example.com", Seats: 3},
		{Name: "A", Email: "nope", Seats: 40},
	}
	for _, in := range inputs {
		assert.Equal(t, once.Validate(in), twice.Validate(in))
	}
}

func TestSchemaValidate_RefinementRunsAfterFields(t *testing.T) {
	s := NewSchema(NewFragment("all", nameRule, emailRule, seatsRule), teamRefinement)

	res := s.Validate(account{Name: "A", Email: "ada@example.com", Plan: "team", Seats: 1})

	assert.False(t, res.Valid)
	assert.Equal(t, []string{"name", "seats"}, res.Fields())
	assert.Equal(t, "team plans need two seats", res.FirstError("seats"))
}

func TestSchemaValidateFields_SkipsRefinementAndOtherFields(t *testing.T) {
	s := NewSchema(NewFragment("all", nameRule, emailRule, seatsRule), teamRefinement)
	in := account{Name: "Ada", Email: "broken", Plan: "team", Seats: 1}

	res := s.ValidateFields(in, "name", "seats")
	assert.True(t, res.Valid)

	res = s.ValidateField(in, "email")
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("email"))

	res = s.ValidateFields(in, "missing")
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "UNKNOWN_FIELD", res.Errors[0].Code)
}

func TestValidationResultHelpers(t *testing.T) {
	res := NewResult([]ValidationError{
		{Field: "seats", Message: "first"},
		{Field: "seats", Message: "second"},
		{Field: "address.city", Message: "nested"},
	})

	assert.False(t, res.Valid)
	assert.Equal(t, map[string]string{"seats": "first", "address.city": "nested"}, res.ToMap())
	assert.Len(t, res.GetErrorsForField("address"), 1)
	assert.Equal(t, []string{"seats: first", "seats: second", "address.city: nested"}, res.GetErrorMessages())
	assert.Equal(t, "", res.FirstError("name"))
	assert.True(t, NewResult(nil).Valid)
}

func TestValidateEmail(t *testing.T) {
	tests := map[string]bool{
		"jane@x.com":           true,
		"first.last+tag@a.io":  true,
		"o'brien@example.org":  true,
		"jane@x":               false,
		"jane.x.com":           false,
		".jane@x.com":          false,
		"ja..ne@x.com":         false,
		"jane.@x.com":          false,
		"jane@-x.com":          false,
		"":                     false,
	}
	for in, want := range tests {
		assert.Equal(t, want, ValidateEmail(in), in)
	}
}

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+49 (30) 1234567"))
	assert.True(t, ValidatePhone("1234567890"))
	assert.False(t, ValidatePhone("12345"))
	assert.False(t, ValidatePhone("call me maybe"))
}
