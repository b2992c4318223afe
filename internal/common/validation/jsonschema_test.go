package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "object",
	"required": ["name", "seats"],
	"properties": {
		"name":  {"type": "string"},
		"seats": {"type": "integer"}
	}
}`

func TestJSONSchema_ValidateBytes(t *testing.T) {
	s := MustCompileJSONSchema(testSchema)

	res, err := s.ValidateBytes([]byte(`{"name": "Ada", "seats": 2}`))
	require.NoError(t, err)
	assert.True(t, res.Valid)

	res, err = s.ValidateBytes([]byte(`{"seats": "two"}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("name"))
	assert.True(t, res.HasErrors("seats"))
}

func TestJSONSchema_ValidateValue(t *testing.T) {
	s := MustCompileJSONSchema(testSchema)

	res, err := s.ValidateValue(map[string]interface{}{"name": "Ada"})
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "seats", res.Errors[0].Field)
	assert.Equal(t, "SCHEMA_required", res.Errors[0].Code)
}

func TestJSONSchema_MalformedDocument(t *testing.T) {
	s := MustCompileJSONSchema(testSchema)

	_, err := s.ValidateBytes([]byte(`{not json`))
	assert.Error(t, err)
}

func TestCompileJSONSchema_Invalid(t *testing.T) {
	_, err := CompileJSONSchema(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompileJSONSchema(`{"type": 12}`) })
}
