package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// JSONSchema is a compiled JSON Schema used to check the wire shape of
// payloads before they are decoded into Go types.
type JSONSchema struct {
	schema *gojsonschema.Schema
}

// CompileJSONSchema compiles a JSON Schema document.
func CompileJSONSchema(schemaJSON string) (*JSONSchema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &JSONSchema{schema: schema}, nil
}

// MustCompileJSONSchema is CompileJSONSchema for package-level schemas.
func MustCompileJSONSchema(schemaJSON string) *JSONSchema {
	s, err := CompileJSONSchema(schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// ValidateBytes validates a raw JSON document.
func (s *JSONSchema) ValidateBytes(document []byte) (*ValidationResult, error) {
	return s.validate(gojsonschema.NewBytesLoader(document))
}

// ValidateValue validates an already decoded value (maps, slices, structs).
func (s *JSONSchema) ValidateValue(document interface{}) (*ValidationResult, error) {
	return s.validate(gojsonschema.NewGoLoader(document))
}

func (s *JSONSchema) validate(loader gojsonschema.JSONLoader) (*ValidationResult, error) {
	result, err := s.schema.Validate(loader)
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   fieldOf(desc),
			Message: desc.Description(),
			Code:    "SCHEMA_" + desc.Type(),
		})
	}
	return NewResult(errs), nil
}

const rootField = "(root)"

// fieldOf reports required-property errors against the missing property
// rather than the enclosing object.
func fieldOf(desc gojsonschema.ResultError) string {
	if desc.Type() == "required" {
		if prop, ok := desc.Details()["property"].(string); ok {
			if desc.Field() == rootField {
				return prop
			}
			return desc.Field() + "." + prop
		}
	}
	return desc.Field()
}
