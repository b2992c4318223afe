package form

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"leasing-wizard/internal/common/validation"
	"leasing-wizard/internal/models"
)

// DraftJSONSchema describes the wire shape of an application draft. It only
// checks types and unknown keys; the domain rules live in the Form.
const DraftJSONSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"fullName":      {"type": "string"},
		"email":         {"type": "string"},
		"phone":         {"type": "string"},
		"dob":           {"type": "string"},
		"country":       {"type": "string"},
		"productType":   {"type": "string"},
		"productModel":  {"type": "string"},
		"leaseDuration": {"type": "integer"},
		"monthlyBudget": {"type": "number"},
		"notes":         {"type": "string"},
		"document": {
			"type": ["object", "null"],
			"properties": {
				"name":        {"type": "string"},
				"size":        {"type": "integer"},
				"contentType": {"type": "string"},
				"path":        {"type": "string"}
			}
		},
		"terms":        {"type": "boolean"},
		"employerName": {"type": "string"},
		"annualIncome": {"type": ["number", "null"]}
	}
}`

var draftWireSchema = validation.MustCompileJSONSchema(DraftJSONSchema)

// DecodeDraft checks raw JSON against DraftJSONSchema and decodes it. Fields
// missing from the document keep the wizard defaults. A non-nil result with
// Valid == false means the document has the wrong shape.
func DecodeDraft(raw []byte) (models.ApplicationDraft, *validation.ValidationResult, error) {
	draft := models.NewApplicationDraft()

	res, err := draftWireSchema.ValidateBytes(raw)
	if err != nil {
		return draft, nil, fmt.Errorf("malformed draft: %w", err)
	}
	if !res.Valid {
		return draft, res, nil
	}

	if err := json.Unmarshal(raw, &draft); err != nil {
		return draft, nil, fmt.Errorf("decode draft: %w", err)
	}
	return draft, res, nil
}

// DecodeDraftYAML converts a YAML draft to JSON and decodes it with DecodeDraft.
func DecodeDraftYAML(raw []byte) (models.ApplicationDraft, *validation.ValidationResult, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return models.NewApplicationDraft(), nil, fmt.Errorf("malformed draft: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	normalizeYAMLScalars(doc)

	asJSON, err := json.Marshal(doc)
	if err != nil {
		return models.NewApplicationDraft(), nil, fmt.Errorf("convert draft: %w", err)
	}
	return DecodeDraft(asJSON)
}

// yamlTextFields are string fields that plain YAML scalars may resolve to
// another type, e.g. an unquoted phone number or date.
var yamlTextFields = []string{
	FieldFullName, FieldEmail, FieldPhone, FieldDOB, FieldCountry,
	FieldProductType, FieldProductModel, FieldNotes, FieldEmployerName,
}

// normalizeYAMLScalars turns timestamps back into calendar dates and
// stringifies numeric or boolean scalars on text fields.
func normalizeYAMLScalars(doc map[string]interface{}) {
	for k, v := range doc {
		if ts, ok := v.(time.Time); ok {
			doc[k] = ts.Format(dobLayouts[0])
		}
	}
	for _, field := range yamlTextFields {
		switch v := doc[field].(type) {
		case float64:
			doc[field] = strconv.FormatFloat(v, 'f', -1, 64)
		case int, int64, uint64, bool:
			doc[field] = fmt.Sprint(v)
		}
	}
}
