package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// FeatureSpec is one declared dataset column, as suppliers describe it in the
// data-format section. DataType uses the marketplace vocabulary (STRING,
// INTEGER, FLOAT, BOOLEAN, DATE, TIMESTAMP, JSON), not raw JSON schema types.
type FeatureSpec struct {
	Name     string
	DataType string
	Nullable bool
}

// SchemaForFeatures builds a JSON schema describing one record of the dataset
// from its declared columns. Non-nullable columns become required; nullable
// ones accept null alongside their base type.
func SchemaForFeatures(features []FeatureSpec) (map[string]any, error) {
	if len(features) == 0 {
		return nil, nil
	}
	properties := make(map[string]any, len(features))
	required := make([]string, 0, len(features))
	for _, feature := range features {
		name := strings.TrimSpace(feature.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: feature name is empty", ErrSchemaInvalid)
		}
		if _, exists := properties[name]; exists {
			return nil, fmt.Errorf("%w: duplicate feature %q", ErrSchemaInvalid, name)
		}
		prop, err := propertyForDataType(feature.DataType, feature.Nullable)
		if err != nil {
			return nil, err
		}
		properties[name] = prop
		if !feature.Nullable {
			required = append(required, name)
		}
	}
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema, nil
}

func propertyForDataType(dataType string, nullable bool) (map[string]any, error) {
	var base map[string]any
	switch strings.ToUpper(strings.TrimSpace(dataType)) {
	case "STRING", "TEXT":
		base = map[string]any{"type": "string"}
	case "INTEGER", "INT", "BIGINT":
		base = map[string]any{"type": "integer"}
	case "FLOAT", "DOUBLE", "DECIMAL", "NUMBER":
		base = map[string]any{"type": "number"}
	case "BOOLEAN", "BOOL":
		base = map[string]any{"type": "boolean"}
	case "DATE":
		base = map[string]any{"type": "string", "format": "date"}
	case "TIMESTAMP", "DATETIME":
		base = map[string]any{"type": "string", "format": "date-time"}
	case "JSON", "OBJECT":
		base = map[string]any{"type": "object"}
	case "ARRAY":
		base = map[string]any{"type": "array"}
	default:
		return nil, fmt.Errorf("%w: unknown data type %q", ErrSchemaInvalid, dataType)
	}
	if nullable {
		base["type"] = []any{base["type"], "null"}
	}
	return base, nil
}

// ValidateSchema ensures the schema only uses supported keywords and compiles.
func ValidateSchema(schema map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	if err := validateSchemaSubset(schema); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	if _, err := compileSchema(schema); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return nil
}

// ValidatePayload validates a record against the provided schema.
func ValidatePayload(schema map[string]any, payload map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	if err := validateSchemaSubset(schema); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	compiled, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	if err := compiled.Validate(payload); err != nil {
		return &PayloadValidationError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

// ValidatePartialPayload validates a record without enforcing required fields.
// Used while a supplier is still filling in sample rows.
func ValidatePartialPayload(schema map[string]any, payload map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	relaxed := cloneMap(schema)
	delete(relaxed, "required")
	return ValidatePayload(relaxed, payload)
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		switch typed := value.(type) {
		case map[string]any:
			out[key] = cloneMap(typed)
		case []any:
			out[key] = cloneSlice(typed)
		default:
			out[key] = value
		}
	}
	return out
}

func cloneSlice(input []any) []any {
	if input == nil {
		return nil
	}
	out := make([]any, len(input))
	for i, value := range input {
		switch typed := value.(type) {
		case map[string]any:
			out[i] = cloneMap(typed)
		case []any:
			out[i] = cloneSlice(typed)
		default:
			out[i] = value
		}
	}
	return out
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
