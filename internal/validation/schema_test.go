package validation_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-marketplace/internal/validation"
)

func sampleFeatures() []validation.FeatureSpec {
	return []validation.FeatureSpec{
		{Name: "station_id", DataType: "STRING"},
		{Name: "reading", DataType: "FLOAT"},
		{Name: "recorded_at", DataType: "TIMESTAMP"},
		{Name: "notes", DataType: "STRING", Nullable: true},
	}
}

func TestSchemaForFeatures(t *testing.T) {
	schema, err := validation.SchemaForFeatures(sampleFeatures())
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if err := validation.ValidateSchema(schema); err != nil {
		t.Fatalf("expected schema to compile, got %v", err)
	}

	required, ok := schema["required"].([]string)
	if !ok {
		t.Fatalf("expected required list, got %T", schema["required"])
	}
	if len(required) != 3 {
		t.Fatalf("expected 3 required columns, got %v", required)
	}
	for _, name := range required {
		if name == "notes" {
			t.Fatal("nullable column must not be required")
		}
	}
}

func TestSchemaForFeaturesRejectsUnknownType(t *testing.T) {
	_, err := validation.SchemaForFeatures([]validation.FeatureSpec{
		{Name: "blob", DataType: "GEOMETRY"},
	})
	if !errors.Is(err, validation.ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestSchemaForFeaturesRejectsDuplicates(t *testing.T) {
	_, err := validation.SchemaForFeatures([]validation.FeatureSpec{
		{Name: "id", DataType: "INTEGER"},
		{Name: "id", DataType: "STRING"},
	})
	if !errors.Is(err, validation.ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestValidatePayload(t *testing.T) {
	schema, err := validation.SchemaForFeatures(sampleFeatures())
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	record := map[string]any{
		"station_id":  "STN-004",
		"reading":     21.4,
		"recorded_at": "2025-03-10T09:00:00Z",
		"notes":       nil,
	}
	if err := validation.ValidatePayload(schema, record); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}
}

func TestValidatePayloadReportsIssues(t *testing.T) {
	schema, err := validation.SchemaForFeatures(sampleFeatures())
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	record := map[string]any{
		"station_id": true,
		"reading":    "hot",
	}
	err = validation.ValidatePayload(schema, record)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	if issues := validation.Issues(err); len(issues) == 0 {
		t.Fatal("expected at least one issue")
	}
}

func TestValidatePartialPayloadSkipsRequired(t *testing.T) {
	schema, err := validation.SchemaForFeatures(sampleFeatures())
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	record := map[string]any{"station_id": "STN-004"}
	if err := validation.ValidatePartialPayload(schema, record); err != nil {
		t.Fatalf("expected partial record to pass, got %v", err)
	}
	if err := validation.ValidatePayload(schema, record); err == nil {
		t.Fatal("full validation must still enforce required columns")
	}
}

func TestValidateSchemaRejectsUnsupportedKeyword(t *testing.T) {
	schema := map[string]any{
		"type":              "object",
		"properties":        map[string]any{},
		"patternProperties": map[string]any{},
	}
	err := validation.ValidateSchema(schema)
	if !errors.Is(err, validation.ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}
