package validation

import (
	"context"
	"errors"
	"testing"
	"time"
)

var postSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"layout": map[string]any{"type": "string"},
		"title":  map[string]any{"type": "string"},
		"date":   map[string]any{"type": "string"},
		"tags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"required": []any{"layout", "title"},
}

func TestValidatePayloadAcceptsConformingDocument(t *testing.T) {
	payload := map[string]any{
		"layout": "post",
		"title":  "How recursing works?",
		"date":   time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC),
		"tags":   []string{"go", "recursion"},
	}
	if err := ValidatePayload(postSchema, payload); err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}
}

func TestValidatePayloadReportsIssues(t *testing.T) {
	err := ValidatePayload(postSchema, map[string]any{"layout": 42})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}

	issues := Issues(err)
	if len(issues) == 0 {
		t.Fatal("expected at least one validation issue")
	}
}

func TestValidateSchemaRejectsBrokenSchema(t *testing.T) {
	broken := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "not-a-type"},
		},
	}
	if err := ValidateSchema(broken); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestFrontMatterValidatorNilSchemaIsNoOp(t *testing.T) {
	validator, err := NewFrontMatterValidator(nil)
	if err != nil {
		t.Fatalf("NewFrontMatterValidator: %v", err)
	}
	if err := validator.ValidatePayload(context.Background(), map[string]any{"anything": true}); err != nil {
		t.Fatalf("expected nil schema to accept everything, got %v", err)
	}
}
