package validation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FrontMatterValidator validates document front matter against a site
// provided JSON schema. It satisfies the content loader's SchemaValidator
// contract.
type FrontMatterValidator struct {
	schema map[string]any
}

// NewFrontMatterValidator wraps an in-memory schema map. The schema is
// compiled eagerly so configuration mistakes fail at startup, not mid-build.
func NewFrontMatterValidator(schema map[string]any) (*FrontMatterValidator, error) {
	if err := ValidateSchema(schema); err != nil {
		return nil, err
	}
	return &FrontMatterValidator{schema: schema}, nil
}

// LoadFrontMatterValidator reads a schema file. Both YAML and JSON documents
// are accepted since YAML is a superset.
func LoadFrontMatterValidator(path string) (*FrontMatterValidator, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("validation: read schema %s: %w", path, err)
	}
	var schema map[string]any
	if err := yaml.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaInvalid, path, err)
	}
	return NewFrontMatterValidator(schema)
}

// ValidatePayload checks the raw front-matter map.
func (v *FrontMatterValidator) ValidatePayload(_ context.Context, payload map[string]any) error {
	if v == nil || len(v.schema) == 0 {
		return nil
	}
	return ValidatePayload(v.schema, payload)
}
