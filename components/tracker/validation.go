package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Form schema names understood by FormValidator.
const (
	FormAddFish        = "add_fish"
	FormUploadWeighIns = "upload_weigh_ins"
)

var formSchemas = map[string]map[string]any{
	FormAddFish: {
		"type":     "object",
		"required": []string{"name", "password"},
		"properties": map[string]any{
			"name":     map[string]any{"type": "string", "minLength": 1},
			"notes":    map[string]any{"type": "string"},
			"password": map[string]any{"type": "string", "minLength": 1},
		},
	},
	FormUploadWeighIns: {
		"type":     "object",
		"required": []string{"filename", "size", "password"},
		"properties": map[string]any{
			"filename": map[string]any{"type": "string", "minLength": 1},
			"size":     map[string]any{"type": "integer", "minimum": 1},
			"password": map[string]any{"type": "string", "minLength": 1},
		},
	},
}

// FormValidator checks admin form payloads before they are sent upstream.
type FormValidator interface {
	Validate(form string, payload map[string]any) error
}

// JSONSchemaValidator compiles the admin form schemas and validates payloads.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[string]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate returns a *ValidationError naming the first offending field.
func (v *JSONSchemaValidator) Validate(form string, payload map[string]any) error {
	schema, err := v.schemaFor(form)
	if err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("tracker: marshal %s form: %w", form, err)
	}
	var normalized map[string]any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return fmt.Errorf("tracker: normalize %s form: %w", form, err)
	}
	if err := schema.Validate(normalized); err != nil {
		return toValidationError(err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(form string) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[form]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	def, ok := formSchemas[form]
	if !ok {
		return nil, fmt.Errorf("tracker: unknown form %q", form)
	}
	data, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("tracker: marshal schema %s: %w", form, err)
	}
	compiler := jsonschema.NewCompiler()
	name := form + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("tracker: load schema %s: %w", form, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("tracker: compile schema %s: %w", form, err)
	}
	v.mu.Lock()
	v.compiled[form] = compiled
	v.mu.Unlock()
	return compiled, nil
}

func toValidationError(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &ValidationError{Message: err.Error()}
	}
	leaf := verr
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	field := strings.TrimPrefix(leaf.InstanceLocation, "/")
	msg := leaf.Message
	if field == "" {
		if missing := missingProperty(leaf.Message); missing != "" {
			field = missing
			msg = "is required"
		}
	}
	return &ValidationError{Field: field, Message: msg}
}

// missingProperty extracts the first name from jsonschema's
// "missing properties: 'name', 'password'" message.
func missingProperty(msg string) string {
	const prefix = "missing properties: "
	if !strings.HasPrefix(msg, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(msg, prefix)
	if idx := strings.Index(rest, ","); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.Trim(strings.TrimSpace(rest), "'\"")
}
