package tracker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorAcceptsAddFish(t *testing.T) {
	v := NewJSONSchemaValidator()
	err := v.Validate(FormAddFish, map[string]any{"name": "Bertha", "notes": "", "password": "secret"})
	require.NoError(t, err)
}

func TestValidatorReportsMissingField(t *testing.T) {
	v := NewJSONSchemaValidator()
	err := v.Validate(FormAddFish, map[string]any{"password": "secret"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "name", verr.Field)
	assert.Equal(t, "is required", verr.Message)
}

func TestValidatorReportsEmptyField(t *testing.T) {
	v := NewJSONSchemaValidator()
	err := v.Validate(FormAddFish, map[string]any{"name": "", "password": "secret"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "name", verr.Field)
}

func TestValidatorUploadRequiresContent(t *testing.T) {
	v := NewJSONSchemaValidator()
	err := v.Validate(FormUploadWeighIns, map[string]any{"filename": "weigh_ins.csv", "size": 0, "password": "secret"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "size", verr.Field)

	err = v.Validate(FormUploadWeighIns, map[string]any{"filename": "weigh_ins.csv", "size": 120, "password": "secret"})
	require.NoError(t, err)
}

func TestValidatorUnknownForm(t *testing.T) {
	err := NewJSONSchemaValidator().Validate("nope", map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown form")
}

func TestMissingProperty(t *testing.T) {
	assert.Equal(t, "name", missingProperty("missing properties: 'name', 'password'"))
	assert.Equal(t, "password", missingProperty("missing properties: 'password'"))
	assert.Empty(t, missingProperty("length must be >= 1"))
}
