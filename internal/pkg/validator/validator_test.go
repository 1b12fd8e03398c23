package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidDate(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidDate("2024-01-01"))
	assert.False(t, IsValidDate("2024-13-01"))
	assert.False(t, IsValidDate("01/01/2024"))
}

func TestValidationErrors_ErrorAndToMap(t *testing.T) {
	t.Parallel()

	errs := ValidationErrors{
		{Field: "base", Message: "is required"},
		{Field: "nombre", Message: "must be non-negative"},
	}

	assert.Equal(t, "base: is required; nombre: must be non-negative", errs.Error())
	assert.Equal(t, map[string]string{
		"base":   "is required",
		"nombre": "must be non-negative",
	}, errs.ToMap())
}
