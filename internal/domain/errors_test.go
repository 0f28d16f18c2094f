package domain

import (
	"errors"
	"fmt"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidationError(t *testing.T) {
	assert.Nil(t, NewValidationError(nil))

	plain := errors.New("boom")
	assert.Equal(t, plain, NewValidationError(plain))

	err := NewValidationError(validation.Errors{
		"time": errors.New("time is required"),
		"date": errors.New("date is required"),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "time is required", verr.Fields["time"])
	assert.Equal(t, "validation failed: date: date is required; time: time is required", verr.Error())
}

func TestReferenceError(t *testing.T) {
	err := fmt.Errorf("create: %w", &ReferenceError{Entity: "stylist", ID: "42"})
	assert.True(t, errors.Is(err, ErrReferenceNotFound))
	assert.False(t, errors.Is(err, ErrNotFound))

	var ref *ReferenceError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "stylist", ref.Entity)
	assert.Contains(t, err.Error(), `stylist "42"`)
}

func TestFieldError(t *testing.T) {
	var verr *ValidationError
	require.ErrorAs(t, FieldError("status", "unknown status"), &verr)
	assert.Equal(t, map[string]string{"status": "unknown status"}, verr.Fields)
}
