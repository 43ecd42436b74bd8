package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
)

func TestError_Kinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "NotFound", err: apperr.NotFound("budget not found"), kind: apperr.ErrNotFound},
		{name: "Forbidden", err: apperr.Forbidden("Unauthorized access"), kind: apperr.ErrForbidden},
		{name: "Unauthorized", err: apperr.Unauthorized("Invalid credentials"), kind: apperr.ErrUnauthorized},
		{name: "Rule", err: apperr.Rule("overlap"), kind: apperr.ErrRule},
		{name: "Validation", err: apperr.Invalid("amount", "required"), kind: apperr.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("creating budget: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
		})
	}
}

func TestMessage(t *testing.T) {
	msg, ok := apperr.Message(fmt.Errorf("wrap: %w", apperr.Rule("Cannot delete category")))
	assert.True(t, ok)
	assert.Equal(t, "Cannot delete category", msg)

	msg, ok = apperr.Message(apperr.Invalid("end_date", "must be after start_date"))
	assert.True(t, ok)
	assert.Equal(t, "Validation Error", msg)

	_, ok = apperr.Message(errors.New("connection reset"))
	assert.False(t, ok)
}

func TestValidationError_Add(t *testing.T) {
	ve := &apperr.ValidationError{}
	assert.True(t, ve.Empty())

	ve.Add("amount", "The amount field is required.")
	ve.Add("amount", "The amount must be at least 0.")
	ve.Add("date", "The date is not a valid date.")

	assert.False(t, ve.Empty())
	assert.Len(t, ve.Fields["amount"], 2)
	assert.Equal(t,
		"validation error: amount: The amount field is required., The amount must be at least 0.; date: The date is not a valid date.",
		ve.Error(),
	)
}
