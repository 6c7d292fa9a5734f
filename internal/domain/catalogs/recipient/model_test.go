package recipient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"motordesk/internal/core/apperror"
)

func TestRecipientValidate(t *testing.T) {
	r := NewRecipient("Gulf Auto Traders", "accounts@gulfauto.example")
	assert.NoError(t, r.Validate(context.Background()))
}

func TestRecipientValidateCollectsAllErrors(t *testing.T) {
	r := NewRecipient("", "")
	err := r.Validate(context.Background())

	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok, "got %v", err)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Len(t, appErr.Fields, 2)
}

func TestRecipientValidateEmailFormat(t *testing.T) {
	r := NewRecipient("Sara Haddad", "not-an-email")
	err := r.Validate(context.Background())

	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok, "got %v", err)
	assert.Len(t, appErr.Fields, 1)
	assert.Equal(t, "email", appErr.Fields[0].Field)
}
