package triage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"motordesk/internal/core/apperror"
)

func TestContactStatusVocabulary(t *testing.T) {
	valid := []ContactStatus{ContactNew, ContactRead, ContactReplied, ContactArchived}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "%s must be valid", s)
	}

	// Lead vocabulary must not leak into contacts.
	assert.False(t, ContactStatus("in-progress").IsValid())
	assert.False(t, ContactStatus("resolved").IsValid())
	assert.False(t, ContactStatus("rejected").IsValid())
}

func TestLeadStatusVocabulary(t *testing.T) {
	valid := []LeadStatus{LeadNew, LeadInProgress, LeadResolved, LeadRejected}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "%s must be valid", s)
	}

	// Contact vocabulary must not leak into leads.
	assert.False(t, LeadStatus("read").IsValid())
	assert.False(t, LeadStatus("replied").IsValid())
	assert.False(t, LeadStatus("archived").IsValid())
}

func TestNewContactMessage(t *testing.T) {
	msg := NewContactMessage("Dana", "dana@example.com", "Question", "Is the Land Cruiser available?")
	assert.Equal(t, ContactNew, msg.Status)
	assert.NoError(t, msg.Validate(context.Background()))
}

func TestContactMessageValidate(t *testing.T) {
	msg := NewContactMessage("", "", "", "")
	err := msg.Validate(context.Background())

	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok, "got %v", err)
	assert.Len(t, appErr.Fields, 3)
}

func TestLeadValidate(t *testing.T) {
	lead := NewLead("Omar", "")
	err := lead.Validate(context.Background())
	assert.True(t, apperror.IsValidation(err), "email or phone required: got %v", err)

	lead.Phone = "+971500000000"
	assert.NoError(t, lead.Validate(context.Background()))
}
