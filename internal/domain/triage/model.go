// Package triage provides the inbox for inbound contact messages and sales
// leads. The two streams carry deliberately distinct status vocabularies:
// contacts follow a read/replied flow, leads follow a sales pipeline.
package triage

import (
	"context"
	"time"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/entity"
	"motordesk/internal/core/id"
)

// ContactStatus is the workflow state of a contact message.
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

// IsValid reports whether s is a known contact status.
func (s ContactStatus) IsValid() bool {
	switch s {
	case ContactNew, ContactRead, ContactReplied, ContactArchived:
		return true
	}
	return false
}

// LeadStatus is the pipeline state of a sales lead.
type LeadStatus string

const (
	LeadNew        LeadStatus = "new"
	LeadInProgress LeadStatus = "in-progress"
	LeadResolved   LeadStatus = "resolved"
	LeadRejected   LeadStatus = "rejected"
)

// IsValid reports whether s is a known lead status.
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadNew, LeadInProgress, LeadResolved, LeadRejected:
		return true
	}
	return false
}

// ContactMessage is an inbound message from the public contact form.
type ContactMessage struct {
	entity.BaseEntity

	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email"`
	Subject string `db:"subject" json:"subject,omitempty"`
	Message string `db:"message" json:"message"`

	Status ContactStatus `db:"status" json:"status"`

	// Notes is free-text operator commentary added during triage.
	Notes string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewContactMessage creates an inbound contact message in the new state.
func NewContactMessage(name, email, subject, message string) *ContactMessage {
	return &ContactMessage{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Subject:    subject,
		Message:    message,
		Status:     ContactNew,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate implements entity.Validatable.
func (c *ContactMessage) Validate(ctx context.Context) error {
	var fields []apperror.FieldError
	if c.Name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if c.Email == "" {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "email is required"})
	}
	if c.Message == "" {
		fields = append(fields, apperror.FieldError{Field: "message", Message: "message is required"})
	}
	if !c.Status.IsValid() {
		fields = append(fields, apperror.FieldError{Field: "status", Message: "unknown contact status"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationFields(fields)
	}
	return nil
}

// Lead is an inbound purchase inquiry, usually tied to a vehicle.
type Lead struct {
	entity.BaseEntity

	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
	Phone string `db:"phone" json:"phone,omitempty"`

	// VehicleID references the vehicle the inquiry is about, when known.
	VehicleID *id.ID `db:"vehicle_id" json:"vehicleId,omitempty"`

	Message string `db:"message" json:"message,omitempty"`

	Status LeadStatus `db:"status" json:"status"`

	// Notes is free-text operator commentary added during triage.
	Notes string `db:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewLead creates an inbound lead in the new state.
func NewLead(name, email string) *Lead {
	return &Lead{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		Email:      email,
		Status:     LeadNew,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate implements entity.Validatable.
func (l *Lead) Validate(ctx context.Context) error {
	var fields []apperror.FieldError
	if l.Name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "name is required"})
	}
	if l.Email == "" && l.Phone == "" {
		fields = append(fields, apperror.FieldError{Field: "email", Message: "an email or phone is required"})
	}
	if !l.Status.IsValid() {
		fields = append(fields, apperror.FieldError{Field: "status", Message: "unknown lead status"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationFields(fields)
	}
	return nil
}
