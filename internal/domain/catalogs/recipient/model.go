// Package recipient provides the Recipient directory.
// Recipients are the parties invoices are addressed to: buyers, dealers, fleet customers.
package recipient

import (
	"context"
	"regexp"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Recipient represents an invoice recipient.
// Name maps to entity.Catalog.Name; contact details live here.
type Recipient struct {
	entity.Catalog

	// Email is the primary contact email (required, used for invoice delivery)
	Email string `db:"email" json:"email"`

	// Phone is the primary contact phone
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Address is the billing address
	Address *string `db:"address" json:"address,omitempty"`
}

// NewRecipient creates a new Recipient with required fields.
func NewRecipient(name, email string) *Recipient {
	return &Recipient{
		Catalog: entity.NewCatalog("", name),
		Email:   email,
	}
}

// Validate implements entity.Validatable interface.
// All field problems are collected into a single validation error so a
// form submission surfaces every issue at once.
func (r *Recipient) Validate(ctx context.Context) error {
	var fields []apperror.FieldError

	if r.Name == "" {
		fields = append(fields, apperror.FieldError{Field: "name", Message: "name is required"})
	}

	switch {
	case r.Email == "":
		fields = append(fields, apperror.FieldError{Field: "email", Message: "email is required"})
	case !emailRE.MatchString(r.Email):
		fields = append(fields, apperror.FieldError{Field: "email", Message: "invalid email format"})
	}

	if len(fields) > 0 {
		return apperror.NewValidationFields(fields)
	}
	return nil
}
