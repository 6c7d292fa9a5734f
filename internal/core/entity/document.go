package entity

import (
	"context"
	"time"

	"motordesk/internal/core/apperror"
)

// Document is the base type for business documents.
// Examples: Invoice.
type Document struct {
	BaseDocument

	// Number is the document number (assigned once at issuance, immutable after)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document with generated ID.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}

// IsNumbered reports whether the document already has its permanent number.
func (d *Document) IsNumbered() bool {
	return d.Number != ""
}
