package invoice

import (
	"context"
	"time"

	"motordesk/internal/core/id"
	"motordesk/internal/domain"
)

// ListFilter contains invoice-specific filtering options.
type ListFilter struct {
	// Status filters by lifecycle state
	Status *Status

	// RecipientID filters invoices for one recipient
	RecipientID *id.ID

	// DateFrom / DateTo bound the invoice date (inclusive)
	DateFrom *time.Time
	DateTo   *time.Time

	// Search matches against number and recipient snapshot name
	Search string

	// OrderBy specifies sorting (e.g., "date", "-date", "number")
	OrderBy string

	// Pagination
	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults: newest first.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "-date",
	}
}

// Repository defines the interface for Invoice persistence.
type Repository interface {
	// Create inserts the invoice with its lines
	Create(ctx context.Context, inv *Invoice) error

	// GetByID retrieves the invoice with its lines
	GetByID(ctx context.Context, id id.ID) (*Invoice, error)

	// GetByNumber retrieves an issued invoice by its number
	GetByNumber(ctx context.Context, number string) (*Invoice, error)

	// Update rewrites the invoice and its lines (with optimistic locking)
	Update(ctx context.Context, inv *Invoice) error

	// Delete physically removes the invoice and its lines.
	// The service layer only allows this for drafts.
	Delete(ctx context.Context, id id.ID) error

	// List retrieves invoices with filtering and pagination
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)

	// ListPastDue returns sent invoices whose due date is before the cutoff.
	// Used by the overdue sweep.
	ListPastDue(ctx context.Context, cutoff time.Time, limit int) ([]*Invoice, error)
}
