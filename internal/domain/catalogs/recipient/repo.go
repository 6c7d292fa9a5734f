package recipient

import (
	"context"

	"motordesk/internal/domain"
)

// Repository defines the interface for Recipient persistence.
type Repository interface {
	domain.CatalogRepository[*Recipient]

	// FindByEmail retrieves recipient by email (unique within the directory).
	FindByEmail(ctx context.Context, email string) (*Recipient, error)
}
