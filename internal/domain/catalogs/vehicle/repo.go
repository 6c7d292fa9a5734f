package vehicle

import (
	"context"

	"motordesk/internal/domain"
)

// Repository defines the interface for Vehicle persistence.
type Repository interface {
	domain.CatalogRepository[*Vehicle]

	// FindByVIN retrieves vehicle by VIN (unique within the catalog).
	FindByVIN(ctx context.Context, vin string) (*Vehicle, error)
}
