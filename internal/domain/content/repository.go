package content

import "context"

// Repository defines the interface for content block persistence.
type Repository interface {
	// GetBySlug retrieves a block by its slug
	GetBySlug(ctx context.Context, slug string) (*Block, error)

	// Upsert inserts or replaces the block for its slug
	Upsert(ctx context.Context, block *Block) error

	// List returns all blocks ordered by slug
	List(ctx context.Context) ([]*Block, error)
}
