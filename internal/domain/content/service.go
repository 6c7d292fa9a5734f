package content

import (
	"context"
	"fmt"
	"time"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/tx"
	"motordesk/pkg/logger"
)

// Service provides business logic for the content store.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new content service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// GetBySlug retrieves a content block.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Block, error) {
	block, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("content block", slug)
		}
		return nil, err
	}
	return block, nil
}

// List returns every content block.
func (s *Service) List(ctx context.Context) ([]*Block, error) {
	return s.repo.List(ctx)
}

// Save upserts a block by its slug. Saving an unknown slug creates it,
// so the admin can introduce new page sections without a migration.
func (s *Service) Save(ctx context.Context, block *Block) (*Block, error) {
	if err := block.Validate(ctx); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetBySlug(ctx, block.Slug)
	switch {
	case err == nil:
		// Keep identity and bump optimistic lock version.
		block.ID = existing.ID
		block.Version = existing.Version
	case apperror.IsNotFound(err):
		block.BaseEntity = NewBlock(block.Slug).BaseEntity
	default:
		return nil, err
	}

	block.UpdatedAt = time.Now().UTC()

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Upsert(ctx, block); err != nil {
			return fmt.Errorf("save content block: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "content block saved", "slug", block.Slug)
	return block, nil
}
