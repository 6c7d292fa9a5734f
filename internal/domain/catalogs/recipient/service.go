package recipient

import (
	"context"
	"fmt"
	"time"

	"motordesk/internal/core/apperror"
	"motordesk/internal/core/id"
	"motordesk/internal/core/numerator"
	"motordesk/internal/core/tx"
	"motordesk/internal/domain"
)

// Service provides business logic for the Recipient directory.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Recipient]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Recipient service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Recipient]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "recipient",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

// prepareForCreate handles code generation and uniqueness checks before create.
func (s *Service) prepareForCreate(ctx context.Context, r *Recipient) error {
	// Generate code if not provided. Catalog codes use the cached
	// strategy: gaps are acceptable here, unlike invoice numbers.
	if r.Code == "" {
		cfg := numerator.DefaultConfig("RCP")
		cfg.IncludeYear = false
		cfg.ResetPeriod = "never"
		opts := &numerator.Options{Strategy: numerator.StrategyCached}
		code, err := s.numerator.GetNextNumber(ctx, cfg, opts, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		r.Code = code
	}

	return s.checkEmailUnique(ctx, r)
}

// prepareForUpdate handles uniqueness checks before update.
func (s *Service) prepareForUpdate(ctx context.Context, r *Recipient) error {
	return s.checkEmailUnique(ctx, r)
}

// FindByEmail retrieves recipient by email.
func (s *Service) FindByEmail(ctx context.Context, email string) (*Recipient, error) {
	return s.repo.FindByEmail(ctx, email)
}

// checkEmailUnique returns a conflict error if the email belongs to another recipient.
func (s *Service) checkEmailUnique(ctx context.Context, r *Recipient) error {
	exists, err := s.emailExists(ctx, r.Email, r.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("recipient", "email", r.Email)
	}
	return nil
}

func (s *Service) emailExists(ctx context.Context, email string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Not found is OK; other errors must be propagated (DB errors, timeouts, etc.).
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}
