package vehicle

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

// Service provides business logic for the Vehicle catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Vehicle]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Vehicle service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Vehicle]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "vehicle",
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

// prepareForCreate handles code generation, naming and uniqueness checks before create.
func (s *Service) prepareForCreate(ctx context.Context, v *Vehicle) error {
	if v.Code == "" {
		cfg := numerator.DefaultConfig("VEH")
		cfg.IncludeYear = false
		cfg.ResetPeriod = "never"
		opts := &numerator.Options{Strategy: numerator.StrategyCached}
		code, err := s.numerator.GetNextNumber(ctx, cfg, opts, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		v.Code = code
	}

	if v.Name == "" {
		v.Name = v.DisplayName()
	}

	return s.checkVINUnique(ctx, v)
}

// prepareForUpdate refreshes the display name and re-checks VIN uniqueness.
func (s *Service) prepareForUpdate(ctx context.Context, v *Vehicle) error {
	v.Name = v.DisplayName()
	return s.checkVINUnique(ctx, v)
}

// FindByVIN retrieves vehicle by VIN.
func (s *Service) FindByVIN(ctx context.Context, vin string) (*Vehicle, error) {
	return s.repo.FindByVIN(ctx, vin)
}

// checkVINUnique returns a conflict error if the VIN belongs to another vehicle.
func (s *Service) checkVINUnique(ctx context.Context, v *Vehicle) error {
	if v.VIN == nil || *v.VIN == "" {
		return nil
	}
	exists, err := s.vinExists(ctx, *v.VIN, v.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("vehicle", "vin", *v.VIN)
	}
	return nil
}

func (s *Service) vinExists(ctx context.Context, vin string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByVIN(ctx, vin)
	if err != nil {
		// Not found is OK; other errors must be propagated (DB errors, timeouts, etc.).
		if apperror.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return existing.ID != excludeID, nil
}
