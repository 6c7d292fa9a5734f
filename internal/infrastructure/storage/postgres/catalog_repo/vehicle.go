package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"motordesk/internal/core/apperror"
	"motordesk/internal/domain/catalogs/vehicle"
	"motordesk/internal/infrastructure/storage/postgres"
)

const vehicleTable = "cat_vehicles"

// VehicleRepo implements vehicle.Repository.
type VehicleRepo struct {
	*BaseCatalogRepo[*vehicle.Vehicle]
}

// NewVehicleRepo creates a new vehicle repository.
func NewVehicleRepo(txManager *postgres.TxManager) *VehicleRepo {
	return &VehicleRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*vehicle.Vehicle](
			txManager,
			vehicleTable,
			postgres.ExtractDBColumns[vehicle.Vehicle](),
			func() *vehicle.Vehicle { return &vehicle.Vehicle{} },
		),
	}
}

// FindByVIN retrieves vehicle by VIN.
func (r *VehicleRepo) FindByVIN(ctx context.Context, vin string) (*vehicle.Vehicle, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"vin": vin}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	veh, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("vehicle", vin)
		}
		return nil, err
	}
	return veh, nil
}

var _ vehicle.Repository = (*VehicleRepo)(nil)
